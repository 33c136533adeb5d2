package store

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// AddFavorite inserts fav unless the same (lesson, user) pair is already
// stored, in which case it returns ErrFavoriteExists. The existence check
// and the insert are one conditional write on the pair's unique index key,
// so concurrent adds cannot both succeed.
func (s *Store) AddFavorite(ctx context.Context, fav *domain.Favorite) error {
	unlock := s.lockDocument("favorite:pair:" + domain.FavoriteKey(fav.LessonID, fav.UserEmail))
	defer unlock()

	err := s.update(ctx, func(txn *badger.Txn) error {
		ok, err := s.Lessons.existsTxn(txn, fav.LessonID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLessonNotFound
		}
		return s.Favorites.createTxn(txn, fav)
	})
	if errors.Is(err, ErrAlreadyExists) {
		return ErrFavoriteExists
	}
	return err
}

// GetFavorite returns the favorite with id.
func (s *Store) GetFavorite(ctx context.Context, id string) (*domain.Favorite, error) {
	f, err := s.Favorites.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrFavoriteNotFound
	}
	return f, err
}

// ListFavoritesByEmail returns the user's favorites, newest first.
func (s *Store) ListFavoritesByEmail(ctx context.Context, email string) ([]*domain.Favorite, error) {
	favs, err := s.Favorites.ListBy(ctx, "user", domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	slices.SortFunc(favs, func(a, b *domain.Favorite) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return favs, nil
}

// DeleteFavorite removes a favorite.
func (s *Store) DeleteFavorite(ctx context.Context, id string) error {
	err := s.Favorites.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return ErrFavoriteNotFound
	}
	return err
}
