package store

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// CreateLesson stores a new lesson and adds it to the query index.
func (s *Store) CreateLesson(ctx context.Context, lesson *domain.Lesson) error {
	if lesson.Likes == nil {
		lesson.Likes = []string{}
	}
	lesson.LikesCount = len(lesson.Likes)

	return s.Lessons.Create(ctx, lesson)
}

// GetLesson returns the lesson with id.
func (s *Store) GetLesson(ctx context.Context, id string) (*domain.Lesson, error) {
	l, err := s.Lessons.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrLessonNotFound
	}
	return l, err
}

// GetLessons returns the lessons for ids in order, skipping missing ones.
func (s *Store) GetLessons(ctx context.Context, ids []string) ([]*domain.Lesson, error) {
	return s.Lessons.GetMany(ctx, ids)
}

// UpdateLesson applies fn to the stored lesson in one transaction. fn must
// not touch Likes or LikesCount; those change only through ToggleLike.
func (s *Store) UpdateLesson(ctx context.Context, id string, fn func(*domain.Lesson) error) (*domain.Lesson, error) {
	l, err := s.Lessons.Mutate(ctx, id, func(l *domain.Lesson) error {
		likes, count := l.Likes, l.LikesCount
		if err := fn(l); err != nil {
			return err
		}
		l.Likes, l.LikesCount = likes, count
		l.Touch()
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ToggleLike flips email's like on the lesson. Membership check, set change
// and counter change commit together, so LikesCount always equals len(Likes).
func (s *Store) ToggleLike(ctx context.Context, lessonID, email string) (*domain.Lesson, bool, error) {
	var liked bool
	l, err := s.Lessons.Mutate(ctx, lessonID, func(l *domain.Lesson) error {
		liked = l.ToggleLike(email)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, false, ErrLessonNotFound
	}
	if err != nil {
		return nil, false, err
	}
	return l, liked, nil
}

// DeleteLesson removes the lesson together with its favorites and reports.
func (s *Store) DeleteLesson(ctx context.Context, id string) error {
	unlock := s.lockDocument("lesson:" + id)
	defer unlock()

	err := s.update(ctx, func(txn *badger.Txn) error {
		if err := s.Lessons.deleteTxn(txn, id); err != nil {
			return err
		}
		for _, favID := range s.Favorites.lookupTxn(txn, "lesson", id) {
			if err := s.Favorites.deleteTxn(txn, favID); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		for _, reportID := range s.Reports.lookupTxn(txn, "lesson", id) {
			if err := s.Reports.deleteTxn(txn, reportID); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return ErrLessonNotFound
	}
	if err != nil {
		return err
	}

	if err := s.indexer.DeleteLesson(ctx, id); err != nil {
		s.logger.Warn("failed to remove lesson from index", "lesson_id", id, "error", err)
	}
	return nil
}

// ListLessonsByAuthor returns the author's lessons, newest first.
func (s *Store) ListLessonsByAuthor(ctx context.Context, email string) ([]*domain.Lesson, error) {
	lessons, err := s.Lessons.ListBy(ctx, "author", domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	slices.SortFunc(lessons, func(a, b *domain.Lesson) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return lessons, nil
}

// indexLesson pushes a committed lesson to the query index. It runs as the
// lesson entity's commit hook. Failures are only logged and leave that
// lesson stale in the index until it is written again or the index is
// rebuilt.
func (s *Store) indexLesson(ctx context.Context, l *domain.Lesson) {
	if err := s.indexer.IndexLesson(ctx, l); err != nil {
		s.logger.Warn("failed to index lesson", "lesson_id", l.ID, "error", err)
	}
}
