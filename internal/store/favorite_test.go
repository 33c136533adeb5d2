package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/lessons-server/internal/domain"
)

func TestAddFavorite_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustCreateLesson(t, s, "lesson-1")

	require.NoError(t, s.AddFavorite(ctx, &domain.Favorite{ID: "fav-1", LessonID: "lesson-1", UserEmail: "alice@x.com"}))
	err := s.AddFavorite(ctx, &domain.Favorite{ID: "fav-2", LessonID: "lesson-1", UserEmail: "ALICE@x.com"})
	assert.ErrorIs(t, err, ErrFavoriteExists)

	favs, err := s.ListFavoritesByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestAddFavorite_ConcurrentAddsStoreOne(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustCreateLesson(t, s, "lesson-1")

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- s.AddFavorite(ctx, &domain.Favorite{
				ID:        fmt.Sprintf("fav-%d", i),
				LessonID:  "lesson-1",
				UserEmail: "alice@x.com",
			})
		}(i)
	}
	wg.Wait()
	close(results)

	created := 0
	for err := range results {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ErrFavoriteExists)
		}
	}
	assert.Equal(t, 1, created)

	n, err := s.Favorites.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAddFavorite_MissingLesson(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.AddFavorite(context.Background(), &domain.Favorite{ID: "fav-1", LessonID: "lesson-missing", UserEmail: "a@x.com"})
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestListFavoritesByEmail_NewestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustCreateLesson(t, s, "lesson-1")
	mustCreateLesson(t, s, "lesson-2")

	now := time.Now().UTC()
	require.NoError(t, s.AddFavorite(ctx, &domain.Favorite{ID: "fav-1", LessonID: "lesson-1", UserEmail: "a@x.com", CreatedAt: now}))
	require.NoError(t, s.AddFavorite(ctx, &domain.Favorite{ID: "fav-2", LessonID: "lesson-2", UserEmail: "a@x.com", CreatedAt: now.Add(time.Minute)}))
	require.NoError(t, s.AddFavorite(ctx, &domain.Favorite{ID: "fav-3", LessonID: "lesson-2", UserEmail: "b@x.com", CreatedAt: now}))

	favs, err := s.ListFavoritesByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "fav-2", favs[0].ID)
	assert.Equal(t, "fav-1", favs[1].ID)
}

func TestDeleteFavorite(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	mustCreateLesson(t, s, "lesson-1")
	require.NoError(t, s.AddFavorite(ctx, &domain.Favorite{ID: "fav-1", LessonID: "lesson-1", UserEmail: "a@x.com"}))

	require.NoError(t, s.DeleteFavorite(ctx, "fav-1"))
	assert.ErrorIs(t, s.DeleteFavorite(ctx, "fav-1"), ErrFavoriteNotFound)

	// Deleting frees the pair.
	require.NoError(t, s.AddFavorite(ctx, &domain.Favorite{ID: "fav-2", LessonID: "lesson-1", UserEmail: "a@x.com"}))
}
