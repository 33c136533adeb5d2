package search

import (
	"context"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/lessons-server/internal/domain"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// setupTestIndex creates an in-memory lesson index.
func setupTestIndex(t *testing.T) *LessonIndex {
	t.Helper()

	idx, err := NewLessonIndex(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func lesson(n int, visibility domain.Visibility) *domain.Lesson {
	l := &domain.Lesson{
		ID:            fmt.Sprintf("lesson-%02d", n),
		Title:         fmt.Sprintf("Lesson number %d", n),
		Category:      "Career",
		EmotionalTone: "Motivational",
		Visibility:    visibility,
		LikesCount:    n % 5,
	}
	l.CreatedAt = baseTime.Add(time.Duration(n) * time.Minute)
	return l
}

func indexAll(t *testing.T, idx *LessonIndex, lessons ...*domain.Lesson) {
	t.Helper()
	for _, l := range lessons {
		require.NoError(t, idx.IndexLesson(context.Background(), l))
	}
}

func seedPublic(t *testing.T, idx *LessonIndex, n int) {
	t.Helper()
	for i := range n {
		indexAll(t, idx, lesson(i, domain.VisibilityPublic))
	}
}

func TestSearchLessons_Pagination(t *testing.T) {
	idx := setupTestIndex(t)
	seedPublic(t, idx, 20)
	ctx := context.Background()

	page1, err := idx.SearchLessons(ctx, domain.LessonQuery{Page: 1, Limit: 8})
	require.NoError(t, err)
	assert.Len(t, page1.IDs, 8)
	assert.Equal(t, uint64(20), page1.Total)

	page3, err := idx.SearchLessons(ctx, domain.LessonQuery{Page: 3, Limit: 8})
	require.NoError(t, err)
	assert.Len(t, page3.IDs, 4)
	assert.Equal(t, uint64(20), page3.Total)

	page4, err := idx.SearchLessons(ctx, domain.LessonQuery{Page: 4, Limit: 8})
	require.NoError(t, err)
	assert.Empty(t, page4.IDs)
	assert.Equal(t, uint64(20), page4.Total)
}

func TestSearchLessons_NonPositivePageIsFirstPage(t *testing.T) {
	idx := setupTestIndex(t)
	seedPublic(t, idx, 10)
	ctx := context.Background()

	first, err := idx.SearchLessons(ctx, domain.LessonQuery{Page: 1})
	require.NoError(t, err)

	for _, p := range []int{0, -1, -100} {
		got, err := idx.SearchLessons(ctx, domain.LessonQuery{Page: p})
		require.NoError(t, err)
		assert.Equal(t, first.IDs, got.IDs)
	}
}

func TestSearchLessons_PageBeyondRangeIsEmpty(t *testing.T) {
	idx := setupTestIndex(t)
	seedPublic(t, idx, 10)
	ctx := context.Background()

	for _, p := range []int{domain.MaxPage, domain.MaxPage + 1, math.MaxInt} {
		got, err := idx.SearchLessons(ctx, domain.LessonQuery{Page: p, Limit: 8})
		require.NoError(t, err)
		assert.Empty(t, got.IDs)
		assert.Equal(t, uint64(10), got.Total)
	}
}

func TestSearchLessons_PublicOnly(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	for i := range 6 {
		vis := domain.VisibilityPublic
		if i%2 == 0 {
			vis = domain.VisibilityPrivate
		}
		indexAll(t, idx, lesson(i, vis))
	}

	page, err := idx.SearchLessons(ctx, domain.LessonQuery{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), page.Total)
	assert.ElementsMatch(t, []string{"lesson-01", "lesson-03", "lesson-05"}, page.IDs)
}

func TestSearchLessons_SortOrders(t *testing.T) {
	idx := setupTestIndex(t)
	seedPublic(t, idx, 12)
	ctx := context.Background()

	newest, err := idx.SearchLessons(ctx, domain.LessonQuery{Sort: domain.SortNewest, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson-11", "lesson-10", "lesson-09"}, newest.IDs)

	oldest, err := idx.SearchLessons(ctx, domain.LessonQuery{Sort: domain.SortOldest, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson-00", "lesson-01", "lesson-02"}, oldest.IDs)

	// likes = n % 5: 4 for lessons 4 and 9, ties broken by newest.
	saved, err := idx.SearchLessons(ctx, domain.LessonQuery{Sort: domain.SortMostSaved, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson-09", "lesson-04", "lesson-08", "lesson-03"}, saved.IDs)
}

func TestSearchLessons_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	a := lesson(1, domain.VisibilityPublic)
	a.Title = "Learning to LET GO of anger"
	b := lesson(2, domain.VisibilityPublic)
	b.Title = "Outlet for stress"
	c := lesson(3, domain.VisibilityPublic)
	c.Title = "Patience"
	d := lesson(4, domain.VisibilityPublic)
	d.Title = "What C++ taught me (really)"
	indexAll(t, idx, a, b, c, d)

	page, err := idx.SearchLessons(ctx, domain.LessonQuery{Search: "let"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lesson-01", "lesson-02"}, page.IDs)

	page, err = idx.SearchLessons(ctx, domain.LessonQuery{Search: "  LeT gO "})
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson-01"}, page.IDs)

	page, err = idx.SearchLessons(ctx, domain.LessonQuery{Search: "c++ taught me (R"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson-04"}, page.IDs)

	page, err = idx.SearchLessons(ctx, domain.LessonQuery{Search: "nothing like this"})
	require.NoError(t, err)
	assert.Empty(t, page.IDs)
	assert.Equal(t, uint64(0), page.Total)
}

func TestSearchLessons_CategoryAndToneExact(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	a := lesson(1, domain.VisibilityPublic)
	a.Category, a.EmotionalTone = "Relationships", "Sad"
	b := lesson(2, domain.VisibilityPublic)
	b.Category, b.EmotionalTone = "Relationships", "Gratitude"
	c := lesson(3, domain.VisibilityPublic)
	c.Category, c.EmotionalTone = "Career", "Sad"
	indexAll(t, idx, a, b, c)

	page, err := idx.SearchLessons(ctx, domain.LessonQuery{Category: "Relationships"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lesson-01", "lesson-02"}, page.IDs)

	page, err = idx.SearchLessons(ctx, domain.LessonQuery{Category: "Relationships", Tone: "Sad"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson-01"}, page.IDs)

	page, err = idx.SearchLessons(ctx, domain.LessonQuery{Category: "relationships"})
	require.NoError(t, err)
	assert.Empty(t, page.IDs, "category is an exact match")
}

func TestIndexLesson_ReplacesAndDeletes(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	l := lesson(1, domain.VisibilityPublic)
	indexAll(t, idx, l)

	l.Visibility = domain.VisibilityPrivate
	indexAll(t, idx, l)

	page, err := idx.SearchLessons(ctx, domain.LessonQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.IDs)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, idx.DeleteLesson(ctx, l.ID))
	count, err = idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestRebuild(t *testing.T) {
	idx := setupTestIndex(t)
	seedPublic(t, idx, 3)

	fresh := []*domain.Lesson{lesson(7, domain.VisibilityPublic), lesson(8, domain.VisibilityPublic)}
	n, err := idx.Rebuild(context.Background(), func(yield func(*domain.Lesson, error) bool) {
		for _, l := range fresh {
			if !yield(l, nil) {
				return
			}
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := idx.SearchLessons(context.Background(), domain.LessonQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"lesson-08", "lesson-07"}, page.IDs)
}

func TestNewLessonIndex_OnDisk(t *testing.T) {
	dir, err := os.MkdirTemp("", "lesson-index-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	idx, err := NewLessonIndex(Options{DataPath: dir})
	require.NoError(t, err)
	indexAll(t, idx, lesson(1, domain.VisibilityPublic))
	require.NoError(t, idx.Close())

	reopened, err := NewLessonIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "straße", Fold("STRAẞE"))
	assert.Equal(t, "let go now", Fold(" Let\nGo\tNow "))
}
