package domain

import "fmt"

// SortMode selects the ordering of a lesson listing.
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
	SortMostSaved SortMode = "most-saved"
)

// Listing defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 8
	MaxLimit     = 100
	// MaxPage bounds Page so Skip cannot overflow. Pages past the end of
	// the listing are empty, so clamping does not change any result.
	MaxPage = 100_000
)

// ParseSortMode maps the query value to a SortMode. Empty means newest.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortMostSaved:
		return SortMostSaved, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// LessonQuery describes one page of the public lesson listing.
type LessonQuery struct {
	Search   string
	Category string
	Tone     string
	Sort     SortMode
	Page     int
	Limit    int
}

// Normalized returns q with defaults applied and paging clamped so that
// Skip is never negative.
func (q LessonQuery) Normalized() LessonQuery {
	if q.Sort == "" {
		q.Sort = SortNewest
	}
	switch {
	case q.Page < 1:
		q.Page = DefaultPage
	case q.Page > MaxPage:
		q.Page = MaxPage
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	return q
}

// Skip is the number of matches before the requested page.
func (q LessonQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}
