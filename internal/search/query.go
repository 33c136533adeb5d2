package search

import (
	"context"
	"fmt"
	"regexp"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// Page is one page of matching lesson ids plus the total number of matches.
type Page struct {
	IDs   []string
	Total uint64
}

// SearchLessons returns the ids of public lessons matching q in the
// requested order. q is normalized first, so page and limit need no
// prior validation.
func (x *LessonIndex) SearchLessons(ctx context.Context, q domain.LessonQuery) (*Page, error) {
	q = q.Normalized()

	req := bleve.NewSearchRequestOptions(buildLessonQuery(q), q.Limit, q.Skip(), false)
	req.SortBy(sortOrder(q.Sort))

	x.mu.RLock()
	defer x.mu.RUnlock()

	res, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search lessons: %w", err)
	}

	page := &Page{IDs: make([]string, 0, len(res.Hits)), Total: res.Total}
	for _, hit := range res.Hits {
		page.IDs = append(page.IDs, hit.ID)
	}
	return page, nil
}

func buildLessonQuery(q domain.LessonQuery) query.Query {
	clauses := []query.Query{term(fieldVisibility, string(domain.VisibilityPublic))}

	if q.Category != "" {
		clauses = append(clauses, term(fieldCategory, q.Category))
	}
	if q.Tone != "" {
		clauses = append(clauses, term(fieldTone, q.Tone))
	}
	if s := Fold(q.Search); s != "" {
		// Regexp queries match whole terms, and the folded title is a
		// single term, so this is a substring match.
		rq := bleve.NewRegexpQuery(".*" + regexp.QuoteMeta(s) + ".*")
		rq.SetField(fieldTitleFolded)
		clauses = append(clauses, rq)
	}

	return bleve.NewConjunctionQuery(clauses...)
}

func term(field, value string) query.Query {
	tq := bleve.NewTermQuery(value)
	tq.SetField(field)
	return tq
}

// sortOrder maps a sort mode to Bleve sort keys. The id tiebreak keeps
// pages stable when sort values are equal.
func sortOrder(mode domain.SortMode) []string {
	switch mode {
	case domain.SortOldest:
		return []string{fieldCreatedAt, "_id"}
	case domain.SortMostSaved:
		return []string{"-" + fieldLikesCount, "-" + fieldCreatedAt, "_id"}
	default:
		return []string{"-" + fieldCreatedAt, "_id"}
	}
}
