// Package search maintains the Bleve index behind the public lesson
// listing: filtering by visibility, category and tone, substring search on
// titles, sorting and paging.
package search

import "github.com/listenupapp/lessons-server/internal/domain"

// Field names in the lesson index.
const (
	fieldVisibility  = "visibility"
	fieldCategory    = "category"
	fieldTone        = "tone"
	fieldTitle       = "title"
	fieldTitleFolded = "title_folded"
	fieldCreatedAt   = "created_at"
	fieldLikesCount  = "likes_count"
)

// lessonDocument is the indexed projection of a lesson.
type lessonDocument struct {
	ID          string
	Visibility  string
	Category    string
	Tone        string
	Title       string
	TitleFolded string
	CreatedAt   int64 // unix millis
	LikesCount  int
}

func newLessonDocument(l *domain.Lesson) *lessonDocument {
	return &lessonDocument{
		ID:          l.ID,
		Visibility:  string(l.Visibility),
		Category:    l.Category,
		Tone:        l.EmotionalTone,
		Title:       l.Title,
		TitleFolded: Fold(l.Title),
		CreatedAt:   l.CreatedAt.UnixMilli(),
		LikesCount:  l.LikesCount,
	}
}

// toMap keys the document by the mapped field names. Numbers are float64,
// the type Bleve's numeric fields index.
func (d *lessonDocument) toMap() map[string]any {
	return map[string]any{
		fieldVisibility:  d.Visibility,
		fieldCategory:    d.Category,
		fieldTone:        d.Tone,
		fieldTitle:       d.Title,
		fieldTitleFolded: d.TitleFolded,
		fieldCreatedAt:   float64(d.CreatedAt),
		fieldLikesCount:  float64(d.LikesCount),
	}
}
