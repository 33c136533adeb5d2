package domain

import "time"

// Report flags a lesson for moderation.
type Report struct {
	ID            string    `json:"id"`
	LessonID      string    `json:"lessonId"`
	LessonTitle   string    `json:"lessonTitle,omitempty"`
	ReporterEmail string    `json:"reporterEmail"`
	Reason        string    `json:"reason"`
	ReportedAt    time.Time `json:"reportedAt"`
}
