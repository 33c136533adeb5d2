package domain

import "time"

// Timestamps is embedded in every stored document.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InitTimestamps stamps a new document.
func (t *Timestamps) InitTimestamps() {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Touch records a modification.
func (t *Timestamps) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
