package domain

import "time"

// Favorite records that a user saved a lesson. At most one exists per
// (LessonID, UserEmail).
type Favorite struct {
	ID        string    `json:"id"`
	LessonID  string    `json:"lessonId"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
}

// FavoriteKey is the uniqueness key of a favorite.
func FavoriteKey(lessonID, email string) string {
	return lessonID + "|" + NormalizeEmail(email)
}
