package domain

import "slices"

// Visibility controls whether a lesson appears in public listings.
type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
)

// AccessLevel gates a lesson's content behind premium status.
type AccessLevel string

const (
	AccessFree    AccessLevel = "free"
	AccessPremium AccessLevel = "premium"
)

// Lesson is a user-authored content item.
//
// LikesCount is a denormalized copy of len(Likes). Every mutation of Likes
// must go through ToggleLike so the two never diverge.
type Lesson struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	EmotionalTone string      `json:"emotionalTone"`
	Image         string      `json:"image,omitempty"`
	Visibility    Visibility  `json:"visibility"`
	AccessLevel   AccessLevel `json:"accessLevel"`
	AuthorEmail   string      `json:"authorEmail"`
	AuthorName    string      `json:"authorName,omitempty"`
	Likes         []string    `json:"likes"`
	LikesCount    int         `json:"likesCount"`
	Timestamps
}

// IsPublic reports whether the lesson is listed publicly.
func (l *Lesson) IsPublic() bool {
	return l.Visibility == VisibilityPublic
}

// IsPremium reports whether the lesson requires premium access.
func (l *Lesson) IsPremium() bool {
	return l.AccessLevel == AccessPremium
}

// IsAuthor reports whether email wrote the lesson.
func (l *Lesson) IsAuthor(email string) bool {
	return SameEmail(l.AuthorEmail, email)
}

func (l *Lesson) likeIndex(email string) int {
	email = NormalizeEmail(email)
	return slices.IndexFunc(l.Likes, func(e string) bool { return e == email })
}

// ToggleLike flips email's membership in Likes and adjusts LikesCount to
// match. It returns true when the lesson is liked afterwards.
func (l *Lesson) ToggleLike(email string) bool {
	if i := l.likeIndex(email); i >= 0 {
		l.Likes = slices.Delete(l.Likes, i, i+1)
		l.LikesCount = len(l.Likes)
		return false
	}
	l.Likes = append(l.Likes, NormalizeEmail(email))
	l.LikesCount = len(l.Likes)
	return true
}

// CanView reports whether viewer may read the lesson. Private lessons are
// visible only to their author and admins.
func (l *Lesson) CanView(viewer *User) bool {
	if l.IsPublic() {
		return true
	}
	return viewer != nil && (viewer.IsAdmin() || l.IsAuthor(viewer.Email))
}

// CanReadContent reports whether viewer may read a premium lesson's content.
func (l *Lesson) CanReadContent(viewer *User) bool {
	if !l.IsPremium() {
		return true
	}
	return viewer != nil && (viewer.IsPremium || viewer.IsAdmin() || l.IsAuthor(viewer.Email))
}
