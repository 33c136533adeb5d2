package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the store. Services translate them into
// domain errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrEmailExists      = fmt.Errorf("email %w", ErrAlreadyExists)
	ErrLessonNotFound   = fmt.Errorf("lesson %w", ErrNotFound)
	ErrReportNotFound   = fmt.Errorf("report %w", ErrNotFound)
	ErrFavoriteNotFound = fmt.Errorf("favorite %w", ErrNotFound)
	ErrFavoriteExists   = fmt.Errorf("favorite %w", ErrAlreadyExists)
	ErrPaymentExists    = fmt.Errorf("payment %w", ErrAlreadyExists)
)
