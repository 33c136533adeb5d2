// Package id generates prefixed document identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes used for the stored collections.
const (
	PrefixUser     = "user"
	PrefixLesson   = "lesson"
	PrefixReport   = "report"
	PrefixFavorite = "fav"
	PrefixPayment  = "pay"
	PrefixToken    = "tok"
)

// Generate returns prefix-<nanoid>, e.g. "lesson-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system random source does.
func Generate(prefix string) (string, error) {
	raw, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + raw, nil
}

// MustGenerate is Generate for callers that cannot continue without an id.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("id: %v", err))
	}
	return v
}
