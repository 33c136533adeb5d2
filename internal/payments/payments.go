// Package payments creates payment intents at the payment processor.
//
// Prices arrive in major currency units (dollars). The processor works in
// minor units, so every amount passes through ToMinorUnits first.
package payments

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Intent is a created payment intent. ClientSecret is handed to the client
// so it can confirm the payment directly with the processor.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// IntentCreator creates payment intents.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}

// ToMinorUnits converts a major-unit price to minor units, rounding to the
// nearest cent.
func ToMinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("price %v is not a number", price)
	}
	if price <= 0 {
		return 0, fmt.Errorf("price must be positive, got %v", price)
	}
	cents := math.Round(price * 100)
	if cents < 1 {
		return 0, fmt.Errorf("price %v rounds to zero", price)
	}
	if cents > math.MaxInt64/2 {
		return 0, fmt.Errorf("price %v is too large", price)
	}
	return int64(cents), nil
}

// NormalizeCurrency lowercases an ISO 4217 code.
func NormalizeCurrency(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidCurrency reports whether code looks like a three-letter ISO 4217 code.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
