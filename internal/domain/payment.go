package domain

import "time"

// Payment is an append-only record of a completed transaction.
type Payment struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transactionId"`
	PaidAt        time.Time `json:"paidAt"`
}
