package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/id"
	"github.com/listenupapp/lessons-server/internal/payments"
	"github.com/listenupapp/lessons-server/internal/store"
)

// PaymentService creates payment intents and records completed payments.
type PaymentService struct {
	store     *store.Store
	processor payments.IntentCreator
	currency  string
	logger    *slog.Logger
}

// NewPaymentService creates a payment service that charges in currency.
func NewPaymentService(store *store.Store, processor payments.IntentCreator, currency string, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		store:     store,
		processor: processor,
		currency:  payments.NormalizeCurrency(currency),
		logger:    logger,
	}
}

// CreateIntentRequest carries the price in major units.
type CreateIntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

// CreateIntentResponse is what the client needs to confirm the payment.
type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// RecordPaymentRequest describes a payment the client completed.
type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" validate:"gt=0"`
	Currency      string  `json:"currency,omitempty"`
	TransactionID string  `json:"transactionId" validate:"notblank,max=255"`
}

// RecordPaymentResponse returns the stored payment and the upgraded user.
type RecordPaymentResponse struct {
	Payment *domain.Payment `json:"payment"`
	User    *domain.User    `json:"user"`
}

// CreateIntent asks the processor for a payment intent of price.
func (s *PaymentService) CreateIntent(ctx context.Context, caller *domain.User, req CreateIntentRequest) (*CreateIntentResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	amount, err := payments.ToMinorUnits(req.Price)
	if err != nil {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"price": err.Error()})
	}

	intent, err := s.processor.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		s.logger.Error("Payment intent failed", "user_id", caller.ID, "amount", amount, "error", err)
		return nil, domainerrors.Upstream("payment processor error", err)
	}

	s.logger.Info("Payment intent created", "user_id", caller.ID, "intent_id", intent.ID, "amount", amount)
	return &CreateIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// Record stores a completed payment and upgrades the caller to premium.
//
// The two writes are separate transactions. If the upgrade fails after the
// payment is stored, the payment stays recorded and the failure is logged
// with the payment id for manual repair.
func (s *PaymentService) Record(ctx context.Context, caller *domain.User, req RecordPaymentRequest) (*RecordPaymentResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if cur := payments.NormalizeCurrency(req.Currency); cur != "" && cur != s.currency {
		return nil, domainerrors.ValidationWithDetails("validation failed",
			map[string]string{"currency": "must be " + s.currency})
	}

	paymentID, err := id.Generate(id.PrefixPayment)
	if err != nil {
		return nil, fmt.Errorf("generate payment ID: %w", err)
	}
	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:            paymentID,
		Email:         domain.NormalizeEmail(caller.Email),
		Amount:        req.Amount,
		Currency:      s.currency,
		TransactionID: req.TransactionID,
		PaidAt:        now,
	}

	if err := s.store.RecordPayment(ctx, payment); err != nil {
		if errors.Is(err, store.ErrPaymentExists) {
			return nil, domainerrors.Conflict("transaction already recorded")
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}

	user, err := s.store.MarkUserPremium(ctx, caller.Email, now)
	if err != nil {
		s.logger.Error("Payment recorded but premium upgrade failed",
			"payment_id", payment.ID,
			"user_id", caller.ID,
			"error", err,
		)
		return nil, fmt.Errorf("mark user premium: %w", err)
	}

	s.logger.Info("User upgraded to premium", "user_id", user.ID, "payment_id", payment.ID)
	return &RecordPaymentResponse{Payment: payment, User: user}, nil
}

// History returns the payments recorded for email, newest first.
func (s *PaymentService) History(ctx context.Context, email string) ([]*domain.Payment, error) {
	list, err := s.store.ListPaymentsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	if list == nil {
		list = []*domain.Payment{}
	}
	return list, nil
}
