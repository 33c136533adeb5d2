package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/lessons-server/internal/domain"
	"github.com/listenupapp/lessons-server/internal/service"
)

func (s *Server) registerPaymentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createPaymentIntent",
		Method:      http.MethodPost,
		Path:        "/create-payment-intent",
		Summary:     "Create payment intent",
		Description: "Creates a card payment intent for price (major currency units) and returns its client secret",
		Tags:        []string{"Payments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePaymentIntent)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordPayment",
		Method:      http.MethodPost,
		Path:        "/payments",
		Summary:     "Record payment",
		Description: "Stores a completed payment and upgrades the caller to premium",
		Tags:        []string{"Payments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRecordPayment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPayments",
		Method:      http.MethodGet,
		Path:        "/payments/{email}",
		Summary:     "List payments",
		Description: "Returns the caller's recorded payments, newest first",
		Tags:        []string{"Payments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPayments)
}

// CreatePaymentIntentInput wraps the intent request for Huma.
type CreatePaymentIntentInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateIntentRequest
}

// CreatePaymentIntentOutput wraps the intent response for Huma.
type CreatePaymentIntentOutput struct {
	Body service.CreateIntentResponse
}

func (s *Server) handleCreatePaymentIntent(ctx context.Context, input *CreatePaymentIntentInput) (*CreatePaymentIntentOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Payment.CreateIntent(ctx, caller, input.Body)
	if err != nil {
		return nil, err
	}
	return &CreatePaymentIntentOutput{Body: *resp}, nil
}

// RecordPaymentInput wraps the record payment request for Huma.
type RecordPaymentInput struct {
	Authorization string `header:"Authorization"`
	Body          service.RecordPaymentRequest
}

// RecordPaymentResponse is the stored payment and the upgraded user.
type RecordPaymentResponse struct {
	Payment *domain.Payment `json:"payment"`
	User    *UserResponse   `json:"user"`
}

// RecordPaymentOutput wraps the record payment response for Huma.
type RecordPaymentOutput struct {
	Body RecordPaymentResponse
}

func (s *Server) handleRecordPayment(ctx context.Context, input *RecordPaymentInput) (*RecordPaymentOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Payment.Record(ctx, caller, input.Body)
	if err != nil {
		return nil, err
	}
	return &RecordPaymentOutput{
		Body: RecordPaymentResponse{Payment: resp.Payment, User: newUserResponse(resp.User)},
	}, nil
}

// ListPaymentsInput identifies whose payments are listed.
type ListPaymentsInput struct {
	Authorization string `header:"Authorization"`
	Email         string `path:"email" doc:"Payer email"`
}

// ListPaymentsOutput wraps the payment history for Huma.
type ListPaymentsOutput struct {
	Body []*domain.Payment
}

func (s *Server) handleListPayments(ctx context.Context, input *ListPaymentsInput) (*ListPaymentsOutput, error) {
	if _, err := s.requireSelf(ctx, input.Authorization, input.Email); err != nil {
		return nil, err
	}

	list, err := s.services.Payment.History(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	return &ListPaymentsOutput{Body: list}, nil
}
