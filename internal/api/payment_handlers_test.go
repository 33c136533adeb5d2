package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
)

func TestCreatePaymentIntent(t *testing.T) {
	ts := setupTestServer(t)
	_, auth := ts.createUser(t, "buyer@example.com", domain.RoleUser)

	resp := ts.api.Post("/create-payment-intent", auth, map[string]any{"price": 12.5})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.JSONEq(t, `{"clientSecret":"pi_fake_1_secret"}`, resp.Body.String())

	require.Len(t, ts.processor.Created, 1)
	assert.Equal(t, int64(1250), ts.processor.Created[0].Amount)
	assert.Equal(t, "usd", ts.processor.Created[0].Currency)
}

func TestCreatePaymentIntent_RejectsNonPositivePrice(t *testing.T) {
	ts := setupTestServer(t)
	_, auth := ts.createUser(t, "buyer@example.com", domain.RoleUser)

	resp := ts.api.Post("/create-payment-intent", auth, map[string]any{"price": 0})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, ts.processor.Created)
}

func TestCreatePaymentIntent_ProcessorFailureIs502(t *testing.T) {
	ts := setupTestServer(t)
	_, auth := ts.createUser(t, "buyer@example.com", domain.RoleUser)
	ts.processor.Err = errors.New("stripe: api key expired")

	resp := ts.api.Post("/create-payment-intent", auth, map[string]any{"price": 5})
	require.Equal(t, http.StatusBadGateway, resp.Code)

	body := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, string(domainerrors.CodeUpstream), body.Code)
	assert.NotContains(t, body.Message, "api key")
}

func TestRecordPayment_UpgradesCaller(t *testing.T) {
	ts := setupTestServer(t)
	user, auth := ts.createUser(t, "buyer@example.com", domain.RoleUser)

	resp := ts.api.Post("/payments", auth, map[string]any{
		"amount":        12.5,
		"transactionId": "pi_123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode[RecordPaymentResponse](t, resp.Body.Bytes())
	require.NotNil(t, body.Payment)
	assert.Equal(t, "buyer@example.com", body.Payment.Email)
	assert.Equal(t, "usd", body.Payment.Currency)
	require.NotNil(t, body.User)
	assert.True(t, body.User.IsPremium)
	assert.Equal(t, user.ID, body.User.ID)
	assert.NotContains(t, resp.Body.String(), "passwordHash")

	resp = ts.api.Get("/users/role/buyer@example.com", auth)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"role":"user","isPremium":true}`, resp.Body.String())

	// The same transaction cannot be recorded twice.
	resp = ts.api.Post("/payments", auth, map[string]any{
		"amount":        12.5,
		"transactionId": "pi_123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRecordPayment_CurrencyMismatchIs400(t *testing.T) {
	ts := setupTestServer(t)
	_, auth := ts.createUser(t, "buyer@example.com", domain.RoleUser)

	resp := ts.api.Post("/payments", auth, map[string]any{
		"amount":        10,
		"currency":      "eur",
		"transactionId": "pi_456",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListPayments_SelfOnly(t *testing.T) {
	ts := setupTestServer(t)
	_, buyerAuth := ts.createUser(t, "buyer@example.com", domain.RoleUser)
	_, otherAuth := ts.createUser(t, "other@example.com", domain.RoleUser)

	resp := ts.api.Post("/payments", buyerAuth, map[string]any{"amount": 5, "transactionId": "pi_789"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/payments/buyer@example.com", buyerAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[[]domain.Payment](t, resp.Body.Bytes())
	require.Len(t, list, 1)
	assert.Equal(t, "pi_789", list[0].TransactionID)

	resp = ts.api.Get("/payments/buyer@example.com", otherAuth)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/payments/buyer@example.com")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/payments/other@example.com", otherAuth)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}
