package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/store"
)

const internalErrorMessage = "internal server error"

// APIError is the body of every error response. It implements
// huma.StatusError.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma render errors as APIError. Domain errors
// keep their code and message; store and unexpected errors become a generic
// 500 whose cause is logged but not returned.
func RegisterErrorHandler(logger *slog.Logger) {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return fromDomainError(domainErr, logger)
			}
		}

		if apiErr := fromStoreError(errs); apiErr != nil {
			return apiErr
		}

		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", "status", status, "message", message, "error", errors.Join(errs...))
			return &APIError{
				status:  http.StatusInternalServerError,
				Code:    string(domainerrors.CodeInternal),
				Message: internalErrorMessage,
			}
		}

		// Schema validation failures from huma arrive as 422 with per-field
		// details.
		if status == http.StatusUnprocessableEntity || (status == http.StatusBadRequest && len(errs) > 0) {
			return &APIError{
				status:  http.StatusBadRequest,
				Code:    string(domainerrors.CodeValidation),
				Message: message,
				Details: fieldDetails(errs),
			}
		}

		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
	}
}

func fromDomainError(err *domainerrors.Error, logger *slog.Logger) *APIError {
	if err.Code == domainerrors.CodeInternal {
		logger.Error("Request failed", "error", err)
		return &APIError{
			status:  http.StatusInternalServerError,
			Code:    string(domainerrors.CodeInternal),
			Message: internalErrorMessage,
		}
	}
	if err.Code == domainerrors.CodeUpstream {
		logger.Error("Upstream call failed", "error", err)
	}
	return &APIError{
		status:  err.HTTPStatus(),
		Code:    string(err.Code),
		Message: err.Message,
		Details: err.Details,
	}
}

// fromStoreError maps store sentinels that escaped a service unwrapped.
func fromStoreError(errs []error) *APIError {
	for _, err := range errs {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return &APIError{
				status:  http.StatusNotFound,
				Code:    string(domainerrors.CodeNotFound),
				Message: err.Error(),
			}
		case errors.Is(err, store.ErrAlreadyExists):
			return &APIError{
				status:  http.StatusConflict,
				Code:    string(domainerrors.CodeAlreadyExists),
				Message: err.Error(),
			}
		}
	}
	return nil
}

// fieldDetails collects huma's error details as location -> message.
func fieldDetails(errs []error) map[string]string {
	details := make(map[string]string)
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			key := detail.Location
			if key == "" {
				key = "body"
			}
			details[key] = detail.Message
			continue
		}
		details["body"] = err.Error()
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusBadGateway:
		return string(domainerrors.CodeUpstream)
	default:
		return string(domainerrors.CodeInternal)
	}
}
