package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/cart"
	"github.com/ramesh9813/bagshop-client-sub000/internal/checkout"
	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/sales"
	"github.com/ramesh9813/bagshop-client-sub000/internal/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

var validationErrors = []error{
	cart.ErrInvalidQuantity,
	session.ErrInvalidEmail,
	session.ErrPasswordTooShort,
	session.ErrPasswordMismatch,
	session.ErrNameRequired,
	session.ErrTokenRequired,
	checkout.ErrEmptyCart,
	checkout.ErrInvalidMethod,
	checkout.ErrIncompleteShipping,
	sales.ErrUnknownRange,
}

// handleError converts domain and upstream errors to HTTP status codes.
func handleError(w http.ResponseWriter, err error) {
	var (
		httpStatus int
		code       string
		message    = err.Error()
		apiErr     *client.APIError
	)

	switch {
	case isValidation(err):
		httpStatus = http.StatusBadRequest
		code = "invalid_argument"
	case errors.Is(err, cart.ErrInsufficientStock):
		httpStatus = http.StatusConflict
		code = "insufficient_stock"
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, checkout.ErrNotAuthenticated),
		errors.Is(err, client.ErrUnauthorized):
		httpStatus = http.StatusUnauthorized
		code = "unauthenticated"
	case errors.Is(err, client.ErrForbidden):
		httpStatus = http.StatusForbidden
		code = "permission_denied"
	case errors.Is(err, client.ErrNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, checkout.ErrPaymentFailed):
		httpStatus = http.StatusPaymentRequired
		code = "payment_failed"
	case errors.Is(err, client.ErrUnavailable):
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		httpStatus = http.StatusBadRequest
		code = "rejected"
		message = apiErr.Message
	case errors.As(err, &apiErr):
		httpStatus = http.StatusBadGateway
		code = "upstream_error"
		message = "upstream service error"
	default:
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
		message = "internal server error"
		zap.L().Error("unhandled error", zap.Error(err))
	}

	respondError(w, httpStatus, code, message)
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
