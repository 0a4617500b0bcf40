package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/checkout"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/poller"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

// CheckoutNotifier tells other gateway replicas that a user's checkout completed.
type CheckoutNotifier interface {
	Publish(ctx context.Context, event poller.Event) error
}

type CheckoutHandler struct {
	timeout  time.Duration
	notifier CheckoutNotifier
	log      *zap.Logger
}

// NewCheckoutHandler builds the handler; notifier may be nil.
func NewCheckoutHandler(timeout time.Duration, notifier CheckoutNotifier, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		timeout:  timeout,
		notifier: notifier,
		log:      logger.OrNop(log),
	}
}

type CheckoutRequestDTO struct {
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod   domain.PaymentMethod   `json:"payment_method"`
}

type CheckoutResponse struct {
	Order      *domain.Order `json:"order"`
	PaymentURL string        `json:"payment_url,omitempty"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sess := getSession(r.Context())
	res, err := checkout.NewService(sess.Client, h.log).PlaceOrder(ctx, sess.Cart(), req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		handleError(w, err)
		return
	}

	if res.PaymentURL == "" {
		h.notify(ctx, res.Order.ID, sess.Identity())
	}
	respondJSON(w, http.StatusCreated, CheckoutResponse{Order: res.Order, PaymentURL: res.PaymentURL})
}

// Verify handles the payment gateway's redirect back to the shop.
func (h *CheckoutHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSession(r.Context())
	res, err := checkout.NewService(sess.Client, h.log).VerifyPayment(ctx, sess.Cart(), r.URL.Query())
	if err != nil {
		handleError(w, err)
		return
	}

	orderID := ""
	if res.Order != nil {
		orderID = res.Order.ID
	}
	h.notify(ctx, orderID, sess.Identity())
	respondJSON(w, http.StatusOK, res)
}

func (h *CheckoutHandler) notify(ctx context.Context, checkoutID string, id domain.Identity) {
	if h.notifier == nil || !id.IsAuthenticated() {
		return
	}
	if err := h.notifier.Publish(ctx, poller.Event{CheckoutID: checkoutID, UserID: id.UserID}); err != nil {
		logger.WithContext(ctx, h.log).Warn("checkout event not published", zap.String("checkout_id", checkoutID), zap.Error(err))
	}
}
