// Package checkout turns the active cart into an order.
package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, req client.CreateOrderRequest) (*domain.Order, error)
	InitiatePayment(ctx context.Context, orderID string) (string, error)
	VerifyPayment(ctx context.Context, query url.Values) (*client.PaymentResult, error)
}

// Cart is the view of the cart service checkout needs.
type Cart interface {
	Snapshot() domain.CartSnapshot
	Identity() domain.Identity
	Reset(ctx context.Context)
}

type Result struct {
	Order *domain.Order
	// PaymentURL is set for online payments; the buyer must be redirected there.
	PaymentURL string
}

type Service struct {
	api OrderAPI
	log *zap.Logger
}

func NewService(api OrderAPI, log *zap.Logger) *Service {
	return &Service{api: api, log: logger.OrNop(log)}
}

// PlaceOrder submits the cart as an order. Cash on delivery empties the cart right
// away; online payment keeps it until VerifyPayment succeeds.
func (s *Service) PlaceOrder(ctx context.Context, cart Cart, shipping domain.ShippingAddress, method domain.PaymentMethod) (*Result, error) {
	if !cart.Identity().IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if method != domain.PaymentCOD && method != domain.PaymentOnline {
		return nil, ErrInvalidMethod
	}
	shipping = trimShipping(shipping)
	if shipping.FullName == "" || shipping.Phone == "" || shipping.Address == "" || shipping.City == "" {
		return nil, ErrIncompleteShipping
	}

	snapshot := cart.Snapshot()
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}

	req := buildOrder(snapshot)
	req.ShippingAddress = shipping
	req.PaymentMethod = method

	log := logger.WithContext(ctx, s.log).With(zap.Stringer("identity", cart.Identity()))

	order, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("method", string(method)),
		zap.Float64("total", req.TotalAmount))

	if method == domain.PaymentCOD {
		cart.Reset(ctx)
		return &Result{Order: order}, nil
	}

	paymentURL, err := s.api.InitiatePayment(ctx, order.ID)
	if err != nil {
		return &Result{Order: order}, fmt.Errorf("failed to initiate payment for order %s: %w", order.ID, err)
	}
	return &Result{Order: order, PaymentURL: paymentURL}, nil
}

// VerifyPayment confirms an online payment from the gateway callback query and
// empties the cart on success.
func (s *Service) VerifyPayment(ctx context.Context, cart Cart, query url.Values) (*client.PaymentResult, error) {
	res, err := s.api.VerifyPayment(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}
	if !res.Success {
		logger.WithContext(ctx, s.log).Warn("payment verification rejected", zap.String("message", res.Message))
		return res, fmt.Errorf("%w: %s", ErrPaymentFailed, res.Message)
	}
	cart.Reset(ctx)
	return res, nil
}

// buildOrder captures unit prices and subtotals from the snapshot.
func buildOrder(snapshot domain.CartSnapshot) client.CreateOrderRequest {
	req := client.CreateOrderRequest{
		Items: make([]domain.OrderItem, 0, len(snapshot.Items)),
	}

	var totalAmount float64
	for _, line := range snapshot.Items {
		subtotal := line.Product.Price * float64(line.Quantity)
		req.Items = append(req.Items, domain.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
			Subtotal:  subtotal,
		})
		totalAmount += subtotal
	}

	req.TotalAmount = totalAmount
	return req
}

func trimShipping(a domain.ShippingAddress) domain.ShippingAddress {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Address = strings.TrimSpace(a.Address)
	a.City = strings.TrimSpace(a.City)
	a.Postcode = strings.TrimSpace(a.Postcode)
	return a
}
