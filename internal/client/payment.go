package client

import (
	"context"
	"net/url"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

type initiatePaymentResponse struct {
	URL string `json:"url"`
}

type PaymentResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order,omitempty"`
}

// InitiatePayment returns the payment gateway URL the buyer must be sent to.
func (c *Client) InitiatePayment(ctx context.Context, orderID string) (string, error) {
	var resp initiatePaymentResponse
	if err := c.post(ctx, "/payment/initiate", map[string]string{"orderId": orderID}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// VerifyPayment forwards the gateway callback query to the API.
func (c *Client) VerifyPayment(ctx context.Context, query url.Values) (*PaymentResult, error) {
	var resp PaymentResult
	if err := c.get(ctx, "/payment/verify", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
