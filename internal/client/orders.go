package client

import (
	"context"
	"net/url"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

type CreateOrderRequest struct {
	Items           []domain.OrderItem     `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
	TotalAmount     float64                `json:"totalAmount"`
}

type orderResponse struct {
	Order domain.Order `json:"order"`
}

type ordersResponse struct {
	Orders []domain.Order `json:"orders"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	var resp orderResponse
	if err := c.post(ctx, "/order", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var resp ordersResponse
	if err := c.get(ctx, "/orders/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var resp orderResponse
	if err := c.get(ctx, "/order/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	var resp orderResponse
	if err := c.put(ctx, "/order/"+url.PathEscape(id)+"/cancel", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}
