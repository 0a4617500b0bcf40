package client

import (
	"context"
	"net/url"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

type usersResponse struct {
	Users []domain.User `json:"users"`
}

type inquiriesResponse struct {
	Inquiries []domain.Inquiry `json:"inquiries"`
}

type logsResponse struct {
	Logs []domain.LogEntry `json:"logs"`
}

type inquiryResponse struct {
	Inquiry domain.Inquiry `json:"inquiry"`
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image,omitempty"`
}

func (c *Client) AdminOrders(ctx context.Context) ([]domain.Order, error) {
	var resp ordersResponse
	if err := c.get(ctx, "/admin/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	var resp orderResponse
	body := map[string]domain.OrderStatus{"status": status}
	if err := c.put(ctx, "/admin/order/"+url.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

func (c *Client) AdminUsers(ctx context.Context) ([]domain.User, error) {
	var resp usersResponse
	if err := c.get(ctx, "/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	var resp productResponse
	if err := c.post(ctx, "/admin/product", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	var resp productResponse
	if err := c.put(ctx, "/admin/product/"+url.PathEscape(id), in, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/product/"+url.PathEscape(id), nil)
}

func (c *Client) Inquiries(ctx context.Context) ([]domain.Inquiry, error) {
	var resp inquiriesResponse
	if err := c.get(ctx, "/admin/inquiries", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Inquiries, nil
}

func (c *Client) UpdateInquiryStatus(ctx context.Context, id, status string) (*domain.Inquiry, error) {
	var resp inquiryResponse
	if err := c.put(ctx, "/admin/inquiry/"+url.PathEscape(id), map[string]string{"status": status}, &resp); err != nil {
		return nil, err
	}
	return &resp.Inquiry, nil
}

func (c *Client) Logs(ctx context.Context) ([]domain.LogEntry, error) {
	var resp logsResponse
	if err := c.get(ctx, "/admin/logs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// Analytics returns the server-computed dashboard figures; their shape is owned by
// the server.
func (c *Client) Analytics(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	if err := c.get(ctx, "/admin/analytics", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
