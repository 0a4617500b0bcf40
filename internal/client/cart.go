package client

import (
	"context"
	"net/url"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

type cartResponse struct {
	Cart domain.CartSnapshot `json:"cart"`
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart fetches the authenticated user's server-side cart.
func (c *Client) GetCart(ctx context.Context) (domain.CartSnapshot, error) {
	var resp cartResponse
	if err := c.get(ctx, "/cart", nil, &resp); err != nil {
		return domain.CartSnapshot{}, err
	}
	return resp.Cart, nil
}

// AddCartItem adds quantity units of productID to the server cart; the server
// increments an existing line.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) error {
	return c.post(ctx, "/cart", addCartItemRequest{ProductID: productID, Quantity: quantity}, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	return c.put(ctx, "/cart/"+url.PathEscape(productID), updateCartItemRequest{Quantity: quantity}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	return c.delete(ctx, "/cart/"+url.PathEscape(productID), nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart", nil)
}
