package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

type ProductQuery struct {
	Keyword  string
	Category string
	Page     int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

type productResponse struct {
	Product domain.Product `json:"product"`
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	var resp productsResponse
	if err := c.get(ctx, "/products", q.values(), &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var resp productResponse
	if err := c.get(ctx, "/products/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}
