// Package admin builds the admin dashboard views on top of the admin API.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/sales"
	"github.com/ramesh9813/bagshop-client-sub000/internal/tablesort"
)

type OrdersAPI interface {
	AdminOrders(ctx context.Context) ([]domain.Order, error)
}

type SalesReport struct {
	Range   sales.Range   `json:"range"`
	Points  []sales.Point `json:"points"`
	Summary sales.Summary `json:"summary"`
}

type Dashboard struct {
	api OrdersAPI
	now func() time.Time
}

// NewDashboard builds a dashboard; now defaults to time.Now.
func NewDashboard(api OrdersAPI, now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{api: api, now: now}
}

// Sales buckets every admin order into the chart for rangeName. An empty range
// means the last week.
func (d *Dashboard) Sales(ctx context.Context, rangeName string) (*SalesReport, error) {
	r, err := sales.ParseRange(rangeName)
	if err != nil {
		return nil, err
	}
	orders, err := d.api.AdminOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	now := d.now()
	points, err := sales.Bucket(orders, r, now)
	if err != nil {
		return nil, err
	}
	summary, err := sales.Summarize(orders, r, now)
	if err != nil {
		return nil, err
	}
	return &SalesReport{Range: r, Points: points, Summary: summary}, nil
}

// Orders returns the admin order table sorted by st. A non-empty key toggles st
// first, so repeating a key flips the direction.
func (d *Dashboard) Orders(ctx context.Context, st *tablesort.State, key string) ([]domain.Order, error) {
	orders, err := d.api.AdminOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if key != "" {
		st.Toggle(key)
	}
	tablesort.Sort(orders, *st)
	return orders, nil
}
