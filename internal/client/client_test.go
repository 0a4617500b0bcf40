package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, r http.Handler) *Client {
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestLogin_StoresCookieForLaterCalls(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "jwt-1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"user": domain.User{ID: "u1", Name: "Asha", Email: req.Email}})
	})
	r.Get("/api/me", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("token")
		if err != nil || ck.Value != "jwt-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Please login"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": domain.User{ID: "u1", Name: "Asha"}})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Login(ctx, LoginRequest{Email: "a@b.co", Password: "wrong"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	u, err := c.Login(ctx, LoginRequest{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)

	require.Len(t, c.Cookies(), 1)
	c.ClearCookies()
	assert.Empty(t, c.Cookies())
}

func TestCartEndpoints(t *testing.T) {
	var added addCartItemRequest
	var updated int
	var removed string

	r := chi.NewRouter()
	r.Get("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"cart": domain.CartSnapshot{Items: []domain.CartLine{
			{Product: domain.Product{ID: "p1", Name: "Tote", Price: 900, Stock: 3}, Quantity: 2},
		}}})
	})
	r.Post("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&added)
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	})
	r.Put("/api/cart/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body updateCartItemRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		updated = body.Quantity
		w.WriteHeader(http.StatusNoContent)
	})
	r.Delete("/api/cart/{id}", func(w http.ResponseWriter, r *http.Request) {
		removed = chi.URLParam(r, "id")
		w.WriteHeader(http.StatusOK)
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	snap, err := c.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)

	require.NoError(t, c.AddCartItem(ctx, "p9", 3))
	assert.Equal(t, addCartItemRequest{ProductID: "p9", Quantity: 3}, added)

	require.NoError(t, c.UpdateCartItem(ctx, "p9", 5))
	assert.Equal(t, 5, updated)

	require.NoError(t, c.RemoveCartItem(ctx, "p9"))
	assert.Equal(t, "p9", removed)
}

func TestRequestIDHeader(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/api/products", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		assert.Equal(t, "bag", r.URL.Query().Get("keyword"))
		writeJSON(w, http.StatusOK, map[string]any{"products": []domain.Product{{ID: "p1"}}})
	})
	c := newTestClient(t, r)

	products, err := c.ListProducts(context.Background(), ProductQuery{Keyword: "bag"})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.NotEmpty(t, got)
}

func TestBreaker_OpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.GetCart(ctx)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	}

	_, err := c.GetCart(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(5), calls.Load())
}

func TestBreaker_IgnoresClientErrors(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
	})
	c := newTestClient(t, r)

	for i := 0; i < 8; i++ {
		_, err := c.GetProduct(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestAPIError_Message(t *testing.T) {
	assert.Equal(t, "api error: 502 Bad Gateway", (&APIError{Status: 502}).Error())
	assert.Equal(t, "api error: 400 Out of stock", (&APIError{Status: 400, Message: "Out of stock"}).Error())
	assert.True(t, IsClientError(&APIError{Status: 409}))
	assert.False(t, IsClientError(&APIError{Status: 503}))
}

func TestAdminEndpoints(t *testing.T) {
	var deleted string
	r := chi.NewRouter()
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"orders": []domain.Order{{ID: "o1", TotalAmount: 500}}})
		})
		r.Put("/order/{id}", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusOK, map[string]any{"order": domain.Order{ID: chi.URLParam(r, "id"), Status: domain.OrderStatus(body["status"])}})
		})
		r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"users": []domain.User{{ID: "u1", Role: domain.RoleAdmin}}})
		})
		r.Post("/product", func(w http.ResponseWriter, r *http.Request) {
			var in ProductInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			writeJSON(w, http.StatusCreated, map[string]any{"product": domain.Product{ID: "p9", Name: in.Name, Price: in.Price}})
		})
		r.Delete("/product/{id}", func(w http.ResponseWriter, r *http.Request) {
			deleted = chi.URLParam(r, "id")
			writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
		})
		r.Put("/inquiry/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"inquiry": domain.Inquiry{ID: chi.URLParam(r, "id"), Status: "resolved"}})
		})
		r.Get("/analytics", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"totalOrders": 3})
		})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	orders, err := c.AdminOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)

	o, err := c.UpdateOrderStatus(ctx, "o1", domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, o.Status)

	users, err := c.AdminUsers(ctx)
	require.NoError(t, err)
	assert.True(t, users[0].IsAdmin())

	p, err := c.CreateProduct(ctx, ProductInput{Name: "Duffel", Price: 3500, Stock: 4})
	require.NoError(t, err)
	assert.Equal(t, "p9", p.ID)
	assert.Equal(t, "Duffel", p.Name)

	require.NoError(t, c.DeleteProduct(ctx, "p9"))
	assert.Equal(t, "p9", deleted)

	q, err := c.UpdateInquiryStatus(ctx, "q1", "resolved")
	require.NoError(t, err)
	assert.Equal(t, "resolved", q.Status)

	figures, err := c.Analytics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, figures["totalOrders"])

	_, err = c.Logs(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderEndpoints(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/orders/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"orders": []domain.Order{{ID: "o1"}, {ID: "o2"}}})
	})
	r.Put("/api/order/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "shipped" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Order can no longer be cancelled"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": domain.Order{ID: chi.URLParam(r, "id"), Status: domain.OrderStatusCancelled}})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	orders, err := c.MyOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	o, err := c.CancelOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, o.Status)

	_, err = c.CancelOrder(ctx, "shipped")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Order can no longer be cancelled", apiErr.Message)
}
