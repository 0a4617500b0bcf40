package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/cart"
	"github.com/ramesh9813/bagshop-client-sub000/internal/config"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/sales"
	"github.com/ramesh9813/bagshop-client-sub000/internal/tablesort"
)

var tote = domain.Product{ID: "p1", Name: "Canvas Tote", Price: 1200.5, Stock: 3}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != tote.ID {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Product not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"product": tote})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// setupApp points the global app at a test API and a sqlite file under dir.
func setupApp(t *testing.T, baseURL, dir string) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.Store.SQLitePath = filepath.Join(dir, "state.db")

	inst, err := newApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	a = inst
	t.Cleanup(inst.Close)
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	return cmd, &buf
}

func TestCartAdd_GuestCart(t *testing.T) {
	srv := newTestServer(t)
	setupApp(t, srv.URL+"/api", t.TempDir())

	cmd, out := testCommand()
	require.NoError(t, runCartAdd(cmd, []string{"p1", "2"}))

	assert.Contains(t, out.String(), "Added 2 × Canvas Tote to cart")
	assert.Contains(t, out.String(), "Rs. 2,401.00")
	assert.Equal(t, 2, a.cart().Snapshot().Count())
	assert.False(t, a.cart().Identity().IsAuthenticated())

	cmd, _ = testCommand()
	err := runCartAdd(cmd, []string{"p1", "2"})
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)
	assert.Equal(t, 2, a.cart().Snapshot().Count())
}

func TestCartAdd_Errors(t *testing.T) {
	srv := newTestServer(t)
	setupApp(t, srv.URL+"/api", t.TempDir())

	cmd, _ := testCommand()
	assert.Error(t, runCartAdd(cmd, []string{"p1", "zero"}))
	assert.Error(t, runCartAdd(cmd, []string{"p1", "0"}))
	assert.Error(t, runCartAdd(cmd, []string{"missing"}))
	assert.True(t, a.cart().Snapshot().IsEmpty())
}

func TestCartUpdate_BelowOneIsNoOp(t *testing.T) {
	srv := newTestServer(t)
	setupApp(t, srv.URL+"/api", t.TempDir())

	cmd, _ := testCommand()
	require.NoError(t, runCartAdd(cmd, []string{"p1", "2"}))

	for _, qty := range []string{"0", "-1"} {
		cmd, out := testCommand()
		require.NoError(t, runCartUpdate(cmd, []string{"p1", qty}))
		assert.Contains(t, out.String(), "leaves the cart unchanged")
		assert.Equal(t, 2, a.cart().Snapshot().Count())
	}

	cmd, _ = testCommand()
	assert.Error(t, runCartUpdate(cmd, []string{"p1", "two"}))

	cmd, _ = testCommand()
	require.NoError(t, runCartUpdate(cmd, []string{"p1", "3"}))
	assert.Equal(t, 3, a.cart().Snapshot().Count())
}

func TestGuestCart_SurvivesRestart(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()
	setupApp(t, srv.URL+"/api", dir)

	cmd, _ := testCommand()
	require.NoError(t, runCartAdd(cmd, []string{"p1"}))
	a.Close()

	setupApp(t, srv.URL+"/api", dir)
	cmd, out := testCommand()
	require.NoError(t, runCartShow(cmd, nil))
	assert.Contains(t, out.String(), "Canvas Tote")
	assert.Contains(t, out.String(), "guest cart")
}

func TestOrderSort_Persists(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()
	setupApp(t, srv.URL+"/api", dir)

	a.session.OrderSort().Toggle("totalAmount")
	a.session.OrderSort().Toggle("totalAmount")
	require.NoError(t, a.saveOrderSort(context.Background()))
	a.Close()

	setupApp(t, srv.URL+"/api", dir)
	assert.Equal(t, tablesort.State{Key: "totalAmount", Direction: tablesort.Descending}, *a.session.OrderSort())
}

func TestCallbackQuery(t *testing.T) {
	q, err := callbackQuery("https://shop.example/payment/verify?data=abc&status=COMPLETE")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", q.Get("status"))

	q, err = callbackQuery("data=abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", q.Get("data"))

	_, err = callbackQuery("")
	assert.Error(t, err)
}

func TestPrintSales(t *testing.T) {
	var buf bytes.Buffer
	points := []sales.Point{{Label: "Jan 1", Total: 100}, {Label: "Jan 2", Total: 0}}
	printSales(&buf, sales.Week, points, sales.Summary{Orders: 1, Revenue: 100})

	out := buf.String()
	assert.Contains(t, out, "Sales: week")
	assert.Contains(t, out, "Jan 2")
	assert.Contains(t, out, "1 orders, revenue Rs. 100.00")
}

func TestPrintCart_Empty(t *testing.T) {
	var buf bytes.Buffer
	printCart(&buf, domain.CartSnapshot{}, domain.Anonymous)
	assert.Contains(t, buf.String(), "Your cart is empty")
}
