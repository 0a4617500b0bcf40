package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/format"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

const maxLineQuantity = 99

type CartHandler struct {
	timeout time.Duration
	log     *zap.Logger
}

func NewCartHandler(timeout time.Duration, log *zap.Logger) *CartHandler {
	return &CartHandler{
		timeout: timeout,
		log:     logger.OrNop(log),
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Cart         domain.CartSnapshot `json:"cart"`
	Count        int                 `json:"count"`
	Subtotal     float64             `json:"subtotal"`
	SubtotalText string              `json:"subtotal_text"`
	Message      string              `json:"message,omitempty"`
}

func newCartResponse(snap domain.CartSnapshot) CartResponse {
	if snap.Items == nil {
		snap.Items = []domain.CartLine{}
	}
	return CartResponse{
		Cart:         snap,
		Count:        snap.Count(),
		Subtotal:     snap.Subtotal(),
		SubtotalText: format.Price(snap.Subtotal()),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r.Context())
	respondJSON(w, http.StatusOK, newCartResponse(sess.Cart().Snapshot()))
}

// AddItem loads the product first so the stock check uses current stock.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSession(r.Context())

	// Parse request body
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Validate request
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := sess.Client.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleError(w, err)
		return
	}

	snap, err := sess.Cart().AddItem(ctx, *product, req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := newCartResponse(snap)
	resp.Message = fmt.Sprintf("Added %d × %s to cart", req.Quantity, format.TruncateName(product.Name, format.DefaultNameLength))
	logger.WithContext(ctx, h.log).Debug("cart item added",
		zap.String("product_id", product.ID),
		zap.Int("quantity", req.Quantity),
		zap.String("request_id", getRequestID(r.Context())))
	respondJSON(w, http.StatusCreated, resp)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSession(r.Context())

	// Get product_id from URL path
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// Parse request body
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// quantities below 1 leave the cart unchanged
	snap, err := sess.Cart().UpdateQuantity(ctx, productID, req.Quantity)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(snap))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSession(r.Context())

	// Get product_id from URL path
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	snap, err := sess.Cart().RemoveItem(ctx, productID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(snap))
}
