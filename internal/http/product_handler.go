package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/format"
)

type ProductHandler struct {
	timeout time.Duration
}

func NewProductHandler(timeout time.Duration) *ProductHandler {
	return &ProductHandler{timeout: timeout}
}

type ProductResponse struct {
	domain.Product
	DisplayName string `json:"display_name"`
	PriceText   string `json:"price_text"`
	InCart      int    `json:"in_cart"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := client.ProductQuery{
		Keyword:  r.URL.Query().Get("keyword"),
		Category: r.URL.Query().Get("category"),
	}
	if page := r.URL.Query().Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		q.Page = n
	}

	sess := getSession(r.Context())
	res, err := sess.Client.ListProducts(ctx, q)
	if err != nil {
		handleError(w, err)
		return
	}

	snap := sess.Cart().Snapshot()
	products := make([]ProductResponse, len(res))
	for i, p := range res {
		products[i] = newProductResponse(p, snap)
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSession(r.Context())
	p, err := sess.Client.GetProduct(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newProductResponse(*p, sess.Cart().Snapshot()))
}

func newProductResponse(p domain.Product, snap domain.CartSnapshot) ProductResponse {
	line, _ := snap.Line(p.ID)
	return ProductResponse{
		Product:     p,
		DisplayName: format.TruncateName(p.Name, format.DefaultNameLength),
		PriceText:   format.Price(p.Price),
		InCart:      line.Quantity,
	}
}
