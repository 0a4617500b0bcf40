package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ramesh9813/bagshop-client-sub000/internal/admin"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/tablesort"
)

type AdminHandler struct {
	timeout time.Duration
	now     func() time.Time
}

func NewAdminHandler(timeout time.Duration) *AdminHandler {
	return &AdminHandler{timeout: timeout, now: time.Now}
}

type SortDTO struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

type AdminOrdersResponse struct {
	Orders []domain.Order `json:"orders"`
	Sort   SortDTO        `json:"sort"`
}

func (h *AdminHandler) dashboard(api admin.OrdersAPI) *admin.Dashboard {
	return admin.NewDashboard(api, h.now)
}

// Sales serves the chart for ?range=today|week|month|year|lifetime.
func (h *AdminHandler) Sales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSession(r.Context())
	report, err := h.dashboard(sess.Client).Sales(ctx, r.URL.Query().Get("range"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Orders serves the order table; ?sort=key toggles the session's sort state.
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess := getSession(r.Context())
	st := sess.OrderSort()
	orders, err := h.dashboard(sess.Client).Orders(ctx, st, r.URL.Query().Get("sort"))
	if err != nil {
		handleError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, AdminOrdersResponse{
		Orders: orders,
		Sort:   sortDTO(*st),
	})
}

func sortDTO(st tablesort.State) SortDTO {
	if st.Key == "" {
		return SortDTO{}
	}
	return SortDTO{Key: st.Key, Direction: st.Direction.String()}
}
