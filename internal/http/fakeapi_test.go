package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

// fakeAPI is an in-memory stand-in for the BagShop REST API.
type fakeAPI struct {
	mu       sync.Mutex
	users    map[string]domain.User // by email
	products map[string]domain.Product
	carts    map[string][]domain.CartLine // by user id
	orders   []domain.Order
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users: map[string]domain.User{
			"asha@example.com":  {ID: "u1", Name: "Asha", Email: "asha@example.com", Role: domain.RoleUser},
			"admin@example.com": {ID: "a1", Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin},
		},
		products: map[string]domain.Product{
			"p1": {ID: "p1", Name: "Handcrafted Genuine Leather Crossbody Messenger Bag With Adjustable Strap", Price: 4500, Stock: 3},
			"p2": {ID: "p2", Name: "Canvas Tote", Price: 1200.5, Stock: 10},
		},
		carts: map[string][]domain.CartLine{},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) userFrom(r *http.Request) (domain.User, bool) {
	ck, err := r.Cookie("token")
	if err != nil {
		return domain.User{}, false
	}
	for _, u := range f.users {
		if u.ID == ck.Value {
			return u, true
		}
	}
	return domain.User{}, false
}

func (f *fakeAPI) authed(next func(w http.ResponseWriter, r *http.Request, u domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.userFrom(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Please login to access this resource"})
			return
		}
		next(w, r, u)
	}
}

func (f *fakeAPI) cartBody(userID string) map[string]any {
	items := f.carts[userID]
	if items == nil {
		items = []domain.CartLine{}
	}
	return map[string]any{"cart": map[string]any{"items": items}}
}

func (f *fakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			var req struct{ Email, Password string }
			_ = json.NewDecoder(r.Body).Decode(&req)
			u, ok := f.users[req.Email]
			if !ok || req.Password != "secret1" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "token", Value: u.ID, Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{"user": u})
		})
		r.Get("/logout", func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "token", Path: "/", MaxAge: -1})
			writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
		})
		r.Get("/me", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			writeJSON(w, http.StatusOK, map[string]any{"user": u})
		}))

		r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]any{"products": []domain.Product{f.products["p1"], f.products["p2"]}})
		})
		r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			p, ok := f.products[chi.URLParam(r, "id")]
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"product": p})
		})

		r.Get("/cart", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			writeJSON(w, http.StatusOK, f.cartBody(u.ID))
		}))
		r.Post("/cart", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			var req struct {
				ProductID string `json:"productId"`
				Quantity  int    `json:"quantity"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			lines := f.carts[u.ID]
			for i := range lines {
				if lines[i].Product.ID == req.ProductID {
					lines[i].Quantity += req.Quantity
					writeJSON(w, http.StatusOK, f.cartBody(u.ID))
					return
				}
			}
			f.carts[u.ID] = append(lines, domain.CartLine{Product: f.products[req.ProductID], Quantity: req.Quantity})
			writeJSON(w, http.StatusOK, f.cartBody(u.ID))
		}))
		r.Put("/cart/{id}", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			var req struct {
				Quantity int `json:"quantity"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			for i := range f.carts[u.ID] {
				if f.carts[u.ID][i].Product.ID == chi.URLParam(r, "id") {
					f.carts[u.ID][i].Quantity = req.Quantity
				}
			}
			writeJSON(w, http.StatusOK, f.cartBody(u.ID))
		}))
		r.Delete("/cart/{id}", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			kept := f.carts[u.ID][:0]
			for _, line := range f.carts[u.ID] {
				if line.Product.ID != chi.URLParam(r, "id") {
					kept = append(kept, line)
				}
			}
			f.carts[u.ID] = kept
			writeJSON(w, http.StatusOK, f.cartBody(u.ID))
		}))

		r.Post("/order", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			var req struct {
				Items           []domain.OrderItem     `json:"items"`
				ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
				PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
				TotalAmount     float64                `json:"totalAmount"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			o := domain.Order{
				ID:              "o" + string(rune('1'+len(f.orders))),
				User:            domain.UserRef{ID: u.ID, Name: u.Name, Email: u.Email},
				Items:           req.Items,
				TotalAmount:     req.TotalAmount,
				Status:          domain.OrderStatusPending,
				PaymentMethod:   req.PaymentMethod,
				ShippingAddress: req.ShippingAddress,
				CreatedAt:       time.Now(),
			}
			f.orders = append(f.orders, o)
			if req.PaymentMethod == domain.PaymentCOD {
				delete(f.carts, u.ID)
			}
			writeJSON(w, http.StatusCreated, map[string]any{"order": o})
		}))
		r.Post("/payment/initiate", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			var req struct {
				OrderID string `json:"orderId"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			writeJSON(w, http.StatusOK, map[string]string{"url": "https://pay.example.com/" + req.OrderID})
		}))
		r.Get("/payment/verify", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			if r.URL.Query().Get("status") != "COMPLETE" {
				writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Payment not completed"})
				return
			}
			delete(f.carts, u.ID)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Payment verified", "order": f.orders[len(f.orders)-1]})
		}))

		r.Get("/admin/orders", f.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
			if !u.IsAdmin() {
				writeJSON(w, http.StatusForbidden, map[string]string{"message": "Role: user is not allowed"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"orders": f.orders})
		}))

		r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Message string `json:"message"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			writeJSON(w, http.StatusOK, map[string]string{"reply": "**Canvas Tote** is in stock.\n<script>alert(1)</script>"})
		})
	})
	return r
}

func (f *fakeAPI) serve(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(f.routes())
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}
