package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/ramesh9813/bagshop-client-sub000/internal/cart"
	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

// fakeAPI serves both the auth endpoints and the cart endpoints.
type fakeAPI struct {
	mu       sync.Mutex
	users    map[string]domain.User
	password string
	loggedIn *domain.User
	meErr    error
	cookies  []*http.Cookie
	cart     domain.CartSnapshot
	catalog  map[string]domain.Product
	logouts  int
	lastReg  client.RegisterRequest
}

func newFakeAPI(products ...domain.Product) *fakeAPI {
	f := &fakeAPI{
		users:    map[string]domain.User{"asha@example.com": {ID: "u1", Name: "Asha", Email: "asha@example.com", Role: domain.RoleUser}},
		password: "secret1",
		catalog:  map[string]domain.Product{},
	}
	for _, p := range products {
		f.catalog[p.ID] = p
	}
	return f
}

func (f *fakeAPI) Login(_ context.Context, req client.LoginRequest) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[req.Email]
	if !ok || req.Password != f.password {
		return nil, &client.APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	f.loggedIn = &u
	f.cookies = []*http.Cookie{{Name: "token", Value: "jwt-" + u.ID}}
	return &u, nil
}

func (f *fakeAPI) Register(_ context.Context, req client.RegisterRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReg = req
	return "Verification email sent", nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.loggedIn = nil
	return nil
}

func (f *fakeAPI) Me(context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.meErr != nil {
		return nil, f.meErr
	}
	for _, c := range f.cookies {
		if c.Name == "token" {
			for _, u := range f.users {
				if c.Value == "jwt-"+u.ID {
					return &u, nil
				}
			}
		}
	}
	return nil, &client.APIError{Status: http.StatusUnauthorized, Message: "Please login"}
}

func (f *fakeAPI) ForgotPassword(context.Context, string) (string, error) {
	return "Reset link sent", nil
}

func (f *fakeAPI) ResetPassword(context.Context, string, client.ResetPasswordRequest) (string, error) {
	return "Password updated", nil
}

func (f *fakeAPI) VerifyEmail(context.Context, string) (string, error) {
	return "Email verified", nil
}

func (f *fakeAPI) ResendVerification(context.Context, string) (string, error) {
	return "Verification email sent", nil
}

func (f *fakeAPI) Cookies() []*http.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Cookie(nil), f.cookies...)
}

func (f *fakeAPI) SetCookies(cookies []*http.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookies = append([]*http.Cookie(nil), cookies...)
}

func (f *fakeAPI) ClearCookies() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookies = nil
}

func (f *fakeAPI) GetCart(context.Context) (domain.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart.Clone(), nil
}

func (f *fakeAPI) AddCartItem(_ context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart = cart.Reduce(f.cart, cart.Add(f.catalog[productID], quantity))
	return nil
}

func (f *fakeAPI) UpdateCartItem(_ context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart = cart.Reduce(f.cart, cart.SetQuantity(productID, quantity))
	return nil
}

func (f *fakeAPI) RemoveCartItem(_ context.Context, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart = cart.Reduce(f.cart, cart.Remove(productID))
	return nil
}
