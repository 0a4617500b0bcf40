// Package session owns the shopper's identity and drives cart initialization on
// every identity transition.
package session

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/cart"
	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/internal/localstore"
	"github.com/ramesh9813/bagshop-client-sub000/internal/tablesort"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

const minPasswordLength = 6

// AuthAPI is the part of the REST client the session needs.
type AuthAPI interface {
	Login(ctx context.Context, req client.LoginRequest) (*domain.User, error)
	Register(ctx context.Context, req client.RegisterRequest) (string, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, req client.ResetPasswordRequest) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	Cookies() []*http.Cookie
	SetCookies(cookies []*http.Cookie)
	ClearCookies()
}

// Profiles caches the user profile and credential cookies.
type Profiles interface {
	LoadProfile(ctx context.Context) (*domain.User, error)
	SaveProfile(ctx context.Context, u *domain.User) error
	ClearProfile(ctx context.Context) error
	LoadCookies(ctx context.Context) ([]localstore.Cookie, error)
	SaveCookies(ctx context.Context, cookies []localstore.Cookie) error
	ClearCookies(ctx context.Context) error
}

type Manager struct {
	api      AuthAPI
	profiles Profiles
	cart     *cart.Service
	log      *zap.Logger

	mu   sync.RWMutex
	user *domain.User

	orderSort tablesort.State
}

func NewManager(api AuthAPI, profiles Profiles, cartSvc *cart.Service, log *zap.Logger) *Manager {
	return &Manager{
		api:      api,
		profiles: profiles,
		cart:     cartSvc,
		log:      logger.OrNop(log),
	}
}

func (m *Manager) Cart() *cart.Service {
	return m.cart
}

// OrderSort is the admin order table's sort state for this session.
func (m *Manager) OrderSort() *tablesort.State {
	return &m.orderSort
}

// User returns a copy of the signed-in user, or nil when anonymous.
func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) Identity() domain.Identity {
	if u := m.User(); u != nil {
		return domain.Authenticated(u.ID)
	}
	return domain.Anonymous
}

func (m *Manager) setUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = u
}

// Restore brings back the previous session from the cached profile and cookies.
// A rejected credential falls back to anonymous; an unreachable API keeps the
// cached identity.
func (m *Manager) Restore(ctx context.Context) (*domain.User, error) {
	log := logger.WithContext(ctx, m.log)

	if cookies, err := m.profiles.LoadCookies(ctx); err != nil {
		log.Warn("cookie load error", zap.Error(err))
	} else if len(cookies) > 0 {
		m.api.SetCookies(toHTTPCookies(cookies))
	}

	cached, err := m.profiles.LoadProfile(ctx)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			log.Warn("profile load error", zap.Error(err))
		}
		return nil, m.becomeAnonymous(ctx)
	}

	me, err := m.api.Me(ctx)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		log.Info("cached session expired", zap.String("user_id", cached.ID))
		m.forget(ctx)
		return nil, m.becomeAnonymous(ctx)
	case err != nil:
		log.Warn("profile refresh failed, using cached profile", zap.Error(err))
		me = cached
	default:
		if err := m.profiles.SaveProfile(ctx, me); err != nil {
			log.Warn("profile save error", zap.Error(err))
		}
	}

	m.setUser(me)
	m.initCart(ctx, domain.Authenticated(me.ID))
	return m.User(), nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrPasswordTooShort
	}

	u, err := m.api.Login(ctx, client.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx, m.log)
	if err := m.profiles.SaveProfile(ctx, u); err != nil {
		log.Warn("profile save error", zap.Error(err))
	}
	m.saveCookies(ctx)
	m.setUser(u)
	log.Info("user logged in", zap.String("user_id", u.ID))

	m.initCart(ctx, domain.Authenticated(u.ID))
	return m.User(), nil
}

// Logout always ends the local session, even if the API call fails.
func (m *Manager) Logout(ctx context.Context) error {
	log := logger.WithContext(ctx, m.log)
	if m.User() == nil {
		return m.becomeAnonymous(ctx)
	}
	if err := m.api.Logout(ctx); err != nil {
		log.Warn("api logout failed", zap.Error(err))
	}
	m.forget(ctx)
	m.cart.Reset(ctx)
	log.Info("user logged out")
	return m.becomeAnonymous(ctx)
}

func (m *Manager) Register(ctx context.Context, name, email, password, confirm string) (string, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" {
		return "", ErrNameRequired
	}
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if err := validatePassword(password, confirm); err != nil {
		return "", err
	}
	return m.api.Register(ctx, client.RegisterRequest{Name: name, Email: email, Password: password})
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return "", err
	}
	return m.api.ForgotPassword(ctx, email)
}

func (m *Manager) ResetPassword(ctx context.Context, token, password, confirm string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrTokenRequired
	}
	if err := validatePassword(password, confirm); err != nil {
		return "", err
	}
	return m.api.ResetPassword(ctx, token, client.ResetPasswordRequest{Password: password, ConfirmPassword: confirm})
}

func (m *Manager) VerifyEmail(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrTokenRequired
	}
	return m.api.VerifyEmail(ctx, token)
}

func (m *Manager) ResendVerification(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return "", err
	}
	return m.api.ResendVerification(ctx, email)
}

// RequireUser returns the signed-in user or ErrNotAuthenticated.
func (m *Manager) RequireUser() (*domain.User, error) {
	u := m.User()
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

func (m *Manager) becomeAnonymous(ctx context.Context) error {
	m.setUser(nil)
	_, err := m.cart.Initialize(ctx, domain.Anonymous)
	return err
}

func (m *Manager) initCart(ctx context.Context, id domain.Identity) {
	if _, err := m.cart.Initialize(ctx, id); err != nil {
		logger.WithContext(ctx, m.log).Warn("cart initialize failed", zap.Stringer("identity", id), zap.Error(err))
	}
}

func (m *Manager) forget(ctx context.Context) {
	log := logger.WithContext(ctx, m.log)
	m.api.ClearCookies()
	if err := m.profiles.ClearProfile(ctx); err != nil {
		log.Warn("profile clear error", zap.Error(err))
	}
	if err := m.profiles.ClearCookies(ctx); err != nil {
		log.Warn("cookie clear error", zap.Error(err))
	}
	m.setUser(nil)
}

func (m *Manager) saveCookies(ctx context.Context) {
	current := m.api.Cookies()
	cookies := make([]localstore.Cookie, 0, len(current))
	for _, c := range current {
		cookies = append(cookies, localstore.Cookie{Name: c.Name, Value: c.Value})
	}
	if err := m.profiles.SaveCookies(ctx, cookies); err != nil {
		logger.WithContext(ctx, m.log).Warn("cookie save error", zap.Error(err))
	}
}

func toHTTPCookies(cookies []localstore.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	return out
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
