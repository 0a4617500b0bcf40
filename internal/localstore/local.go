package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

// Cookie is the persisted form of an API credential cookie.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Local is the typed view of one namespace (a CLI profile or a gateway session)
// inside a KV backend.
type Local struct {
	kv        KV
	namespace string
}

func New(kv KV, namespace string) *Local {
	if namespace == "" {
		namespace = "default"
	}
	return &Local{kv: kv, namespace: namespace}
}

func (l *Local) key(name string) string {
	return l.namespace + ":" + name
}

// LoadCart returns the anonymous cart snapshot; a missing snapshot is empty.
func (l *Local) LoadCart(ctx context.Context) (domain.CartSnapshot, error) {
	var snap domain.CartSnapshot
	found, err := l.load(ctx, "cart", &snap)
	if err != nil || !found {
		return domain.CartSnapshot{}, err
	}
	return snap, nil
}

func (l *Local) SaveCart(ctx context.Context, snap domain.CartSnapshot) error {
	return l.save(ctx, "cart", snap)
}

func (l *Local) ClearCart(ctx context.Context) error {
	return l.kv.Delete(ctx, l.key("cart"))
}

// LoadProfile returns ErrNotFound when no profile is cached.
func (l *Local) LoadProfile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	found, err := l.load(ctx, "user", &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (l *Local) SaveProfile(ctx context.Context, u *domain.User) error {
	return l.save(ctx, "user", u)
}

func (l *Local) ClearProfile(ctx context.Context) error {
	return l.kv.Delete(ctx, l.key("user"))
}

func (l *Local) LoadCookies(ctx context.Context) ([]Cookie, error) {
	var cookies []Cookie
	if _, err := l.load(ctx, "cookies", &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

func (l *Local) SaveCookies(ctx context.Context, cookies []Cookie) error {
	return l.save(ctx, "cookies", cookies)
}

func (l *Local) ClearCookies(ctx context.Context) error {
	return l.kv.Delete(ctx, l.key("cookies"))
}

func (l *Local) load(ctx context.Context, name string, dst any) (bool, error) {
	data, err := l.kv.Get(ctx, l.key(name))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("unmarshal %s failed: %w", name, err)
	}
	return true, nil
}

func (l *Local) save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", name, err)
	}
	return l.kv.Set(ctx, l.key(name), data)
}
