// Package cart keeps a single view of the shopping cart across identity changes:
// the local snapshot while anonymous, the server cart once authenticated.
package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

// RemoteCart is the server-side cart of the authenticated user.
type RemoteCart interface {
	GetCart(ctx context.Context) (domain.CartSnapshot, error)
	AddCartItem(ctx context.Context, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, productID string) error
}

// LocalCart persists the anonymous snapshot.
type LocalCart interface {
	LoadCart(ctx context.Context) (domain.CartSnapshot, error)
	SaveCart(ctx context.Context, snap domain.CartSnapshot) error
	ClearCart(ctx context.Context) error
}

type Service struct {
	store  *Store
	local  LocalCart
	remote RemoteCart
	log    *zap.Logger

	// mu serializes cart operations of one session
	mu  sync.Mutex
	sfg singleflight.Group
}

func NewService(store *Store, local LocalCart, remote RemoteCart, log *zap.Logger) *Service {
	if store == nil {
		store = NewStore()
	}
	return &Service{
		store:  store,
		local:  local,
		remote: remote,
		log:    logger.OrNop(log),
	}
}

func (s *Service) Snapshot() domain.CartSnapshot {
	return s.store.Snapshot()
}

func (s *Service) Identity() domain.Identity {
	return s.store.Identity()
}

// Initialize makes identity the active one. For an authenticated identity the local
// snapshot is merged into the server cart once and discarded, then the server cart
// replaces the in-memory state. Concurrent calls for the same identity share one run.
func (s *Service) Initialize(ctx context.Context, identity domain.Identity) (domain.CartSnapshot, error) {
	v, err, _ := s.sfg.Do(identity.String(), func() (interface{}, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.initialize(ctx, identity)
	})
	if err != nil {
		return s.store.Snapshot(), err
	}
	// callers collapsed into one run must not share the Items array
	return v.(domain.CartSnapshot).Clone(), nil
}

func (s *Service) initialize(ctx context.Context, identity domain.Identity) (domain.CartSnapshot, error) {
	log := logger.WithContext(ctx, s.log).With(zap.Stringer("identity", identity))
	s.store.SetIdentity(identity)

	local, err := s.local.LoadCart(ctx)
	if err != nil {
		log.Warn("local cart load error", zap.Error(err))
		local = domain.CartSnapshot{}
	}
	local = Normalize(local)

	if !identity.IsAuthenticated() {
		return s.store.Dispatch(Replace(local)), nil
	}

	if !local.IsEmpty() {
		s.merge(ctx, log, local)
	}

	server, err := s.remote.GetCart(ctx)
	if err != nil {
		log.Warn("server cart fetch error, keeping merged lines", zap.Error(err))
		s.store.Dispatch(Replace(local))
		return domain.CartSnapshot{}, fmt.Errorf("fetch server cart: %w", err)
	}
	return s.store.Dispatch(Replace(server)), nil
}

// merge pushes every local line to the server. Failed lines are logged and dropped;
// the local snapshot is cleared either way so it is never merged twice.
func (s *Service) merge(ctx context.Context, log *zap.Logger, local domain.CartSnapshot) {
	merged := 0
	for _, line := range local.Items {
		if err := s.remote.AddCartItem(ctx, line.Product.ID, line.Quantity); err != nil {
			log.Warn("cart merge line failed",
				zap.String("product_id", line.Product.ID),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
			continue
		}
		merged++
	}
	if err := s.local.ClearCart(ctx); err != nil {
		log.Error("local cart clear after merge failed", zap.Error(err))
	}
	log.Info("local cart merged", zap.Int("lines", len(local.Items)), zap.Int("merged", merged))
}

// AddItem adds quantity units of product. The resulting line may not exceed the
// product's stock; rejections happen before any state change or network call.
func (s *Service) AddItem(ctx context.Context, product domain.Product, quantity int) (domain.CartSnapshot, error) {
	if quantity < 1 {
		return s.store.Snapshot(), ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.store.Snapshot()
	existing := 0
	if line, ok := current.Line(product.ID); ok {
		existing = line.Quantity
	}
	if existing+quantity > product.Stock {
		return current, stockError(product, existing)
	}

	next := s.store.Dispatch(Add(product, quantity))
	s.persist(ctx, "add", product.ID, func(ctx context.Context) error {
		return s.remote.AddCartItem(ctx, product.ID, quantity)
	}, next)
	return next, nil
}

// UpdateQuantity sets a line's quantity. Values below 1 and unknown products are
// no-ops; removal is RemoveItem.
func (s *Service) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.store.Snapshot()
	line, ok := current.Line(productID)
	if quantity < 1 || !ok || line.Quantity == quantity {
		return current, nil
	}
	if quantity > line.Product.Stock {
		return current, stockError(line.Product, line.Quantity)
	}

	next := s.store.Dispatch(SetQuantity(productID, quantity))
	s.persist(ctx, "update", productID, func(ctx context.Context) error {
		return s.remote.UpdateCartItem(ctx, productID, quantity)
	}, next)
	return next, nil
}

func (s *Service) RemoveItem(ctx context.Context, productID string) (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.store.Snapshot()
	if current.Find(productID) < 0 {
		return current, nil
	}

	next := s.store.Dispatch(Remove(productID))
	s.persist(ctx, "remove", productID, func(ctx context.Context) error {
		return s.remote.RemoveCartItem(ctx, productID)
	}, next)
	return next, nil
}

// Reset empties the in-memory and local snapshots. Called on logout and after a
// completed checkout.
func (s *Service) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Dispatch(Clear())
	if err := s.local.ClearCart(ctx); err != nil {
		logger.WithContext(ctx, s.log).Warn("local cart clear error", zap.Error(err))
	}
}

// persist writes an optimistic change through to the active backend. Failures are
// logged only; the in-memory state is not rolled back.
func (s *Service) persist(ctx context.Context, op, productID string, remote func(context.Context) error, next domain.CartSnapshot) {
	var err error
	backend := "local"
	if s.store.Identity().IsAuthenticated() {
		backend = "server"
		err = remote(ctx)
	} else {
		err = s.local.SaveCart(ctx, next)
	}
	if err != nil {
		logger.WithContext(ctx, s.log).Warn("cart sync failed",
			zap.String("op", op),
			zap.String("backend", backend),
			zap.String("product_id", productID),
			zap.Error(err))
	}
}

func stockError(p domain.Product, inCart int) error {
	if inCart > 0 {
		return fmt.Errorf("%w: only %d of %q available and %d already in cart", ErrInsufficientStock, p.Stock, p.Name, inCart)
	}
	return fmt.Errorf("%w: only %d of %q available", ErrInsufficientStock, p.Stock, p.Name)
}
