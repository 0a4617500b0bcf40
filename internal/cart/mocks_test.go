package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
)

var errNetwork = errors.New("network down")

// fakeServer behaves like the API's cart: adds increment, updates replace.
type fakeServer struct {
	m        sync.Mutex
	catalog  map[string]domain.Product
	cart     domain.CartSnapshot
	failAdd  map[string]bool
	failAll  bool
	failGet  bool
	addCalls int
	getCalls int
	ops      []string
	// getGate, when set, holds GetCart until it is closed
	getGate chan struct{}
}

func newFakeServer(products ...domain.Product) *fakeServer {
	f := &fakeServer{catalog: map[string]domain.Product{}, failAdd: map[string]bool{}}
	for _, p := range products {
		f.catalog[p.ID] = p
	}
	return f
}

func (f *fakeServer) GetCart(context.Context) (domain.CartSnapshot, error) {
	if f.getGate != nil {
		<-f.getGate
	}
	f.m.Lock()
	defer f.m.Unlock()
	f.getCalls++
	if f.failGet || f.failAll {
		return domain.CartSnapshot{}, errNetwork
	}
	return f.cart.Clone(), nil
}

func (f *fakeServer) AddCartItem(_ context.Context, productID string, quantity int) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.addCalls++
	f.ops = append(f.ops, "add:"+productID)
	if f.failAll || f.failAdd[productID] {
		return errNetwork
	}
	f.cart = Reduce(f.cart, Add(f.catalog[productID], quantity))
	return nil
}

func (f *fakeServer) UpdateCartItem(_ context.Context, productID string, quantity int) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.ops = append(f.ops, "update:"+productID)
	if f.failAll {
		return errNetwork
	}
	f.cart = Reduce(f.cart, SetQuantity(productID, quantity))
	return nil
}

func (f *fakeServer) RemoveCartItem(_ context.Context, productID string) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.ops = append(f.ops, "remove:"+productID)
	if f.failAll {
		return errNetwork
	}
	f.cart = Reduce(f.cart, Remove(productID))
	return nil
}

func (f *fakeServer) calls() int {
	f.m.Lock()
	defer f.m.Unlock()
	return len(f.ops) + f.getCalls
}

type failingLocal struct{}

func (failingLocal) LoadCart(context.Context) (domain.CartSnapshot, error) {
	return domain.CartSnapshot{}, errors.New("disk gone")
}
func (failingLocal) SaveCart(context.Context, domain.CartSnapshot) error {
	return errors.New("disk gone")
}
func (failingLocal) ClearCart(context.Context) error { return errors.New("disk gone") }
