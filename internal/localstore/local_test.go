package localstore

import (
	"context"
	"testing"

	"github.com/ramesh9813/bagshop-client-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_CartRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := New(setupTestSQLite(t), "cli")

	empty, err := l.LoadCart(ctx)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	snap := domain.CartSnapshot{Items: []domain.CartLine{
		{Product: domain.Product{ID: "p1", Name: "Tote", Price: 1200, Stock: 4}, Quantity: 2},
	}}
	require.NoError(t, l.SaveCart(ctx, snap))

	got, err := l.LoadCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	require.NoError(t, l.ClearCart(ctx))
	got, err = l.LoadCart(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestLocal_ProfileMissing(t *testing.T) {
	l := New(NewMemoryKV(), "")

	u, err := l.LoadProfile(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, u)
}

func TestLocal_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a, b := New(kv, "a"), New(kv, "b")

	require.NoError(t, a.SaveProfile(ctx, &domain.User{ID: "u1", Name: "Asha"}))
	require.NoError(t, a.SaveCookies(ctx, []Cookie{{Name: "token", Value: "t"}}))

	_, err := b.LoadProfile(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	u, err := a.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)

	cookies, err := a.LoadCookies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Cookie{{Name: "token", Value: "t"}}, cookies)

	require.NoError(t, a.ClearProfile(ctx))
	require.NoError(t, a.ClearCookies(ctx))
	cookies, err = a.LoadCookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestLocal_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "x:cart", []byte("not json")))

	_, err := New(kv, "x").LoadCart(ctx)
	assert.Error(t, err)
}
