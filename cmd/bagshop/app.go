package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/cart"
	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/config"
	"github.com/ramesh9813/bagshop-client-sub000/internal/localstore"
	"github.com/ramesh9813/bagshop-client-sub000/internal/session"
	"github.com/ramesh9813/bagshop-client-sub000/internal/tablesort"
)

// app is the CLI's wiring: one session restored from the local store.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	kv      localstore.KV
	client  *client.Client
	session *session.Manager
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	kv, err := localstore.Open(ctx, localstore.OpenOptions{
		Driver:        cfg.Store.Driver,
		SQLitePath:    cfg.Store.SQLitePath,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		TTL:           cfg.Redis.TTLDuration(),
	})
	if err != nil {
		return nil, err
	}

	c, err := client.New(client.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.TimeoutDuration(),
		Logger:  log,
	})
	if err != nil {
		kv.Close()
		return nil, err
	}

	local := localstore.New(kv, cfg.Store.Namespace)
	svc := cart.NewService(cart.NewStore(), local, c, log)
	m := session.NewManager(c, local, svc, log)
	if _, err := m.Restore(ctx); err != nil {
		log.Warn("session restore incomplete", zap.Error(err))
	}

	a := &app{cfg: cfg, log: log, kv: kv, client: c, session: m}
	a.loadOrderSort(ctx)
	return a, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.log.Warn("store close error", zap.Error(err))
	}
}

func (a *app) cart() *cart.Service {
	return a.session.Cart()
}

func (a *app) sortKey() string {
	return a.cfg.Store.Namespace + ":admin-order-sort"
}

// the admin order table's sort state survives between invocations
func (a *app) loadOrderSort(ctx context.Context) {
	data, err := a.kv.Get(ctx, a.sortKey())
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			a.log.Warn("sort state load error", zap.Error(err))
		}
		return
	}
	var st tablesort.State
	if err := json.Unmarshal(data, &st); err != nil {
		a.log.Warn("sort state corrupt", zap.Error(err))
		return
	}
	*a.session.OrderSort() = st
}

func (a *app) saveOrderSort(ctx context.Context) error {
	data, err := json.Marshal(a.session.OrderSort())
	if err != nil {
		return fmt.Errorf("failed to marshal sort state: %w", err)
	}
	return a.kv.Set(ctx, a.sortKey(), data)
}
