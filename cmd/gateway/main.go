package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/config"
	h "github.com/ramesh9813/bagshop-client-sub000/internal/http"
	"github.com/ramesh9813/bagshop-client-sub000/internal/localstore"
	"github.com/ramesh9813/bagshop-client-sub000/internal/poller"
	"github.com/ramesh9813/bagshop-client-sub000/internal/session"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("BAGSHOP_CONFIG"))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Service:     "bagshop-gateway",
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, err := localstore.Open(ctx, localstore.OpenOptions{
		Driver:        cfg.Store.Driver,
		SQLitePath:    cfg.Store.SQLitePath,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		TTL:           cfg.Redis.TTLDuration(),
	})
	if err != nil {
		return err
	}
	defer kv.Close()

	clientOpts := client.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.TimeoutDuration(),
		Breaker: client.NewBreaker(log),
		Logger:  log,
	}
	registry := session.NewRegistry(session.NewFactory(kv, clientOpts, log), cfg.HTTP.SessionIdleTTLDuration(), log)
	defer registry.Close()

	var (
		notifier h.CheckoutNotifier
		wg       sync.WaitGroup
	)
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := poller.NewPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		defer publisher.Close()
		notifier = publisher

		p := poller.NewPoller(registry, log, cfg.Kafka.Topic, cfg.Kafka.GroupID, cfg.Kafka.Brokers...)
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run(ctx)
		}()
		defer p.Close()
		log.Info("checkout events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	router := h.NewRouter(h.RouterConfig{
		Registry:       registry,
		Notifier:       notifier,
		RequestTimeout: cfg.HTTP.RequestTimeoutDuration(),
		SecureCookies:  cfg.HTTP.SecureCookies,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      otelhttp.NewHandler(router, "bagshop-gateway"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeoutDuration() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("gateway starting",
			zap.String("addr", srv.Addr),
			zap.String("api", cfg.API.BaseURL),
			zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case <-quit:
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeoutDuration())
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("server forced to shutdown: %w", err)
	}
	cancel()
	wg.Wait()

	log.Info("server exited")
	return runErr
}
