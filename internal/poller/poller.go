// Package poller consumes checkout-completed events and empties the carts of the
// sessions they belong to.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

const (
	DefaultTopic = "checkout-completed"
	// DefaultGroupID prefixes the per-replica consumer group.
	DefaultGroupID = "bagshop-gateway"
)

// Event is the checkout-completed message body.
type Event struct {
	CheckoutID string `json:"checkout_id"`
	UserID     string `json:"user_id"`
}

// Resetter empties every cart held for a user.
type Resetter interface {
	ResetUser(ctx context.Context, userID string) int
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Poller struct {
	reader   messageReader
	resetter Resetter
	log      *zap.Logger
	backoff  time.Duration
}

// NewPoller reads topic in consumer group groupID. Every replica must see every
// event, so groupID has to be unique per replica; empty picks a fresh one.
func NewPoller(resetter Resetter, log *zap.Logger, topic, groupID string, brokers ...string) *Poller {
	reader := kafka.NewReader(readerConfig(topic, groupID, brokers))
	return newPoller(reader, resetter, log)
}

func readerConfig(topic, groupID string, brokers []string) kafka.ReaderConfig {
	if topic == "" {
		topic = DefaultTopic
	}
	if groupID == "" {
		groupID = ReplicaGroupID()
	}
	return kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
		// a new group must not replay checkouts that happened before it joined
		StartOffset: kafka.LastOffset,
		MaxBytes:    10e6, // 10MB
	}
}

// ReplicaGroupID returns a consumer group id no other replica shares.
func ReplicaGroupID() string {
	return DefaultGroupID + "-" + uuid.NewString()
}

func newPoller(reader messageReader, resetter Resetter, log *zap.Logger) *Poller {
	return &Poller{
		reader:   reader,
		resetter: resetter,
		log:      logger.OrNop(log),
		backoff:  time.Second,
	}
}

// Run reads until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := p.processMessage(ctx); err != nil && ctx.Err() == nil {
			p.log.Warn("checkout event skipped", zap.Error(err))
		}
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Error("error closing reader", zap.Error(err))
	}
}

var errMissingUser = errors.New("missing user_id")

func (p *Poller) processMessage(ctx context.Context) error {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// a broken broker would otherwise spin
		select {
		case <-ctx.Done():
		case <-time.After(p.backoff):
		}
		return fmt.Errorf("error reading message: %w", err)
	}

	var event Event
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return fmt.Errorf("error parsing message at offset %d: %w", m.Offset, err)
	}
	if event.UserID == "" {
		return fmt.Errorf("offset %d: %w", m.Offset, errMissingUser)
	}

	reset := p.resetter.ResetUser(ctx, event.UserID)
	logger.WithContext(ctx, p.log).Info("checkout completed",
		zap.String("checkout_id", event.CheckoutID),
		zap.String("user_id", event.UserID),
		zap.Int("sessions_reset", reset))
	return nil
}
