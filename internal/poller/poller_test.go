package poller

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// chanReader hands out queued messages and then blocks until ctx is done.
type chanReader struct {
	msgs   chan kafka.Message
	errs   chan error
	closed bool
}

func newChanReader() *chanReader {
	return &chanReader{msgs: make(chan kafka.Message, 16), errs: make(chan error, 4)}
}

func (r *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case err := <-r.errs:
		return kafka.Message{}, err
	default:
	}
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) Close() error {
	r.closed = true
	return nil
}

type recordingResetter struct {
	mu    sync.Mutex
	users []string
}

func (r *recordingResetter) ResetUser(_ context.Context, userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	return 1
}

func (r *recordingResetter) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.users...)
}

func eventMessage(t *testing.T, e Event) kafka.Message {
	t.Helper()
	value, err := json.Marshal(e)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestPoller_ResetsUserOnCheckoutCompleted(t *testing.T) {
	defer goleak.VerifyNone(t)

	reader := newChanReader()
	resetter := &recordingResetter{}
	p := newPoller(reader, resetter, nil)

	reader.msgs <- eventMessage(t, Event{CheckoutID: "c1", UserID: "u1"})
	reader.msgs <- kafka.Message{Value: []byte("{not json")}
	reader.msgs <- eventMessage(t, Event{CheckoutID: "c2"})
	reader.msgs <- eventMessage(t, Event{CheckoutID: "c3", UserID: "u2"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	require.Eventually(t, func() bool { return len(resetter.seen()) == 2 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
	p.Close()

	assert.Equal(t, []string{"u1", "u2"}, resetter.seen())
	assert.True(t, reader.closed)
}

func TestPoller_ProcessMessageErrors(t *testing.T) {
	reader := newChanReader()
	p := newPoller(reader, &recordingResetter{}, nil)
	p.backoff = time.Millisecond
	ctx := context.Background()

	reader.errs <- errors.New("broker gone")
	assert.ErrorContains(t, p.processMessage(ctx), "broker gone")

	reader.msgs <- eventMessage(t, Event{CheckoutID: "c1"})
	assert.ErrorIs(t, p.processMessage(ctx), errMissingUser)
}

func TestReaderConfig_GroupPerReplica(t *testing.T) {
	a := readerConfig("", "", []string{"k1:9092"})
	b := readerConfig("", "", []string{"k1:9092"})

	assert.Equal(t, DefaultTopic, a.Topic)
	assert.NotEqual(t, a.GroupID, b.GroupID, "replicas sharing a group would split the events")
	assert.True(t, strings.HasPrefix(a.GroupID, DefaultGroupID+"-"))
	assert.Equal(t, kafka.LastOffset, a.StartOffset)

	named := readerConfig("orders", "gw-1", nil)
	assert.Equal(t, "gw-1", named.GroupID)
	assert.Equal(t, "orders", named.Topic)
}

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := &Publisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), Event{CheckoutID: "o1", UserID: "u1"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("u1"), w.msgs[0].Key)
	assert.JSONEq(t, `{"checkout_id":"o1","user_id":"u1"}`, string(w.msgs[0].Value))

	w.err = errors.New("no leader")
	assert.ErrorContains(t, p.Publish(context.Background(), Event{UserID: "u1"}), "no leader")
}
