package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/pkg/logger"
)

const (
	// DefaultIdleTTL is how long an unused session stays in memory.
	DefaultIdleTTL = 30 * time.Minute
	// CleanupInterval is how often idle sessions are evicted.
	CleanupInterval = time.Minute
)

// Session is one gateway session: its manager plus the REST client that carries
// the session's credential cookies.
type Session struct {
	*Manager
	Client *client.Client
}

// Factory builds the session for an id. Its local store should be namespaced by
// the id so an evicted session can be restored later.
type Factory func(sessionID string) (*Session, error)

type entry struct {
	mu       sync.Mutex
	session  *Session
	lastSeen time.Time
}

// Registry holds one Session per gateway session id. Each session is used by one
// request at a time.
type Registry struct {
	factory Factory
	idleTTL time.Duration
	now     func() time.Time
	log     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*entry

	stopCleanup chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

func NewRegistry(factory Factory, idleTTL time.Duration, log *zap.Logger) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	r := &Registry{
		factory:     factory,
		idleTTL:     idleTTL,
		now:         time.Now,
		log:         logger.OrNop(log),
		sessions:    make(map[string]*entry),
		stopCleanup: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.cleanupLoop()

	return r
}

func (r *Registry) cleanupLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.stopCleanup:
			return
		}
	}
}

// Acquire returns the session locked for exclusive use. The caller must
// call release when done. A session seen for the first time is restored from its
// local store.
func (r *Registry) Acquire(ctx context.Context, sessionID string) (*Session, func(), error) {
	e := r.lockEntry(sessionID)
	if e.session == nil {
		sess, err := r.factory(sessionID)
		if err != nil {
			// detach before unlocking so waiters retry the lookup
			r.drop(sessionID, e)
			e.mu.Unlock()
			return nil, nil, fmt.Errorf("create session: %w", err)
		}
		if _, err := sess.Restore(ctx); err != nil {
			logger.WithContext(ctx, r.log).Warn("session restore incomplete", zap.String("session", sessionID), zap.Error(err))
		}
		e.session = sess
	}

	release := func() {
		r.mu.Lock()
		e.lastSeen = r.now()
		r.mu.Unlock()
		e.mu.Unlock()
	}
	return e.session, release, nil
}

// lockEntry returns the registered entry for id with its mutex held. An entry
// dropped or evicted while we waited for its lock is detached from the map, so
// the lookup starts over.
func (r *Registry) lockEntry(id string) *entry {
	for {
		r.mu.Lock()
		e, ok := r.sessions[id]
		if !ok {
			e = &entry{}
			r.sessions[id] = e
		}
		e.lastSeen = r.now()
		r.mu.Unlock()

		e.mu.Lock()
		r.mu.Lock()
		live := r.sessions[id] == e
		r.mu.Unlock()
		if live {
			return e
		}
		e.mu.Unlock()
	}
}

// ResetUser empties the cart of every live session signed in as userID and returns
// how many were reset.
func (r *Registry) ResetUser(ctx context.Context, userID string) int {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.sessions))
	for _, e := range r.sessions {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	reset := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.session != nil {
			if u := e.session.User(); u != nil && u.ID == userID {
				e.session.Cart().Reset(ctx)
				reset++
			}
		}
		e.mu.Unlock()
	}
	return reset
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) evictIdle() {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.sessions {
		if e.lastSeen.After(cutoff) {
			continue
		}
		// skip sessions that are in use right now
		if !e.mu.TryLock() {
			continue
		}
		delete(r.sessions, id)
		e.mu.Unlock()
		evicted++
	}
	if evicted > 0 {
		r.log.Debug("idle sessions evicted", zap.Int("count", evicted), zap.Int("remaining", len(r.sessions)))
	}
}

func (r *Registry) drop(id string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[id] == e {
		delete(r.sessions, id)
	}
}

// Close stops the background cleanup and waits for it to finish.
func (r *Registry) Close() error {
	r.closeOnce.Do(func() { close(r.stopCleanup) })
	r.wg.Wait()
	return nil
}
