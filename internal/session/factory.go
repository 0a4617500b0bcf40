package session

import (
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/cart"
	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
	"github.com/ramesh9813/bagshop-client-sub000/internal/localstore"
)

// NewFactory builds sessions that each own a REST client (and so a cookie jar)
// and keep their local state in kv under the session id. Set opts.Breaker so all
// sessions share one breaker.
func NewFactory(kv localstore.KV, opts client.Options, log *zap.Logger) Factory {
	return func(sessionID string) (*Session, error) {
		c, err := client.New(opts)
		if err != nil {
			return nil, err
		}
		local := localstore.New(kv, sessionID)
		sessLog := log
		if sessLog != nil {
			sessLog = sessLog.With(zap.String("session", sessionID))
		}
		svc := cart.NewService(cart.NewStore(), local, c, sessLog)
		return &Session{Manager: NewManager(c, local, svc, sessLog), Client: c}, nil
	}
}
