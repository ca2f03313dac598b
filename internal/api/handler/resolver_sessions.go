package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/martijn/stockpoint/internal/adapter/notify"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/resolver"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an untouched resolver session is kept.
const DefaultSessionTTL = 30 * time.Minute

type resolverSession struct {
	resolver *resolver.Resolver
	recorder *notify.Recorder
	cancel   context.CancelFunc
	ctx      context.Context
	lastUsed time.Time
}

// ResolverSessions keeps one resolver per API session. Each session owns a
// context that bounds its background searches and ends with the session.
type ResolverSessions struct {
	store resolver.ClientStore
	log   *zap.Logger
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*resolverSession
}

func NewResolverSessions(store resolver.ClientStore, ttl time.Duration, log *zap.Logger) *ResolverSessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &ResolverSessions{
		store:    store,
		log:      log,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*resolverSession),
	}
}

// Open starts a new session and returns its id.
func (m *ResolverSessions) Open() (string, *resolverSession) {
	id := uuid.New().String()
	log := m.log.With(zap.String("session_id", id))

	ctx, cancel := context.WithCancel(context.Background())
	recorder := notify.NewRecorder()
	onSelect := func(c *domain.Client) {
		if c == nil {
			log.Debug("resolver selection cleared")
			return
		}
		log.Debug("resolver selected client", zap.Int64("client_id", c.ID))
	}

	s := &resolverSession{
		resolver: resolver.New(m.store, notify.Fanout{recorder, notify.NewLog(log)}, onSelect, log),
		recorder: recorder,
		ctx:      ctx,
		cancel:   cancel,
		lastUsed: m.now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	return id, s
}

// Get returns a live session and marks it used.
func (m *ResolverSessions) Get(id string) (*resolverSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if ok {
		s.lastUsed = m.now()
	}
	return s, ok
}

// Close ends a session. It reports whether the session existed.
func (m *ResolverSessions) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.cancel()
	}
	return ok
}

// Len returns the number of live sessions.
func (m *ResolverSessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were closed.
func (m *ResolverSessions) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*resolverSession
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.cancel()
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done, then closes every session.
func (m *ResolverSessions) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.Info("expired idle resolver sessions", zap.Int("count", n))
			}
		}
	}
}

func (m *ResolverSessions) closeAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*resolverSession)
	m.mu.Unlock()

	for _, s := range sessions {
		s.cancel()
	}
}
