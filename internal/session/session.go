package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xuefei993/renewables/internal/calc"
	"github.com/xuefei993/renewables/internal/catalog"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/request"
	"github.com/xuefei993/renewables/internal/store"
	"github.com/xuefei993/renewables/internal/subsidy"
)

// Session is one user's comparison: its configurations and applied subsidies.
// Nothing is persisted; a session lives until it is deleted or idles out.
type Session struct {
	ID        string
	CreatedAt time.Time
	Profile   model.UserProfile
	Flags     model.EquipmentFlags
	Store     *store.Store
	Subsidies *subsidy.Ledger

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// ClientFactory returns the calculation client for a session's catalog.
type ClientFactory func(cat *model.Catalog) calc.Client

// Registry creates and tracks sessions.
type Registry struct {
	source    catalog.Source
	newClient ClientFactory
	timeout   time.Duration
	ttl       time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	stop chan struct{}
	once sync.Once
}

// NewRegistry starts a registry whose idle sessions expire after ttl. callTimeout bounds
// each calculation call (zero for none).
func NewRegistry(source catalog.Source, newClient ClientFactory, ttl, callTimeout time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	r := &Registry{
		source:    source,
		newClient: newClient,
		timeout:   callTimeout,
		ttl:       ttl,
		sessions:  make(map[string]*Session),
		stop:      make(chan struct{}),
	}
	go r.cleanup()
	return r
}

// Create loads the catalog for the requested categories and initializes the
// recommended configurations.
func (r *Registry) Create(ctx context.Context, profile model.UserProfile, flags model.EquipmentFlags) (*Session, error) {
	cat, err := catalog.Load(ctx, r.source, flags)
	if err != nil {
		return nil, err
	}

	st := store.New(r.newClient(cat), request.NewBuilder(profile, flags), store.WithTimeout(r.timeout))
	if err := st.Initialize(cat); err != nil {
		st.Close()
		return nil, fmt.Errorf("initialize configurations: %w", err)
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Profile:   profile,
		Flags:     flags,
		Store:     st,
		Subsidies: subsidy.NewLedger(),
		lastSeen:  now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	log.Printf("[Session] Created %s (solar=%v heatPump=%v battery=%v)", s.ID, flags.SolarPanels, flags.HeatPump, flags.BatteryStorage)
	return s, nil
}

// Get returns a live session and marks it as recently used.
func (r *Registry) Get(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(time.Now())
	}
	return s, ok
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Store.Close()
		log.Printf("[Session] Deleted %s", id)
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops expiry and closes every session.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.stop) })
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Store.Close()
	}
}

func (r *Registry) cleanup() {
	every := r.ttl / 4
	if every > 5*time.Minute {
		every = 5 * time.Minute
	}
	if every < time.Second {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.expire(now)
		}
	}
}

func (r *Registry) expire(now time.Time) int {
	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if now.Sub(s.idleSince()) > r.ttl {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Store.Close()
		log.Printf("[Session] Expired %s", s.ID)
	}
	return len(expired)
}
