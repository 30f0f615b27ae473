// internal/store/memory.go
//
// In-memory implementation of the game.SessionStore interface.
// Sessions are ephemeral: state is lost when the process restarts.
//
// Characteristics:
//   - Sessions keyed by ID in a map guarded by an RWMutex.
//   - Each entry has its own mutex, so Update serializes guesses on one
//     session without blocking others.
//   - Callers only ever see clones; a failed Update commits nothing.
//   - Sessions idle for longer than the TTL are dropped, lazily on access
//     and in bulk by Reap (driven by Run).

package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gameshub/wordme/internal/apperr"
	"github.com/gameshub/wordme/internal/game"
)

var errNotFound = apperr.New(apperr.NotFound, "game not found")

type entry struct {
	mu      sync.Mutex
	sess    *game.Session
	touched time.Time
	evicted bool
}

// Memory is a concurrency-safe map-based game.SessionStore.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl time.Duration // 0 disables eviction
	now func() time.Time
}

// NewMemory constructs an empty store. Sessions untouched for longer than
// idleTTL are evicted; idleTTL <= 0 keeps them forever.
func NewMemory(idleTTL time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]*entry),
		ttl:     idleTTL,
		now:     time.Now,
	}
}

var _ game.SessionStore = (*Memory)(nil)

// Create adds s. Reusing an existing id is a conflict.
func (m *Memory) Create(_ context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[s.ID]; ok {
		return apperr.New(apperr.Conflict, "game id already in use")
	}
	m.entries[s.ID] = &entry{sess: s.Clone(), touched: m.now()}
	return nil
}

// Get returns a copy of the session.
func (m *Memory) Get(_ context.Context, id string) (*game.Session, error) {
	e := m.lookup(id)
	if e == nil {
		return nil, errNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted || m.expired(e) {
		m.drop(id, e)
		return nil, errNotFound
	}
	e.touched = m.now()
	return e.sess.Clone(), nil
}

// Update runs fn on a copy of the session while holding the session's lock
// and commits the copy only if fn succeeds.
func (m *Memory) Update(_ context.Context, id string, fn func(*game.Session) error) (*game.Session, error) {
	e := m.lookup(id)
	if e == nil {
		return nil, errNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted || m.expired(e) {
		m.drop(id, e)
		return nil, errNotFound
	}

	next := e.sess.Clone()
	if err := fn(next); err != nil {
		e.touched = m.now()
		return nil, err
	}
	e.sess = next
	e.touched = m.now()
	return next.Clone(), nil
}

// Len returns the number of stored sessions, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Reap evicts every session idle since before now-ttl and returns how many
// were removed. Sessions busy in Update are skipped until the next pass.
func (m *Memory) Reap(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.entries {
		if !e.mu.TryLock() {
			continue
		}
		if now.Sub(e.touched) > m.ttl {
			e.evicted = true
			delete(m.entries, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// Run calls Reap every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) error {
	if m.ttl <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			if n := m.Reap(now); n > 0 {
				log.Debug().Int("evicted", n).Int("remaining", m.Len()).Msg("idle games reaped")
			}
		}
	}
}

func (m *Memory) lookup(id string) *entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[id]
}

func (m *Memory) expired(e *entry) bool {
	return m.ttl > 0 && m.now().Sub(e.touched) > m.ttl
}

// drop removes e from the map. Caller holds e.mu.
func (m *Memory) drop(id string, e *entry) {
	e.evicted = true
	m.mu.Lock()
	if m.entries[id] == e {
		delete(m.entries, id)
	}
	m.mu.Unlock()
}
