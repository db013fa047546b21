// internal/store/memory.go
//
// In-memory registry of active rounds.
// Characteristics:
//   - Stores *game.Round values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Prune drops rounds older than a cutoff so abandoned games do not pile up.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Joker666/nyt-connections-clone/internal/game"
)

var ErrNotFound = errors.New("not found")

// Store defines the registry interface for rounds.
type Store interface {
	// Save adds or replaces a round.
	Save(ctx context.Context, r *game.Round) error

	// Get retrieves a round by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Round, error)

	// Prune removes rounds created before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

type memory struct {
	mu     sync.RWMutex
	rounds map[string]*game.Round
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]*game.Round)}
}

func (m *memory) Save(ctx context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, r := range m.rounds {
		if r.CreatedAt.Before(cutoff) {
			delete(m.rounds, id)
			n++
		}
	}
	return n, nil
}
