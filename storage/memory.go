package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps decisions in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	decisions []*Decision
	closed    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record fills in ID and DecidedAt when they are unset.
func (s *MemoryStore) Record(ctx context.Context, d *Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now()
	}
	stored := *d
	stored.ActionSpace = append([]string(nil), d.ActionSpace...)
	s.decisions = append(s.decisions, &stored)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, battleID string) ([]*Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	var out []*Decision
	for _, d := range s.decisions {
		if d.BattleID == battleID {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.decisions = nil
	return nil
}
