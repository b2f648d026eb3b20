// Package storage keeps a record of the choices an agent sent.
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrClosed = errors.New("storage: store closed")

// Decision is one completed decision cycle.
type Decision struct {
	ID          string    `json:"id"`
	BattleID    string    `json:"battle_id"`
	Turn        int       `json:"turn"`
	RequestID   int       `json:"rqid"`
	ActionSpace []string  `json:"action_space"`
	Action      string    `json:"action"`
	DecidedAt   time.Time `json:"decided_at"`
}

// Recorder receives each decision after it was written to the stream.
type Recorder interface {
	Record(ctx context.Context, d *Decision) error
}

// Store is a Recorder that can be queried.
type Store interface {
	Recorder
	// List returns the decisions for a battle in the order they were made.
	List(ctx context.Context, battleID string) ([]*Decision, error)
	Close() error
}
