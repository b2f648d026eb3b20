// Package policy provides action selection strategies for the agent
package policy

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"showdown-agent/agent"
	"showdown-agent/data"
)

// ErrNoActions is returned when a policy is asked to choose from nothing.
var ErrNoActions = errors.New("policy: empty action space")

// First always picks the first legal action.
type First struct{}

func (First) Act(ctx context.Context, view agent.View, actions []string) (string, error) {
	if len(actions) == 0 {
		return "", ErrNoActions
	}
	return actions[0], nil
}

// Fixed always answers with the same action, legal or not.
type Fixed string

func (f Fixed) Act(ctx context.Context, view agent.View, actions []string) (string, error) {
	return string(f), nil
}

// Random picks uniformly among the legal actions.
type Random struct {
	rng *rand.Rand
}

// NewRandom seeds the generator; a zero seed uses the current time.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) Act(ctx context.Context, view agent.View, actions []string) (string, error) {
	if len(actions) == 0 {
		return "", ErrNoActions
	}
	return actions[p.rng.Intn(len(actions))], nil
}

// ByName builds one of the named policies: first, random or greedy.
func ByName(name string, seed int64, dex *data.Dex) (agent.Policy, error) {
	switch name {
	case "first":
		return First{}, nil
	case "random":
		return NewRandom(seed), nil
	case "greedy":
		return NewGreedy(dex), nil
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}
