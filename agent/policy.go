package agent

import (
	"context"
	"reflect"

	"showdown-agent/game"
)

// View is what a policy sees when a choice is due. Log and State are owned
// by the agent and must not be modified.
type View struct {
	BattleID string
	Log      []string
	State    *game.BattleState
	Request  *game.Request
}

// Policy picks one action from the legal action space. It may block; the
// agent reads nothing else from the stream until it returns.
type Policy interface {
	Act(ctx context.Context, view View, actions []string) (string, error)
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(ctx context.Context, view View, actions []string) (string, error)

func (f PolicyFunc) Act(ctx context.Context, view View, actions []string) (string, error) {
	if f == nil {
		return "", ErrUnsupportedPolicy
	}
	return f(ctx, view, actions)
}

// isNilPolicy reports a nil interface or a nil value of a nillable type
// wrapped in one, such as a nil PolicyFunc or a nil *Greedy.
func isNilPolicy(p Policy) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
