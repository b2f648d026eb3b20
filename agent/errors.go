package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedPolicy is returned when an agent is built without a policy.
var ErrUnsupportedPolicy = errors.New("agent: no policy supplied")

// ProtocolError carries the message of an |error| line from the simulator.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "simulator error: " + e.Message
}

// InvalidActionError means a policy picked a choice outside the action space.
type InvalidActionError struct {
	Action      string
	ActionSpace []string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action: %q not in [%s]", e.Action, strings.Join(e.ActionSpace, ", "))
}
