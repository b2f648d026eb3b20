package agent

import "fmt"

// Phase tracks which of the two signals that open a decision cycle are
// still missing for the current turn.
type Phase int

const (
	NeedBoth Phase = iota
	NeedUpdate
	NeedRequest
	Ready
)

func (p Phase) String() string {
	switch p {
	case NeedBoth:
		return "need-both"
	case NeedUpdate:
		return "need-update"
	case NeedRequest:
		return "need-request"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) withUpdate() Phase {
	switch p {
	case NeedBoth:
		return NeedRequest
	case NeedUpdate:
		return Ready
	}
	return p
}

func (p Phase) withRequest() Phase {
	switch p {
	case NeedBoth:
		return NeedUpdate
	case NeedRequest:
		return Ready
	}
	return p
}
