// Package protocol classifies lines of the simulator's text protocol.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"showdown-agent/game"
)

// Sigil starts every protocol-relevant line.
const Sigil = "|"

const (
	CmdRequest = "request"
	CmdError   = "error"
)

type Kind int

const (
	// KindOpaque lines do not start with the sigil.
	KindOpaque Kind = iota
	KindOther
	KindBattleUpdate
	KindRequest
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindOther:
		return "other"
	case KindBattleUpdate:
		return "battle-update"
	case KindRequest:
		return "request"
	case KindError:
		return "error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Line struct {
	Raw  string
	Cmd  string
	Rest string
	Kind Kind
}

// CommandSet is the set of commands that report a completed, observable
// game action.
type CommandSet map[string]struct{}

// DefaultUpdateCommands returns move, switch and teampreview. Callers may Add more.
func DefaultUpdateCommands() CommandSet {
	return NewCommandSet("move", "switch", "teampreview")
}

func NewCommandSet(cmds ...string) CommandSet {
	s := make(CommandSet, len(cmds))
	s.Add(cmds...)
	return s
}

func (s CommandSet) Add(cmds ...string) {
	for _, c := range cmds {
		s[c] = struct{}{}
	}
}

func (s CommandSet) Has(cmd string) bool {
	_, ok := s[cmd]
	return ok
}

// Classifier tags lines against a set of battle-update commands.
type Classifier struct {
	updates CommandSet
}

func NewClassifier(updates CommandSet) *Classifier {
	if updates == nil {
		updates = DefaultUpdateCommands()
	}
	return &Classifier{updates: updates}
}

func (c *Classifier) Classify(raw string) Line {
	line := Line{Raw: raw, Kind: KindOpaque}
	if !strings.HasPrefix(raw, Sigil) {
		return line
	}
	line.Cmd, line.Rest = SplitFirst(raw[len(Sigil):], Sigil)
	switch {
	case line.Cmd == CmdRequest:
		line.Kind = KindRequest
	case line.Cmd == CmdError:
		line.Kind = KindError
	case c.updates.Has(line.Cmd):
		line.Kind = KindBattleUpdate
	default:
		line.Kind = KindOther
	}
	return line
}

// Classify uses the default update commands.
func Classify(raw string) Line {
	return defaultClassifier.Classify(raw)
}

var defaultClassifier = NewClassifier(nil)

// SplitLines splits an inbound chunk into its lines. A "\r\n" line ending
// is treated like "\n".
func SplitLines(chunk string) []string {
	lines := strings.Split(chunk, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// SplitFirst splits s around the first sep only. rest is empty when sep is
// absent.
func SplitFirst(s, sep string) (head, rest string) {
	head, rest, _ = strings.Cut(s, sep)
	return head, rest
}

// DecodeError reports a request payload that is not a valid snapshot.
type DecodeError struct {
	Payload string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode request: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func DecodeRequest(payload string) (*game.Request, error) {
	var req game.Request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, &DecodeError{Payload: payload, Err: err}
	}
	return &req, nil
}
