package game

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TeamSize is the number of team slots a request always describes.
const TeamSize = 6

// MaxMoves is the number of move slots an active pokemon can have.
const MaxMoves = 4

const faintedSuffix = " fnt"

// Request is the snapshot carried by a |request| line.
type Request struct {
	Wait        bool            `json:"wait"`
	ForceSwitch Flag            `json:"forceSwitch"`
	TeamPreview bool            `json:"teamPreview"`
	RequestID   int             `json:"rqid"`
	Side        Side            `json:"side"`
	Active      []ActiveMoveSet `json:"active,omitempty"`
}

type Side struct {
	Name    string          `json:"name"`
	ID      string          `json:"id"`
	Pokemon []PokemonStatus `json:"pokemon"`
}

type PokemonStatus struct {
	Ident     string   `json:"ident"`
	Details   string   `json:"details"`
	Condition string   `json:"condition"`
	Active    bool     `json:"active"`
	Moves     []string `json:"moves,omitempty"`
}

// Fainted matches the literal " fnt" condition suffix.
func (p PokemonStatus) Fainted() bool {
	return strings.HasSuffix(p.Condition, faintedSuffix)
}

// Switchable reports whether the pokemon can be switched in.
func (p PokemonStatus) Switchable() bool {
	return !p.Active && !p.Fainted()
}

// Name is the species part of the ident ("p1: Pikachu" -> "Pikachu").
func (p PokemonStatus) Name() string {
	if _, name, ok := strings.Cut(p.Ident, ": "); ok {
		return name
	}
	return p.Ident
}

type ActiveMoveSet struct {
	Moves      []MoveSlot `json:"moves"`
	CanMegaEvo bool       `json:"canMegaEvo"`
	CanZMove   ZMoves     `json:"canZMove,omitempty"`
}

type MoveSlot struct {
	Move     string `json:"move"`
	ID       string `json:"id"`
	PP       int    `json:"pp"`
	MaxPP    int    `json:"maxpp"`
	Target   string `json:"target"`
	Disabled Flag   `json:"disabled"`
}

// Flag is a boolean that also accepts the simulator's alternate encodings:
// a per-slot array for forceSwitch, true when any slot is true, or a source
// name string for disabled moves.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = false
	case len(b) > 0 && b[0] == '[':
		var vals []bool
		if err := json.Unmarshal(b, &vals); err != nil {
			return err
		}
		*f = false
		for _, v := range vals {
			if v {
				*f = true
				break
			}
		}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flag(s != "")
	default:
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Flag(v)
	}
	return nil
}

// ZMoves holds one entry per move slot; nil means z-moves are unavailable.
// The simulator sends either booleans or per-slot objects (null for slots
// without a z-move), so any non-null, non-false entry counts as usable.
type ZMoves []bool

func (z *ZMoves) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*z = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(ZMoves, len(raw))
	for i, r := range raw {
		switch string(bytes.TrimSpace(r)) {
		case "null", "false", "0", `""`, "":
		default:
			out[i] = true
		}
	}
	*z = out
	return nil
}
