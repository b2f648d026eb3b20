package game

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func team(activeSlot int, fainted ...int) []PokemonStatus {
	pokemon := make([]PokemonStatus, TeamSize)
	for i := range pokemon {
		pokemon[i] = PokemonStatus{Condition: "100/100", Active: i+1 == activeSlot}
	}
	for _, slot := range fainted {
		pokemon[slot-1].Condition = "0 fnt"
	}
	return pokemon
}

func fourMoves(disabled ...int) []MoveSlot {
	moves := make([]MoveSlot, MaxMoves)
	for _, slot := range disabled {
		moves[slot-1].Disabled = true
	}
	return moves
}

func TestActionSpace_ForceSwitch(t *testing.T) {
	req := &Request{ForceSwitch: true, Side: Side{Pokemon: team(1, 3)}}

	assert.Equal(t, []string{"switch 2", "switch 4", "switch 5", "switch 6"}, ActionSpace(req))
}

func TestActionSpace_ForceSwitchIgnoresMoves(t *testing.T) {
	req := &Request{
		ForceSwitch: true,
		Side:        Side{Pokemon: team(2)},
		Active:      []ActiveMoveSet{{Moves: fourMoves(), CanMegaEvo: true}},
	}

	for _, action := range ActionSpace(req) {
		assert.True(t, strings.HasPrefix(action, "switch "), action)
	}
	assert.NotContains(t, ActionSpace(req), "switch 2")
}

func TestActionSpace_FaintedActiveIsNotASwitchTarget(t *testing.T) {
	req := &Request{ForceSwitch: true, Side: Side{Pokemon: team(1, 1)}}

	assert.Equal(t, []string{"switch 2", "switch 3", "switch 4", "switch 5", "switch 6"}, ActionSpace(req))
}

func TestActionSpace_NoSwitchTargets(t *testing.T) {
	req := &Request{ForceSwitch: true, Side: Side{Pokemon: team(1, 2, 3, 4, 5, 6)}}

	got := ActionSpace(req)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestActionSpace_MovesAndSwitches(t *testing.T) {
	req := &Request{
		Side:   Side{Pokemon: team(1)},
		Active: []ActiveMoveSet{{Moves: fourMoves(2)}},
	}

	want := []string{
		"move 1", "move 3", "move 4",
		"switch 2", "switch 3", "switch 4", "switch 5", "switch 6",
	}
	assert.Equal(t, want, ActionSpace(req))
}

func TestActionSpace_ZMovesIgnoreDisabled(t *testing.T) {
	req := &Request{
		Side: Side{Pokemon: team(1)},
		Active: []ActiveMoveSet{{
			Moves:    fourMoves(1, 2),
			CanZMove: ZMoves{true, false, true, false},
		}},
	}

	want := []string{
		"move 3", "move 4",
		"move 1 zmove", "move 3 zmove",
		"switch 2", "switch 3", "switch 4", "switch 5", "switch 6",
	}
	assert.Equal(t, want, ActionSpace(req))
}

func TestActionSpace_MegaThenZMove(t *testing.T) {
	req := &Request{
		Side: Side{Pokemon: team(1, 2, 3, 4, 5)},
		Active: []ActiveMoveSet{{
			Moves:      fourMoves(2),
			CanMegaEvo: true,
			CanZMove:   ZMoves{true, false, true, false},
		}},
	}

	want := []string{
		"move 1", "move 3", "move 4",
		"move 1 mega", "move 3 mega", "move 4 mega",
		"move 1 zmove", "move 3 zmove",
		"switch 6",
	}
	assert.Equal(t, want, ActionSpace(req))
}

func TestActionSpace_FewerThanFourMoves(t *testing.T) {
	req := &Request{
		Side: Side{Pokemon: team(1, 2, 3, 4, 5, 6)},
		Active: []ActiveMoveSet{{
			Moves:    []MoveSlot{{}, {}},
			CanZMove: ZMoves{false, true, true, true},
		}},
	}

	// z-move indices follow the canZMove slice, not the move count
	assert.Equal(t, []string{"move 1", "move 2", "move 2 zmove", "move 3 zmove", "move 4 zmove"}, ActionSpace(req))
}

func TestActionSpace_MoreThanFourMovesIsCapped(t *testing.T) {
	req := &Request{
		Side:   Side{Pokemon: team(1, 2, 3, 4, 5, 6)},
		Active: []ActiveMoveSet{{Moves: make([]MoveSlot, 6)}},
	}

	assert.Equal(t, []string{"move 1", "move 2", "move 3", "move 4"}, ActionSpace(req))
}

func TestActionSpace_Wait(t *testing.T) {
	got := ActionSpace(&Request{Wait: true, Side: Side{Pokemon: team(1)}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestActionSpace_DefaultFallback(t *testing.T) {
	assert.Equal(t, []string{"default"}, ActionSpace(&Request{TeamPreview: true, Side: Side{Pokemon: team(0)}}))
	assert.Equal(t, []string{"default"}, ActionSpace(&Request{}))
	assert.Equal(t, []string{"default"}, ActionSpace(nil))
}

func TestActionSpace_Idempotent(t *testing.T) {
	req := &Request{
		Side:   Side{Pokemon: team(3, 5)},
		Active: []ActiveMoveSet{{Moves: fourMoves(4), CanMegaEvo: true, CanZMove: ZMoves{false, true}}},
	}

	first := ActionSpace(req)
	second := ActionSpace(req)
	assert.Equal(t, first, second)

	first[0] = "mutated"
	assert.Equal(t, "move 1", ActionSpace(req)[0])
}

func TestActionSpace_FromSimulatorJSON(t *testing.T) {
	raw := `{"active":[{"moves":[` +
		`{"move":"Thunderbolt","id":"thunderbolt","pp":24,"maxpp":24,"target":"normal","disabled":false},` +
		`{"move":"Volt Tackle","id":"volttackle","pp":24,"maxpp":24,"target":"normal","disabled":"Taunt"},` +
		`{"move":"Grass Knot","id":"grassknot","pp":32,"maxpp":32,"target":"normal","disabled":false},` +
		`{"move":"Surf","id":"surf","pp":24,"maxpp":24,"target":"allAdjacent","disabled":false}],` +
		`"canZMove":[null,{"move":"Catastropika","target":"normal"},null,null]}],` +
		`"side":{"name":"agent","id":"p1","pokemon":[` +
		`{"ident":"p1: Pikachu","details":"Pikachu, L88","condition":"222/222","active":true},` +
		`{"ident":"p1: Snorlax","details":"Snorlax","condition":"0 fnt","active":false},` +
		`{"ident":"p1: Gengar","details":"Gengar","condition":"100/100","active":false},` +
		`{"ident":"p1: Lapras","details":"Lapras","condition":"100/100","active":false},` +
		`{"ident":"p1: Eevee","details":"Eevee","condition":"100/100","active":false},` +
		`{"ident":"p1: Mew","details":"Mew","condition":"100/100","active":false}]},"rqid":7}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	assert.Equal(t, 7, req.RequestID)
	assert.Equal(t, "Pikachu", req.Side.Pokemon[0].Name())

	want := []string{
		"move 1", "move 3", "move 4",
		"move 2 zmove",
		"switch 3", "switch 4", "switch 5", "switch 6",
	}
	assert.Equal(t, want, ActionSpace(&req))
}

func TestActionSpace_ForceSwitchAllFalseSlots(t *testing.T) {
	raw := `{"forceSwitch":[false],"active":[{"moves":[{"move":"Tackle","disabled":false}]}],` +
		`"side":{"id":"p1","pokemon":[` +
		`{"ident":"p1: A","condition":"100/100","active":true},` +
		`{"ident":"p1: B","condition":"100/100","active":false}]},"rqid":4}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	assert.False(t, bool(req.ForceSwitch))
	assert.Equal(t, []string{"move 1", "switch 2"}, ActionSpace(&req))
}

func TestContains(t *testing.T) {
	space := []string{"move 1", "switch 2"}
	assert.True(t, Contains(space, "switch 2"))
	assert.False(t, Contains(space, "switch 3"))
	assert.False(t, Contains(nil, "default"))
}
