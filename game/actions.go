package game

import "fmt"

// DefaultAction is sent for request shapes that have no enumerated choices.
const DefaultAction = "default"

// ActionSpace returns the legal choices for a single-active-slot request, in
// a fixed order: moves, mega variants, z-move variants, then switches.
// Forced switches yield only switches and a waiting request yields nothing.
func ActionSpace(req *Request) []string {
	switch {
	case req == nil:
		return []string{DefaultAction}
	case bool(req.ForceSwitch):
		return switchActions(req.Side.Pokemon, nil)
	case len(req.Active) > 0:
		return moveActions(req)
	case req.Wait:
		return []string{}
	}
	return []string{DefaultAction}
}

// Contains reports whether action is one of the choices in space.
func Contains(space []string, action string) bool {
	for _, a := range space {
		if a == action {
			return true
		}
	}
	return false
}

func moveActions(req *Request) []string {
	active := req.Active[0]
	var actions []string

	var usable []int
	for i := 1; i <= min(MaxMoves, len(active.Moves)); i++ {
		if !active.Moves[i-1].Disabled {
			usable = append(usable, i)
		}
	}
	for _, i := range usable {
		actions = append(actions, fmt.Sprintf("move %d", i))
	}
	if active.CanMegaEvo {
		for _, i := range usable {
			actions = append(actions, fmt.Sprintf("move %d mega", i))
		}
	}
	// z-move availability ignores the slot's own disabled flag
	if active.CanZMove != nil {
		for i := 1; i <= min(MaxMoves, len(active.CanZMove)); i++ {
			if active.CanZMove[i-1] {
				actions = append(actions, fmt.Sprintf("move %d zmove", i))
			}
		}
	}
	return switchActions(req.Side.Pokemon, actions)
}

func switchActions(team []PokemonStatus, actions []string) []string {
	if actions == nil {
		actions = []string{}
	}
	for i := 1; i <= min(TeamSize, len(team)); i++ {
		if team[i-1].Switchable() {
			actions = append(actions, fmt.Sprintf("switch %d", i))
		}
	}
	return actions
}
