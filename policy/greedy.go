package policy

import (
	"context"
	"strconv"
	"strings"

	"showdown-agent/agent"
	"showdown-agent/data"
	"showdown-agent/game"
)

// Greedy attacks with the move that has the highest base power times type
// effectiveness against the opposing active pokemon. When nothing it has
// hits better than resisted it switches to the team member that best
// resists the opponent, if one resists at all.
type Greedy struct {
	dex *data.Dex
}

func NewGreedy(dex *data.Dex) *Greedy {
	return &Greedy{dex: dex}
}

// resistedThreshold is the best-move effectiveness below which switching out
// is considered.
const resistedThreshold = 1.0

func (g *Greedy) Act(ctx context.Context, view agent.View, actions []string) (string, error) {
	if len(actions) == 0 {
		return "", ErrNoActions
	}
	req := view.Request
	if req == nil {
		return actions[0], nil
	}
	oppTypes := g.opponentTypes(view)

	bestMove, bestScore, bestEff := "", -1.0, 0.0
	for _, action := range actions {
		slot, ok := moveSlot(action)
		if !ok || len(req.Active) == 0 || slot > len(req.Active[0].Moves) {
			continue
		}
		score, eff := g.scoreMove(req.Active[0].Moves[slot-1], oppTypes)
		if score > bestScore {
			bestMove, bestScore, bestEff = action, score, eff
		}
	}

	if bestMove != "" && (bestEff >= resistedThreshold || len(oppTypes) == 0) {
		return bestMove, nil
	}
	if sw := g.bestSwitch(req, actions, oppTypes); sw != "" && len(oppTypes) > 0 {
		return sw, nil
	}
	if bestMove != "" {
		return bestMove, nil
	}
	return actions[0], nil
}

func (g *Greedy) scoreMove(slot game.MoveSlot, oppTypes []string) (score, eff float64) {
	name := slot.ID
	if name == "" {
		name = slot.Move
	}
	m, _ := g.dex.Move(name)
	if m.Category == "Status" {
		return 0, 0
	}
	power := m.Power
	if power == 0 {
		power = data.DefaultPower
	}
	eff = data.Effectiveness(m.Type, oppTypes)
	return float64(power) * eff, eff
}

// bestSwitch returns the switch into the teammate whose worst matchup against
// the opponent's types is lowest, or "" if none resists every type.
func (g *Greedy) bestSwitch(req *game.Request, actions []string, oppTypes []string) string {
	best, bestScore := "", 1.0
	for _, action := range actions {
		idx, ok := switchSlot(action)
		if !ok || idx > len(req.Side.Pokemon) {
			continue
		}
		species, _, _ := strings.Cut(req.Side.Pokemon[idx-1].Details, ",")
		myTypes := g.dex.PokemonTypes(species)
		if myTypes == nil {
			continue
		}
		score := 0.0
		for _, t := range oppTypes {
			score = max(score, data.Effectiveness(t, myTypes))
		}
		if score < bestScore {
			best, bestScore = action, score
		}
	}
	return best
}

func (g *Greedy) opponentTypes(view agent.View) []string {
	if view.State == nil || view.Request == nil {
		return nil
	}
	opp := view.State.Opponent(view.Request.Side.ID)
	if opp == nil || opp.Active == nil {
		return nil
	}
	return opp.Active.Type
}

// moveSlot parses "move N" and its mega/zmove variants.
func moveSlot(action string) (int, bool) {
	return actionIndex(action, "move")
}

func switchSlot(action string) (int, bool) {
	return actionIndex(action, "switch")
}

func actionIndex(action, verb string) (int, bool) {
	fields := strings.Fields(action)
	if len(fields) < 2 || fields[0] != verb {
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
