package parser

import (
	"fmt"
	"sort"
	"strings"

	"showdown-agent/game"
)

// Summary renders a compact one-line description of the battle, used as a
// log field on each decision.
func Summary(state *game.BattleState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "turn %d", state.Turn)

	if state.Weather != "" {
		fmt.Fprintf(&sb, " weather=%s", state.Weather)
	}
	if len(state.FieldEffects) > 0 {
		effects := make([]string, 0, len(state.FieldEffects))
		for eff := range state.FieldEffects {
			effects = append(effects, eff)
		}
		sort.Strings(effects)
		fmt.Fprintf(&sb, " field=%s", strings.Join(effects, ","))
	}

	ids := make([]string, 0, len(state.Players))
	for id := range state.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		player := state.Players[id]
		sb.WriteString(" | ")
		sb.WriteString(id)
		if player.Active == nil {
			sb.WriteString(": -")
			continue
		}
		sb.WriteString(": ")
		sb.WriteString(describePokemon(player.Active))
	}

	if state.Ended {
		if state.Winner != "" {
			fmt.Fprintf(&sb, " | winner %s", state.Winner)
		} else {
			sb.WriteString(" | tie")
		}
	}
	return sb.String()
}

func describePokemon(poke *game.Pokemon) string {
	var sb strings.Builder
	sb.WriteString(poke.Name)
	switch {
	case poke.Fainted:
		sb.WriteString(" (fnt)")
	case poke.MaxHP > 0:
		fmt.Fprintf(&sb, " %d/%d", poke.HP, poke.MaxHP)
	}
	if poke.Status != "" {
		fmt.Fprintf(&sb, " [%s]", poke.Status)
	}

	boosts := make([]string, 0, len(poke.Boosts))
	for stat, val := range poke.Boosts {
		if val != 0 {
			boosts = append(boosts, fmt.Sprintf("%+d %s", val, stat))
		}
	}
	if len(boosts) > 0 {
		sort.Strings(boosts)
		fmt.Fprintf(&sb, " {%s}", strings.Join(boosts, ", "))
	}
	return sb.String()
}
