package parser

import (
	"strconv"
	"strings"

	"showdown-agent/data"
	"showdown-agent/game"
)

// ParseLog rebuilds the public battle state from a full protocol log.
func ParseLog(lines []string, dex *data.Dex) *game.BattleState {
	state := game.NewBattleState()
	for _, line := range lines {
		ProcessLine(state, dex, line)
	}
	return state
}

// ProcessLine applies one protocol line to state. Lines it does not
// understand are ignored. dex may be nil.
func ProcessLine(state *game.BattleState, dex *data.Dex, line string) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 2 || parts[0] != "" {
		return
	}
	switch parts[1] {
	case "player":
		if len(parts) >= 4 && parts[3] != "" {
			state.Player(parts[2]).Name = parts[3]
		}
	case "poke":
		if len(parts) >= 4 {
			species := speciesName(parts[3])
			poke := state.Player(parts[2]).Pokemon(species)
			poke.Species = species
			poke.Type = dex.PokemonTypes(species)
		}
	case "switch", "drag":
		if len(parts) >= 5 {
			player, name, ok := pokemonRef(state, parts[2])
			if !ok {
				return
			}
			species := speciesName(parts[3])
			poke := player.Claim(name, species)
			if types := dex.PokemonTypes(species); types != nil {
				poke.Type = types
			}
			player.Active = poke
			applyCondition(poke, parts[4])
		}
	case "move":
		if len(parts) >= 4 {
			player, name, ok := pokemonRef(state, parts[2])
			if !ok {
				return
			}
			poke := player.Pokemon(name)
			moveName := parts[3]
			if poke.HasMove(moveName) {
				return
			}
			m, _ := dex.Move(moveName)
			poke.Moves = append(poke.Moves, game.Move{Name: moveName, Type: m.Type, Power: m.Power})
		}
	case "-damage", "-heal", "-sethp":
		if len(parts) >= 4 {
			if player, name, ok := pokemonRef(state, parts[2]); ok {
				applyCondition(player.Pokemon(name), parts[3])
			}
		}
	case "faint":
		if len(parts) >= 3 {
			if player, name, ok := pokemonRef(state, parts[2]); ok {
				poke := player.Pokemon(name)
				poke.Fainted = true
				poke.HP = 0
			}
		}
	case "turn":
		if len(parts) >= 3 {
			if t, err := strconv.Atoi(parts[2]); err == nil {
				state.Turn = t
			}
		}
	case "-status":
		if len(parts) >= 4 {
			if player, name, ok := pokemonRef(state, parts[2]); ok {
				player.Pokemon(name).Status = parts[3]
			}
		}
	case "-curestatus":
		if len(parts) >= 3 {
			if player, name, ok := pokemonRef(state, parts[2]); ok {
				player.Pokemon(name).Status = ""
			}
		}
	case "-boost", "-unboost", "-setboost":
		if len(parts) >= 5 {
			player, name, ok := pokemonRef(state, parts[2])
			if !ok {
				return
			}
			amount, err := strconv.Atoi(parts[4])
			if err != nil {
				return
			}
			poke := player.Pokemon(name)
			if poke.Boosts == nil {
				poke.Boosts = make(map[string]int)
			}
			switch parts[1] {
			case "-boost":
				poke.Boosts[parts[3]] += amount
			case "-unboost":
				poke.Boosts[parts[3]] -= amount
			default:
				poke.Boosts[parts[3]] = amount
			}
		}
	case "-clearallboost":
		for _, player := range state.Players {
			for _, poke := range player.Team {
				poke.Boosts = nil
			}
		}
	case "-weather":
		if len(parts) >= 3 {
			state.Weather = parts[2]
			if state.Weather == "none" {
				state.Weather = ""
			}
		}
	case "-fieldstart":
		if len(parts) >= 3 {
			state.FieldEffects[parts[2]] = true
		}
	case "-fieldend":
		if len(parts) >= 3 {
			delete(state.FieldEffects, parts[2])
		}
	case "-ability":
		if len(parts) >= 4 {
			if player, name, ok := pokemonRef(state, parts[2]); ok {
				player.Pokemon(name).Ability = parts[3]
			}
		}
	case "win":
		state.Ended = true
		if len(parts) >= 3 {
			state.Winner = parts[2]
		}
	case "tie":
		state.Ended = true
	}
}

// pokemonRef resolves "p1a: Name" to the owning player and the pokemon name.
func pokemonRef(state *game.BattleState, ref string) (*game.Player, string, bool) {
	side, name, ok := strings.Cut(ref, ": ")
	if !ok || len(side) < 2 {
		return nil, "", false
	}
	return state.Player(side[:2]), name, true
}

// speciesName strips level, gender and shininess from a details string.
func speciesName(details string) string {
	name, _, _ := strings.Cut(details, ",")
	return strings.TrimSpace(name)
}

// applyCondition parses "hp/maxhp status" or "0 fnt".
func applyCondition(poke *game.Pokemon, condition string) {
	hpPart, status, _ := strings.Cut(strings.TrimSpace(condition), " ")
	if status == "fnt" {
		poke.Fainted = true
		poke.HP = 0
		return
	}
	poke.Status = status
	hp, maxhp, ok := strings.Cut(hpPart, "/")
	if !ok {
		return
	}
	if v, err := strconv.Atoi(hp); err == nil {
		poke.HP = v
	}
	if v, err := strconv.Atoi(maxhp); err == nil {
		poke.MaxHP = v
	}
}
