package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultPower is assumed for moves missing from the dex or without base power.
const DefaultPower = 80

type PokemonData struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

type MoveData struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Power    int    `json:"power"`
	Category string `json:"category"`
}

type rawMoveData struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Power    int    `json:"basePower"`
	Category string `json:"category"`
}

// Dex holds species and move data keyed by Showdown id.
type Dex struct {
	pokemon map[string]PokemonData
	moves   map[string]MoveData
}

func NewDex() *Dex {
	return &Dex{
		pokemon: make(map[string]PokemonData),
		moves:   make(map[string]MoveData),
	}
}

var lower = cases.Lower(language.Und)

// ToID normalises a display name the way the simulator does:
// lowercase ASCII letters and digits only, accents folded.
func ToID(name string) string {
	var sb strings.Builder
	for _, r := range norm.NFKD.String(lower.String(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (d *Dex) LoadPokedexFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return d.LoadPokedex(file)
}

func (d *Dex) LoadPokedex(r io.Reader) error {
	var rawData map[string]PokemonData
	if err := json.NewDecoder(r).Decode(&rawData); err != nil {
		return fmt.Errorf("decode pokedex: %w", err)
	}
	for _, p := range rawData {
		d.AddPokemon(p)
	}
	return nil
}

func (d *Dex) LoadMovesFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return d.LoadMoves(file)
}

func (d *Dex) LoadMoves(r io.Reader) error {
	var rawData map[string]rawMoveData
	if err := json.NewDecoder(r).Decode(&rawData); err != nil {
		return fmt.Errorf("decode moves: %w", err)
	}
	for _, m := range rawData {
		d.AddMove(MoveData{Name: m.Name, Type: m.Type, Power: m.Power, Category: m.Category})
	}
	return nil
}

func (d *Dex) AddPokemon(p PokemonData) {
	d.pokemon[ToID(p.Name)] = p
}

func (d *Dex) AddMove(m MoveData) {
	d.moves[ToID(m.Name)] = m
}

func (d *Dex) PokemonTypes(name string) []string {
	if d == nil {
		return nil
	}
	if p, ok := d.pokemon[ToID(name)]; ok {
		return p.Types
	}
	return nil
}

// Move looks a move up by name or id. Unknown moves come back typeless with
// DefaultPower and ok=false.
func (d *Dex) Move(name string) (MoveData, bool) {
	if d != nil {
		if m, ok := d.moves[ToID(name)]; ok {
			return m, true
		}
	}
	return MoveData{Name: name, Power: DefaultPower}, false
}

func (d *Dex) Len() (pokemon, moves int) {
	if d == nil {
		return 0, 0
	}
	return len(d.pokemon), len(d.moves)
}
