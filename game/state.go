package game

type Move struct {
	Name  string
	Type  string
	Power int
}

type Pokemon struct {
	Name    string
	Species string
	HP      int
	MaxHP   int
	Fainted bool
	Moves   []Move
	Status  string
	Ability string
	Boosts  map[string]int
	Type    []string
}

type Player struct {
	ID     string
	Name   string
	Team   map[string]*Pokemon
	Active *Pokemon
}

// BattleState is the public view of a battle rebuilt from the protocol log.
type BattleState struct {
	Players      map[string]*Player
	Turn         int
	Weather      string
	FieldEffects map[string]bool
	Winner       string
	Ended        bool
}

func NewBattleState() *BattleState {
	return &BattleState{
		Players:      make(map[string]*Player),
		FieldEffects: make(map[string]bool),
	}
}

// Player returns the player with the given side id, creating it on first use.
func (s *BattleState) Player(id string) *Player {
	if p, ok := s.Players[id]; ok {
		return p
	}
	p := &Player{ID: id, Team: make(map[string]*Pokemon)}
	s.Players[id] = p
	return p
}

// Opponent returns the side facing id in a two-player battle.
func (s *BattleState) Opponent(id string) *Player {
	switch id {
	case "p1":
		return s.Players["p2"]
	case "p2":
		return s.Players["p1"]
	}
	return nil
}

// Pokemon returns the named team member, creating it on first use.
func (p *Player) Pokemon(name string) *Pokemon {
	if poke, ok := p.Team[name]; ok {
		return poke
	}
	poke := &Pokemon{Name: name}
	p.Team[name] = poke
	return poke
}

// Claim returns the team member known by name, a nickname of species. An
// entry listed under its species before the nickname was revealed is moved
// to the nickname key.
func (p *Player) Claim(name, species string) *Pokemon {
	if poke, ok := p.Team[name]; ok {
		if poke.Species == "" {
			poke.Species = species
		}
		return poke
	}
	if poke, ok := p.Team[species]; ok && name != species && poke.Species == species && poke.Name == species {
		delete(p.Team, species)
		poke.Name = name
		p.Team[name] = poke
		return poke
	}
	poke := p.Pokemon(name)
	poke.Species = species
	return poke
}

// HasMove reports whether a move with that name was already seen.
func (p *Pokemon) HasMove(name string) bool {
	for _, m := range p.Moves {
		if m.Name == name {
			return true
		}
	}
	return false
}
