package game

import (
	"time"

	"kadencja/internal/catalog"
)

// Player is the ledger of one participant's resources
type Player struct {
	ID         string
	Name       string
	Avatar     string
	Position   int
	Popularity int
	Influence  int
	Budget     int
	Items      []string
	Connected  bool
	JoinedAt   time.Time
}

// NewPlayer creates a player at the start space with the starting resources
func NewPlayer(id, name, avatar string, rules catalog.Rules) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Avatar:     avatar,
		Popularity: rules.StartingPopularity,
		Influence:  rules.StartingInfluence,
		Budget:     rules.StartingBudget,
		Items:      []string{},
		Connected:  true,
		JoinedAt:   time.Now(),
	}
}

// Apply changes each stat once. Popularity stays within 0..maxPopularity,
// influence never drops below 0 and budget is unbounded.
func (p *Player) Apply(deltas []catalog.Delta, maxPopularity int) {
	for _, d := range deltas {
		switch d.Stat {
		case catalog.StatPopularity:
			p.Popularity = clamp(p.Popularity+d.Value(), 0, maxPopularity)
		case catalog.StatInfluence:
			p.Influence = max(0, p.Influence+d.Value())
		case catalog.StatBudget:
			p.Budget += d.Value()
		}
	}
}

// Owns reports whether the player already has the named item
func (p *Player) Owns(item string) bool {
	for _, owned := range p.Items {
		if owned == item {
			return true
		}
	}
	return false
}

// PlayerState is the public view of a player sent to clients
type PlayerState struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Avatar     string   `json:"avatar"`
	Position   int      `json:"position"`
	Popularity int      `json:"popularity"`
	Influence  int      `json:"influence"`
	Budget     int      `json:"budget"`
	Items      []string `json:"items"`
	Connected  bool     `json:"connected"`
	IsHost     bool     `json:"is_host"`
}

// State returns a copy safe to hand outside the room lock
func (p *Player) State(hostName string) PlayerState {
	items := make([]string, len(p.Items))
	copy(items, p.Items)
	return PlayerState{
		ID:         p.ID,
		Name:       p.Name,
		Avatar:     p.Avatar,
		Position:   p.Position,
		Popularity: p.Popularity,
		Influence:  p.Influence,
		Budget:     p.Budget,
		Items:      items,
		Connected:  p.Connected,
		IsHost:     p.Name == hostName,
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
