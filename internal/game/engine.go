package game

import (
	"fmt"
	"slices"

	"kadencja/internal/catalog"
)

// confrontationDieSides is the die used in contests, independent of the movement die
const confrontationDieSides = 6

// Roll is a movement dice result with the legal destinations it allows
type Roll struct {
	PlayerID   string `json:"-"`
	Steps      int    `json:"steps"`
	Candidates []int  `json:"possible_positions"`
}

// Allows reports whether position is one of the roll's destinations
func (r Roll) Allows(position int) bool {
	return slices.Contains(r.Candidates, position)
}

// ConfrontationRoll is the public result of a contest roll
type ConfrontationRoll struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Roll       int    `json:"roll"`
	Popularity int    `json:"popularity"`
	Influence  int    `json:"influence"`
	Total      int    `json:"total"`
}

// Engine owns the board and the player ledgers of one room.
// It is not safe for concurrent use; the owning Room serializes access.
type Engine struct {
	catalog *catalog.Catalog
	rng     catalog.RNG
	players map[string]*Player
	order   []string
}

// NewEngine creates an engine over a shared catalog
func NewEngine(cat *catalog.Catalog, rng catalog.RNG) *Engine {
	return &Engine{
		catalog: cat,
		rng:     rng,
		players: make(map[string]*Player),
	}
}

// Catalog returns the catalog the engine plays on
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// AddPlayer registers a new ledger. Adding the same id and name again returns
// the existing ledger; an id held under another name is ErrConnectionInUse.
func (e *Engine) AddPlayer(id, name, avatar string) (*Player, error) {
	if p, ok := e.players[id]; ok {
		if p.Name != name {
			return nil, fmt.Errorf("%w: %s is bound to %s", ErrConnectionInUse, id, p.Name)
		}
		return p, nil
	}
	p := NewPlayer(id, name, avatar, e.catalog.Rules())
	e.players[id] = p
	e.order = append(e.order, id)
	return p, nil
}

// Player looks up a ledger by connection id
func (e *Engine) Player(id string) (*Player, bool) {
	p, ok := e.players[id]
	return p, ok
}

// PlayerByName looks up a ledger by display name
func (e *Engine) PlayerByName(name string) (*Player, bool) {
	for _, id := range e.order {
		if p := e.players[id]; p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Players returns the ledgers in registration order
func (e *Engine) Players() []*Player {
	players := make([]*Player, 0, len(e.order))
	for _, id := range e.order {
		players = append(players, e.players[id])
	}
	return players
}

// RemovePlayer destroys a ledger
func (e *Engine) RemovePlayer(id string) {
	if _, ok := e.players[id]; !ok {
		return
	}
	delete(e.players, id)
	e.order = slices.DeleteFunc(e.order, func(v string) bool { return v == id })
}

// RekeyPlayer binds an existing ledger to a new connection id, keeping its
// registration slot and every stat.
func (e *Engine) RekeyPlayer(oldID, newID string) error {
	p, ok := e.players[oldID]
	if !ok {
		return ErrPlayerNotFound
	}
	if oldID == newID {
		return nil
	}
	if other, taken := e.players[newID]; taken {
		return fmt.Errorf("%w: %s is bound to %s", ErrConnectionInUse, newID, other.Name)
	}
	delete(e.players, oldID)
	p.ID = newID
	e.players[newID] = p
	for i, id := range e.order {
		if id == oldID {
			e.order[i] = newID
		}
	}
	return nil
}

// InitializeGame returns the turn order: connected players in registration order
func (e *Engine) InitializeGame() []string {
	ids := make([]string, 0, len(e.order))
	for _, id := range e.order {
		if e.players[id].Connected {
			ids = append(ids, id)
		}
	}
	return ids
}

// HandleFieldAction resolves an action offered by the player's current space
// and applies it to that player only.
func (e *Engine) HandleFieldAction(playerID, actionType string) (string, error) {
	p, ok := e.players[playerID]
	if !ok {
		return "", ErrPlayerNotFound
	}

	space := e.catalog.Space(p.Position)
	if actionType == catalog.ActionBuyItem || !space.HasAction(actionType) {
		return catalog.NoEffectText, ErrUnknownAction
	}

	effect, err := e.catalog.Resolve(actionType, e.rng)
	if err != nil {
		return catalog.NoEffectText, ErrUnknownAction
	}
	p.Apply(effect.Deltas, e.catalog.Rules().MaxPopularity)
	return effect.Text, nil
}

// BuyItem debits the price, adds the item to the inventory and applies its deltas
func (e *Engine) BuyItem(playerID, itemName string) (string, error) {
	p, ok := e.players[playerID]
	if !ok {
		return "", ErrPlayerNotFound
	}
	item, ok := e.catalog.Item(itemName)
	if !ok {
		return "", ErrItemNotFound
	}
	if p.Budget < item.Price {
		return "", ErrInsufficientFunds
	}
	if p.Owns(item.Name) {
		return "", ErrAlreadyOwned
	}

	p.Budget -= item.Price
	p.Items = append(p.Items, item.Name)
	p.Apply(item.Deltas, e.catalog.Rules().MaxPopularity)
	return fmt.Sprintf("Bought %s for %d. %s", item.Name, item.Price, item.Description), nil
}

// HandleFieldEffect applies the landing effect of the player's current space.
// The second result is false when the space has none.
func (e *Engine) HandleFieldEffect(playerID string) (string, bool) {
	p, ok := e.players[playerID]
	if !ok {
		return "", false
	}
	effect, ok := e.catalog.Landing(e.catalog.Space(p.Position).Type, e.rng)
	if !ok {
		return "", false
	}
	p.Apply(effect.Deltas, e.catalog.Rules().MaxPopularity)
	return effect.Text, true
}

// RollDice rolls once and lists the forward and backward destinations
func (e *Engine) RollDice(playerID string) (Roll, error) {
	p, ok := e.players[playerID]
	if !ok {
		return Roll{}, ErrPlayerNotFound
	}

	n := e.catalog.BoardSize()
	steps := e.rng.Intn(e.catalog.Rules().DiceSides) + 1
	forward := (p.Position + steps) % n
	backward := ((p.Position-steps)%n + n) % n

	candidates := []int{forward}
	if backward != forward {
		candidates = append(candidates, backward)
	}
	return Roll{PlayerID: playerID, Steps: steps, Candidates: candidates}, nil
}

// MovePlayer places a player on a board position
func (e *Engine) MovePlayer(playerID string, position int) error {
	p, ok := e.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if position < 0 || position >= e.catalog.BoardSize() {
		return ErrInvalidMoveData
	}
	p.Position = position
	return nil
}

// PlayersAt returns connected players standing on position, in registration order
func (e *Engine) PlayersAt(position int) []*Player {
	var here []*Player
	for _, id := range e.order {
		if p := e.players[id]; p.Connected && p.Position == position {
			here = append(here, p)
		}
	}
	return here
}

// RollConfrontation draws one contest die for a player
func (e *Engine) RollConfrontation(playerID string) (ConfrontationRoll, error) {
	p, ok := e.players[playerID]
	if !ok {
		return ConfrontationRoll{}, ErrPlayerNotFound
	}
	roll := e.rng.Intn(confrontationDieSides) + 1
	return ConfrontationRoll{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Roll:       roll,
		Popularity: p.Popularity,
		Influence:  p.Influence,
		Total:      roll + p.Popularity + p.Influence,
	}, nil
}

// ResolveConfrontation applies the fixed winner and loser outcomes.
// Nothing changes unless both ids resolve.
func (e *Engine) ResolveConfrontation(winnerID, loserID string) (winner, loser *Player, err error) {
	winner, ok := e.players[winnerID]
	if !ok {
		return nil, nil, ErrPlayerNotFound
	}
	loser, ok = e.players[loserID]
	if !ok {
		return nil, nil, ErrPlayerNotFound
	}

	rules := e.catalog.Rules()
	winner.Apply(rules.Confrontation.Winner, rules.MaxPopularity)
	loser.Apply(rules.Confrontation.Loser, rules.MaxPopularity)
	return winner, loser, nil
}
