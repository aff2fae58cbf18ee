package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ActionBuyItem is the effect type of the space action that opens the item shop.
const ActionBuyItem = "buy_item"

// Action is one choice offered by a board space
type Action struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	EffectType  string `yaml:"effect" json:"effect_type"`
}

// Space is one position on the board
type Space struct {
	Type        string   `yaml:"type" json:"type"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Actions     []Action `yaml:"actions" json:"actions"`
}

// HasAction reports whether the space offers an action with the given effect type.
func (s Space) HasAction(effectType string) bool {
	for _, a := range s.Actions {
		if a.EffectType == effectType {
			return true
		}
	}
	return false
}

// Item is a shop entry
type Item struct {
	Name        string  `yaml:"name" json:"name"`
	Price       int     `yaml:"price" json:"price"`
	Description string  `yaml:"description" json:"description"`
	Deltas      []Delta `yaml:"deltas" json:"deltas"`
}

// ConfrontationRules holds the fixed outcome of a resolved confrontation
type ConfrontationRules struct {
	Winner []Delta `yaml:"winner"`
	Loser  []Delta `yaml:"loser"`
}

// Rules are the numeric constants of a game
type Rules struct {
	StartingBudget     int                `yaml:"startingBudget"`
	StartingPopularity int                `yaml:"startingPopularity"`
	StartingInfluence  int                `yaml:"startingInfluence"`
	MaxPopularity      int                `yaml:"maxPopularity"`
	DiceSides          int                `yaml:"diceSides"`
	Confrontation      ConfrontationRules `yaml:"confrontation"`
}

// document mirrors the YAML layout of a catalog file
type document struct {
	Rules   Rules               `yaml:"rules"`
	Spaces  []Space             `yaml:"spaces"`
	Effects map[string][]Effect `yaml:"effects"`
	Landing map[string][]Effect `yaml:"landing"`
	Items   []Item              `yaml:"items"`
}

// Catalog is the immutable board, effect and item table shared by every room.
// Nothing returned from a Catalog may be modified by callers.
type Catalog struct {
	rules   Rules
	board   []Space
	effects map[string][]Effect
	landing map[string][]Effect
	items   []Item
	byName  map[string]Item
}

// Load parses and validates a YAML catalog
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if doc.Rules.DiceSides == 0 {
		doc.Rules.DiceSides = 6
	}
	if doc.Rules.MaxPopularity == 0 {
		doc.Rules.MaxPopularity = 100
	}

	c := &Catalog{
		rules:   doc.Rules,
		board:   doc.Spaces,
		effects: normalize(doc.Effects),
		landing: normalize(doc.Landing),
		items:   doc.Items,
		byName:  make(map[string]Item, len(doc.Items)),
	}
	for _, item := range doc.Items {
		c.byName[item.Name] = item
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads a catalog from disk
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Load(data)
}

func normalize(table map[string][]Effect) map[string][]Effect {
	if table == nil {
		return map[string][]Effect{}
	}
	for key, alts := range table {
		for i := range alts {
			if alts[i].Weight == 0 {
				alts[i].Weight = 1
			}
		}
		table[key] = alts
	}
	return table
}

func (c *Catalog) validate() error {
	if len(c.board) == 0 {
		return fmt.Errorf("%w: board has no spaces", ErrInvalidCatalog)
	}
	if c.rules.DiceSides < 1 {
		return fmt.Errorf("%w: diceSides must be at least 1", ErrInvalidCatalog)
	}
	if c.rules.StartingPopularity < 0 || c.rules.StartingPopularity > c.rules.MaxPopularity {
		return fmt.Errorf("%w: startingPopularity must be within 0..%d", ErrInvalidCatalog, c.rules.MaxPopularity)
	}
	if c.rules.StartingInfluence < 0 {
		return fmt.Errorf("%w: startingInfluence cannot be negative", ErrInvalidCatalog)
	}

	for i, space := range c.board {
		if space.Type == "" {
			return fmt.Errorf("%w: space %d has no type", ErrInvalidCatalog, i)
		}
		seen := make(map[string]bool, len(space.Actions))
		for _, action := range space.Actions {
			if action.EffectType == "" {
				return fmt.Errorf("%w: space %d action %q has no effect", ErrInvalidCatalog, i, action.Name)
			}
			if seen[action.EffectType] {
				return fmt.Errorf("%w: space %d repeats effect %q", ErrInvalidCatalog, i, action.EffectType)
			}
			seen[action.EffectType] = true
		}
	}

	for _, table := range []map[string][]Effect{c.effects, c.landing} {
		for key, alts := range table {
			if len(alts) == 0 {
				return fmt.Errorf("%w: effect %q has no alternatives", ErrInvalidCatalog, key)
			}
			for _, alt := range alts {
				if alt.Weight < 0 {
					return fmt.Errorf("%w: effect %q has a negative weight", ErrInvalidCatalog, key)
				}
			}
		}
	}

	if len(c.byName) != len(c.items) {
		return fmt.Errorf("%w: duplicate item names", ErrInvalidCatalog)
	}
	for _, item := range c.items {
		if item.Name == "" {
			return fmt.Errorf("%w: item without a name", ErrInvalidCatalog)
		}
		if item.Price <= 0 {
			return fmt.Errorf("%w: item %q must have a positive price", ErrInvalidCatalog, item.Name)
		}
	}
	return nil
}

// Rules returns the game constants
func (c *Catalog) Rules() Rules {
	return c.rules
}

// BoardSize returns the number of spaces on the board
func (c *Catalog) BoardSize() int {
	return len(c.board)
}

// Space returns the space at a board index
func (c *Catalog) Space(position int) Space {
	return c.board[position]
}

// Board returns a copy of the board
func (c *Catalog) Board() []Space {
	board := make([]Space, len(c.board))
	copy(board, c.board)
	return board
}

// Item looks up a shop item by name
func (c *Catalog) Item(name string) (Item, bool) {
	item, ok := c.byName[name]
	return item, ok
}

// Items returns the shop items in catalog order
func (c *Catalog) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}
