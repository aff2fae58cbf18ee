package catalog

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Stat names a player statistic that effects can change
type Stat string

const (
	StatPopularity Stat = "popularity"
	StatInfluence  Stat = "influence"
	StatBudget     Stat = "budget"
)

// Valid reports whether s is a known statistic
func (s Stat) Valid() bool {
	switch s {
	case StatPopularity, StatInfluence, StatBudget:
		return true
	}
	return false
}

// Sign is the direction of a change
type Sign int

const (
	Minus Sign = -1
	Plus  Sign = 1
)

// Delta is a single signed change to one statistic. Magnitude is always
// non-negative and is applied as-is, with no unit scaling.
type Delta struct {
	Stat      Stat
	Sign      Sign
	Magnitude int
}

// NewDelta builds a delta from a signed value
func NewDelta(stat Stat, value int) Delta {
	if value < 0 {
		return Delta{Stat: stat, Sign: Minus, Magnitude: -value}
	}
	return Delta{Stat: stat, Sign: Plus, Magnitude: value}
}

// Value returns the signed amount
func (d Delta) Value() int {
	if d.Sign == Minus {
		return -d.Magnitude
	}
	return d.Magnitude
}

func (d Delta) String() string {
	return fmt.Sprintf("%s %+d", d.Stat, d.Value())
}

type deltaDoc struct {
	Stat  Stat `yaml:"stat" json:"stat"`
	Delta int  `yaml:"delta" json:"delta"`
}

// UnmarshalYAML reads the {stat, delta} mapping form
func (d *Delta) UnmarshalYAML(node *yaml.Node) error {
	var doc deltaDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	if !doc.Stat.Valid() {
		return fmt.Errorf("line %d: unknown stat %q", node.Line, doc.Stat)
	}
	*d = NewDelta(doc.Stat, doc.Delta)
	return nil
}

// MarshalJSON writes the same {stat, delta} form clients see in item lists
func (d Delta) MarshalJSON() ([]byte, error) {
	return json.Marshal(deltaDoc{Stat: d.Stat, Delta: d.Value()})
}
