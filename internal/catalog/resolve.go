package catalog

// NoEffectText is reported when an action or landing changes nothing
const NoEffectText = "No effect"

// RNG is the random source used to pick between weighted alternatives.
// *math/rand.Rand satisfies it.
type RNG interface {
	Intn(n int) int
}

// Effect is one possible outcome of an action or landing
type Effect struct {
	Text   string  `yaml:"text" json:"text"`
	Deltas []Delta `yaml:"deltas" json:"deltas"`
	Weight int     `yaml:"weight" json:"-"`
}

// NoEffect is the outcome of an unrecognised effect type
var NoEffect = Effect{Text: NoEffectText}

// Resolve picks the outcome of a field action. It returns ErrUnknownEffect
// for effect types the catalog does not define.
func (c *Catalog) Resolve(effectType string, rng RNG) (Effect, error) {
	alts, ok := c.effects[effectType]
	if !ok {
		return NoEffect, ErrUnknownEffect
	}
	return pick(alts, rng), nil
}

// Landing picks the effect for ending a move on a space of the given type.
// The second result is false when that space type has no landing effect.
func (c *Catalog) Landing(spaceType string, rng RNG) (Effect, bool) {
	alts, ok := c.landing[spaceType]
	if !ok {
		return Effect{}, false
	}
	return pick(alts, rng), true
}

// HasEffect reports whether effectType resolves to something
func (c *Catalog) HasEffect(effectType string) bool {
	_, ok := c.effects[effectType]
	return ok
}

func pick(alts []Effect, rng RNG) Effect {
	if len(alts) == 1 || rng == nil {
		return alts[0]
	}

	total := 0
	for _, alt := range alts {
		total += alt.Weight
	}
	if total <= 0 {
		return alts[0]
	}

	n := rng.Intn(total)
	for _, alt := range alts {
		if n < alt.Weight {
			return alt
		}
		n -= alt.Weight
	}
	return alts[len(alts)-1]
}
