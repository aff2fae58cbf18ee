package game

import "slices"

// Phase is the progress of a confrontation
type Phase string

const (
	// PhaseProposed means players share a space and may start a contest
	PhaseProposed Phase = "proposed"
	// PhaseStarted means a participant invited the others to roll
	PhaseStarted Phase = "started"
	// PhaseRollPending means at least one participant has rolled
	PhaseRollPending Phase = "roll_pending"
)

// Confrontation is the transient contest between players on one space
type Confrontation struct {
	Position     int
	Participants []string
	Phase        Phase
	Rolls        map[string]int
}

func (c *Confrontation) involves(id string) bool {
	return slices.Contains(c.Participants, id)
}

// ConfrontationResolver keeps at most one confrontation per board position.
// Resolved confrontations are dropped, so a missing entry means idle.
type ConfrontationResolver struct {
	byPosition map[int]*Confrontation
}

func NewConfrontationResolver() *ConfrontationResolver {
	return &ConfrontationResolver{byPosition: make(map[int]*Confrontation)}
}

// Propose records that the given players share a position. Fewer than two
// players leaves the position idle.
func (r *ConfrontationResolver) Propose(position int, ids []string) *Confrontation {
	if len(ids) < 2 {
		delete(r.byPosition, position)
		return nil
	}
	c := &Confrontation{
		Position:     position,
		Participants: append([]string(nil), ids...),
		Phase:        PhaseProposed,
		Rolls:        make(map[string]int),
	}
	r.byPosition[position] = c
	return c
}

// Start moves the confrontation at position to the started phase, creating
// it when co-location was never proposed.
func (r *ConfrontationResolver) Start(position int, ids []string) *Confrontation {
	c, ok := r.byPosition[position]
	if !ok || !sameMembers(c.Participants, ids) {
		c = r.Propose(position, ids)
		if c == nil {
			return nil
		}
	}
	if c.Phase == PhaseProposed {
		c.Phase = PhaseStarted
	}
	return c
}

// RecordRoll stores a roll for whichever confrontation includes id.
// Rolls from players outside any confrontation are ignored.
func (r *ConfrontationResolver) RecordRoll(id string, total int) (*Confrontation, bool) {
	c := r.Find(id)
	if c == nil {
		return nil, false
	}
	c.Rolls[id] = total
	c.Phase = PhaseRollPending
	return c, true
}

// Find returns the confrontation that includes id
func (r *ConfrontationResolver) Find(id string) *Confrontation {
	for _, c := range r.byPosition {
		if c.involves(id) {
			return c
		}
	}
	return nil
}

// At returns the confrontation at a position
func (r *ConfrontationResolver) At(position int) (*Confrontation, bool) {
	c, ok := r.byPosition[position]
	return c, ok
}

// Resolve destroys every confrontation involving either player
func (r *ConfrontationResolver) Resolve(winnerID, loserID string) {
	for pos, c := range r.byPosition {
		if c.involves(winnerID) || c.involves(loserID) {
			delete(r.byPosition, pos)
		}
	}
}

// Forget removes a player from any confrontation, dropping those left with
// fewer than two participants.
func (r *ConfrontationResolver) Forget(id string) {
	for pos, c := range r.byPosition {
		if !c.involves(id) {
			continue
		}
		c.Participants = slices.DeleteFunc(c.Participants, func(p string) bool { return p == id })
		delete(c.Rolls, id)
		if len(c.Participants) < 2 {
			delete(r.byPosition, pos)
		}
	}
}

// Rekey follows a reconnecting player to their new id
func (r *ConfrontationResolver) Rekey(oldID, newID string) {
	for _, c := range r.byPosition {
		for i, p := range c.Participants {
			if p == oldID {
				c.Participants[i] = newID
			}
		}
		if roll, ok := c.Rolls[oldID]; ok {
			delete(c.Rolls, oldID)
			c.Rolls[newID] = roll
		}
	}
}

func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, id := range b {
		if !slices.Contains(a, id) {
			return false
		}
	}
	return true
}
