package game

// TurnScheduler tracks whose turn it is over the live roster.
// It is not safe for concurrent use; the owning Room serializes access.
type TurnScheduler struct {
	roster  []string
	current int
}

// NewTurnScheduler creates an empty scheduler
func NewTurnScheduler() *TurnScheduler {
	return &TurnScheduler{}
}

// Reset replaces the roster and gives the turn to its first entry
func (s *TurnScheduler) Reset(ids []string) {
	s.roster = append([]string(nil), ids...)
	s.current = 0
}

// Add appends an id to the end of the turn order
func (s *TurnScheduler) Add(id string) {
	if s.Contains(id) {
		return
	}
	s.roster = append(s.roster, id)
}

// Remove drops an id. If it held the turn, the turn passes to the entry that
// followed it.
func (s *TurnScheduler) Remove(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	s.roster = append(s.roster[:idx], s.roster[idx+1:]...)
	switch {
	case len(s.roster) == 0:
		s.current = 0
	case idx < s.current:
		s.current--
	case s.current >= len(s.roster):
		s.current = 0
	}
	return true
}

// Rekey replaces oldID with newID at the end of the roster.
// The turn stays with the same player.
func (s *TurnScheduler) Rekey(oldID, newID string) {
	cur, ok := s.Current()
	holdsTurn := ok && cur == oldID

	s.Remove(oldID)
	s.Add(newID)
	if holdsTurn {
		s.current = s.indexOf(newID)
	}
}

// Current returns the id holding the turn
func (s *TurnScheduler) Current() (string, bool) {
	if len(s.roster) == 0 {
		return "", false
	}
	return s.roster[s.current], true
}

// Advance passes the turn to the next player and returns it.
// Must not be called on an empty roster.
func (s *TurnScheduler) Advance() string {
	s.current = (s.current + 1) % len(s.roster)
	return s.roster[s.current]
}

// Roster returns a copy of the turn order
func (s *TurnScheduler) Roster() []string {
	return append([]string(nil), s.roster...)
}

func (s *TurnScheduler) Len() int {
	return len(s.roster)
}

func (s *TurnScheduler) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

func (s *TurnScheduler) indexOf(id string) int {
	for i, v := range s.roster {
		if v == id {
			return i
		}
	}
	return -1
}
