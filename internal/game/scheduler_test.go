package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnScheduler_Advance(t *testing.T) {
	s := NewTurnScheduler()
	s.Reset([]string{"a", "b", "c"})

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur)

	assert.Equal(t, "b", s.Advance())
	assert.Equal(t, "c", s.Advance())
	assert.Equal(t, "a", s.Advance())
}

func TestTurnScheduler_Empty(t *testing.T) {
	s := NewTurnScheduler()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Remove("ghost"))
}

func TestTurnScheduler_Remove(t *testing.T) {
	tests := []struct {
		name     string
		advances int
		remove   string
		want     string
	}{
		{name: "before current keeps the same player", advances: 2, remove: "a", want: "c"},
		{name: "after current keeps the same player", advances: 1, remove: "d", want: "b"},
		{name: "current passes to the next player", advances: 1, remove: "b", want: "c"},
		{name: "current at the end wraps to the first", advances: 3, remove: "d", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTurnScheduler()
			s.Reset([]string{"a", "b", "c", "d"})
			for i := 0; i < tt.advances; i++ {
				s.Advance()
			}

			require.True(t, s.Remove(tt.remove))

			cur, ok := s.Current()
			require.True(t, ok)
			assert.Equal(t, tt.want, cur)
			assert.Equal(t, 3, s.Len())
		})
	}
}

func TestTurnScheduler_RemoveLast(t *testing.T) {
	s := NewTurnScheduler()
	s.Reset([]string{"a"})

	s.Remove("a")

	_, ok := s.Current()
	assert.False(t, ok)

	s.Add("b")
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur)
}

func TestTurnScheduler_Rekey(t *testing.T) {
	t.Run("turn follows the rekeyed player", func(t *testing.T) {
		s := NewTurnScheduler()
		s.Reset([]string{"a", "b", "c"})
		s.Advance()

		s.Rekey("b", "b2")

		cur, _ := s.Current()
		assert.Equal(t, "b2", cur)
		assert.Equal(t, []string{"a", "c", "b2"}, s.Roster())
		assert.Equal(t, "a", s.Advance())
	})

	t.Run("turn stays with another player", func(t *testing.T) {
		s := NewTurnScheduler()
		s.Reset([]string{"a", "b", "c"})
		s.Advance()
		s.Advance()

		s.Rekey("a", "a2")

		cur, _ := s.Current()
		assert.Equal(t, "c", cur)
		assert.Equal(t, []string{"b", "c", "a2"}, s.Roster())
	})
}

func TestTurnScheduler_AddIgnoresDuplicates(t *testing.T) {
	s := NewTurnScheduler()
	s.Add("a")
	s.Add("a")

	assert.Equal(t, []string{"a"}, s.Roster())
}
