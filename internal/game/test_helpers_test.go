package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kadencja"
	"kadencja/internal/catalog"
)

// scriptedRNG replays fixed draws, wrapping when it runs out
type scriptedRNG struct {
	draws []int
	next  int
}

func (s *scriptedRNG) Intn(n int) int {
	if len(s.draws) == 0 {
		return 0
	}
	v := s.draws[s.next%len(s.draws)]
	s.next++
	return v % n
}

func testCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(kadencja.BoardYAML)
	require.NoError(t, err)
	return cat
}

// startedRoom returns an in-progress room with the named players joined as p1, p2, ...
func startedRoom(t *testing.T, rng catalog.RNG, names ...string) *Room {
	t.Helper()
	room := NewRoom("ABCDEF", names[0], testCatalog(t), WithRNG(rng))
	for i, name := range names {
		_, err := room.Join(playerID(i), name, "avatar1")
		require.NoError(t, err)
	}
	_, err := room.Start(playerID(0))
	require.NoError(t, err)
	return room
}

func playerID(i int) string {
	return "p" + string(rune('1'+i))
}

// positionOf finds the board index of the first space of a type
func positionOf(t testing.TB, cat *catalog.Catalog, spaceType string) int {
	t.Helper()
	for i, s := range cat.Board() {
		if s.Type == spaceType {
			return i
		}
	}
	t.Fatalf("no %s space on the board", spaceType)
	return -1
}
