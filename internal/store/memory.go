package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"kadencja/internal/catalog"
	"kadencja/internal/game"
)

// ErrRoomCodeExhausted is returned when no free room code was found
var ErrRoomCodeExhausted = errors.New("could not generate a unique room code")

const (
	defaultCodeLength = 6
	codeAttempts      = 10
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Session binds a connection to a player in a room
type Session struct {
	RoomCode   string
	PlayerName string
}

// Options tunes the rooms a store creates
type Options struct {
	MaxPlayers int
	CodeLength int
}

// MemoryStore holds all rooms and the connection index in memory
type MemoryStore struct {
	mu       sync.RWMutex
	rooms    map[string]*game.Room
	sessions map[string]Session

	catalog    *catalog.Catalog
	maxPlayers int
	codeLength int
	newCode    func(length int) string
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(cat *catalog.Catalog, opts Options) *MemoryStore {
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = game.DefaultMaxPlayers
	}
	if opts.CodeLength <= 0 {
		opts.CodeLength = defaultCodeLength
	}
	return &MemoryStore{
		rooms:      make(map[string]*game.Room),
		sessions:   make(map[string]Session),
		catalog:    cat,
		maxPlayers: opts.MaxPlayers,
		codeLength: opts.CodeLength,
		newCode:    generateRoomCode,
	}
}

// CreateRoom creates a lobby room hosted by hostName
func (s *MemoryStore) CreateRoom(hostName string) (*game.Room, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return nil, game.ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to codeAttempts times
	for i := 0; i < codeAttempts; i++ {
		code := s.newCode(s.codeLength)
		if _, exists := s.rooms[code]; exists {
			continue
		}

		room := game.NewRoom(code, hostName, s.catalog, game.WithMaxPlayers(s.maxPlayers))
		s.rooms[code] = room
		return room, nil
	}
	return nil, ErrRoomCodeExhausted
}

// GetRoom retrieves a room by code. Codes are matched case-insensitively.
func (s *MemoryStore) GetRoom(code string) (*game.Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	room, exists := s.rooms[code]
	if !exists {
		return nil, fmt.Errorf("room %s: %w", code, game.ErrRoomNotFound)
	}

	return room, nil
}

// DeleteRoom removes a room and every connection bound to it
func (s *MemoryStore) DeleteRoom(code string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteRoomLocked(code)
}

func (s *MemoryStore) deleteRoomLocked(code string) []string {
	delete(s.rooms, code)

	var conns []string
	for connID, sess := range s.sessions {
		if sess.RoomCode == code {
			delete(s.sessions, connID)
			conns = append(conns, connID)
		}
	}
	return conns
}

// Register binds a connection to a player, replacing any earlier binding
func (s *MemoryStore) Register(connID, code, playerName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[connID] = Session{RoomCode: code, PlayerName: playerName}
}

// Unregister drops a connection binding
func (s *MemoryStore) Unregister(connID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[connID]
	delete(s.sessions, connID)
	return sess, ok
}

// Lookup resolves a connection to its room
func (s *MemoryStore) Lookup(connID string) (*game.Room, Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return nil, Session{}, game.ErrPlayerNotFound
	}
	room, ok := s.rooms[sess.RoomCode]
	if !ok {
		return nil, sess, fmt.Errorf("room %s: %w", sess.RoomCode, game.ErrRoomNotFound)
	}
	return room, sess, nil
}

// ListLobbies returns the rooms still waiting to start, ordered by code
func (s *MemoryStore) ListLobbies() []game.Summary {
	s.mu.RLock()
	rooms := make([]*game.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	s.mu.RUnlock()

	summaries := make([]game.Summary, 0, len(rooms))
	for _, room := range rooms {
		if sum := room.Summary(); sum.Status == game.StatusLobby {
			summaries = append(summaries, sum)
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Code < summaries[j].Code
	})
	return summaries
}

// Sweep deletes rooms nobody has been connected to for at least timeout
func (s *MemoryStore) Sweep(now time.Time, timeout time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for code, room := range s.rooms {
		if room.IsIdle(now, timeout) {
			s.deleteRoomLocked(code)
			removed = append(removed, code)
		}
	}
	sort.Strings(removed)
	return removed
}

// RoomCount returns the number of live rooms
func (s *MemoryStore) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms)
}

// NormalizeCode upper-cases a user-entered code and checks its alphabet
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", game.ErrInvalidRoomCode
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return "", game.ErrInvalidRoomCode
		}
	}
	return code, nil
}

// codeByteLimit is the largest multiple of the alphabet size a byte can hold.
// Bytes at or above it are redrawn so every letter is equally likely.
const codeByteLimit = 256 - 256%len(codeAlphabet)

// generateRoomCode generates an uppercase alphabetic code
func generateRoomCode(length int) string {
	code := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(code) < length {
		rand.Read(buf)
		code = appendCodeLetters(code, buf, length)
	}
	return string(code)
}

func appendCodeLetters(code, random []byte, length int) []byte {
	for _, v := range random {
		if len(code) == length {
			break
		}
		if int(v) >= codeByteLimit {
			continue
		}
		code = append(code, codeAlphabet[int(v)%len(codeAlphabet)])
	}
	return code
}
