package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"kadencja/internal/catalog"
)

// Status represents the lifecycle of a room
type Status string

const (
	StatusLobby      Status = "lobby"
	StatusInProgress Status = "in_progress"
)

// DefaultMaxPlayers is the number of connected participants a room accepts
const DefaultMaxPlayers = 6

// Room is one game session. Every exported method takes the room lock for its
// whole duration, so validation and mutation are atomic per intent.
type Room struct {
	Code      string
	HostName  string
	CreatedAt time.Time

	status         Status
	hostID         string
	maxPlayers     int
	engine         *Engine
	turns          *TurnScheduler
	confrontations *ConfrontationResolver
	pendingRoll    *Roll
	idleSince      time.Time
	parked         int

	mu sync.Mutex
}

// RoomOption customizes a new room
type RoomOption func(*roomOptions)

type roomOptions struct {
	rng        catalog.RNG
	maxPlayers int
}

// WithRNG replaces the room's random source
func WithRNG(rng catalog.RNG) RoomOption {
	return func(o *roomOptions) { o.rng = rng }
}

// WithMaxPlayers sets the connected participant cap
func WithMaxPlayers(n int) RoomOption {
	return func(o *roomOptions) {
		if n > 0 {
			o.maxPlayers = n
		}
	}
}

// NewRoom creates a room in the lobby. The host is whoever joins under hostName.
func NewRoom(code, hostName string, cat *catalog.Catalog, opts ...RoomOption) *Room {
	o := roomOptions{maxPlayers: DefaultMaxPlayers}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	now := time.Now()
	return &Room{
		Code:           code,
		HostName:       strings.TrimSpace(hostName),
		CreatedAt:      now,
		status:         StatusLobby,
		maxPlayers:     o.maxPlayers,
		engine:         NewEngine(cat, o.rng),
		turns:          NewTurnScheduler(),
		confrontations: NewConfrontationResolver(),
		idleSince:      now,
	}
}

// Snapshot is the full public state of a room
type Snapshot struct {
	Code          string          `json:"game_code"`
	Status        Status          `json:"status"`
	HostName      string          `json:"host_name"`
	Players       []PlayerState   `json:"players"`
	CurrentPlayer string          `json:"current_player"`
	Board         []catalog.Space `json:"board"`
}

// Summary is the lobby listing entry of a room
type Summary struct {
	Code        string `json:"game_code"`
	HostName    string `json:"host_name"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Status      Status `json:"status"`
}

// JoinResult describes a join or a reconnect
type JoinResult struct {
	Player      PlayerState
	Reconnected bool
	PreviousID  string
	Snapshot    Snapshot
}

// DepartureResult describes a disconnect or a permanent leave
type DepartureResult struct {
	Player     PlayerState
	NextPlayer string
	Empty      bool
	Snapshot   Snapshot
}

// MoveResult describes a completed move
type MoveResult struct {
	Position  int
	Effect    string
	SpaceType string
	Actions   []catalog.Action
	CoLocated []PlayerState
	Snapshot  Snapshot
}

// ActionResult describes a field action or purchase that ended the turn
type ActionResult struct {
	Effect     string
	NextPlayer string
	Snapshot   Snapshot
}

// ConfrontationInvite lists everyone asked to roll
type ConfrontationInvite struct {
	Position int
	Players  []PlayerState
}

// ConfrontationOutcome is the result of a resolved confrontation
type ConfrontationOutcome struct {
	Winner     PlayerState
	Loser      PlayerState
	NextPlayer string
	Snapshot   Snapshot
}

// Status returns the lifecycle state
func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

// HostID returns the connection currently holding host rights
func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.hostID
}

// CurrentPlayer returns the connection id holding the turn
func (r *Room) CurrentPlayer() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, _ := r.turns.Current()
	return cur
}

// Roster returns the connected participants in turn order
func (r *Room) Roster() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.turns.Roster()
}

// Player returns the public state of a participant
func (r *Room) Player(id string) (PlayerState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.engine.Player(id)
	if !ok {
		return PlayerState{}, false
	}
	return p.State(r.HostName), true
}

// Snapshot returns the full room state
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot()
}

// Summary returns the lobby listing entry
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Summary{
		Code:        r.Code,
		HostName:    r.HostName,
		PlayerCount: r.turns.Len(),
		MaxPlayers:  r.maxPlayers,
		Status:      r.status,
	}
}

// IsIdle reports whether nobody has been connected for at least timeout
func (r *Room) IsIdle(now time.Time, timeout time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.turns.Len() == 0 && now.Sub(r.idleSince) >= timeout
}

// Join adds a player, or rebinds an existing ledger when the name is already
// registered in this room.
func (r *Room) Join(connID, name, avatar string) (JoinResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return JoinResult{}, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.releaseStale(connID, name); err != nil {
		return JoinResult{}, err
	}

	if existing, ok := r.engine.PlayerByName(name); ok {
		return r.rejoin(existing, connID)
	}

	if r.turns.Len() >= r.maxPlayers {
		return JoinResult{}, ErrRoomFull
	}

	p, err := r.engine.AddPlayer(connID, name, avatar)
	if err != nil {
		return JoinResult{}, err
	}
	r.turns.Add(connID)
	if name == r.HostName {
		r.hostID = connID
	}

	return JoinResult{Player: p.State(r.HostName), Snapshot: r.snapshot()}, nil
}

// releaseStale moves a disconnected ledger left under connID by an earlier
// visit onto a parked key, so the connection can join under another name.
// The parked ledger is restored by a later join under its own name.
func (r *Room) releaseStale(connID, name string) error {
	stale, ok := r.engine.Player(connID)
	if !ok || stale.Name == name {
		return nil
	}
	if stale.Connected {
		return fmt.Errorf("%w: already playing as %s", ErrConnectionInUse, stale.Name)
	}

	r.parked++
	parkedID := fmt.Sprintf("%s#parked-%d", connID, r.parked)
	if err := r.engine.RekeyPlayer(connID, parkedID); err != nil {
		return err
	}
	if r.hostID == connID {
		r.hostID = ""
	}
	return nil
}

func (r *Room) rejoin(p *Player, connID string) (JoinResult, error) {
	oldID := p.ID
	if oldID == connID && p.Connected {
		return JoinResult{Player: p.State(r.HostName), Snapshot: r.snapshot()}, nil
	}

	wasSeated := r.turns.Contains(oldID)
	if !wasSeated && r.turns.Len() >= r.maxPlayers {
		return JoinResult{}, ErrRoomFull
	}

	if err := r.engine.RekeyPlayer(oldID, connID); err != nil {
		return JoinResult{}, err
	}
	if wasSeated {
		r.turns.Rekey(oldID, connID)
	} else {
		r.turns.Add(connID)
	}
	r.confrontations.Rekey(oldID, connID)
	if r.pendingRoll != nil && r.pendingRoll.PlayerID == oldID {
		r.pendingRoll.PlayerID = connID
	}
	if p.Name == r.HostName {
		r.hostID = connID
	}
	p.Connected = true

	return JoinResult{
		Player:      p.State(r.HostName),
		Reconnected: true,
		PreviousID:  oldID,
		Snapshot:    r.snapshot(),
	}, nil
}

// Disconnect takes a player out of the turn order but keeps the ledger so a
// later join under the same name restores it.
func (r *Room) Disconnect(connID string) (DepartureResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.engine.Player(connID)
	if !ok {
		return DepartureResult{}, ErrPlayerNotFound
	}
	p.Connected = false
	if connID == r.hostID {
		r.hostID = ""
	}
	return r.unseat(p), nil
}

// Leave removes a player permanently, destroying the ledger
func (r *Room) Leave(connID string) (DepartureResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.engine.Player(connID)
	if !ok {
		return DepartureResult{}, ErrPlayerNotFound
	}
	p.Connected = false
	if connID == r.hostID {
		r.hostID = ""
	}
	res := r.unseat(p)
	r.engine.RemovePlayer(connID)
	res.Snapshot = r.snapshot()
	return res, nil
}

func (r *Room) unseat(p *Player) DepartureResult {
	before, _ := r.turns.Current()
	r.turns.Remove(p.ID)
	r.confrontations.Forget(p.ID)

	next, _ := r.turns.Current()
	if next != before {
		r.pendingRoll = nil
	}
	if r.turns.Len() == 0 {
		r.idleSince = time.Now()
	}

	return DepartureResult{
		Player:     p.State(r.HostName),
		NextPlayer: next,
		Empty:      r.turns.Len() == 0,
		Snapshot:   r.snapshot(),
	}
}

// Start moves the room from lobby to in progress. Only the host may start it.
func (r *Room) Start(connID string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.engine.Player(connID)
	if !ok {
		return Snapshot{}, ErrPlayerNotFound
	}
	if r.status != StatusLobby {
		return Snapshot{}, ErrGameAlreadyStarted
	}
	if p.Name != r.HostName {
		return Snapshot{}, ErrNotHost
	}

	r.turns.Reset(r.engine.InitializeGame())
	r.status = StatusInProgress
	r.pendingRoll = nil
	return r.snapshot(), nil
}

// RollDice rolls movement for the current player. Rolling again before moving
// returns the same roll.
func (r *Room) RollDice(connID string) (Roll, PlayerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.requireTurn(connID)
	if err != nil {
		return Roll{}, PlayerState{}, err
	}

	if r.pendingRoll != nil && r.pendingRoll.PlayerID == connID {
		return *r.pendingRoll, p.State(r.HostName), nil
	}

	roll, err := r.engine.RollDice(connID)
	if err != nil {
		return Roll{}, PlayerState{}, err
	}
	r.pendingRoll = &roll
	return roll, p.State(r.HostName), nil
}

// Move places the current player on one of the destinations of their roll
// and applies the landing effect. The turn does not advance.
func (r *Room) Move(connID string, position int) (MoveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.requireTurn(connID)
	if err != nil {
		return MoveResult{}, err
	}
	if r.pendingRoll == nil || r.pendingRoll.PlayerID != connID || !r.pendingRoll.Allows(position) {
		return MoveResult{}, ErrInvalidMoveData
	}
	if err := r.engine.MovePlayer(connID, position); err != nil {
		return MoveResult{}, err
	}
	r.pendingRoll = nil
	r.confrontations.Forget(connID)

	effect, ok := r.engine.HandleFieldEffect(connID)
	if !ok {
		effect = catalog.NoEffectText
	}

	space := r.engine.Catalog().Space(position)
	res := MoveResult{
		Position:  position,
		Effect:    effect,
		SpaceType: space.Type,
		Actions:   append([]catalog.Action(nil), space.Actions...),
	}

	here := r.engine.PlayersAt(position)
	ids := make([]string, 0, len(here))
	for _, other := range here {
		ids = append(ids, other.ID)
		if other.ID != p.ID {
			res.CoLocated = append(res.CoLocated, other.State(r.HostName))
		}
	}
	r.confrontations.Propose(position, ids)

	res.Snapshot = r.snapshot()
	return res, nil
}

// FieldAction performs an action of the current space and ends the turn.
// Unknown actions resolve to no effect. A failed purchase leaves the turn as is.
func (r *Room) FieldAction(connID, actionType, itemName string) (ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.requireTurn(connID)
	if err != nil {
		return ActionResult{}, err
	}

	var effect string
	space := r.engine.Catalog().Space(p.Position)
	if actionType == catalog.ActionBuyItem && space.HasAction(catalog.ActionBuyItem) {
		if strings.TrimSpace(itemName) == "" {
			return ActionResult{}, ErrItemNotFound
		}
		effect, err = r.engine.BuyItem(connID, itemName)
		if err != nil {
			return ActionResult{}, err
		}
	} else {
		effect, err = r.engine.HandleFieldAction(connID, actionType)
		if err != nil && !errors.Is(err, ErrUnknownAction) {
			return ActionResult{}, err
		}
	}

	next := r.advance()
	return ActionResult{Effect: effect, NextPlayer: next, Snapshot: r.snapshot()}, nil
}

// EndTurn passes the turn without acting
func (r *Room) EndTurn(connID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.requireTurn(connID); err != nil {
		return "", err
	}
	return r.advance(), nil
}

// StartConfrontation invites everyone on the current player's space to roll
func (r *Room) StartConfrontation(connID string) (ConfrontationInvite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.requireTurn(connID)
	if err != nil {
		return ConfrontationInvite{}, err
	}

	here := r.engine.PlayersAt(p.Position)
	if len(here) < 2 {
		return ConfrontationInvite{}, ErrNoOpponents
	}

	invite := ConfrontationInvite{Position: p.Position}
	ids := make([]string, 0, len(here))
	for _, other := range here {
		ids = append(ids, other.ID)
		invite.Players = append(invite.Players, other.State(r.HostName))
	}
	r.confrontations.Start(p.Position, ids)
	return invite, nil
}

// ConfrontationRoll draws a public contest roll for any player of a running game
func (r *Room) ConfrontationRoll(connID string) (ConfrontationRoll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusInProgress {
		return ConfrontationRoll{}, ErrGameNotActive
	}
	roll, err := r.engine.RollConfrontation(connID)
	if err != nil {
		return ConfrontationRoll{}, err
	}
	r.confrontations.RecordRoll(connID, roll.Total)
	return roll, nil
}

// EndConfrontation applies a reported outcome and advances the turn once.
// The reported ids are trusted as long as both are known players.
func (r *Room) EndConfrontation(connID, winnerID, loserID string) (ConfrontationOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusInProgress {
		return ConfrontationOutcome{}, ErrGameNotActive
	}
	if _, ok := r.engine.Player(connID); !ok {
		return ConfrontationOutcome{}, ErrPlayerNotFound
	}

	winner, loser, err := r.engine.ResolveConfrontation(winnerID, loserID)
	if err != nil {
		return ConfrontationOutcome{}, err
	}
	r.confrontations.Resolve(winnerID, loserID)

	next := r.advance()
	return ConfrontationOutcome{
		Winner:     winner.State(r.HostName),
		Loser:      loser.State(r.HostName),
		NextPlayer: next,
		Snapshot:   r.snapshot(),
	}, nil
}

// Confrontation returns a copy of the contest a player takes part in
func (r *Room) Confrontation(connID string) (Confrontation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.confrontations.Find(connID)
	if c == nil {
		return Confrontation{}, false
	}
	rolls := make(map[string]int, len(c.Rolls))
	for id, v := range c.Rolls {
		rolls[id] = v
	}
	return Confrontation{
		Position:     c.Position,
		Participants: append([]string(nil), c.Participants...),
		Phase:        c.Phase,
		Rolls:        rolls,
	}, true
}

func (r *Room) requireTurn(connID string) (*Player, error) {
	if r.status != StatusInProgress {
		return nil, ErrGameNotActive
	}
	p, ok := r.engine.Player(connID)
	if !ok || !p.Connected {
		return nil, ErrPlayerNotFound
	}
	if cur, _ := r.turns.Current(); cur != connID {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

func (r *Room) advance() string {
	r.pendingRoll = nil
	if r.turns.Len() == 0 {
		return ""
	}
	return r.turns.Advance()
}

func (r *Room) snapshot() Snapshot {
	players := r.engine.Players()
	states := make([]PlayerState, 0, len(players))
	for _, p := range players {
		states = append(states, p.State(r.HostName))
	}
	cur, _ := r.turns.Current()
	return Snapshot{
		Code:          r.Code,
		Status:        r.status,
		HostName:      r.HostName,
		Players:       states,
		CurrentPlayer: cur,
		Board:         r.engine.Catalog().Board(),
	}
}
