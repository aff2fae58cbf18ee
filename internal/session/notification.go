package session

import (
	"kadencja/internal/catalog"
	"kadencja/internal/game"
)

// NotificationType names an outbound server message
type NotificationType string

const (
	NotifyRoomCreated            NotificationType = "room-created"
	NotifyRoomJoined             NotificationType = "room-joined"
	NotifyRoomLeft               NotificationType = "room-left"
	NotifyRoomState              NotificationType = "room-state"
	NotifyPlayersUpdate          NotificationType = "players-update"
	NotifyGameStarted            NotificationType = "game-started"
	NotifyChooseMove             NotificationType = "choose-move"
	NotifyPlayerRolled           NotificationType = "player-rolled"
	NotifyGameUpdate             NotificationType = "game-update"
	NotifyFieldActions           NotificationType = "field-actions"
	NotifyConfrontationAvailable NotificationType = "confrontation-available"
	NotifyStartConfrontation     NotificationType = "start-confrontation"
	NotifyConfrontationRoll      NotificationType = "confrontation-roll-result"
	NotifyConfrontationResult    NotificationType = "confrontation-result"
	NotifyTurnEnded              NotificationType = "turn-ended"
	NotifyGamesList              NotificationType = "games-list"
	NotifyItemList               NotificationType = "item-list"
	NotifyError                  NotificationType = "error"
	NotifyConnected              NotificationType = "connected"
)

// Notification is one outbound message
type Notification struct {
	Type NotificationType `json:"type"`
	Data any              `json:"data"`
}

type RoomCodePayload struct {
	Code string `json:"game_code"`
}

type PlayersUpdatePayload struct {
	Code    string             `json:"game_code"`
	Players []game.PlayerState `json:"players"`
}

type GameStartedPayload struct {
	game.Snapshot
}

type ChooseMovePayload struct {
	Steps     int   `json:"steps"`
	Positions []int `json:"possible_positions"`
}

type PlayerRolledPayload struct {
	PlayerName string `json:"player_name"`
	Steps      int    `json:"steps"`
}

type GameUpdatePayload struct {
	Players          []game.PlayerState `json:"players"`
	Effect           string             `json:"effect,omitempty"`
	CurrentPlayer    string             `json:"current_player"`
	Board            []catalog.Space    `json:"board"`
	JustMoved        bool               `json:"just_moved"`
	CanPerformAction bool               `json:"can_perform_action"`
}

type FieldActionsPayload struct {
	FieldType string           `json:"field_type"`
	Actions   []catalog.Action `json:"actions"`
}

type ConfrontationAvailablePayload struct {
	Players []string `json:"players"`
}

type Contestant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StartConfrontationPayload struct {
	Players []Contestant `json:"players"`
}

type ConfrontationResultPayload struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
}

type TurnEndedPayload struct {
	NextPlayer string `json:"next_player"`
}

type GamesListPayload struct {
	Games []game.Summary `json:"games"`
}

type ItemListPayload struct {
	Items []catalog.Item `json:"items"`
}

// ConnectedPayload tells a new connection the id the server knows it by
type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func gameUpdate(snap game.Snapshot, effect string) GameUpdatePayload {
	return GameUpdatePayload{
		Players:       snap.Players,
		Effect:        effect,
		CurrentPlayer: snap.CurrentPlayer,
		Board:         snap.Board,
	}
}
