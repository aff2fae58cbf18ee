package session

import (
	"encoding/json"
	"fmt"
)

// IntentType names an inbound client request
type IntentType string

const (
	IntentCreateRoom         IntentType = "create-room"
	IntentJoinRoom           IntentType = "join-room"
	IntentLeaveRoom          IntentType = "leave-room"
	IntentStartGame          IntentType = "start-game"
	IntentRollDice           IntentType = "roll-dice"
	IntentMove               IntentType = "move"
	IntentFieldAction        IntentType = "field-action"
	IntentStartConfrontation IntentType = "start-confrontation"
	IntentConfrontationRoll  IntentType = "confrontation-roll"
	IntentEndConfrontation   IntentType = "end-confrontation"
	IntentEndTurn            IntentType = "end-turn"
	IntentGetItems           IntentType = "get-items"
	IntentGetGames           IntentType = "get-games"
)

// Intent is one decoded client message
type Intent struct {
	Type IntentType      `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewIntent builds an intent with a JSON payload
func NewIntent(t IntentType, data any) (Intent, error) {
	if data == nil {
		return Intent{Type: t}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Intent{}, fmt.Errorf("encoding %s intent: %w", t, err)
	}
	return Intent{Type: t, Data: raw}, nil
}

// Decode unmarshals the payload into v. An absent payload leaves v untouched.
func (i Intent) Decode(v any) error {
	if len(i.Data) == 0 {
		return nil
	}
	return json.Unmarshal(i.Data, v)
}

type CreateRoomData struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type JoinRoomData struct {
	Code   string `json:"game_code"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// MoveData carries the chosen destination. A nil position means it was missing.
type MoveData struct {
	NewPosition *int `json:"new_position"`
}

type FieldActionData struct {
	ActionType string `json:"action_type"`
	ItemName   string `json:"item_name,omitempty"`
}

type EndConfrontationData struct {
	WinnerID string `json:"winner_id"`
	LoserID  string `json:"loser_id"`
}
