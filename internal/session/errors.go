package session

import (
	"errors"

	"kadencja/internal/game"
	"kadencja/internal/store"
)

// ErrUnknownIntent is returned for message types the server does not handle
var ErrUnknownIntent = errors.New("unknown intent")

type clientError struct {
	err     error
	code    string
	message string
}

var clientErrors = []clientError{
	{game.ErrPlayerNotFound, "player_not_found", "Player not found"},
	{game.ErrRoomNotFound, "room_not_found", "Room not found"},
	{game.ErrInvalidRoomCode, "invalid_room_code", "Invalid room code"},
	{game.ErrInvalidName, "invalid_name", "Please enter your name"},
	{game.ErrRoomFull, "room_full", "The room is full"},
	{game.ErrNotHost, "not_host", "Only the host can start the game"},
	{game.ErrNotYourTurn, "not_your_turn", "It is not your turn"},
	{game.ErrGameNotActive, "game_not_active", "The game is not active"},
	{game.ErrGameAlreadyStarted, "game_already_started", "The game has already started"},
	{game.ErrUnknownAction, "unknown_action", "Unknown action"},
	{game.ErrInsufficientFunds, "insufficient_funds", "You cannot afford that"},
	{game.ErrItemNotFound, "item_not_found", "Item not found"},
	{game.ErrAlreadyOwned, "already_owned", "You already own that item"},
	{game.ErrInvalidMoveData, "invalid_move", "Invalid move"},
	{game.ErrNoOpponents, "no_opponents", "Nobody else is on your space"},
	{game.ErrConnectionInUse, "connection_in_use", "You are already playing here under another name"},
	{store.ErrRoomCodeExhausted, "room_code_exhausted", "Could not create a room, try again"},
	{ErrUnknownIntent, "unknown_intent", "Unknown action"},
}

const (
	internalErrorCode    = "internal"
	internalErrorMessage = "Something went wrong, try again"
)

// describe maps an error to the stable code and message shown to clients
func describe(err error) ErrorPayload {
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			return ErrorPayload{Code: ce.code, Message: ce.message}
		}
	}
	return ErrorPayload{Code: internalErrorCode, Message: internalErrorMessage}
}
