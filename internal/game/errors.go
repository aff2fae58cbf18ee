package game

import "errors"

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrInvalidRoomCode    = errors.New("invalid room code")
	ErrInvalidName        = errors.New("name is required")
	ErrRoomFull           = errors.New("room is full")
	ErrNotHost            = errors.New("only the host can do that")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrGameNotActive      = errors.New("game is not active")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrUnknownAction      = errors.New("unknown action")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrItemNotFound       = errors.New("item not found")
	ErrAlreadyOwned       = errors.New("item already owned")
	ErrInvalidMoveData    = errors.New("invalid move data")
	ErrNoOpponents        = errors.New("no other players on this space")
	ErrConnectionInUse    = errors.New("connection already holds another player")
)
