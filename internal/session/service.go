package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"kadencja/internal/catalog"
	"kadencja/internal/game"
	"kadencja/internal/store"
)

// Service applies client intents to rooms and reports the results through a
// Notifier. It is safe for concurrent use; rooms serialize their own intents.
type Service struct {
	store    *store.MemoryStore
	catalog  *catalog.Catalog
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates the intent entry point
func NewService(st *store.MemoryStore, cat *catalog.Catalog, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    st,
		catalog:  cat,
		notifier: notifier,
		logger:   logger.Named("session"),
	}
}

// Handle applies one intent from a connection. Failures are reported to that
// connection only; a panic is logged and reported as a generic error.
func (s *Service) Handle(connID string, intent Intent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("intent handler panicked",
				zap.String("conn", connID),
				zap.String("intent", string(intent.Type)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			s.notifier.Send(connID, Notification{
				Type: NotifyError,
				Data: ErrorPayload{Code: internalErrorCode, Message: internalErrorMessage},
			})
		}
	}()

	s.logger.Debug("intent received", zap.String("conn", connID), zap.String("intent", string(intent.Type)))

	if err := s.dispatch(connID, intent); err != nil {
		s.fail(connID, intent.Type, err)
	}
}

func (s *Service) dispatch(connID string, intent Intent) error {
	switch intent.Type {
	case IntentCreateRoom:
		var data CreateRoomData
		if err := intent.Decode(&data); err != nil {
			return fmt.Errorf("%w: %v", game.ErrInvalidName, err)
		}
		return s.createRoom(connID, data)
	case IntentJoinRoom:
		var data JoinRoomData
		if err := intent.Decode(&data); err != nil {
			return fmt.Errorf("%w: %v", game.ErrInvalidRoomCode, err)
		}
		return s.joinRoom(connID, data)
	case IntentLeaveRoom:
		return s.leaveRoom(connID)
	case IntentStartGame:
		return s.startGame(connID)
	case IntentRollDice:
		return s.rollDice(connID)
	case IntentMove:
		var data MoveData
		if err := intent.Decode(&data); err != nil || data.NewPosition == nil {
			return game.ErrInvalidMoveData
		}
		return s.move(connID, *data.NewPosition)
	case IntentFieldAction:
		var data FieldActionData
		if err := intent.Decode(&data); err != nil {
			return fmt.Errorf("%w: %v", game.ErrUnknownAction, err)
		}
		return s.fieldAction(connID, data)
	case IntentStartConfrontation:
		return s.startConfrontation(connID)
	case IntentConfrontationRoll:
		return s.confrontationRoll(connID)
	case IntentEndConfrontation:
		var data EndConfrontationData
		if err := intent.Decode(&data); err != nil {
			return fmt.Errorf("%w: %v", game.ErrPlayerNotFound, err)
		}
		return s.endConfrontation(connID, data)
	case IntentEndTurn:
		return s.endTurn(connID)
	case IntentGetItems:
		return s.getItems(connID)
	case IntentGetGames:
		s.notifier.Send(connID, s.gamesList())
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, intent.Type)
	}
}

func (s *Service) fail(connID string, intent IntentType, err error) {
	payload := describe(err)
	if payload.Code == internalErrorCode {
		s.logger.Error("intent failed", zap.String("conn", connID), zap.String("intent", string(intent)), zap.Error(err))
	} else {
		s.logger.Debug("intent rejected", zap.String("conn", connID), zap.String("intent", string(intent)), zap.Error(err))
	}
	s.notifier.Send(connID, Notification{Type: NotifyError, Data: payload})
}

func (s *Service) createRoom(connID string, data CreateRoomData) error {
	room, err := s.store.CreateRoom(data.Name)
	if err != nil {
		return err
	}

	res, err := room.Join(connID, data.Name, data.Avatar)
	if err != nil {
		s.store.DeleteRoom(room.Code)
		return err
	}
	s.detach(connID)
	s.store.Register(connID, room.Code, res.Player.Name)
	s.notifier.JoinRoom(connID, room.Code)

	s.logger.Info("room created", zap.String("room", room.Code), zap.String("host", room.HostName))

	s.notifier.Send(connID, Notification{Type: NotifyRoomCreated, Data: RoomCodePayload{Code: room.Code}})
	s.notifier.Send(connID, Notification{Type: NotifyRoomState, Data: res.Snapshot})
	s.broadcastGames()
	return nil
}

func (s *Service) joinRoom(connID string, data JoinRoomData) error {
	room, err := s.store.GetRoom(data.Code)
	if err != nil {
		return err
	}
	if _, sess, err := s.store.Lookup(connID); err == nil && sess.RoomCode == room.Code &&
		sess.PlayerName != strings.TrimSpace(data.Name) {
		return fmt.Errorf("%w: already playing as %s", game.ErrConnectionInUse, sess.PlayerName)
	}

	res, err := room.Join(connID, data.Name, data.Avatar)
	if err != nil {
		return err
	}
	if _, sess, err := s.store.Lookup(connID); err == nil && sess.RoomCode != room.Code {
		s.detach(connID)
	}
	if res.Reconnected {
		s.store.Unregister(res.PreviousID)
		s.notifier.LeaveRoom(res.PreviousID, room.Code)
		s.logger.Info("player reconnected",
			zap.String("room", room.Code),
			zap.String("player", res.Player.Name),
			zap.String("previous_conn", res.PreviousID),
		)
	} else {
		s.logger.Info("player joined", zap.String("room", room.Code), zap.String("player", res.Player.Name))
	}
	s.store.Register(connID, room.Code, res.Player.Name)
	s.notifier.JoinRoom(connID, room.Code)

	s.notifier.Send(connID, Notification{Type: NotifyRoomState, Data: res.Snapshot})
	s.notifier.Broadcast(room.Code, playersUpdate(res.Snapshot))
	s.notifier.Send(connID, Notification{Type: NotifyRoomJoined, Data: RoomCodePayload{Code: room.Code}})
	s.broadcastGames()
	return nil
}

func (s *Service) leaveRoom(connID string) error {
	room, sess, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	res, err := room.Leave(connID)
	if err != nil {
		return err
	}
	s.store.Unregister(connID)
	s.notifier.LeaveRoom(connID, room.Code)

	s.logger.Info("player left", zap.String("room", room.Code), zap.String("player", sess.PlayerName))

	s.notifier.Send(connID, Notification{Type: NotifyRoomLeft, Data: RoomCodePayload{Code: room.Code}})
	if len(res.Snapshot.Players) == 0 {
		s.store.DeleteRoom(room.Code)
		s.logger.Info("room closed", zap.String("room", room.Code))
	} else {
		s.notifier.Broadcast(room.Code, playersUpdate(res.Snapshot))
		s.announceTurnChange(room.Code, res)
	}
	s.broadcastGames()
	return nil
}

// Disconnect handles a dropped connection. The player's ledger is kept so
// joining again under the same name resumes the game.
func (s *Service) Disconnect(connID string) {
	sess, ok := s.store.Unregister(connID)
	if !ok {
		return
	}
	room, err := s.store.GetRoom(sess.RoomCode)
	if err != nil {
		return
	}
	s.notifier.LeaveRoom(connID, room.Code)

	res, err := room.Disconnect(connID)
	if err != nil {
		if !errors.Is(err, game.ErrPlayerNotFound) {
			s.logger.Error("disconnect failed", zap.String("conn", connID), zap.Error(err))
		}
		return
	}

	s.logger.Info("player disconnected", zap.String("room", room.Code), zap.String("player", sess.PlayerName))

	s.notifier.Broadcast(room.Code, playersUpdate(res.Snapshot))
	s.announceTurnChange(room.Code, res)
	s.broadcastGames()
}

// detach drops a connection from whatever room it was bound to
func (s *Service) detach(connID string) {
	if _, _, err := s.store.Lookup(connID); err != nil {
		return
	}
	s.Disconnect(connID)
}

func (s *Service) announceTurnChange(code string, res game.DepartureResult) {
	if res.Snapshot.Status != game.StatusInProgress || res.Empty {
		return
	}
	if res.NextPlayer != "" && res.NextPlayer != res.Player.ID {
		s.notifier.Broadcast(code, Notification{Type: NotifyTurnEnded, Data: TurnEndedPayload{NextPlayer: res.NextPlayer}})
	}
}

func (s *Service) startGame(connID string) error {
	room, _, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	snap, err := room.Start(connID)
	if err != nil {
		return err
	}

	s.logger.Info("game started", zap.String("room", room.Code), zap.Int("players", len(snap.Players)))

	s.notifier.Broadcast(room.Code, Notification{Type: NotifyGameStarted, Data: GameStartedPayload{Snapshot: snap}})
	s.broadcastGames()
	return nil
}

func (s *Service) rollDice(connID string) error {
	room, _, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	roll, player, err := room.RollDice(connID)
	if err != nil {
		return err
	}

	s.notifier.Send(connID, Notification{
		Type: NotifyChooseMove,
		Data: ChooseMovePayload{Steps: roll.Steps, Positions: roll.Candidates},
	})
	s.notifier.BroadcastExcept(room.Code, connID, Notification{
		Type: NotifyPlayerRolled,
		Data: PlayerRolledPayload{PlayerName: player.Name, Steps: roll.Steps},
	})
	return nil
}

func (s *Service) move(connID string, position int) error {
	room, _, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	res, err := room.Move(connID, position)
	if err != nil {
		return err
	}

	update := gameUpdate(res.Snapshot, fmt.Sprintf("Moved to space %d. %s", res.Position+1, res.Effect))
	update.JustMoved = true
	update.CanPerformAction = true
	s.notifier.Broadcast(room.Code, Notification{Type: NotifyGameUpdate, Data: update})

	if len(res.CoLocated) > 0 {
		everyone := make([]game.PlayerState, 0, len(res.CoLocated)+1)
		everyone = append(everyone, res.CoLocated...)
		if mover, ok := findPlayer(res.Snapshot.Players, connID); ok {
			everyone = append(everyone, mover)
		}
		for _, p := range everyone {
			var others []string
			for _, o := range everyone {
				if o.ID != p.ID {
					others = append(others, o.Name)
				}
			}
			s.notifier.Send(p.ID, Notification{
				Type: NotifyConfrontationAvailable,
				Data: ConfrontationAvailablePayload{Players: others},
			})
		}
	}

	s.notifier.Send(connID, Notification{
		Type: NotifyFieldActions,
		Data: FieldActionsPayload{FieldType: res.SpaceType, Actions: res.Actions},
	})
	return nil
}

func (s *Service) fieldAction(connID string, data FieldActionData) error {
	room, _, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	res, err := room.FieldAction(connID, data.ActionType, data.ItemName)
	if err != nil {
		return err
	}

	s.notifier.Broadcast(room.Code, Notification{Type: NotifyGameUpdate, Data: gameUpdate(res.Snapshot, res.Effect)})
	s.notifier.Broadcast(room.Code, Notification{Type: NotifyTurnEnded, Data: TurnEndedPayload{NextPlayer: res.NextPlayer}})
	return nil
}

func (s *Service) startConfrontation(connID string) error {
	room, _, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	invite, err := room.StartConfrontation(connID)
	if err != nil {
		return err
	}

	contestants := make([]Contestant, 0, len(invite.Players))
	for _, p := range invite.Players {
		contestants = append(contestants, Contestant{ID: p.ID, Name: p.Name})
	}
	for _, p := range invite.Players {
		s.notifier.Send(p.ID, Notification{
			Type: NotifyStartConfrontation,
			Data: StartConfrontationPayload{Players: contestants},
		})
	}
	return nil
}

func (s *Service) confrontationRoll(connID string) error {
	room, _, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	roll, err := room.ConfrontationRoll(connID)
	if err != nil {
		return err
	}

	s.notifier.Broadcast(room.Code, Notification{Type: NotifyConfrontationRoll, Data: roll})
	return nil
}

func (s *Service) endConfrontation(connID string, data EndConfrontationData) error {
	room, _, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	out, err := room.EndConfrontation(connID, data.WinnerID, data.LoserID)
	if err != nil {
		return err
	}

	s.logger.Info("confrontation resolved",
		zap.String("room", room.Code),
		zap.String("winner", out.Winner.Name),
		zap.String("loser", out.Loser.Name),
	)

	s.notifier.Broadcast(room.Code, Notification{
		Type: NotifyConfrontationResult,
		Data: ConfrontationResultPayload{Winner: out.Winner.Name, Loser: out.Loser.Name},
	})
	s.notifier.Broadcast(room.Code, Notification{Type: NotifyGameUpdate, Data: gameUpdate(out.Snapshot, "")})
	s.notifier.Broadcast(room.Code, Notification{Type: NotifyTurnEnded, Data: TurnEndedPayload{NextPlayer: out.NextPlayer}})
	return nil
}

func (s *Service) endTurn(connID string) error {
	room, _, err := s.store.Lookup(connID)
	if err != nil {
		return err
	}
	next, err := room.EndTurn(connID)
	if err != nil {
		return err
	}

	s.notifier.Broadcast(room.Code, Notification{Type: NotifyTurnEnded, Data: TurnEndedPayload{NextPlayer: next}})
	return nil
}

func (s *Service) getItems(connID string) error {
	if _, _, err := s.store.Lookup(connID); err != nil {
		return err
	}
	s.notifier.Send(connID, Notification{Type: NotifyItemList, Data: ItemListPayload{Items: s.catalog.Items()}})
	return nil
}

// Sweep closes rooms that have had no connected players for timeout
func (s *Service) Sweep(now time.Time, timeout time.Duration) []string {
	removed := s.store.Sweep(now, timeout)
	if len(removed) == 0 {
		return nil
	}
	s.logger.Info("idle rooms closed", zap.Strings("rooms", removed))
	s.broadcastGames()
	return removed
}

// GamesList returns the lobby rooms
func (s *Service) GamesList() []game.Summary {
	return s.store.ListLobbies()
}

func (s *Service) gamesList() Notification {
	return Notification{Type: NotifyGamesList, Data: GamesListPayload{Games: s.GamesList()}}
}

func (s *Service) broadcastGames() {
	s.notifier.BroadcastAll(s.gamesList())
}

func playersUpdate(snap game.Snapshot) Notification {
	connected := make([]game.PlayerState, 0, len(snap.Players))
	for _, p := range snap.Players {
		if p.Connected {
			connected = append(connected, p)
		}
	}
	return Notification{Type: NotifyPlayersUpdate, Data: PlayersUpdatePayload{Code: snap.Code, Players: connected}}
}

func findPlayer(players []game.PlayerState, id string) (game.PlayerState, bool) {
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return game.PlayerState{}, false
}
