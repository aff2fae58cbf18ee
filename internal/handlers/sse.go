package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	datastar "github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"kadencja/internal/session"
)

const (
	lobbyHeartbeat = 30 * time.Second
	maxLobbyQuery  = 8 << 10
)

var (
	errLobbyQueryTooLarge = errors.New("query string too large")
	errLobbyParam         = errors.New("unexpected query parameter")
	errLobbySignals       = errors.New("invalid datastar signals")
)

// checkLobbyQuery accepts at most one datastar parameter whose signals are
// limited to the games list the stream patches.
func checkLobbyQuery(r *http.Request) error {
	if len(r.URL.RawQuery) > maxLobbyQuery {
		return errLobbyQueryTooLarge
	}
	params, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return errLobbyParam
	}
	for key, values := range params {
		if key != datastar.DatastarKey || len(values) != 1 {
			return errLobbyParam
		}
	}

	var signals map[string]json.RawMessage
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return errLobbySignals
	}
	for name := range signals {
		if name != "games" {
			return errLobbySignals
		}
	}
	return nil
}

// StreamLobby streams the list of joinable rooms as datastar signal patches
func (h *Handler) StreamLobby(w http.ResponseWriter, r *http.Request) {
	if err := checkLobbyQuery(r); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errLobbyQueryTooLarge) {
			status = http.StatusRequestURITooLong
		}
		http.Error(w, err.Error(), status)
		return
	}

	// The stream outlives any server-wide write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("cannot clear lobby stream write deadline", zap.Error(err))
	}

	sse := datastar.NewSSE(w, r)

	events := h.hub.Lobby().Subscribe(lobbyTopic)
	defer h.hub.Lobby().Unsubscribe(lobbyTopic, events)

	h.logger.Debug("lobby stream opened", zap.String("remote", r.RemoteAddr))

	if err := sse.MarshalAndPatchSignals(map[string]interface{}{
		"games": h.service.GamesList(),
	}); err != nil {
		h.logger.Warn("failed to send lobby state", zap.Error(err))
		return
	}

	heartbeat := time.NewTicker(lobbyHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("lobby stream closed", zap.String("remote", r.RemoteAddr))
			return
		case <-heartbeat.C:
			// Browsers may close idle streams; resend the current list.
			if err := sse.MarshalAndPatchSignals(map[string]interface{}{
				"games": h.service.GamesList(),
			}); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			list, ok := event.Data.(session.GamesListPayload)
			if !ok {
				continue
			}
			if err := sse.MarshalAndPatchSignals(map[string]interface{}{
				"games": list.Games,
			}); err != nil {
				return
			}
		}
	}
}
