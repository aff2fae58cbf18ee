package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kadencja"
	"kadencja/internal/catalog"
	"kadencja/internal/config"
	"kadencja/internal/session"
	"kadencja/internal/store"
)

type testEnv struct {
	handler *Handler
	hub     *Hub
	store   *store.MemoryStore
	server  *httptest.Server
}

// newTestConfig returns a valid configuration for tests
func newTestConfig() *config.ServerConfig {
	cfg := config.DefaultConfig()
	cfg.Server.Port = "0"
	cfg.Server.Host = "127.0.0.1"
	return cfg
}

// newTestEnv wires the full stack behind an httptest server
func newTestEnv(t *testing.T, cfg *config.ServerConfig) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = newTestConfig()
	}
	cat, err := catalog.Load(kadencja.BoardYAML)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	st := store.NewMemoryStore(cat, store.Options{
		MaxPlayers: cfg.Game.MaxPlayersPerRoom,
		CodeLength: cfg.Game.RoomCodeLength,
	})
	hub := NewHub(logger)
	svc := session.NewService(st, cat, hub, logger)
	h := New(st, svc, hub, cfg, logger)

	srv := httptest.NewServer(SetupRouter(h, cfg, &RouterOptions{DisableRateLimiting: true}))
	t.Cleanup(srv.Close)

	return &testEnv{handler: h, hub: hub, store: st, server: srv}
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (e *testEnv) dial(t *testing.T) (*websocket.Conn, string) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var hello session.ConnectedPayload
	readUntil(t, conn, session.NotifyConnected, &hello)
	require.NotEmpty(t, hello.ConnectionID)
	return conn, hello.ConnectionID
}

func writeIntent(t *testing.T, conn *websocket.Conn, typ session.IntentType, data any) {
	t.Helper()
	intent, err := session.NewIntent(typ, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(intent))
}

// readUntil skips messages until one of the wanted type arrives and decodes its data
func readUntil(t *testing.T, conn *websocket.Conn, typ session.NotificationType, into any) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var env envelope
		require.NoError(t, conn.ReadJSON(&env), "waiting for %s", typ)
		if env.Type != string(typ) {
			continue
		}
		if into != nil {
			require.NoError(t, json.Unmarshal(env.Data, into))
		}
		return
	}
}
