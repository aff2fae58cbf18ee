package main

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kadencja"
	"kadencja/internal/catalog"
	"kadencja/internal/config"
	"kadencja/internal/session"
)

func testConfig() *config.ServerConfig {
	cfg := config.DefaultConfig()
	cfg.Server.Port = "0"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestNewApp_Routes(t *testing.T) {
	app, err := NewApp(testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	testCases := []struct {
		method       string
		path         string
		expectedCode int
	}{
		{"GET", "/health/live", http.StatusOK},
		{"GET", "/health/ready", http.StatusOK},
		{"GET", "/api/games", http.StatusOK},
		{"GET", "/room/ZZZZZZ/qr", http.StatusNotFound},
		{"GET", "/ws", http.StatusBadRequest}, // not an upgrade request
		{"GET", "/nowhere", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			app.Handler().ServeHTTP(w, req)

			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	embedded, err := loadCatalog("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, kadencja.BoardYAML, 0644))
	fromFile, err := loadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, embedded.BoardSize(), fromFile.BoardSize())

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("spaces: []\n"), 0644))
	_, err = loadCatalog(broken)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)

	cfg := testConfig()
	cfg.Game.BoardFile = broken
	_, err = NewApp(cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestServe_GracefulShutdown(t *testing.T) {
	app, err := NewApp(testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health/live"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = http.Get(url)
	assert.Error(t, err, "listener is closed after shutdown")
}

func TestServe_SweepsIdleRooms(t *testing.T) {
	cfg := testConfig()
	cfg.Game.RoomTimeout = time.Millisecond
	cfg.Game.SweepInterval = 10 * time.Millisecond
	app, err := NewApp(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	room, err := app.store.CreateRoom("Alice")
	require.NoError(t, err)
	_, err = room.Join("c1", "Alice", "avatar1")
	require.NoError(t, err)
	_, err = room.Disconnect("c1")
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	assert.Eventually(t, func() bool { return app.store.RoomCount() == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestServe_LobbyStreamOutlivesWriteTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Server.WriteTimeout = time.Second
	app, err := NewApp(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer reqCancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, "http://"+ln.Addr().String()+"/sse/lobby", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(substr string) {
		t.Helper()
		for lines.Scan() {
			if strings.Contains(lines.Text(), substr) {
				return
			}
		}
		t.Fatalf("lobby stream closed before %q: %v", substr, lines.Err())
	}
	waitFor(`"games":[]`)

	time.Sleep(cfg.Server.WriteTimeout + 500*time.Millisecond)

	create, err := session.NewIntent(session.IntentCreateRoom, session.CreateRoomData{Name: "Alice"})
	require.NoError(t, err)
	app.service.Handle("c1", create)

	rooms := app.service.GamesList()
	require.Len(t, rooms, 1)
	waitFor(rooms[0].Code)
}
