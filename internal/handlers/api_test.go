package handlers

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kadencja/internal/game"
)

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := get(t, env.server.URL+"/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	_, err := env.store.CreateRoom("Alice")
	require.NoError(t, err)

	resp, body = get(t, env.server.URL+"/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ready struct {
		Status string `json:"status"`
		Rooms  int    `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(body, &ready))
	assert.Equal(t, "ok", ready.Status)
	assert.Equal(t, 1, ready.Rooms)
}

func TestListGames(t *testing.T) {
	env := newTestEnv(t, nil)

	lobby, err := env.store.CreateRoom("Alice")
	require.NoError(t, err)
	_, err = lobby.Join("c1", "Alice", "avatar1")
	require.NoError(t, err)

	started, err := env.store.CreateRoom("Bob")
	require.NoError(t, err)
	_, err = started.Join("c2", "Bob", "avatar2")
	require.NoError(t, err)
	_, err = started.Start("c2")
	require.NoError(t, err)

	resp, body := get(t, env.server.URL+"/api/games")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var payload struct {
		Games []game.Summary `json:"games"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.Games, 1)
	assert.Equal(t, lobby.Code, payload.Games[0].Code)
	assert.Equal(t, 1, payload.Games[0].PlayerCount)
	assert.Equal(t, game.DefaultMaxPlayers, payload.Games[0].MaxPlayers)
}

func TestRoomQR(t *testing.T) {
	env := newTestEnv(t, nil)
	room, err := env.store.CreateRoom("Alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		code   string
		status int
	}{
		{name: "existing room", code: room.Code, status: http.StatusOK},
		{name: "lower case code", code: strings.ToLower(room.Code), status: http.StatusOK},
		{name: "unknown room", code: "ZZZZZZ", status: http.StatusNotFound},
		{name: "malformed code", code: "12-34", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, env.server.URL+"/room/"+tt.code+"/qr")
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
			img, err := png.Decode(bytes.NewReader(body))
			require.NoError(t, err)
			assert.Greater(t, img.Bounds().Dx(), 100)
		})
	}
}

func TestJoinURL(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://play.example:8080/room/ABCDEF/qr", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://play.example:8080/?room=ABCDEF", joinURL(req, "ABCDEF"))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://play.example:8080/?room=ABCDEF", joinURL(req, "ABCDEF"))
}
