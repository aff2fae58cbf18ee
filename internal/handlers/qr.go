package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"go.uber.org/zap"

	"kadencja/internal/game"
)

// RoomQR serves a PNG QR code that opens the join page for a room
func (h *Handler) RoomQR(w http.ResponseWriter, r *http.Request) {
	room, err := h.store.GetRoom(chi.URLParam(r, "code"))
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, game.ErrInvalidRoomCode) {
			status = http.StatusBadRequest
		}
		http.Error(w, "Room not found", status)
		return
	}

	png, err := generateQRCode(joinURL(r, room.Code))
	if err != nil {
		h.logger.Error("failed to generate QR code", zap.String("room", room.Code), zap.Error(err))
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

type bufferCloser struct {
	*bytes.Buffer
}

func (bufferCloser) Close() error { return nil }

// generateQRCode renders the URL as a PNG
func generateQRCode(target string) ([]byte, error) {
	qrc, err := qrcode.NewWith(target,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	buf := bufferCloser{Buffer: new(bytes.Buffer)}
	writer := standard.NewWithWriter(buf,
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8), // 8 pixels per module
	)

	if err := qrc.Save(writer); err != nil {
		return nil, fmt.Errorf("failed to save QR code: %w", err)
	}
	return buf.Bytes(), nil
}

// joinURL builds the link a phone should open to join a room
func joinURL(r *http.Request, code string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     "/",
		RawQuery: url.Values{"room": {code}}.Encode(),
	}
	return u.String()
}
