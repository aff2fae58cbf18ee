package session_test

import (
	"sync"

	"kadencja/internal/session"
)

// recorder is an in-memory Notifier that keeps everything each connection received
type recorder struct {
	mu      sync.Mutex
	members map[string]map[string]bool
	inbox   map[string][]session.Notification
	global  []session.Notification
}

func newRecorder() *recorder {
	return &recorder{
		members: make(map[string]map[string]bool),
		inbox:   make(map[string][]session.Notification),
	}
}

func (r *recorder) Send(connID string, n session.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inbox[connID] = append(r.inbox[connID], n)
}

func (r *recorder) Broadcast(roomCode string, n session.Notification) {
	r.BroadcastExcept(roomCode, "", n)
}

func (r *recorder) BroadcastExcept(roomCode, exceptConnID string, n session.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for connID := range r.members[roomCode] {
		if connID != exceptConnID {
			r.inbox[connID] = append(r.inbox[connID], n)
		}
	}
}

func (r *recorder) BroadcastAll(n session.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = append(r.global, n)
}

func (r *recorder) JoinRoom(connID, roomCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[roomCode] == nil {
		r.members[roomCode] = make(map[string]bool)
	}
	r.members[roomCode][connID] = true
}

func (r *recorder) LeaveRoom(connID, roomCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members[roomCode], connID)
}

// last returns the most recent notification of a type delivered to connID
func (r *recorder) last(connID string, t session.NotificationType) (session.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.inbox[connID]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == t {
			return msgs[i], true
		}
	}
	return session.Notification{}, false
}

func (r *recorder) count(connID string, t session.NotificationType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, msg := range r.inbox[connID] {
		if msg.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) isMember(connID, roomCode string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[roomCode][connID]
}

func (r *recorder) lastGlobal() (session.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.global) == 0 {
		return session.Notification{}, false
	}
	return r.global[len(r.global)-1], true
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inbox = make(map[string][]session.Notification)
	r.global = nil
}
