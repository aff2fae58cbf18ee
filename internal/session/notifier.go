package session

//go:generate go tool mockgen -destination=./mocks/notifier_mock.go -package=mocks . Notifier

// Notifier delivers notifications to connected clients
type Notifier interface {
	// Send delivers to one connection
	Send(connID string, n Notification)
	// Broadcast delivers to every member of a room
	Broadcast(roomCode string, n Notification)
	// BroadcastExcept delivers to every member of a room but one
	BroadcastExcept(roomCode, exceptConnID string, n Notification)
	// BroadcastAll delivers to every connection and lobby watcher
	BroadcastAll(n Notification)
	// JoinRoom adds a connection to a room's broadcast group
	JoinRoom(connID, roomCode string)
	// LeaveRoom removes a connection from a room's broadcast group
	LeaveRoom(connID, roomCode string)
}
