package core

import "github.com/dkeye/Parlor/internal/domain"

// Frame is a marshaled server event, ready for the wire.
type Frame []byte

// SessionID identifies one live connection. Unlike domain.UserID it is
// never reused across connections.
type SessionID string

// ClientConnection abstracts the transport endpoint of one session.
// Owned by the adapter; the adapter must Close() it.
type ClientConnection interface {
	TrySend(Frame) error
	Ping() error
	Close()
}

// PublishResult reports delivery stats/backpressure to the dispatcher.
type PublishResult struct {
	SentTo  int
	Dropped []*Session
}

// RoomService is the core-facing API of a room.
// It owns the membership index and history but never touches transport
// resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MemberNames() []string
	History() []domain.Message

	Append(domain.Message)
	AddMember(s *Session)
	RemoveMember(s *Session) bool
	Broadcast(data Frame, exclude SessionID) PublishResult
}

type RoomInfo struct {
	ID          domain.RoomID   `json:"id"`
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"userCount"`
}
