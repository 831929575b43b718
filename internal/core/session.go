package core

import (
	"sync"
	"sync/atomic"

	"github.com/dkeye/Parlor/internal/domain"
)

// State is the connection lifecycle position. Transitions only move
// forward through auth and then oscillate between Authenticated and
// InRoom on join/leave.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateInRoom
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateInRoom:
		return "in_room"
	}
	return "unknown"
}

// Session is the server-side object for one live connection.
// State, user and room are mutated only on the owning connection's read
// loop and during terminate; the sweeper touches the liveness flag only,
// and broadcasts only ever call TrySend on the connection. The mutex
// covers the cross-goroutine reads (room index snapshots, sweeper logs).
type Session struct {
	id    SessionID
	conn  ClientConnection
	alive atomic.Bool

	mu    sync.RWMutex
	state State
	user  *domain.User
	room  domain.RoomID
}

func NewSession(id SessionID, conn ClientConnection) *Session {
	s := &Session{id: id, conn: conn}
	s.alive.Store(true)
	return s
}

func (s *Session) ID() SessionID          { return s.id }
func (s *Session) Conn() ClientConnection { return s.conn }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns nil until Authenticate has run.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Room returns the current room and whether the session is in one.
func (s *Session) Room() (domain.RoomID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room, s.state == StateInRoom
}

// Authenticate moves Unauthenticated -> Authenticated.
func (s *Session) Authenticate(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.state = StateAuthenticated
}

// EnterRoom moves Authenticated/InRoom -> InRoom.
func (s *Session) EnterRoom(id domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = id
	s.state = StateInRoom
}

// LeaveRoom moves InRoom -> Authenticated.
func (s *Session) LeaveRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = ""
	if s.state == StateInRoom {
		s.state = StateAuthenticated
	}
}

// Liveness flag protocol: reset true on connect and on pong, set false
// by the sweeper before each ping. Two stale observations in a row get
// the connection terminated.
func (s *Session) MarkAlive()    { s.alive.Store(true) }
func (s *Session) MarkStale()    { s.alive.Store(false) }
func (s *Session) IsAlive() bool { return s.alive.Load() }
