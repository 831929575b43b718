package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Parlor/internal/domain"
)

var errSendFailed = errors.New("send failed")

type fakeConn struct {
	mu     sync.Mutex
	frames []Frame
	fail   bool
	pings  int
}

func (f *fakeConn) TrySend(fr Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errSendFailed
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Ping() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) sent() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func TestSessionTransitions(t *testing.T) {
	s := NewSession("s1", &fakeConn{})

	if got := s.State(); got != StateUnauthenticated {
		t.Fatalf("initial state = %v, want unauthenticated", got)
	}
	if s.User() != nil {
		t.Fatalf("expected nil user before auth")
	}
	if _, ok := s.Room(); ok {
		t.Fatalf("expected no room before join")
	}

	s.Authenticate(&domain.User{ID: "u1", Username: "alice"})
	if got := s.State(); got != StateAuthenticated {
		t.Fatalf("state after auth = %v, want authenticated", got)
	}

	s.EnterRoom("general")
	if got := s.State(); got != StateInRoom {
		t.Fatalf("state after join = %v, want in_room", got)
	}
	room, ok := s.Room()
	if !ok || room != "general" {
		t.Fatalf("Room() = %q, %v; want general, true", room, ok)
	}

	s.LeaveRoom()
	if got := s.State(); got != StateAuthenticated {
		t.Fatalf("state after leave = %v, want authenticated", got)
	}
	if _, ok := s.Room(); ok {
		t.Fatalf("expected no room after leave")
	}
}

func TestSessionLeaveBeforeJoinKeepsState(t *testing.T) {
	s := NewSession("s1", &fakeConn{})
	s.Authenticate(&domain.User{ID: "u1", Username: "alice"})

	s.LeaveRoom()
	if got := s.State(); got != StateAuthenticated {
		t.Fatalf("leave without room changed state to %v", got)
	}
}

func TestSessionLiveness(t *testing.T) {
	s := NewSession("s1", &fakeConn{})
	if !s.IsAlive() {
		t.Fatalf("new session must start alive")
	}
	s.MarkStale()
	if s.IsAlive() {
		t.Fatalf("expected stale after MarkStale")
	}
	s.MarkAlive()
	if !s.IsAlive() {
		t.Fatalf("expected alive after MarkAlive")
	}
}
