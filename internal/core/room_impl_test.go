package core

import (
	"fmt"
	"testing"

	"github.com/dkeye/Parlor/internal/domain"
)

func newTestRoom(limit int) RoomService {
	return NewRoomService(&domain.Room{ID: "general", Name: "General"}, limit)
}

func newMember(sid SessionID, uid domain.UserID, name string) (*Session, *fakeConn) {
	fc := &fakeConn{}
	s := NewSession(sid, fc)
	s.Authenticate(&domain.User{ID: uid, Username: name})
	return s, fc
}

func TestHistoryEvictsOldest(t *testing.T) {
	r := newTestRoom(3)
	for i := 1; i <= 5; i++ {
		r.Append(domain.Message{Username: "alice", Text: fmt.Sprintf("msg-%d", i)})
	}

	h := r.History()
	if len(h) != 3 {
		t.Fatalf("history length = %d, want 3", len(h))
	}
	for i, want := range []string{"msg-3", "msg-4", "msg-5"} {
		if h[i].Text != want {
			t.Errorf("history[%d] = %q, want %q", i, h[i].Text, want)
		}
	}
}

func TestHistoryCapHundred(t *testing.T) {
	r := newTestRoom(100)
	for i := 0; i < 150; i++ {
		r.Append(domain.Message{Username: "alice", Text: fmt.Sprintf("m%d", i)})
	}
	h := r.History()
	if len(h) != 100 {
		t.Fatalf("history length = %d, want 100", len(h))
	}
	if h[0].Text != "m50" || h[99].Text != "m149" {
		t.Fatalf("window = [%s..%s], want [m50..m149]", h[0].Text, h[99].Text)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	r := newTestRoom(10)
	r.Append(domain.Message{Username: "alice", Text: "hi"})

	h := r.History()
	h[0].Text = "tampered"
	if got := r.History()[0].Text; got != "hi" {
		t.Fatalf("stored history mutated to %q", got)
	}
}

func TestMembershipKeyedByIdentifier(t *testing.T) {
	r := newTestRoom(10)
	s1, _ := newMember("s1", "u1", "alice")
	s2, _ := newMember("s2", "u1", "alice") // same identifier, new connection

	r.AddMember(s1)
	r.AddMember(s2)
	if got := r.MemberCount(); got != 1 {
		t.Fatalf("member count = %d, want 1 (same identifier)", got)
	}

	// The displaced connection's teardown must not evict the session
	// that took over the identifier.
	if r.RemoveMember(s1) {
		t.Fatalf("displaced session removed the replacement's membership")
	}
	if got := r.MemberCount(); got != 1 {
		t.Fatalf("member count after stale remove = %d, want 1", got)
	}

	if !r.RemoveMember(s2) {
		t.Fatalf("current session failed to remove its own membership")
	}
	if got := r.MemberCount(); got != 0 {
		t.Fatalf("member count after remove = %d, want 0", got)
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	r := newTestRoom(10)
	sender, senderConn := newMember("s1", "u1", "alice")
	other, otherConn := newMember("s2", "u2", "bob")
	r.AddMember(sender)
	r.AddMember(other)

	res := r.Broadcast(Frame(`{"type":"user-typing"}`), sender.ID())
	if res.SentTo != 1 {
		t.Fatalf("SentTo = %d, want 1", res.SentTo)
	}
	if len(senderConn.sent()) != 0 {
		t.Errorf("sender received its own broadcast")
	}
	if len(otherConn.sent()) != 1 {
		t.Errorf("other member got %d frames, want 1", len(otherConn.sent()))
	}
}

func TestBroadcastWithoutExclusionReachesAll(t *testing.T) {
	r := newTestRoom(10)
	a, ac := newMember("s1", "u1", "alice")
	b, bc := newMember("s2", "u2", "bob")
	r.AddMember(a)
	r.AddMember(b)

	res := r.Broadcast(Frame(`{"type":"new-message"}`), "")
	if res.SentTo != 2 {
		t.Fatalf("SentTo = %d, want 2", res.SentTo)
	}
	if len(ac.sent()) != 1 || len(bc.sent()) != 1 {
		t.Fatalf("both members must receive the frame")
	}
}

func TestBroadcastSurvivesFailedRecipient(t *testing.T) {
	r := newTestRoom(10)
	a, _ := newMember("s1", "u1", "alice")
	b, bc := newMember("s2", "u2", "bob")
	c, cc := newMember("s3", "u3", "carol")
	bc.fail = true
	r.AddMember(a)
	r.AddMember(b)
	r.AddMember(c)

	res := r.Broadcast(Frame(`x`), a.ID())
	if res.SentTo != 1 {
		t.Fatalf("SentTo = %d, want 1", res.SentTo)
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != b {
		t.Fatalf("expected exactly b dropped")
	}
	if len(cc.sent()) != 1 {
		t.Fatalf("failure for one recipient aborted delivery to another")
	}
}

func TestMemberNames(t *testing.T) {
	r := newTestRoom(10)
	a, _ := newMember("s1", "u1", "alice")
	b, _ := newMember("s2", "u2", "bob")
	r.AddMember(a)
	r.AddMember(b)

	names := r.MemberNames()
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2", len(names))
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["alice"] || !seen["bob"] {
		t.Fatalf("names = %v, want alice and bob", names)
	}
}
