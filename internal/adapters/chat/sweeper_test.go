package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Parlor/internal/core"
)

type pingConn struct {
	mu    sync.Mutex
	pings int
}

func (p *pingConn) TrySend(core.Frame) error { return nil }
func (p *pingConn) Close()                   {}

func (p *pingConn) Ping() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pings++
	return nil
}

func (p *pingConn) pinged() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pings
}

func TestSweeperTwoStrikeTermination(t *testing.T) {
	sw := NewSweeper(time.Minute)
	pc := &pingConn{}
	sess := core.NewSession("s1", pc)

	terminated := false
	sw.Track(sess, func() {
		terminated = true
		sw.Untrack(sess.ID())
	})

	// First sweep: connection was alive, gets marked stale and pinged.
	sw.sweep()
	if terminated {
		t.Fatalf("terminated on first sweep")
	}
	if pc.pinged() != 1 {
		t.Fatalf("pings = %d, want 1", pc.pinged())
	}
	if sess.IsAlive() {
		t.Fatalf("sweep did not mark the session stale")
	}

	// No pong arrives: the second sweep terminates.
	sw.sweep()
	if !terminated {
		t.Fatalf("unresponsive connection survived two sweeps")
	}
	if sw.Len() != 0 {
		t.Fatalf("terminated connection still tracked")
	}
}

func TestSweeperPongKeepsConnection(t *testing.T) {
	sw := NewSweeper(time.Minute)
	sess := core.NewSession("s1", &pingConn{})

	terminated := false
	sw.Track(sess, func() { terminated = true })

	sw.sweep()
	sess.MarkAlive() // pong received between ticks
	sw.sweep()
	if terminated {
		t.Fatalf("ponging connection was terminated")
	}
}

func TestSweeperUntrackStopsWatching(t *testing.T) {
	sw := NewSweeper(time.Minute)
	sess := core.NewSession("s1", &pingConn{})

	terminated := false
	sw.Track(sess, func() { terminated = true })
	sw.Untrack(sess.ID())

	sess.MarkStale()
	sw.sweep()
	if terminated {
		t.Fatalf("untracked connection was terminated")
	}
}
