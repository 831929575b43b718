package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/core"
)

type trackedConn struct {
	sess      *core.Session
	terminate func()
}

// Sweeper is the liveness failure detector: every period it terminates
// any connection still stale from the previous tick, then marks the
// rest stale and pings them. A connection that never pongs is gone
// after at most two periods.
type Sweeper struct {
	period time.Duration

	mu    sync.Mutex
	conns map[core.SessionID]*trackedConn
}

func NewSweeper(period time.Duration) *Sweeper {
	return &Sweeper{
		period: period,
		conns:  make(map[core.SessionID]*trackedConn),
	}
}

// Track starts watching sess. terminate must be idempotent; the sweeper
// may race a transport close.
func (s *Sweeper) Track(sess *core.Session, terminate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[sess.ID()] = &trackedConn{sess: sess, terminate: terminate}
}

func (s *Sweeper) Untrack(id core.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, id)
}

func (s *Sweeper) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.period)
	defer t.Stop()
	log.Info().Str("module", "chat.sweeper").Dur("period", s.period).Msg("sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "chat.sweeper").Msg("sweeper stopped")
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	s.mu.Lock()
	snapshot := make([]*trackedConn, 0, len(s.conns))
	for _, tc := range s.conns {
		snapshot = append(snapshot, tc)
	}
	s.mu.Unlock()

	// Terminations run outside the lock; they call back into Untrack.
	for _, tc := range snapshot {
		if !tc.sess.IsAlive() {
			log.Warn().Str("module", "chat.sweeper").Str("sid", string(tc.sess.ID())).Msg("terminating dead connection")
			tc.terminate()
			continue
		}
		tc.sess.MarkStale()
		if err := tc.sess.Conn().Ping(); err != nil {
			log.Debug().Err(err).Str("module", "chat.sweeper").Str("sid", string(tc.sess.ID())).Msg("ping failed")
		}
	}
}
