package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// Membership is keyed by the stable user identifier so that duplicate
// display names cannot remove each other, and broadcast iterates the
// room index rather than every open connection.
// It never closes adapter-owned resources.
type roomImpl struct {
	room  *domain.Room
	limit int

	mu      sync.RWMutex
	members map[domain.UserID]*Session
	history []domain.Message
}

// NewRoomService creates a room holding at most historyLimit messages.
func NewRoomService(room *domain.Room, historyLimit int) RoomService {
	return &roomImpl{
		room:    room,
		limit:   historyLimit,
		members: make(map[domain.UserID]*Session),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *roomImpl) MemberNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.members))
	for _, s := range r.members {
		if u := s.User(); u != nil {
			out = append(out, u.Username)
		}
	}
	return out
}

// History returns a copy; callers may marshal it without holding the lock.
func (r *roomImpl) History() []domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Message, len(r.history))
	copy(out, r.history)
	return out
}

// Append stores a message, evicting the oldest once past the limit.
func (r *roomImpl) Append(m domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, m)
	if len(r.history) > r.limit {
		r.history = r.history[1:]
	}
}

func (r *roomImpl) AddMember(s *Session) {
	u := s.User()
	if u == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[u.ID] = s
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("user", string(u.ID)).Msg("member added")
}

// RemoveMember drops s from the index, but only while the index still
// points at it. A displaced connection tearing down late must not take
// the replacement's membership with it. The bool reports whether s
// actually held the slot.
func (r *roomImpl) RemoveMember(s *Session) bool {
	u := s.User()
	if u == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[u.ID] != s {
		return false
	}
	delete(r.members, u.ID)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("user", string(u.ID)).Msg("member removed")
	return true
}

// Broadcast delivers data to every member except exclude. Delivery is
// best-effort: a full or closed recipient is collected in the result and
// never aborts the loop.
func (r *roomImpl) Broadcast(data Frame, exclude SessionID) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for _, m := range r.members {
		if m.ID() == exclude {
			continue
		}
		if err := m.Conn().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.room.ID)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
