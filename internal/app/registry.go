package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/core"
	"github.com/dkeye/Parlor/internal/domain"
)

type directoryEntry struct {
	Username string
	RoomID   domain.RoomID
	Session  *core.Session
}

// Registry is the active session directory: one entry per authenticated
// user identifier. A second connection authenticating with the same
// identifier overwrites the entry; the older connection stays open but
// is no longer addressable through the directory.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.UserID]*directoryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.UserID]*directoryEntry)}
}

// Bind registers sess under the user's identifier and returns the
// session that was displaced, if any.
func (r *Registry) Bind(u *domain.User, sess *core.Session) *core.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var prior *core.Session
	if e, ok := r.entries[u.ID]; ok && e.Session != sess {
		prior = e.Session
	}
	r.entries[u.ID] = &directoryEntry{Username: u.Username, Session: sess}
	log.Info().Str("module", "app.registry").Str("user", string(u.ID)).Str("username", u.Username).Msg("bound session")
	return prior
}

func (r *Registry) Get(uid domain.UserID) (*core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[uid]; ok {
		return e.Session, true
	}
	return nil, false
}

// RoomOf reports the directory's room pointer for uid.
func (r *Registry) RoomOf(uid domain.UserID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[uid]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (r *Registry) UpdateRoom(uid domain.UserID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[uid]
	if !ok {
		return false
	}
	e.RoomID = room
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("room", string(room)).Msg("updated room")
	return true
}

// ClearRoom resets the room pointer, but only while the entry still
// belongs to sess. Same identity rule as Unbind.
func (r *Registry) ClearRoom(uid domain.UserID, sess *core.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[uid]; ok && e.Session == sess {
		e.RoomID = ""
	}
}

// Unbind removes the entry for uid, but only while it still points at
// sess. A stale connection tearing down after being displaced must not
// wipe the replacement's entry.
func (r *Registry) Unbind(uid domain.UserID, sess *core.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[uid]
	if !ok || e.Session != sess {
		return
	}
	delete(r.entries, uid)
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Msg("unbound session")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
