package app

import (
	"errors"
	"sync"

	"github.com/dkeye/Parlor/internal/core"
	"github.com/dkeye/Parlor/internal/domain"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
)

// RoomManager is the room registry. Rooms are created over the REST
// surface or seeded at startup; the engine itself only reads and
// mutates membership. There is no room deletion path.
type RoomManager struct {
	historyLimit int

	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager(historyLimit int) *RoomManager {
	return &RoomManager{
		historyLimit: historyLimit,
		rooms:        make(map[domain.RoomID]core.RoomService),
	}
}

// Seed pre-creates rooms at startup; existing ids are left untouched.
func (m *RoomManager) Seed(rooms map[string]string) {
	for id, name := range rooms {
		_, _ = m.Create(domain.RoomID(id), domain.RoomName(name))
	}
}

func (m *RoomManager) Create(id domain.RoomID, name domain.RoomName) (core.RoomService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; ok {
		return nil, ErrRoomExists
	}
	room := core.NewRoomService(&domain.Room{ID: id, Name: name}, m.historyLimit)
	m.rooms[id] = room
	return room, nil
}

func (m *RoomManager) Get(id domain.RoomID) (core.RoomService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

// AddMember places sess in the room, returning the room for count
// reporting.
func (m *RoomManager) AddMember(id domain.RoomID, sess *core.Session) (core.RoomService, error) {
	room, ok := m.Get(id)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.AddMember(sess)
	return room, nil
}

// RemoveMember detaches sess from the room. The bool reports whether
// sess actually held the membership; a displaced session does not.
func (m *RoomManager) RemoveMember(id domain.RoomID, sess *core.Session) (core.RoomService, bool, error) {
	room, ok := m.Get(id)
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	return room, room.RemoveMember(sess), nil
}

func (m *RoomManager) List() []core.RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(m.rooms))
	for id, r := range m.rooms {
		out = append(out, core.RoomInfo{ID: id, Name: r.Room().Name, MemberCount: r.MemberCount()})
	}
	return out
}
