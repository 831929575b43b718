package app

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/core"
	"github.com/dkeye/Parlor/internal/domain"
	"github.com/dkeye/Parlor/internal/metrics"
)

var ErrEmptyMessage = errors.New("message cannot be empty")

// Dispatcher owns the membership flows between sessions, the directory
// and the room registry, and performs room fan-out. Transport concerns
// (parsing, envelopes, replies) stay in the adapter.
type Dispatcher struct {
	Registry *Registry
	Rooms    *RoomManager
	Policy   Policy
	Stats    *metrics.Stats
}

func NewDispatcher(reg *Registry, rooms *RoomManager, stats *metrics.Stats) *Dispatcher {
	return &Dispatcher{Registry: reg, Rooms: rooms, Policy: DropPolicy{}, Stats: stats}
}

// Authenticate transitions sess to Authenticated and registers it in
// the directory, displacing any prior session of the same identifier.
func (d *Dispatcher) Authenticate(sess *core.Session, u *domain.User) {
	sess.Authenticate(u)
	if prior := d.Registry.Bind(u, sess); prior != nil {
		log.Warn().Str("module", "app.dispatcher").Str("user", string(u.ID)).Msg("displaced previous session for identifier")
	}
}

// JoinResult reports a completed join: the entered room, the vacated
// one on a switch, and the roster as it stood before the join.
type JoinResult struct {
	Joined core.RoomService
	Left   core.RoomService
	Others []string
}

// JoinRoom moves sess into roomID. If the room does not exist nothing
// is mutated and the session keeps its previous room. Leave and join
// run back to back inside this one call, so no other event from the
// same connection can interleave between them.
func (d *Dispatcher) JoinRoom(sess *core.Session, roomID domain.RoomID) (*JoinResult, error) {
	target, ok := d.Rooms.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	res := &JoinResult{Joined: target}
	uid := sess.User().ID
	if oldID, ok := sess.Room(); ok {
		if old, removed, _ := d.Rooms.RemoveMember(oldID, sess); removed {
			res.Left = old
		}
		d.Registry.ClearRoom(uid, sess)
	}

	res.Others = target.MemberNames()
	target.AddMember(sess)
	sess.EnterRoom(roomID)
	d.Registry.UpdateRoom(uid, roomID)
	log.Info().Str("module", "app.dispatcher").Str("user", string(uid)).Str("room", string(roomID)).Msg("joined room")
	return res, nil
}

// LeaveRoom removes sess from its current room, reporting the vacated
// room. No-op when the session is not in one, or when a newer session
// of the same identifier has taken over the membership; the vacated
// room is only reported when sess itself held it, so a displaced
// connection's teardown never triggers a user-left.
func (d *Dispatcher) LeaveRoom(sess *core.Session) (core.RoomService, bool) {
	roomID, ok := sess.Room()
	if !ok {
		return nil, false
	}
	uid := sess.User().ID
	room, removed, err := d.Rooms.RemoveMember(roomID, sess)
	sess.LeaveRoom()
	d.Registry.ClearRoom(uid, sess)
	if err != nil || !removed {
		return nil, false
	}
	log.Info().Str("module", "app.dispatcher").Str("user", string(uid)).Str("room", string(roomID)).Msg("left room")
	return room, true
}

// AppendMessage validates text, stamps it and appends it to the
// session's current room.
func (d *Dispatcher) AppendMessage(sess *core.Session, text string) (domain.Message, core.RoomService, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, nil, ErrEmptyMessage
	}
	roomID, ok := sess.Room()
	if !ok {
		return domain.Message{}, nil, ErrRoomNotFound
	}
	room, ok := d.Rooms.Get(roomID)
	if !ok {
		return domain.Message{}, nil, ErrRoomNotFound
	}
	msg := domain.Message{
		Username:  sess.User().Username,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	room.Append(msg)
	if d.Stats != nil {
		d.Stats.AddMessage()
	}
	return msg, room, nil
}

// Broadcast fans data out to the room, skipping exclude, and applies
// the backpressure policy to every dropped recipient. A failed delivery
// never aborts the rest and is never surfaced to the sender.
func (d *Dispatcher) Broadcast(room core.RoomService, data core.Frame, exclude core.SessionID) {
	res := room.Broadcast(data, exclude)
	for _, slow := range res.Dropped {
		if d.Stats != nil {
			d.Stats.AddDropped()
		}
		if d.Policy == nil {
			continue
		}
		switch d.Policy.OnBackpressure(room, slow) {
		case KickMember:
			if u := slow.User(); u != nil {
				room.RemoveMember(slow)
				slow.LeaveRoom()
				d.Registry.ClearRoom(u.ID, slow)
			}
		case DropEvent, NoAction:
		}
	}
}

// Disconnect runs the terminal cleanup for sess: leave-room plus
// directory removal. Safe to call more than once; the second call finds
// nothing left to undo.
func (d *Dispatcher) Disconnect(sess *core.Session) (core.RoomService, bool) {
	u := sess.User()
	if u == nil {
		return nil, false
	}
	room, ok := d.LeaveRoom(sess)
	d.Registry.Unbind(u.ID, sess)
	return room, ok
}
