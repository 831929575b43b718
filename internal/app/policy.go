package app

import "github.com/dkeye/Parlor/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropEvent
	KickMember
)

// Policy decides what to do with a member whose outbound queue was full
// during a broadcast.
type Policy interface {
	OnBackpressure(room core.RoomService, member *core.Session) BackpressureAction
}

// DropPolicy loses the single event and keeps the member. Chat delivery
// is best-effort; a slow reader misses frames rather than the room.
type DropPolicy struct{}

func (DropPolicy) OnBackpressure(room core.RoomService, member *core.Session) BackpressureAction {
	return DropEvent
}
