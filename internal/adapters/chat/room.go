package chat

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/app"
	"github.com/dkeye/Parlor/internal/core"
	"github.com/dkeye/Parlor/internal/domain"
)

func (ctl *ChatWSController) handleJoinRoom(sess *core.Session, payload json.RawMessage) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad join payload")
		ctl.sendError(sess, "Invalid message format")
		return
	}

	res, err := ctl.dispatcher.JoinRoom(sess, domain.RoomID(p.RoomID))
	if err != nil {
		if !errors.Is(err, app.ErrRoomNotFound) {
			log.Error().Err(err).Str("module", "chat").Str("room_id", p.RoomID).Msg("join failed")
		}
		ctl.sendError(sess, "Room not found")
		return
	}

	username := sess.User().Username
	if res.Left != nil {
		ctl.broadcastEvent(res.Left, "user-left", userPayload{
			Username:  username,
			UserCount: res.Left.MemberCount(),
		}, "")
	}

	ctl.sendEvent(sess, "room-history", res.Joined.History())
	ctl.sendEvent(sess, "room-users", res.Others)
	ctl.broadcastEvent(res.Joined, "user-joined", userPayload{
		Username:  username,
		UserCount: res.Joined.MemberCount(),
	}, sess.ID())

	log.Info().Str("module", "chat").Str("sid", string(sess.ID())).Str("room_id", p.RoomID).Msg("joined")
}

func (ctl *ChatWSController) handleLeaveRoom(sess *core.Session, _ json.RawMessage) {
	room, ok := ctl.dispatcher.LeaveRoom(sess)
	if !ok {
		return
	}
	ctl.broadcastEvent(room, "user-left", userPayload{
		Username:  sess.User().Username,
		UserCount: room.MemberCount(),
	}, "")
	log.Info().Str("module", "chat").Str("sid", string(sess.ID())).Msg("left room")
}
