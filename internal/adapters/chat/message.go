package chat

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/app"
	"github.com/dkeye/Parlor/internal/core"
)

func (ctl *ChatWSController) handleSendMessage(sess *core.Session, payload json.RawMessage) {
	var p struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad message payload")
		ctl.sendError(sess, "Invalid message format")
		return
	}

	// A message that can never be sent must not spend a window slot.
	text := strings.TrimSpace(p.Text)
	if text == "" {
		ctl.sendError(sess, "Message cannot be empty")
		return
	}
	if !ctl.limiter.Allow(sess.User().ID) {
		ctl.sendError(sess, "Too many messages")
		return
	}

	msg, room, err := ctl.dispatcher.AppendMessage(sess, text)
	switch {
	case errors.Is(err, app.ErrEmptyMessage):
		ctl.sendError(sess, "Message cannot be empty")
		return
	case err != nil:
		ctl.sendError(sess, "Not in a room")
		return
	}

	// Sender included: everyone sees the same line from the same event.
	ctl.broadcastEvent(room, "new-message", msg, "")
	log.Debug().Str("module", "chat").Str("sid", string(sess.ID())).Msg("message broadcast")
}

func (ctl *ChatWSController) handleTyping(sess *core.Session, _ json.RawMessage) {
	ctl.notifyTyping(sess, "user-typing")
}

func (ctl *ChatWSController) handleStopTyping(sess *core.Session, _ json.RawMessage) {
	ctl.notifyTyping(sess, "user-stop-typing")
}

// notifyTyping is never echoed to its sender and never touches history.
func (ctl *ChatWSController) notifyTyping(sess *core.Session, typ string) {
	roomID, ok := sess.Room()
	if !ok {
		return
	}
	room, ok := ctl.dispatcher.Rooms.Get(roomID)
	if !ok {
		return
	}
	ctl.broadcastEvent(room, typ, struct {
		Username string `json:"username"`
	}{sess.User().Username}, sess.ID())
}
