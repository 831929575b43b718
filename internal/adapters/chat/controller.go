package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/app"
	"github.com/dkeye/Parlor/internal/auth"
	"github.com/dkeye/Parlor/internal/config"
	"github.com/dkeye/Parlor/internal/core"
	"github.com/dkeye/Parlor/internal/metrics"
)

type ChatWSController struct {
	cfg        *config.Config
	verifier   *auth.Verifier
	dispatcher *app.Dispatcher
	sweeper    *Sweeper
	stats      *metrics.Stats
	limiter    *MessageRateLimiter
	events     map[string]eventSpec
}

func NewChatWSController(
	cfg *config.Config,
	verifier *auth.Verifier,
	dispatcher *app.Dispatcher,
	sweeper *Sweeper,
	stats *metrics.Stats,
) *ChatWSController {
	ctl := &ChatWSController{
		cfg:        cfg,
		verifier:   verifier,
		dispatcher: dispatcher,
		sweeper:    sweeper,
		stats:      stats,
		limiter:    NewMessageRateLimiter(cfg.MsgRateLimit, cfg.MsgRateWindow),
	}
	ctl.events = map[string]eventSpec{
		"auth":         {core.StateUnauthenticated, false, ctl.handleAuth},
		"join-room":    {core.StateAuthenticated, false, ctl.handleJoinRoom},
		"leave-room":   {core.StateInRoom, true, ctl.handleLeaveRoom},
		"send-message": {core.StateInRoom, false, ctl.handleSendMessage},
		"typing":       {core.StateInRoom, true, ctl.handleTyping},
		"stop-typing":  {core.StateInRoom, true, ctl.handleStopTyping},
	}
	return ctl
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleChat upgrades the request and starts the session's pumps. The
// connection begins unauthenticated and tracked by the sweeper.
// The cookie only identifies the browser; each connection gets its own
// session id so two tabs never collide in the sweeper's tracking or in
// broadcast sender exclusion.
func (ctl *ChatWSController) HandleChat(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "chat").Str("sid", string(sid)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := newWSConn(ws)
	sess := core.NewSession(sid, conn)
	ws.SetPongHandler(func(string) error {
		sess.MarkAlive()
		return nil
	})

	ctx, cancel := context.WithCancel(ctx)

	// Terminate must stay idempotent: the sweeper and a transport close
	// can race, yet leave-room cleanup and directory removal run once.
	var once sync.Once
	terminate := func() {
		once.Do(func() {
			cancel()
			ctl.finishSession(sess)
			conn.Close()
			ctl.sweeper.Untrack(sess.ID())
			ctl.stats.RemoveConnection()
			log.Info().Str("module", "chat").Str("sid", string(sid)).Msg("session terminated")
		})
	}

	ctl.sweeper.Track(sess, terminate)
	ctl.stats.AddConnection()

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sess, conn, terminate)
}

// finishSession performs the InRoom -> terminated cleanup and tells the
// vacated room. Room members observe a user-left, never an error.
func (ctl *ChatWSController) finishSession(sess *core.Session) {
	room, ok := ctl.dispatcher.Disconnect(sess)
	if !ok {
		return
	}
	ctl.broadcastEvent(room, "user-left", userPayload{
		Username:  sess.User().Username,
		UserCount: room.MemberCount(),
	}, "")
}

type inboundEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundEnvelope struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

type errorPayload struct {
	Error string `json:"error"`
}

type userPayload struct {
	Username  string `json:"username"`
	UserCount int    `json:"userCount"`
}

type eventSpec struct {
	minState core.State
	// silent events are ignored out of state instead of answered
	silent bool
	handle func(*core.Session, json.RawMessage)
}

// handleEvent routes one inbound frame through the state table. An
// event arriving below its minimum state is rejected (or dropped, for
// the silent ones); the connection always stays open.
func (ctl *ChatWSController) handleEvent(sess *core.Session, data []byte) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "chat").Str("sid", string(sess.ID())).Msg("bad json")
		ctl.sendError(sess, "Invalid message format")
		return
	}

	spec, ok := ctl.events[env.Type]
	if !ok {
		log.Warn().Str("module", "chat").Str("type", env.Type).Msg("unknown event")
		ctl.sendError(sess, "Unknown message type")
		return
	}

	if state := sess.State(); state < spec.minState {
		if spec.silent {
			return
		}
		if state == core.StateUnauthenticated {
			ctl.sendError(sess, "Not authenticated")
		} else {
			ctl.sendError(sess, "Not in a room")
		}
		return
	}

	spec.handle(sess, env.Payload)
}

func (ctl *ChatWSController) marshalEvent(typ string, payload any) (core.Frame, error) {
	return json.Marshal(outboundEnvelope{
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (ctl *ChatWSController) sendEvent(sess *core.Session, typ string, payload any) {
	b, err := ctl.marshalEvent(typ, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "chat").Str("type", typ).Msg("marshal event")
		return
	}
	_ = sess.Conn().TrySend(b)
}

func (ctl *ChatWSController) sendError(sess *core.Session, msg string) {
	ctl.sendEvent(sess, "error", errorPayload{Error: msg})
}

// broadcastEvent marshals once so every recipient sees identical bytes
// in the same relative order.
func (ctl *ChatWSController) broadcastEvent(room core.RoomService, typ string, payload any, exclude core.SessionID) {
	b, err := ctl.marshalEvent(typ, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "chat").Str("type", typ).Msg("marshal broadcast")
		return
	}
	ctl.dispatcher.Broadcast(room, b, exclude)
}
