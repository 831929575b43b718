package chat

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/core"
)

func (ctl *ChatWSController) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "chat").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "chat").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "chat").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "chat").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump processes inbound events one at a time in arrival order, so
// a session's own state is never mutated concurrently.
func (ctl *ChatWSController) readPump(ctx context.Context, sess *core.Session, c *wsConn, terminate func()) {
	defer func() {
		log.Info().Str("module", "chat").Str("sid", string(sess.ID())).Msg("readPump closing")
		terminate()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "chat").Str("sid", string(sess.ID())).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "chat").Str("sid", string(sess.ID())).Msg("readPump read error")
				return
			}
			ctl.handleEvent(sess, data)
		}
	}
}
