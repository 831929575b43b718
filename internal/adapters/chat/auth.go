package chat

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/core"
	"github.com/dkeye/Parlor/internal/domain"
)

func (ctl *ChatWSController) handleAuth(sess *core.Session, payload json.RawMessage) {
	if sess.State() != core.StateUnauthenticated {
		ctl.sendError(sess, "Already authenticated")
		return
	}

	var p struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad auth payload")
		ctl.sendError(sess, "Invalid message format")
		return
	}
	if p.Token == "" {
		ctl.sendEvent(sess, "auth-error", errorPayload{Error: "Token required"})
		return
	}

	claims, err := ctl.verifier.Verify(p.Token)
	if err != nil {
		log.Warn().Err(err).Str("module", "chat").Str("sid", string(sess.ID())).Msg("auth failed")
		ctl.sendEvent(sess, "auth-error", errorPayload{Error: "Invalid token"})
		return
	}

	user, err := domain.NewUser(domain.UserID(claims.Identifier), claims.Username)
	if err != nil {
		ctl.sendEvent(sess, "auth-error", errorPayload{Error: "Invalid token"})
		return
	}

	ctl.dispatcher.Authenticate(sess, user)
	log.Info().Str("module", "chat").Str("sid", string(sess.ID())).Str("username", user.Username).Msg("authenticated")

	ctl.sendEvent(sess, "auth-success", struct {
		Username string `json:"username"`
		Message  string `json:"message"`
	}{user.Username, "Authenticated successfully"})
}
