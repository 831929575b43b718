package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parlor/internal/adapters/chat"
	"github.com/dkeye/Parlor/internal/app"
	"github.com/dkeye/Parlor/internal/auth"
	"github.com/dkeye/Parlor/internal/config"
	"github.com/dkeye/Parlor/internal/metrics"
)

// ClientTokenMiddleware gives every browser a stable connection cookie
// used as the pre-auth session id.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	ctl *chat.ChatWSController,
	verifier *auth.Verifier,
	rooms *app.RoomManager,
	stats *metrics.Stats,
) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/rooms", listRooms(rooms))
	api.POST("/rooms", AuthRequired(verifier), createRoom(rooms))
	api.GET("/stats", getStats(stats))

	api.GET("/ws/chat", func(c *gin.Context) {
		ctl.HandleChat(ctx, c)
	})

	return r
}
