package http

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/livetranslate/bridge/internal/adapters/speaker"
	"github.com/livetranslate/bridge/internal/adapters/upstream"
	"github.com/livetranslate/bridge/internal/config"
	"github.com/livetranslate/bridge/internal/core"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, rooms core.RoomRegistry) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	// Viewers embed the share link anywhere, so the event stream is open.
	r.Use(cors.Default())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("BridgeSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/view", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/view.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	r.POST("/api/room", createRoom(cfg, rooms))
	r.GET("/sse/:room", streamRoom(cfg, rooms))

	speakerCtl := speaker.NewController(rooms, upstream.Config{
		URL:             cfg.UpstreamURL,
		APIKey:          cfg.APIKey,
		Model:           cfg.Model,
		TranscribeModel: cfg.TranscribeModel,
		ConnectTimeout:  cfg.ConnectTimeout,
	})
	r.GET("/ws/:room", func(c *gin.Context) {
		speakerCtl.HandleSpeaker(ctx, c)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
