// Package http wires the debug/health surface and the WebSocket entry
// point. Endpoints here read engine state but never mutate it.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/Rentonai/banner-signaling-server/internal/adapters/signal"
	"github.com/Rentonai/banner-signaling-server/internal/config"
	"github.com/Rentonai/banner-signaling-server/internal/core"
)

func SetupRouter(ctx context.Context, cfg *config.Config, engine *core.Engine) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	ctl := signal.NewController(engine, cfg)

	r.GET("/", func(c *gin.Context) {
		rooms, conns := engine.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"rooms":       rooms,
			"connections": conns,
			"uptime":      time.Since(engine.StartedAt()).String(),
		})
	})

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": engine.Rooms()})
	})

	// ICE bootstrap for clients: the same servers they should hand to
	// their RTCPeerConnection before signaling through us.
	api.GET("/ice", func(c *gin.Context) {
		servers := make([]webrtc.ICEServer, 0, len(cfg.ICEServers))
		for _, s := range cfg.ICEServers {
			srv := webrtc.ICEServer{URLs: s.URLs, Username: s.Username}
			if s.Credential != "" {
				srv.Credential = s.Credential
			}
			servers = append(servers, srv)
		}
		c.JSON(http.StatusOK, gin.H{"iceServers": servers})
	})

	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
