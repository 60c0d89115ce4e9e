package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"naval-chess/internal/api/ws"
	"naval-chess/internal/config"
	"naval-chess/internal/room"
)

func NewRouter(rm *room.Manager, hub *ws.Hub, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// WebSocket for live match events
	r.GET("/ws", hub.HandleWS)

	api := r.Group("/api")

	// --- BOARD ---
	api.GET("/generate_board", GenerateBoardHandler(rm))
	api.GET("/config", GetConfigHandler(cfg))

	// --- MATCH ---
	api.POST("/join_game", JoinGameHandler(rm))
	api.POST("/opponent", OpponentHandler(rm))
	api.POST("/sunken_ships", SunkenShipsHandler(rm))
	api.POST("/make_move", MakeMoveHandler(rm))
	api.GET("/match/:id", MatchHandler(rm))

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
