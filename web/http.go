// Package web is the ops surface of a game server: health and roster
// stats, plus a websocket attach point for clients that cannot open a
// raw TCP stream.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gosher-studios/boom/game"
)

var upgrader = websocket.Upgrader{
	// game access is name-only, so any origin may attach
	CheckOrigin: func(r *http.Request) bool { return true },
}

type handler struct {
	srv *game.Server
	log zerolog.Logger
}

// NewRouter builds the gin engine serving /health, /stats and /ws.
func NewRouter(srv *game.Server, log zerolog.Logger) *gin.Engine {
	h := &handler{srv: srv, log: log}

	r := gin.New()
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })
	r.GET("/stats", h.statsHandler)
	r.GET("/ws", h.wsHandler)
	return r
}

func (h *handler) statsHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.srv.Stats())
}

// wsHandler upgrades the request and hands the stream to the same
// session handler the TCP listener uses.
func (h *handler) wsHandler(ctx *gin.Context) {
	socket, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}
	h.log.Debug().Str("ip", ctx.ClientIP()).Msg("websocket session attached")
	go h.srv.HandleConn(newWSConn(socket))
}
