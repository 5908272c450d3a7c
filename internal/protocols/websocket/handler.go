package websocket

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cleancity/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	CheckOrigin:       checkOrigin,
	EnableCompression: true,
}

// Handler upgrades HTTP requests onto the leaderboard hub.
type Handler struct {
	hub *Hub
}

// NewHandler creates a websocket handler bound to the hub
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// HandleWebSocket upgrades the connection and attaches it to the hub.
// The leaderboard feed is public, so no token is required.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// gorilla/websocket writes its own HTTP response when the
		// upgrade fails, so just log and return.
		logger.Warnf("websocket upgrade failed: %v", err)
		return
	}

	logger.Debugf("leaderboard websocket client connected from %s", c.ClientIP())
	h.hub.serve(conn)
}

// Status reports hub connection counts.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"clients":     h.hub.ClientCount(),
		"server_time": time.Now().UTC(),
	})
}

// checkOrigin validates the request origin. Non-browser clients may omit
// Origin; local development hosts are always allowed.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if u, err := url.Parse(origin); err == nil {
		host := strings.ToLower(u.Hostname())
		if host == "localhost" || host == "127.0.0.1" || host == "0.0.0.0" {
			return true
		}
	}

	return gin.Mode() == gin.DebugMode
}
