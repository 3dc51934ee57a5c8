package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/presentation/http/middleware"
)

// LiveConfig tunes the view push sockets.
type LiveConfig struct {
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	SendBufferSize int
	AllowedOrigins []string
}

// LiveHandlers upgrades view push sockets
type LiveHandlers struct {
	broadcaster *messaging.ViewBroadcaster
	upgrader    websocket.Upgrader
	config      LiveConfig
	logger      *logging.ChanneledLogger
}

// NewLiveHandlers creates live view handlers
func NewLiveHandlers(broadcaster *messaging.ViewBroadcaster, cfg LiveConfig, logger *logging.ChanneledLogger) *LiveHandlers {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return &LiveHandlers{
		broadcaster: broadcaster,
		config:      cfg,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed[origin] {
					return true
				}
				// Same-origin pages
				return origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
	}
}

// ViewSocket handles GET /api/v1/explorer/ws - pushes every view change of
// the caller's session to this tab.
func (h *LiveHandlers) ViewSocket(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client session not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.WithSession(logging.ChannelWebSocket, clientID).Warn("View socket upgrade failed", "error", err)
		return
	}

	client := messaging.NewViewClient(conn, clientID, h.config.SendBufferSize)
	h.broadcaster.Register(client)
	h.logger.WithSession(logging.ChannelWebSocket, clientID).Debug("View socket connected",
		"remoteAddr", c.Request.RemoteAddr)

	go client.WritePump(h.config.WriteTimeout, h.config.PingInterval, h.logger)
	client.ReadPump(h.broadcaster, h.logger)
}
