package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/devlog/portfolio-backend/internal/common"
	"github.com/devlog/portfolio-backend/internal/ws"
	"github.com/devlog/portfolio-backend/pkg/logger"
)

type SignalHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewSignalHandler(hub *ws.Hub, allowedOrigins []string) *SignalHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &SignalHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowed["*"] {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Connect handles GET /signal/:room and upgrades the connection into the
// room's relay. Peers get a short random id so signal payloads can address
// each other without any account.
func (h *SignalHandler) Connect(c *gin.Context) {
	roomID := c.Param("room")
	if roomID == "" {
		common.ErrorResponse(c, 400, "Room is required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.Warn("websocket upgrade failed: %v", err)
		return
	}

	peerID := uuid.New().String()[:8]
	peer := ws.NewPeer(h.hub, conn, peerID, roomID)
	h.hub.Register(peer)

	go peer.WritePump()
	go peer.ReadPump()
}
