package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"github.com/mithilesh-08/ride-hailing/pkg/logger"
	"github.com/mithilesh-08/ride-hailing/pkg/websocket"
)

// HandleWebSocket handles GET /v1/ws. Clients identify themselves with
// user_id and user_type query params and receive trip lifecycle events.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}

	userID := c.Query("user_id")
	userType := c.Query("user_type")
	if userID == "" || userType == "" {
		h.Logger.Warn("Missing user_id or user_type in WebSocket connection")
		conn.Close()
		return
	}

	client := websocket.NewClient(h.Hub, conn, userID, userType, h.Logger)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
