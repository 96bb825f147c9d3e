package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mithilesh-08/ride-hailing/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client represents a single WebSocket connection
type Client struct {
	ID       string
	UserID   string
	UserType string // "rider" or "driver"
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	logger   *logger.Logger
}

// ClientMessage represents a message from the client
type ClientMessage struct {
	Type string `json:"type"`
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID, userType string, logger *logger.Logger) *Client {
	return &Client{
		ID:       uuid.NewString(),
		UserID:   userID,
		UserType: userType,
		Hub:      hub,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		logger:   logger,
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket read error",
					logger.Err(err),
					logger.String("client_id", c.ID),
				)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Error("Failed to unmarshal client message",
			logger.Err(err),
			logger.String("client_id", c.ID),
		)
		return
	}

	switch msg.Type {
	case "ping":
		c.SendMessage(Message{Type: "pong"})
	default:
		c.logger.Warn("Unknown message type",
			logger.String("type", msg.Type),
			logger.String("client_id", c.ID),
		)
	}
}

// SendMessage sends a message to this client
func (c *Client) SendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal message",
			logger.Err(err),
			logger.String("client_id", c.ID),
		)
		return
	}

	select {
	case c.Send <- data:
	default:
		c.logger.Warn("Client send buffer full",
			logger.String("client_id", c.ID),
		)
	}
}
