package ws

import (
	"context"
	"encoding/json"
	"time"

	"chat_app/internal/domain"
	"chat_app/pkg/errors"
	"chat_app/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
	submitTimeout  = 10 * time.Second
)

// MessageSubmitter - вход сервиса сообщений, видимый из реалтайм-канала
type MessageSubmitter interface {
	SubmitText(ctx context.Context, sender domain.Sender, text, clientKey string) (*domain.Message, error)
}

// Client - одно аутентифицированное websocket-соединение.
// Запись в сокет идет только из writePump, чтение только из readPump.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	connID      uuid.UUID
	identity    domain.Sender
	connectedAt time.Time
	ingress     MessageSubmitter
	log         logger.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, identity domain.Sender, ingress MessageSubmitter, log logger.Logger) *Client {
	if conn != nil {
		conn.SetReadLimit(maxMessageSize)
	}

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connID:      uuid.New(),
		identity:    identity,
		connectedAt: time.Now(),
		ingress:     ingress,
		log:         log,
	}
}

func (c *Client) readPump() {
	if c.conn == nil {
		return
	}

	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("Unexpected close", "error", err, "user_id", c.identity.ID)
			}
			return
		}

		c.handleFrame(raw)
	}
}

func (c *Client) handleFrame(raw []byte) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.log.Warn("Invalid frame", "error", err, "user_id", c.identity.ID)
		c.sendError("invalid frame")
		return
	}

	switch envelope.Event {
	case EventSendMessage:
		var payload SendMessagePayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.sendError("invalid send-message payload")
			return
		}
		c.submitText(payload)

	case EventUserOnline:
		// Legacy-событие: присутствие уже учтено при рукопожатии,
		// просто повторяем клиенту текущий счетчик
		c.hub.sendCountTo(c)

	default:
		c.log.Debug("Unknown event", "event", envelope.Event, "user_id", c.identity.ID)
	}
}

// submitText проводит сообщение через ingress-сервис. Контекст независим от
// соединения: уже начатая запись завершается, даже если клиент отвалился.
func (c *Client) submitText(payload SendMessagePayload) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	if _, err := c.ingress.SubmitText(ctx, c.identity, payload.Text, payload.ClientKey); err != nil {
		switch {
		case errors.HTTPStatusFromError(err) < 500:
			c.sendError(err.Error())
		default:
			c.log.Error("Failed to submit message", "error", err, "user_id", c.identity.ID)
			c.sendError("failed to send message")
		}
	}
}

func (c *Client) sendError(msg string) {
	payload, err := encodeErrorEvent(msg)
	if err != nil {
		return
	}
	c.hub.sendTo(c, payload)
}

func (c *Client) writePump() {
	if c.conn == nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
