package handler

import (
	"net/http"

	"chat_app/internal/service"
	"chat_app/internal/ws"
	"chat_app/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub            *ws.Hub
	authService    service.AuthService
	messageService service.MessageService
	upgrader       websocket.Upgrader
	log            logger.Logger
}

func NewWebSocketHandler(hub *ws.Hub, authService service.AuthService, messageService service.MessageService, allowedOrigins []string, log logger.Logger) *WebSocketHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WebSocketHandler{
		hub:            hub,
		authService:    authService,
		messageService: messageService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		log: log,
	}
}

// Handle аутентифицирует рукопожатие и ставит соединение на учет.
// Токен передается query-параметром: браузерный WebSocket не умеет
// выставлять заголовок Authorization. Отказ происходит до апгрейда,
// присутствие не регистрируется.
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	identity, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам пишет ответ об ошибке
		h.log.Warn("Failed to upgrade connection", "error", err, "user_id", identity.ID)
		return
	}

	client := ws.NewClient(h.hub, conn, identity.Sender(), h.messageService, h.log)
	h.hub.Register(client)
}
