package handler

import (
	"chat_app/internal/config"
	"chat_app/internal/service"
	"chat_app/internal/ws"
	"chat_app/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	User      *UserHandler
	Message   *MessageHandler
	Admin     *AdminHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, hub *ws.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Auth:      NewAuthHandler(services.Auth, log),
		User:      NewUserHandler(services.User, services.Storage, log),
		Message:   NewMessageHandler(services.Message, services.Storage, log),
		Admin:     NewAdminHandler(services.User, services.Stats, hub, log),
		WebSocket: NewWebSocketHandler(hub, services.Auth, services.Message, cfg.CORS.AllowedOrigins, log),
	}
}
