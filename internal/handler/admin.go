package handler

import (
	"net/http"

	"chat_app/internal/service"
	"chat_app/internal/ws"
	"chat_app/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userService  service.UserService
	statsService service.StatsService
	hub          *ws.Hub
	log          logger.Logger
}

func NewAdminHandler(userService service.UserService, statsService service.StatsService, hub *ws.Hub, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		statsService: statsService,
		hub:          hub,
		log:          log,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetChatStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	stats.OnlineCount = h.hub.Count()
	c.JSON(http.StatusOK, stats)
}
