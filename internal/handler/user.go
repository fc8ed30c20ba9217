package handler

import (
	"net/http"

	"chat_app/internal/service"
	"chat_app/pkg/errors"
	"chat_app/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	storage     service.StorageService
	log         logger.Logger
}

func NewUserHandler(userService service.UserService, storage service.StorageService, log logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		storage:     storage,
		log:         log,
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateAvatar принимает multipart-файл в поле avatar
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	avatarURL, err := h.storage.SaveAvatar(file)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateAvatar(c.Request.Context(), identity.ID, avatarURL); err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Avatar updated",
		"avatar":  avatarURL,
	})
}
