package handler

import (
	"net/http"

	"chat_app/internal/domain"
	"chat_app/internal/service"
	"chat_app/pkg/errors"
	"chat_app/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
	storage        service.StorageService
	log            logger.Logger
}

func NewMessageHandler(messageService service.MessageService, storage service.StorageService, log logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		storage:        storage,
		log:            log,
	}
}

// GetMessages отдает всю историю, старые сообщения первыми
func (h *MessageHandler) GetMessages(c *gin.Context) {
	messages, err := h.messageService.ListMessages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if messages == nil {
		messages = []*domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	Text      string `json:"text" binding:"required"`
	ClientKey string `json:"clientKey"`
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text message required"})
		return
	}

	message, err := h.messageService.SubmitText(c.Request.Context(), identity.Sender(), req.Text, req.ClientKey)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, message)
}

// UploadMessageFile принимает multipart-файл в поле file (или image - legacy-клиенты)
func (h *MessageHandler) UploadMessageFile(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		file, err = c.FormFile("image")
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}

	clientKey := c.PostForm("clientKey")

	meta, err := h.storage.SaveMessageFile(file)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	message, err := h.messageService.SubmitFile(c.Request.Context(), identity.Sender(), *meta, clientKey)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, message)
}
