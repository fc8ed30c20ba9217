package service

import (
	"context"
	"strings"

	"chat_app/internal/domain"
	"chat_app/internal/repository"
	"chat_app/pkg/errors"
	"chat_app/pkg/logger"
)

// Publisher - диспетчер рассылки. Реализуется ws.Hub.
type Publisher interface {
	PublishMessage(message *domain.Message)
}

type MessageService interface {
	SubmitText(ctx context.Context, sender domain.Sender, text, clientKey string) (*domain.Message, error)
	SubmitFile(ctx context.Context, sender domain.Sender, meta domain.FileMeta, clientKey string) (*domain.Message, error)
	ListMessages(ctx context.Context) ([]*domain.Message, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	publisher   Publisher
	audit       AuditService
	log         logger.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, publisher Publisher, audit AuditService, log logger.Logger) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		publisher:   publisher,
		audit:       audit,
		log:         log,
	}
}

// SubmitText сохраняет текстовое сообщение и рассылает его до возврата.
// Рассылка происходит строго после подтвержденной записи: состояние
// "сохранено, но не разослано" исключено на успешном пути, а при ошибке
// хранилища не рассылается ничего.
func (s *messageService) SubmitText(ctx context.Context, sender domain.Sender, text, clientKey string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ErrInvalidInput
	}

	message := &domain.Message{
		SenderID: sender.ID,
		Text:     &text,
		Sender:   sender,
	}
	if clientKey != "" {
		message.ClientKey = &clientKey
	}

	if err := s.messageRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.auditSent(ctx, message, domain.EventTypeMessageSent)
	s.publisher.PublishMessage(message)

	return message, nil
}

// SubmitFile сохраняет файловое сообщение. Текст и файл взаимоисключающие:
// файловое сообщение всегда имеет text = null.
func (s *messageService) SubmitFile(ctx context.Context, sender domain.Sender, meta domain.FileMeta, clientKey string) (*domain.Message, error) {
	if meta.URL == "" || meta.Name == "" {
		return nil, errors.ErrInvalidInput
	}

	message := &domain.Message{
		SenderID: sender.ID,
		FileURL:  &meta.URL,
		FileName: &meta.Name,
		FileType: &meta.Type,
		FileSize: &meta.Size,
		Sender:   sender,
	}
	if clientKey != "" {
		message.ClientKey = &clientKey
	}

	if err := s.messageRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.auditSent(ctx, message, domain.EventTypeFileUploaded)
	s.publisher.PublishMessage(message)

	return message, nil
}

func (s *messageService) ListMessages(ctx context.Context) ([]*domain.Message, error) {
	return s.messageRepo.ListMessages(ctx)
}

func (s *messageService) auditSent(ctx context.Context, message *domain.Message, eventType string) {
	payload := map[string]interface{}{"message_id": message.ID}
	if err := s.audit.LogEvent(ctx, &message.SenderID, domain.ActorRoleUser, eventType, payload); err != nil {
		s.log.Warn("Failed to audit message", "error", err, "message_id", message.ID)
	}
}
