package service

import (
	"context"

	"chat_app/internal/domain"
	"chat_app/internal/repository"
	"chat_app/pkg/logger"

	"github.com/google/uuid"
)

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) error
	ListAll(ctx context.Context) ([]*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	audit    AuditService
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, audit AuditService, log logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		audit:    audit,
		log:      log,
	}
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) error {
	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return err
	}

	payload := map[string]interface{}{"avatar_url": avatarURL}
	if err := s.audit.LogEvent(ctx, &userID, domain.ActorRoleUser, domain.EventTypeAvatarUpdated, payload); err != nil {
		s.log.Warn("Failed to audit avatar update", "error", err, "user_id", userID)
	}

	return nil
}

func (s *userService) ListAll(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListAll(ctx)
}
