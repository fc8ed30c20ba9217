package service

import (
	"chat_app/internal/config"
	"chat_app/internal/repository"
	"chat_app/pkg/logger"
)

type Services struct {
	Auth      AuthService
	User      UserService
	Message   MessageService
	Stats     StatsService
	RateLimit RateLimitService
	Audit     AuditService
	Storage   StorageService
}

func NewServices(repos *repository.Repositories, publisher Publisher, cfg *config.Config, log logger.Logger) (*Services, error) {
	storage, err := NewStorageService(cfg.Upload, log)
	if err != nil {
		return nil, err
	}

	audit := NewAuditService(repos.Audit, log)

	return &Services{
		Auth:      NewAuthService(repos.User, audit, cfg.JWT, log),
		User:      NewUserService(repos.User, audit, log),
		Message:   NewMessageService(repos.Message, publisher, audit, log),
		Stats:     NewStatsService(repos.Stats, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
		Audit:     audit,
		Storage:   storage,
	}, nil
}
