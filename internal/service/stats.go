package service

import (
	"context"

	"chat_app/internal/domain"
	"chat_app/internal/repository"
	"chat_app/pkg/logger"
)

type StatsService interface {
	GetChatStats(ctx context.Context) (*domain.ChatStats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	log       logger.Logger
}

func NewStatsService(statsRepo repository.StatsRepository, log logger.Logger) StatsService {
	return &statsService{
		statsRepo: statsRepo,
		log:       log,
	}
}

func (s *statsService) GetChatStats(ctx context.Context) (*domain.ChatStats, error) {
	return s.statsRepo.GetChatStats(ctx)
}
