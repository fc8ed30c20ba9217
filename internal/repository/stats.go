package repository

import (
	"context"

	"chat_app/internal/domain"
	"chat_app/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository interface {
	GetChatStats(ctx context.Context) (*domain.ChatStats, error)
}

type statsRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewStatsRepository(db *pgxpool.Pool, log logger.Logger) StatsRepository {
	return &statsRepository{db: db, log: log}
}

func (r *statsRepository) GetChatStats(ctx context.Context) (*domain.ChatStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM messages WHERE created_at > NOW() - INTERVAL '24 hours'),
			(SELECT COUNT(*) FROM messages WHERE file_url IS NOT NULL)
	`

	stats := &domain.ChatStats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers, &stats.TotalMessages, &stats.MessagesLast24h, &stats.FileMessages,
	)

	if err != nil {
		r.log.Error("Failed to get chat stats", "error", err)
		return nil, err
	}

	return stats, nil
}
