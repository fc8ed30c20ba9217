package repository

import (
	"context"
	"fmt"

	"chat_app/internal/domain"
	"chat_app/pkg/errors"
	"chat_app/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository interface {
	CreateMessage(ctx context.Context, message *domain.Message) error
	ListMessages(ctx context.Context) ([]*domain.Message, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

// CreateMessage сохраняет сообщение. id и created_at назначает БД,
// чтобы порядок вставки совпадал с порядком истории.
func (r *messageRepository) CreateMessage(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (sender_id, text, file_url, file_name, file_type, file_size, client_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.SenderID, message.Text, message.FileURL, message.FileName,
		message.FileType, message.FileSize, message.ClientKey,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create message", "error", err, "sender_id", message.SenderID)
		return fmt.Errorf("%w: %v", errors.ErrStorageFailure, err)
	}

	return nil
}

// ListMessages возвращает всю историю, старые сообщения первыми
func (r *messageRepository) ListMessages(ctx context.Context) ([]*domain.Message, error) {
	query := `
		SELECT m.id, m.sender_id, m.text, m.file_url, m.file_name, m.file_type, m.file_size,
		       m.client_key, m.created_at, u.id, u.username, u.email
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		ORDER BY m.created_at ASC, m.id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrStorageFailure, err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.SenderID, &message.Text, &message.FileURL,
			&message.FileName, &message.FileType, &message.FileSize,
			&message.ClientKey, &message.CreatedAt,
			&message.Sender.ID, &message.Sender.Username, &message.Sender.Email,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, fmt.Errorf("%w: %v", errors.ErrStorageFailure, err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Failed to read messages", "error", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrStorageFailure, err)
	}

	return messages, nil
}
