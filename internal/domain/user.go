package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Sender - публичная проекция пользователя, вложенная в каждое сообщение.
// Сервер всегда отдает sender объектом {id, username, email}, независимо от версии клиента.
type Sender struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func (u *User) Sender() Sender {
	return Sender{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Identity - аутентифицированный контекст соединения или запроса,
// восстановленный из проверенного токена без обращения к БД
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (i *Identity) Sender() Sender {
	return Sender{
		ID:       i.ID,
		Username: i.Username,
		Email:    i.Email,
	}
}
