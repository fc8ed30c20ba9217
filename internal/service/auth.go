package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"chat_app/internal/config"
	"chat_app/internal/domain"
	"chat_app/internal/repository"
	"chat_app/pkg/errors"
	"chat_app/pkg/jwt"
	"chat_app/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.Identity, error)
}

type LoginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type authService struct {
	userRepo repository.UserRepository
	audit    AuditService
	jwtCfg   config.JWTConfig
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, audit AuditService, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		audit:    audit,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if username == "" || email == "" {
		return nil, errors.ErrInvalidInput
	}
	if len(password) < 8 {
		return nil, errors.ErrInvalidInput
	}
	if len(username) > 50 || len(email) > 255 {
		return nil, errors.ErrInvalidInput
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, errors.ErrInvalidInput
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", "error", err)
		return nil, stderrors.New("failed to hash password")
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.audit.LogEvent(ctx, &user.ID, domain.ActorRoleUser, domain.EventTypeUserRegistered, map[string]interface{}{"email": email}); err != nil {
		s.log.Warn("Failed to audit registration", "error", err, "user_id", user.ID)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return nil, errors.ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Не раскрываем, существует ли пользователь
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, errors.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(user.ID, user.Username, user.Email, user.Role, s.jwtCfg.Secret, s.jwtCfg.TTL)
	if err != nil {
		s.log.Error("Failed to generate token", "error", err)
		return nil, stderrors.New("failed to generate token")
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to update last login", "error", err, "user_id", user.ID)
	}
	user.LastLoginAt = &now

	if err := s.audit.LogEvent(ctx, &user.ID, domain.ActorRoleUser, domain.EventTypeUserLogin, nil); err != nil {
		s.log.Warn("Failed to audit login", "error", err, "user_id", user.ID)
	}

	user.PasswordHash = ""
	return &LoginResponse{
		User:  user,
		Token: token,
	}, nil
}

// ValidateToken синхронно проверяет подпись и срок токена. Личность
// восстанавливается из claims, без похода в БД: ошибка всегда терминальна
// для попытки, клиент обязан переаутентифицироваться.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.Identity, error) {
	claims, err := jwt.ValidateToken(tokenString, s.jwtCfg.Secret)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrUnauthenticated
	}

	return &domain.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}
