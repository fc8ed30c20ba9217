package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidate(t *testing.T) {
	req := require.New(t)

	userID := uuid.New()
	token, err := GenerateAccessToken(userID, "alice", "alice@example.com", "USER", testSecret, time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(token, testSecret)
	req.NoError(err)
	req.Equal(userID, claims.UserID)
	req.Equal("alice", claims.Username)
	req.Equal("alice@example.com", claims.Email)
	req.Equal("USER", claims.Role)
	req.Equal(userID.String(), claims.Subject)
}

func TestValidateExpired(t *testing.T) {
	req := require.New(t)

	token, err := GenerateAccessToken(uuid.New(), "alice", "alice@example.com", "USER", testSecret, -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token, testSecret)
	req.ErrorIs(err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	req := require.New(t)

	token, err := GenerateAccessToken(uuid.New(), "alice", "alice@example.com", "USER", testSecret, time.Hour)
	req.NoError(err)

	_, err = ValidateToken(token, "wrong-secret")
	req.ErrorIs(err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}
