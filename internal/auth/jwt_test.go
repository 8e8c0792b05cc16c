package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendersuite/tender-api/internal/config"
	"github.com/tendersuite/tender-api/internal/domain"
)

func newTestTokenManager(t *testing.T, ttlMinutes int) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(&config.AuthConfig{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		TokenTTL:  ttlMinutes,
		Issuer:    "tender-api-test",
	})
	require.NoError(t, err)
	return tm
}

func TestTokenManagerRejectsWeakSecret(t *testing.T) {
	_, err := NewTokenManager(&config.AuthConfig{JWTSecret: "short", TokenTTL: 60})
	assert.Error(t, err)

	_, err = NewTokenManager(&config.AuthConfig{TokenTTL: 60})
	assert.Error(t, err)
}

func TestIssueAndValidateToken(t *testing.T) {
	tm := newTestTokenManager(t, 60)

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "sales@example.com",
		Name:      "Asha Rao",
		Role:      domain.RoleSales,
	}

	token, expiresAt, err := tm.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	userCtx, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, user.Name, userCtx.DisplayName)
	assert.Equal(t, domain.RoleSales, userCtx.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	tm := newTestTokenManager(t, 60)

	_, err := tm.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	tm := newTestTokenManager(t, 60)
	other, err := NewTokenManager(&config.AuthConfig{
		JWTSecret: "ffffffffffffffffffffffffffffffff",
		TokenTTL:  60,
		Issuer:    "tender-api-test",
	})
	require.NoError(t, err)

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Email:     "a@example.com",
		Name:      "A",
		Role:      domain.RoleViewer,
	}
	token, _, err := tm.IssueToken(user)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong"), ErrPasswordMismatch)
}
