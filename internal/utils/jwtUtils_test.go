package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"entrevia/internal/config"
	"entrevia/internal/models"
)

func testTokenManager(accessLifetime time.Duration) *TokenManager {
	return NewTokenManager(config.JWTConfig{
		Secret:               "test-secret",
		AccessTokenLifetime:  accessLifetime,
		RefreshTokenLifetime: 24 * time.Hour,
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "coordenador",
		IsStaff:  true,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := testTokenManager(time.Hour)
	user := testUser()

	token, err := tm.GenerateAccessToken(user)
	assert.NoError(t, err)

	claims, err := tm.ParseToken(token, TokenTypeAccess)
	assert.NoError(t, err)
	assert.Equal(t, user.Username, claims.Username)
	assert.True(t, claims.IsStaff)
	assert.NotEmpty(t, claims.ID, "jti must be set so tokens can be blacklisted")

	subject, err := claims.SubjectID()
	assert.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	tm := testTokenManager(time.Hour)

	refresh, err := tm.GenerateRefreshToken(testUser())
	assert.NoError(t, err)

	_, err = tm.ParseToken(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = tm.ParseToken(refresh, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := testTokenManager(-time.Minute)

	token, err := tm.GenerateAccessToken(testUser())
	assert.NoError(t, err)

	_, err = tm.ParseToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	token, err := testTokenManager(time.Hour).GenerateAccessToken(testUser())
	assert.NoError(t, err)

	other := NewTokenManager(config.JWTConfig{
		Secret:               "another-secret",
		AccessTokenLifetime:  time.Hour,
		RefreshTokenLifetime: time.Hour,
	})
	_, err = other.ParseToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateSecureOTP(t *testing.T) {
	otp, err := GenerateSecureOTP(6)
	assert.NoError(t, err)
	assert.Len(t, otp, 6)
	for _, c := range otp {
		assert.True(t, c >= '0' && c <= '9')
	}

	other, err := GenerateSecureOTP(6)
	assert.NoError(t, err)
	// Two draws colliding is possible but vanishingly unlikely.
	assert.NotEqual(t, otp, other)
}
