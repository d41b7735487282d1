package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"entrevia/internal/config"
	"entrevia/internal/models"
	"entrevia/internal/utils"
)

type stubVerifier struct {
	err error
}

func (v *stubVerifier) Verify(ctx context.Context, token string) error {
	return v.err
}

func newAuthTestMiddleware(verifyErr error) (*AuthMiddleware, *utils.TokenManager) {
	tokens := utils.NewTokenManager(config.JWTConfig{
		Secret:               "test-secret",
		AccessTokenLifetime:  time.Minute,
		RefreshTokenLifetime: time.Hour,
	})
	return NewAuthMiddleware(tokens, &stubVerifier{err: verifyErr}), tokens
}

func captureContext() (http.Handler, *map[string]interface{}) {
	seen := map[string]interface{}{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen["userID"] = r.Context().Value(utils.ContextKeyUserID)
		seen["isStaff"] = r.Context().Value(utils.ContextKeyIsStaff)
		w.WriteHeader(http.StatusOK)
	}), &seen
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interviews", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	mw, _ := newAuthTestMiddleware(nil)
	next, _ := captureContext()

	rec := httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rec, authedRequest(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireStaffRejectsNonStaff(t *testing.T) {
	mw, tokens := newAuthTestMiddleware(nil)
	next, _ := captureContext()

	access, err := tokens.GenerateAccessToken(&models.User{ID: primitive.NewObjectID(), Username: "candidato"})
	assert.NoError(t, err)

	rec := httptest.NewRecorder()
	mw.RequireStaff(next).ServeHTTP(rec, authedRequest(access))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOptionalAuthPopulatesContextWithValidToken(t *testing.T) {
	mw, tokens := newAuthTestMiddleware(nil)
	next, seen := captureContext()

	user := &models.User{ID: primitive.NewObjectID(), Username: "coordenador", IsStaff: true}
	access, err := tokens.GenerateAccessToken(user)
	assert.NoError(t, err)

	rec := httptest.NewRecorder()
	mw.OptionalAuth(next).ServeHTTP(rec, authedRequest(access))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID.Hex(), (*seen)["userID"])
	assert.Equal(t, true, (*seen)["isStaff"])
}

func TestOptionalAuthPassesAnonymousThrough(t *testing.T) {
	mw, _ := newAuthTestMiddleware(nil)
	next, seen := captureContext()

	rec := httptest.NewRecorder()
	mw.OptionalAuth(next).ServeHTTP(rec, authedRequest(""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, (*seen)["userID"])
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	mw, _ := newAuthTestMiddleware(nil)
	next, seen := captureContext()

	rec := httptest.NewRecorder()
	mw.OptionalAuth(next).ServeHTTP(rec, authedRequest("garbage"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, (*seen)["userID"])
}

func TestOptionalAuthIgnoresRevokedToken(t *testing.T) {
	mw, tokens := newAuthTestMiddleware(utils.ErrInvalidToken)
	next, seen := captureContext()

	access, err := tokens.GenerateAccessToken(&models.User{ID: primitive.NewObjectID(), Username: "coordenador"})
	assert.NoError(t, err)

	rec := httptest.NewRecorder()
	mw.OptionalAuth(next).ServeHTTP(rec, authedRequest(access))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, (*seen)["userID"])
}
