package middlewares

import (
	"context"
	"net/http"
	"strings"

	"entrevia/internal/utils"
)

// TokenVerifier is implemented by the auth service; it rejects blacklisted
// tokens on top of signature validation.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// AuthMiddleware validates the Bearer access token and stores the subject in
// the request context.
type AuthMiddleware struct {
	tokens   *utils.TokenManager
	verifier TokenVerifier
}

func NewAuthMiddleware(tokens *utils.TokenManager, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, verifier: verifier}
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		utils.RespondError(w, http.StatusUnauthorized, "Token de autenticação não fornecido ou inválido.",
			utils.APIError{Code: "authentication_required", Detail: "missing bearer token"})
		return nil, false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims, err := m.tokens.ParseToken(tokenString, utils.TokenTypeAccess)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Token de autenticação não fornecido ou inválido.",
			utils.APIError{Code: "authentication_required", Detail: "invalid access token"})
		return nil, false
	}

	if err := m.verifier.Verify(r.Context(), tokenString); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Token de autenticação não fornecido ou inválido.",
			utils.APIError{Code: "authentication_required", Detail: "token revoked"})
		return nil, false
	}

	ctx := context.WithValue(r.Context(), utils.ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, utils.ContextKeyIsStaff, claims.IsStaff)
	return r.WithContext(ctx), true
}

// RequireAuth guards endpoints that need any authenticated user.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, authed)
	})
}

// OptionalAuth populates the request context when a valid Bearer token is
// present but lets anonymous requests through untouched. Invalid or revoked
// tokens are treated as anonymous rather than rejected.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims, err := m.tokens.ParseToken(tokenString, utils.TokenTypeAccess)
		if err != nil || m.verifier.Verify(r.Context(), tokenString) != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), utils.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, utils.ContextKeyIsStaff, claims.IsStaff)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff guards the admin surface.
func (m *AuthMiddleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		if isStaff, _ := authed.Context().Value(utils.ContextKeyIsStaff).(bool); !isStaff {
			utils.RespondError(w, http.StatusForbidden, "Acesso restrito a administradores.",
				utils.APIError{Code: "permission_denied", Detail: "staff access required"})
			return
		}
		next.ServeHTTP(w, authed)
	})
}
