package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"entrevia/internal/models"
	"entrevia/internal/services"
	"entrevia/internal/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Login
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Corpo da requisição inválido",
			utils.APIError{Code: "invalid_body", Detail: "malformed JSON"})
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Usuário e senha são obrigatórios",
			utils.APIError{Code: "missing_credentials", Detail: "username and password are required"})
		return
	}

	pair, err := h.authService.Login(r.Context(), services.LoginAttempt{
		Username:  strings.TrimSpace(req.Username),
		Password:  req.Password,
		IPAddress: utils.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountLocked):
			utils.RespondError(w, http.StatusTooManyRequests, "Conta temporariamente bloqueada por excesso de tentativas. Tente novamente mais tarde.",
				utils.APIError{Code: "account_locked", Detail: "too many failed login attempts"})
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUserInactive):
			utils.RespondError(w, http.StatusUnauthorized, "Usuário ou senha inválidos",
				utils.APIError{Code: "invalid_credentials", Detail: "authentication failed"})
		default:
			log.Error().Err(err).Msg("Login failed unexpectedly")
			utils.RespondError(w, http.StatusInternalServerError, "Erro interno do servidor",
				utils.APIError{Code: "internal_error", Detail: "unexpected error during login"})
		}
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Login realizado com sucesso", pair)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		utils.RespondError(w, http.StatusBadRequest, "Token de atualização é obrigatório",
			utils.APIError{Code: "missing_token", Detail: "refresh token is required"})
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) || errors.Is(err, utils.ErrWrongTokenType) || errors.Is(err, services.ErrUserInactive) {
			utils.RespondError(w, http.StatusUnauthorized, "Token inválido ou expirado",
				utils.APIError{Code: "invalid_token", Detail: "refresh token rejected"})
			return
		}
		log.Error().Err(err).Msg("Token refresh failed unexpectedly")
		utils.RespondError(w, http.StatusInternalServerError, "Erro interno do servidor",
			utils.APIError{Code: "internal_error", Detail: "unexpected error during refresh"})
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Token atualizado", pair)
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req models.TokenVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		utils.RespondError(w, http.StatusBadRequest, "Token é obrigatório",
			utils.APIError{Code: "missing_token", Detail: "token is required"})
		return
	}

	if err := h.authService.Verify(r.Context(), req.Token); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Token inválido ou expirado",
			utils.APIError{Code: "invalid_token", Detail: "token rejected"})
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Token válido", map[string]bool{"valid": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		utils.RespondError(w, http.StatusBadRequest, "Token de atualização é obrigatório",
			utils.APIError{Code: "missing_token", Detail: "refresh token is required"})
		return
	}

	// An already-expired or malformed token is still a successful logout;
	// only infrastructure failures surface as errors here.
	if err := h.authService.Logout(r.Context(), req.Refresh); err != nil {
		log.Error().Err(err).Msg("Logout failed unexpectedly")
		utils.RespondError(w, http.StatusInternalServerError, "Erro interno do servidor",
			utils.APIError{Code: "internal_error", Detail: "unexpected error during logout"})
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Logout realizado com sucesso", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(w, r)
	if err != nil {
		return
	}

	summary, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Usuário não encontrado",
			utils.APIError{Code: "user_not_found", Detail: "authenticated user no longer exists"})
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", summary)
}

// ForgotPassword always answers success so the endpoint cannot be used to
// probe which emails have accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordForgotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		utils.RespondError(w, http.StatusBadRequest, "E-mail é obrigatório",
			utils.APIError{Code: "missing_email", Detail: "email is required"})
		return
	}

	h.authService.ForgotPassword(r.Context(), strings.TrimSpace(req.Email))

	utils.RespondSuccess(w, http.StatusOK, "Se o e-mail estiver cadastrado, um código de recuperação foi enviado.", nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Corpo da requisição inválido",
			utils.APIError{Code: "invalid_body", Detail: "malformed JSON"})
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.OTP == "" || len(req.NewPassword) < 8 {
		utils.RespondError(w, http.StatusBadRequest, "E-mail, código e nova senha (mínimo 8 caracteres) são obrigatórios",
			utils.APIError{Code: "invalid_payload", Detail: "email, otp and a password of at least 8 characters are required"})
		return
	}

	if err := h.authService.ResetPassword(r.Context(), strings.TrimSpace(req.Email), req.OTP, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidOTP) {
			utils.RespondError(w, http.StatusBadRequest, "Código inválido ou expirado",
				utils.APIError{Code: "invalid_otp", Detail: "OTP rejected"})
			return
		}
		log.Error().Err(err).Msg("Password reset failed unexpectedly")
		utils.RespondError(w, http.StatusInternalServerError, "Erro interno do servidor",
			utils.APIError{Code: "internal_error", Detail: "unexpected error during password reset"})
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Senha redefinida com sucesso", nil)
}
