package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"entrevia/internal/models"
	"entrevia/internal/services"
	"entrevia/internal/utils"
)

const (
	messageMinLength = 2
	messageMaxLength = 2000
)

type InterviewHandler struct {
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

func (h *InterviewHandler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	var req models.InterviewCreateRequest
	if r.Body != nil {
		// An empty body starts a general aptitude interview.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var createdBy *primitive.ObjectID
	if userIDStr, ok := r.Context().Value(utils.ContextKeyUserID).(string); ok {
		if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
			createdBy = &oid
		}
	}

	view, err := h.interviewService.Create(r.Context(), req, createdBy)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			utils.RespondError(w, http.StatusBadRequest, "Curso não encontrado",
				utils.APIError{Code: "job_not_found", Detail: "job_id does not resolve to a job"})
			return
		}
		h.respondAIError(w, err, "Failed to create interview")
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, "Entrevista iniciada", view)
}

func (h *InterviewHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	uuid := mux.Vars(r)["uuid"]

	view, err := h.interviewService.Get(r.Context(), uuid)
	if err != nil {
		if errors.Is(err, services.ErrInterviewNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Entrevista não encontrada",
				utils.APIError{Code: "interview_not_found", Detail: "no interview with the given uuid"})
			return
		}
		log.Error().Err(err).Str("uuid", uuid).Msg("Failed to fetch interview")
		utils.RespondError(w, http.StatusInternalServerError, "Erro ao buscar entrevista",
			utils.APIError{Code: "internal_error", Detail: "failed to fetch interview"})
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", view)
}

func (h *InterviewHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	uuid := mux.Vars(r)["uuid"]

	var req models.MessageCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Corpo da requisição inválido",
			utils.APIError{Code: "invalid_body", Detail: "malformed JSON"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if length := utf8.RuneCountInString(content); length < messageMinLength || length > messageMaxLength {
		utils.RespondError(w, http.StatusBadRequest, "A mensagem deve ter entre 2 e 2000 caracteres",
			utils.APIError{Code: "invalid_message", Detail: "message length out of bounds"})
		return
	}

	view, err := h.interviewService.SendMessage(r.Context(), uuid, content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInterviewNotFound):
			utils.RespondError(w, http.StatusNotFound, "Entrevista não encontrada",
				utils.APIError{Code: "interview_not_found", Detail: "no interview with the given uuid"})
		case errors.Is(err, services.ErrInterviewCompleted):
			utils.RespondError(w, http.StatusBadRequest, "Esta entrevista já foi finalizada",
				utils.APIError{Code: "interview_completed", Detail: "interview already completed"})
		default:
			h.respondAIError(w, err, "Failed to process interview message")
		}
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "", view)
}

// respondAIError maps the AI error taxonomy onto gateway-style status codes.
func (h *InterviewHandler) respondAIError(w http.ResponseWriter, err error, logMsg string) {
	var rateLimit *services.AIRateLimitError

	switch {
	case errors.Is(err, services.ErrAITimeout):
		utils.RespondError(w, http.StatusGatewayTimeout, "O assistente demorou para responder. Tente novamente.",
			utils.APIError{Code: "ai_timeout", Detail: "AI provider timed out"})
	case errors.As(err, &rateLimit):
		utils.RespondError(w, http.StatusTooManyRequests, "O assistente está sobrecarregado. Aguarde um momento.",
			utils.APIError{Code: "ai_rate_limit", Detail: "AI provider rate limited"})
	case errors.Is(err, services.ErrAIConnection):
		utils.RespondError(w, http.StatusServiceUnavailable, "Não foi possível contatar o assistente. Tente novamente.",
			utils.APIError{Code: "ai_connection_error", Detail: "AI provider unreachable"})
	case errors.Is(err, services.ErrAIAuthentication):
		log.Error().Err(err).Msg(logMsg)
		utils.RespondError(w, http.StatusInternalServerError, "Erro interno do servidor",
			utils.APIError{Code: "ai_auth_error", Detail: "AI provider rejected credentials"})
	case errors.Is(err, services.ErrAIResponse):
		utils.RespondError(w, http.StatusBadGateway, "O assistente retornou uma resposta inválida. Tente novamente.",
			utils.APIError{Code: "ai_response_error", Detail: "invalid AI provider response"})
	default:
		log.Error().Err(err).Msg(logMsg)
		utils.RespondError(w, http.StatusInternalServerError, "Erro interno do servidor",
			utils.APIError{Code: "internal_error", Detail: "unexpected error"})
	}
}
