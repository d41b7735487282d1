package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"entrevia/internal/models"
	"entrevia/internal/services"
	"entrevia/internal/utils"
)

// AdminHandler serves the staff-only course management and interview review
// surface.
type AdminHandler struct {
	jobService       services.JobService
	interviewService services.InterviewService
}

func NewAdminHandler(jobService services.JobService, interviewService services.InterviewService) *AdminHandler {
	return &AdminHandler{jobService: jobService, interviewService: interviewService}
}

func (h *AdminHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req models.JobUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Corpo da requisição inválido",
			utils.APIError{Code: "invalid_body", Detail: "malformed JSON"})
		return
	}

	job, err := h.jobService.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidJob) {
			utils.RespondError(w, http.StatusBadRequest, "Dados do curso inválidos",
				utils.APIError{Code: "invalid_job", Detail: err.Error()})
			return
		}
		log.Error().Err(err).Msg("Failed to create job")
		utils.RespondError(w, http.StatusInternalServerError, "Erro ao criar curso",
			utils.APIError{Code: "internal_error", Detail: "failed to create job"})
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, "Curso criado com sucesso", job)
}

func (h *AdminHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var req models.JobUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Corpo da requisição inválido",
			utils.APIError{Code: "invalid_body", Detail: "malformed JSON"})
		return
	}

	job, err := h.jobService.Update(r.Context(), jobID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidJob):
			utils.RespondError(w, http.StatusBadRequest, "Dados do curso inválidos",
				utils.APIError{Code: "invalid_job", Detail: err.Error()})
		case errors.Is(err, services.ErrJobNotFound):
			utils.RespondError(w, http.StatusNotFound, "Curso não encontrado",
				utils.APIError{Code: "job_not_found", Detail: "no job with the given id"})
		default:
			log.Error().Err(err).Str("job_id", jobID.Hex()).Msg("Failed to update job")
			utils.RespondError(w, http.StatusInternalServerError, "Erro ao atualizar curso",
				utils.APIError{Code: "internal_error", Detail: "failed to update job"})
		}
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Curso atualizado com sucesso", job)
}

func (h *AdminHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.jobService.Delete(r.Context(), jobID); err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Curso não encontrado",
				utils.APIError{Code: "job_not_found", Detail: "no job with the given id"})
			return
		}
		log.Error().Err(err).Str("job_id", jobID.Hex()).Msg("Failed to delete job")
		utils.RespondError(w, http.StatusInternalServerError, "Erro ao excluir curso",
			utils.APIError{Code: "internal_error", Detail: "failed to delete job"})
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Curso excluído com sucesso", nil)
}

func (h *AdminHandler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := h.interviewService.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list interviews")
		utils.RespondError(w, http.StatusInternalServerError, "Erro ao listar entrevistas",
			utils.APIError{Code: "internal_error", Detail: "failed to list interviews"})
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "", interviews)
}
