package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"entrevia/internal/services"
	"entrevia/internal/utils"
)

// JobHandler serves the public course catalog.
type JobHandler struct {
	jobService services.JobService
}

func NewJobHandler(jobService services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list jobs")
		utils.RespondError(w, http.StatusInternalServerError, "Erro ao listar cursos",
			utils.APIError{Code: "internal_error", Detail: "failed to list jobs"})
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "", jobs)
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := utils.GetObjectIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	job, err := h.jobService.Get(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Curso não encontrado",
				utils.APIError{Code: "job_not_found", Detail: "no job with the given id"})
			return
		}
		log.Error().Err(err).Str("job_id", jobID.Hex()).Msg("Failed to fetch job")
		utils.RespondError(w, http.StatusInternalServerError, "Erro ao buscar curso",
			utils.APIError{Code: "internal_error", Detail: "failed to fetch job"})
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "", job)
}
