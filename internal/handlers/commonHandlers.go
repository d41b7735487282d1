package handlers

import (
	"net/http"

	"entrevia/internal/database"
	"entrevia/internal/utils"
)

type CommonHandler struct {
	db database.Service
}

func NewCommonHandler(db database.Service) *CommonHandler {
	return &CommonHandler{db: db}
}

func (h *CommonHandler) HelloHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondSuccess(w, http.StatusOK, "Entrevia API", map[string]string{"service": "entrevia"})
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := h.db.Health()
	if health["status"] != "up" {
		utils.RespondError(w, http.StatusServiceUnavailable, "Serviço indisponível",
			utils.APIError{Code: "database_down", Detail: health["message"]})
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "ok", health)
}
