package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// APIError is one entry of the errors list in the response envelope.
type APIError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// APIResponse is the uniform envelope every endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  []APIError  `json:"errors"`
}

func writeEnvelope(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Failed to encode API response")
	}
}

// RespondSuccess writes a success envelope.
func RespondSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeEnvelope(w, statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondError writes an error envelope.
func RespondError(w http.ResponseWriter, statusCode int, message string, errors ...APIError) {
	writeEnvelope(w, statusCode, APIResponse{
		Success: false,
		Message: message,
		Errors:  errors,
	})
}
