package utils

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys populated by the auth middleware.
type contextKey string

const (
	ContextKeyUserID  contextKey = "userID"
	ContextKeyIsStaff contextKey = "isStaff"
)

// GetUserIDFromContext extracts and parses the authenticated user's ID from
// the request context, writing the error envelope on failure.
func GetUserIDFromContext(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, error) {
	userIDStr, ok := r.Context().Value(ContextKeyUserID).(string)
	if !ok {
		RespondError(w, http.StatusUnauthorized, "Token de autenticação não fornecido ou inválido.",
			APIError{Code: "authentication_required", Detail: "user ID missing from context"})
		return primitive.NilObjectID, errors.New("user ID missing from context")
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		RespondError(w, http.StatusUnauthorized, "Token de autenticação não fornecido ou inválido.",
			APIError{Code: "authentication_required", Detail: "invalid user ID format"})
		return primitive.NilObjectID, errors.New("invalid user ID format in context")
	}
	return userID, nil
}

// GetObjectIDFromVars extracts and parses an ObjectID path parameter.
func GetObjectIDFromVars(w http.ResponseWriter, r *http.Request, paramName string) (primitive.ObjectID, error) {
	vars := mux.Vars(r)
	idStr := vars[paramName]
	if idStr == "" {
		RespondError(w, http.StatusBadRequest, "Parâmetro de ID ausente",
			APIError{Code: "missing_id", Detail: "missing " + paramName + " parameter"})
		return primitive.NilObjectID, errors.New("missing ID parameter")
	}

	objID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Formato de ID inválido",
			APIError{Code: "invalid_id", Detail: "invalid " + paramName + " format"})
		return primitive.NilObjectID, errors.New("invalid ID format")
	}
	return objID, nil
}

// ClientIP returns the real client IP, honouring X-Forwarded-For when the
// request came through a proxy.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
