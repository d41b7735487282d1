package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"entrevia/internal/models"
	"entrevia/internal/services"
	"entrevia/internal/utils"
)

type stubInterviewService struct {
	view *models.InterviewView
	err  error

	lastContent string
}

func (s *stubInterviewService) Create(ctx context.Context, req models.InterviewCreateRequest, createdBy *primitive.ObjectID) (*models.InterviewView, error) {
	return s.view, s.err
}

func (s *stubInterviewService) Get(ctx context.Context, uuid string) (*models.InterviewView, error) {
	return s.view, s.err
}

func (s *stubInterviewService) SendMessage(ctx context.Context, uuid string, content string) (*models.InterviewView, error) {
	s.lastContent = content
	return s.view, s.err
}

func (s *stubInterviewService) ListAll(ctx context.Context) ([]models.InterviewListItem, error) {
	return nil, s.err
}

func newMessageRouter(svc services.InterviewService) *mux.Router {
	r := mux.NewRouter()
	h := NewInterviewHandler(svc)
	r.HandleFunc("/api/interviews/{uuid}/messages", h.SendMessage).Methods("POST")
	r.HandleFunc("/api/interviews/{uuid}", h.GetInterview).Methods("GET")
	r.HandleFunc("/api/interviews", h.CreateInterview).Methods("POST")
	return r
}

func postMessage(t *testing.T, router *mux.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/interviews/abc-123/messages", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var envelope utils.APIResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func TestSendMessageValidatesLength(t *testing.T) {
	stub := &stubInterviewService{view: &models.InterviewView{UUID: "abc-123"}}
	router := newMessageRouter(stub)

	rec := postMessage(t, router, `{"content": "a"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_message", decodeEnvelope(t, rec).Errors[0].Code)

	rec = postMessage(t, router, `{"content": "`+strings.Repeat("a", 2001)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postMessage(t, router, `{"content": "   ok   "}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", stub.lastContent, "content must be trimmed before validation")
}

func TestSendMessageCompletedInterview(t *testing.T) {
	router := newMessageRouter(&stubInterviewService{err: services.ErrInterviewCompleted})

	rec := postMessage(t, router, `{"content": "olá, tudo bem?"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Esta entrevista já foi finalizada", envelope.Message)
	assert.Equal(t, "interview_completed", envelope.Errors[0].Code)
}

func TestSendMessageAIErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrAITimeout, http.StatusGatewayTimeout, "ai_timeout"},
		{&services.AIRateLimitError{}, http.StatusTooManyRequests, "ai_rate_limit"},
		{services.ErrAIConnection, http.StatusServiceUnavailable, "ai_connection_error"},
		{services.ErrAIAuthentication, http.StatusInternalServerError, "ai_auth_error"},
		{services.ErrAIResponse, http.StatusBadGateway, "ai_response_error"},
	}

	for _, tc := range cases {
		router := newMessageRouter(&stubInterviewService{err: tc.err})
		rec := postMessage(t, router, `{"content": "mensagem válida"}`)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
		assert.Equal(t, tc.code, decodeEnvelope(t, rec).Errors[0].Code)
	}
}

func TestGetInterviewNotFound(t *testing.T) {
	router := newMessageRouter(&stubInterviewService{err: services.ErrInterviewNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/interviews/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "interview_not_found", decodeEnvelope(t, rec).Errors[0].Code)
}

func TestCreateInterviewAcceptsEmptyBody(t *testing.T) {
	stub := &stubInterviewService{view: &models.InterviewView{UUID: "abc-123", Title: "Teste de Aptidão - abc-123"}}
	router := newMessageRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/interviews", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestCreateInterviewUnknownJob(t *testing.T) {
	router := newMessageRouter(&stubInterviewService{err: services.ErrJobNotFound})

	req := httptest.NewRequest(http.MethodPost, "/api/interviews", strings.NewReader(`{"job_id": "000000000000000000000000"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "job_not_found", decodeEnvelope(t, rec).Errors[0].Code)
}
