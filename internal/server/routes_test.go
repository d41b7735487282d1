package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"entrevia/internal/handlers"
	"entrevia/internal/utils"
)

type mockDBService struct {
	healthy bool
}

func (m *mockDBService) Health() map[string]string {
	if m.healthy {
		return map[string]string{"status": "up", "message": "It's healthy"}
	}
	return map[string]string{"status": "down", "message": "db unreachable"}
}

func (m *mockDBService) Client() *mongo.Client     { return nil }
func (m *mockDBService) Database() *mongo.Database { return nil }
func (m *mockDBService) Close() error              { return nil }

func TestHealthHandler(t *testing.T) {
	ch := handlers.NewCommonHandler(&mockDBService{healthy: true})
	server := httptest.NewServer(http.HandlerFunc(ch.HealthHandler))
	defer server.Close()

	resp, err := http.Get(server.URL)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope utils.APIResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
}

func TestHealthHandlerReportsDown(t *testing.T) {
	ch := handlers.NewCommonHandler(&mockDBService{healthy: false})
	server := httptest.NewServer(http.HandlerFunc(ch.HealthHandler))
	defer server.Close()

	resp, err := http.Get(server.URL)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var envelope utils.APIResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "database_down", envelope.Errors[0].Code)
}

func TestHelloHandler(t *testing.T) {
	ch := handlers.NewCommonHandler(&mockDBService{healthy: true})
	server := httptest.NewServer(http.HandlerFunc(ch.HelloHandler))
	defer server.Close()

	resp, err := http.Get(server.URL)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
