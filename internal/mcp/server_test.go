package mcp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallerhq/recaller-backend/internal/config"
	"github.com/recallerhq/recaller-backend/internal/mcp/backend"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	require.NoError(t, err)
	cfg := config.MCPConfig{Backend: "mock"}
	b, err := backend.New(cfg, log)
	require.NoError(t, err)
	return NewServer(cfg, b, log)
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"backend":"mock"`)
}

func TestServer_ChatEchoesLastMessage(t *testing.T) {
	s := newTestServer(t)
	w := postJSON(t, s, "/v1/chat", backend.ChatRequest{
		Model: "test-model",
		Messages: []backend.Message{
			{Role: "system", Content: "you are helpful"},
			{Role: "user", Content: "hello there"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Success bool                 `json:"success"`
		Data    backend.ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "test-model", envelope.Data.Model)
	assert.Equal(t, "echo(user): hello there", envelope.Data.Content)
	assert.Equal(t, "mock", envelope.Data.Backend)
}

func TestServer_ChatRejectsEmptyMessages(t *testing.T) {
	s := newTestServer(t)
	w := postJSON(t, s, "/v1/chat", backend.ChatRequest{Messages: []backend.Message{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_EmbeddingsAreDeterministic(t *testing.T) {
	s := newTestServer(t)

	first := postJSON(t, s, "/v1/embeddings", backend.EmbeddingRequest{Input: []string{"alpha", "beta"}})
	require.Equal(t, http.StatusOK, first.Code)
	second := postJSON(t, s, "/v1/embeddings", backend.EmbeddingRequest{Input: []string{"alpha", "beta"}})
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String())

	var envelope struct {
		Data backend.EmbeddingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Embeddings, 2)
	assert.NotEqual(t, envelope.Data.Embeddings[0], envelope.Data.Embeddings[1])
}
