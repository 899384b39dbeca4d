// Package backend defines the pluggable LLM providers the gateway proxies
// to. A provider is chosen once at startup; the request model field can
// override the configured default per call.
package backend

import (
	"context"
	"fmt"

	"github.com/recallerhq/recaller-backend/internal/config"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type Message struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages" binding:"required,min=1,dive"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type ChatResponse struct {
	Model   string `json:"model"`
	Content string `json:"content"`
	Backend string `json:"backend"`
}

type EmbeddingRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input" binding:"required,min=1"`
}

type EmbeddingResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
	Backend    string      `json:"backend"`
}

type Backend interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Embed(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error)
}

// New builds the backend named in cfg.Backend.
func New(cfg config.MCPConfig, log *logger.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", "mock":
		return NewMock(cfg), nil
	case "openai":
		return NewOpenAI(cfg, log)
	default:
		return nil, fmt.Errorf("unknown mcp backend %q", cfg.Backend)
	}
}
