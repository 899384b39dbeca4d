package backend

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/recallerhq/recaller-backend/internal/config"
)

// mockVectorSize keeps mock embeddings cheap while still exercising
// downstream vector plumbing.
const mockVectorSize = 16

// Mock is a deterministic backend for local development and tests: chat
// echoes the last user message and embeddings are seeded from an FNV hash
// of the input.
type Mock struct {
	model          string
	embeddingModel string
}

func NewMock(cfg config.MCPConfig) *Mock {
	model := cfg.Model
	if model == "" {
		model = "mock-chat"
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = "mock-embedding"
	}
	return &Mock{model: model, embeddingModel: embeddingModel}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = m.model
	}
	last := req.Messages[len(req.Messages)-1]
	return &ChatResponse{
		Model:   model,
		Content: fmt.Sprintf("echo(%s): %s", last.Role, last.Content),
		Backend: m.Name(),
	}, nil
}

func (m *Mock) Embed(_ context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	model := req.Model
	if model == "" {
		model = m.embeddingModel
	}
	embeddings := make([][]float32, len(req.Input))
	for i, text := range req.Input {
		embeddings[i] = mockVector(text)
	}
	return &EmbeddingResponse{
		Model:      model,
		Embeddings: embeddings,
		Backend:    m.Name(),
	}, nil
}

// mockVector maps text to a stable pseudo-random unit-range vector.
func mockVector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, mockVectorSize)
	for i := range vec {
		// xorshift64
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		vec[i] = float32(seed%2000)/1000.0 - 1.0
	}
	return vec
}
