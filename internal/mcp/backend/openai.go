package backend

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/recallerhq/recaller-backend/internal/config"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

// OpenAI proxies to any OpenAI-compatible API; BaseURL override covers
// self-hosted gateways exposing the same surface.
type OpenAI struct {
	client         *openai.Client
	log            *logger.Logger
	model          string
	embeddingModel string
}

func NewOpenAI(cfg config.MCPConfig, baseLog *logger.Logger) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai backend requires an API key")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}

	return &OpenAI{
		client:         openai.NewClientWithConfig(clientCfg),
		log:            baseLog.With("backend", "openai"),
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("calling chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices returned")
	}

	return &ChatResponse{
		Model:   resp.Model,
		Content: resp.Choices[0].Message.Content,
		Backend: o.Name(),
	}, nil
}

func (o *OpenAI) Embed(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	model := req.Model
	if model == "" {
		model = o.embeddingModel
	}

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(model),
		Input: req.Input,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embeddings: %w", err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}

	return &EmbeddingResponse{
		Model:      model,
		Embeddings: embeddings,
		Backend:    o.Name(),
	}, nil
}
