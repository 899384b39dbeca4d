// Package mcp hosts the gateway server: a thin gin front over a pluggable
// LLM backend, exposing chat and embedding proxies for the CRM's assistant
// features.
package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recallerhq/recaller-backend/internal/config"
	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/mcp/backend"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
)

type Server struct {
	Engine  *gin.Engine
	backend backend.Backend
	log     *logger.Logger
	timeout time.Duration
	srv     *http.Server
}

func NewServer(cfg config.MCPConfig, b backend.Backend, baseLog *logger.Logger) *Server {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	s := &Server{
		backend: b,
		log:     baseLog.With("component", "MCPServer"),
		timeout: timeout,
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)
	r.POST("/v1/chat", s.chat)
	r.POST("/v1/embeddings", s.embeddings)

	s.Engine = r
	return s
}

func (s *Server) Run(address string) error {
	s.srv = &http.Server{
		Addr:              address,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": "ok", "backend": s.backend.Name()})
}

func (s *Server) chat(c *gin.Context) {
	var req backend.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	resp, err := s.backend.Chat(ctx, req)
	if err != nil {
		s.log.Error("chat proxy failed", "backend", s.backend.Name(), "error", err)
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, resp)
}

func (s *Server) embeddings(c *gin.Context) {
	var req backend.EmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidationError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	resp, err := s.backend.Embed(ctx, req)
	if err != nil {
		s.log.Error("embedding proxy failed", "backend", s.backend.Name(), "error", err)
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, resp)
}
