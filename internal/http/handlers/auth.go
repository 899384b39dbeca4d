package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	"github.com/recallerhq/recaller-backend/internal/requestdata"
	"github.com/recallerhq/recaller-backend/internal/services/auth"
)

type AuthHandler struct {
	svc auth.AuthService
	log *logger.Logger
}

func NewAuthHandler(svc auth.AuthService, baseLog *logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: baseLog.With("handler", "AuthHandler")}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input auth.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	user, tokens, err := h.svc.Register(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user, "tokens": tokens})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input auth.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	user, tokens, err := h.svc.Login(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user, "tokens": tokens})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	tokens, err := h.svc.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tokens": tokens})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondNoContent(c)
		return
	}
	if err := h.svc.Logout(c.Request.Context(), rd.UserID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
