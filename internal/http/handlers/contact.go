package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recallerhq/recaller-backend/internal/http/response"
	pkgerr "github.com/recallerhq/recaller-backend/internal/pkg/errors"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	contactsvc "github.com/recallerhq/recaller-backend/internal/services/contact"
)

type ContactHandler struct {
	svc contactsvc.ContactService
	log *logger.Logger
}

func NewContactHandler(svc contactsvc.ContactService, baseLog *logger.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, log: baseLog.With("handler", "ContactHandler")}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	return parseUUID(c, c.Param(name))
}

func parseUUID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, pkgerr.ErrValidation)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ContactHandler) Create(c *gin.Context) {
	var input contactsvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	contact, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, contact)
}

func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	contact, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, contact)
}

func (h *ContactHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	page, err := h.svc.List(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, page)
}

func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input contactsvc.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	contact, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
