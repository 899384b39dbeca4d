package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	relsvc "github.com/recallerhq/recaller-backend/internal/services/relationship"
)

type RelationshipHandler struct {
	svc relsvc.RelationshipService
	log *logger.Logger
}

func NewRelationshipHandler(svc relsvc.RelationshipService, baseLog *logger.Logger) *RelationshipHandler {
	return &RelationshipHandler{svc: svc, log: baseLog.With("handler", "RelationshipHandler")}
}

func (h *RelationshipHandler) Create(c *gin.Context) {
	var input relsvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	created, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

func (h *RelationshipHandler) GetBetween(c *gin.Context) {
	a, ok := pathUUID(c, "contactA")
	if !ok {
		return
	}
	b, ok := pathUUID(c, "contactB")
	if !ok {
		return
	}
	relationship, err := h.svc.GetBetween(c.Request.Context(), a, b)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, relationship)
}

func (h *RelationshipHandler) ListForContact(c *gin.Context) {
	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"
	views, err := h.svc.ListForContact(c.Request.Context(), contactID, includeInactive)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, views)
}

func (h *RelationshipHandler) Update(c *gin.Context) {
	a, ok := pathUUID(c, "contactA")
	if !ok {
		return
	}
	b, ok := pathUUID(c, "contactB")
	if !ok {
		return
	}
	var input relsvc.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), a, b, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, updated)
}

func (h *RelationshipHandler) UpdateSingleSide(c *gin.Context) {
	a, ok := pathUUID(c, "contactA")
	if !ok {
		return
	}
	b, ok := pathUUID(c, "contactB")
	if !ok {
		return
	}
	var body struct {
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	updated, err := h.svc.UpdateSingleSide(c.Request.Context(), a, b, body.Label)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, updated)
}

func (h *RelationshipHandler) Delete(c *gin.Context) {
	a, ok := pathUUID(c, "contactA")
	if !ok {
		return
	}
	b, ok := pathUUID(c, "contactB")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), a, b); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *RelationshipHandler) Summary(c *gin.Context) {
	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.SummaryByCategory(c.Request.Context(), contactID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, summary)
}

// Options lists the known relationship types so clients can build pickers.
func (h *RelationshipHandler) Options(c *gin.Context) {
	response.RespondOK(c, h.svc.TypeOptions())
}
