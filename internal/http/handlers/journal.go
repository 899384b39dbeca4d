package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	journalsvc "github.com/recallerhq/recaller-backend/internal/services/journal"
)

type JournalHandler struct {
	svc journalsvc.JournalService
	log *logger.Logger
}

func NewJournalHandler(svc journalsvc.JournalService, baseLog *logger.Logger) *JournalHandler {
	return &JournalHandler{svc: svc, log: baseLog.With("handler", "JournalHandler")}
}

func (h *JournalHandler) Create(c *gin.Context) {
	var input journalsvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	entry, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

func (h *JournalHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, entry)
}

func (h *JournalHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), queryTime(c, "from"), queryTime(c, "to"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, entries)
}

func (h *JournalHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input journalsvc.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	entry, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, entry)
}

func (h *JournalHandler) Delete(c *gin.Context) {
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
