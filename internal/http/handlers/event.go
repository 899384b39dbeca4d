package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	eventsvc "github.com/recallerhq/recaller-backend/internal/services/event"
)

type EventHandler struct {
	svc eventsvc.EventService
	log *logger.Logger
}

func NewEventHandler(svc eventsvc.EventService, baseLog *logger.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: baseLog.With("handler", "EventHandler")}
}

func queryTime(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

func (h *EventHandler) Create(c *gin.Context) {
	var input eventsvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	ev, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, ev)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	ev, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, ev)
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.svc.List(c.Request.Context(), queryTime(c, "from"), queryTime(c, "to"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, events)
}

func (h *EventHandler) ListForContact(c *gin.Context) {
	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	events, err := h.svc.ListForContact(c.Request.Context(), contactID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, events)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input eventsvc.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	ev, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, ev)
}

func (h *EventHandler) Delete(c *gin.Context) {
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

func (h *EventHandler) AddAttendee(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var body struct {
		ContactID string `json:"contact_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	contactID, ok := parseUUID(c, body.ContactID)
	if !ok {
		return
	}
	if err := h.svc.AddAttendee(c.Request.Context(), eventID, contactID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *EventHandler) RemoveAttendee(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	contactID, ok := pathUUID(c, "contactId")
	if !ok {
		return
	}
	if err := h.svc.RemoveAttendee(c.Request.Context(), eventID, contactID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *EventHandler) ListAttendees(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	attendees, err := h.svc.ListAttendees(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, attendees)
}
