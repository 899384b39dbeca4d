package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	remindersvc "github.com/recallerhq/recaller-backend/internal/services/reminder"
)

type ReminderHandler struct {
	svc remindersvc.ReminderService
	log *logger.Logger
}

func NewReminderHandler(svc remindersvc.ReminderService, baseLog *logger.Logger) *ReminderHandler {
	return &ReminderHandler{svc: svc, log: baseLog.With("handler", "ReminderHandler")}
}

func (h *ReminderHandler) Create(c *gin.Context) {
	var input remindersvc.ReminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	reminder, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, reminder)
}

func (h *ReminderHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	reminder, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, reminder)
}

func (h *ReminderHandler) List(c *gin.Context) {
	includeCompleted := c.Query("include_completed") == "true"
	reminders, err := h.svc.List(c.Request.Context(), includeCompleted)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, reminders)
}

func (h *ReminderHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input remindersvc.ReminderUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	reminder, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, reminder)
}

func (h *ReminderHandler) Complete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	reminder, err := h.svc.Complete(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, reminder)
}

func (h *ReminderHandler) Delete(c *gin.Context) {
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

type TaskHandler struct {
	svc remindersvc.TaskService
	log *logger.Logger
}

func NewTaskHandler(svc remindersvc.TaskService, baseLog *logger.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, log: baseLog.With("handler", "TaskHandler")}
}

func (h *TaskHandler) Create(c *gin.Context) {
	var input remindersvc.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	task, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	task, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, task)
}

func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.List(c.Request.Context(), types.TaskStatus(c.Query("status")))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tasks)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input remindersvc.TaskUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	task, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
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
