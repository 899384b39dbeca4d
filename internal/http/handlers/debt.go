package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/recallerhq/recaller-backend/internal/domain"
	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	financesvc "github.com/recallerhq/recaller-backend/internal/services/finance"
)

type DebtHandler struct {
	svc financesvc.DebtService
	log *logger.Logger
}

func NewDebtHandler(svc financesvc.DebtService, baseLog *logger.Logger) *DebtHandler {
	return &DebtHandler{svc: svc, log: baseLog.With("handler", "DebtHandler")}
}

func (h *DebtHandler) Create(c *gin.Context) {
	var input financesvc.DebtInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	debt, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, debt)
}

func (h *DebtHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	debt, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, debt)
}

func (h *DebtHandler) List(c *gin.Context) {
	debts, err := h.svc.List(c.Request.Context(), types.DebtStatus(c.Query("status")))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, debts)
}

func (h *DebtHandler) ListForContact(c *gin.Context) {
	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	debts, err := h.svc.ListForContact(c.Request.Context(), contactID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, debts)
}

func (h *DebtHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input financesvc.DebtUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	debt, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, debt)
}

func (h *DebtHandler) RecordPayment(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input financesvc.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	debt, err := h.svc.RecordPayment(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, debt)
}

func (h *DebtHandler) Delete(c *gin.Context) {
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
