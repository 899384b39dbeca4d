package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	financerepo "github.com/recallerhq/recaller-backend/internal/data/repos/finance"
	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	financesvc "github.com/recallerhq/recaller-backend/internal/services/finance"
)

type FinanceHandler struct {
	svc financesvc.FinanceService
	log *logger.Logger
}

func NewFinanceHandler(svc financesvc.FinanceService, baseLog *logger.Logger) *FinanceHandler {
	return &FinanceHandler{svc: svc, log: baseLog.With("handler", "FinanceHandler")}
}

func (h *FinanceHandler) CreateBudget(c *gin.Context) {
	var input financesvc.BudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	budget, err := h.svc.CreateBudget(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, budget)
}

func (h *FinanceHandler) GetBudget(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	status, err := h.svc.GetBudget(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, status)
}

func (h *FinanceHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.svc.ListBudgets(c.Request.Context(), queryTime(c, "at"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, budgets)
}

func (h *FinanceHandler) UpdateBudget(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input financesvc.BudgetUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	budget, err := h.svc.UpdateBudget(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, budget)
}

func (h *FinanceHandler) DeleteBudget(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBudget(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var input financesvc.TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	transaction, err := h.svc.CreateTransaction(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, transaction)
}

func (h *FinanceHandler) GetTransaction(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	transaction, err := h.svc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, transaction)
}

func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	filter := financerepo.TransactionFilter{
		Category: c.Query("category"),
		From:     queryTime(c, "from"),
		To:       queryTime(c, "to"),
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if raw := c.Query("budget_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err == nil {
			filter.BudgetID = &id
		}
	}
	transactions, err := h.svc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, transactions)
}

func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *FinanceHandler) CreateRecurringTransaction(c *gin.Context) {
	var input financesvc.RecurringTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	template, err := h.svc.CreateRecurringTransaction(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, template)
}

func (h *FinanceHandler) ListRecurringTransactions(c *gin.Context) {
	templates, err := h.svc.ListRecurringTransactions(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, templates)
}

func (h *FinanceHandler) DeleteRecurringTransaction(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteRecurringTransaction(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}
