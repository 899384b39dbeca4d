package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/recallerhq/recaller-backend/internal/http/response"
	"github.com/recallerhq/recaller-backend/internal/platform/logger"
	orgsvc "github.com/recallerhq/recaller-backend/internal/services/organization"
)

type OrganizationHandler struct {
	svc orgsvc.OrganizationService
	log *logger.Logger
}

func NewOrganizationHandler(svc orgsvc.OrganizationService, baseLog *logger.Logger) *OrganizationHandler {
	return &OrganizationHandler{svc: svc, log: baseLog.With("handler", "OrganizationHandler")}
}

func (h *OrganizationHandler) Create(c *gin.Context) {
	var input orgsvc.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	org, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, org)
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	org, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, org)
}

func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, orgs)
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input orgsvc.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	org, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, org)
}

func (h *OrganizationHandler) Delete(c *gin.Context) {
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

func (h *OrganizationHandler) LinkContact(c *gin.Context) {
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input orgsvc.LinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondValidationError(c, err)
		return
	}
	link, err := h.svc.LinkContact(c.Request.Context(), orgID, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, link)
}

func (h *OrganizationHandler) UnlinkContact(c *gin.Context) {
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	contactID, ok := pathUUID(c, "contactId")
	if !ok {
		return
	}
	if err := h.svc.UnlinkContact(c.Request.Context(), orgID, contactID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondNoContent(c)
}

func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	orgID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	members, err := h.svc.ListMembers(c.Request.Context(), orgID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, members)
}

func (h *OrganizationHandler) ListForContact(c *gin.Context) {
	contactID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	links, err := h.svc.ListForContact(c.Request.Context(), contactID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, links)
}
