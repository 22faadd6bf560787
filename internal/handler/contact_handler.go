package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// ContactHandler exposes the contact form and its inbox.
type ContactHandler struct {
	contacts *service.ContactService
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit godoc
// @Summary Send a contact message
// @Tags Forms
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.ContactRequest true "Message"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !bindPayload(c, &req, "invalid contact payload") {
		return
	}
	result, err := h.contacts.Submit(c.Request.Context(), req)
	response.Action(c, http.StatusCreated, result, err)
}

// List godoc
// @Summary List contact messages
// @Tags Admin Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.contacts.List(c.Request.Context()))
}

// Delete godoc
// @Summary Delete contact message
// @Tags Admin Contacts
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} response.Envelope
// @Router /admin/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	result, err := h.contacts.Delete(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}
