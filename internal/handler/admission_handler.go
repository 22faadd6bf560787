package handler

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/service"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// AdmissionHandler exposes the admission form and its review workflow.
type AdmissionHandler struct {
	admissions *service.AdmissionService
	media      *service.MediaService
}

// NewAdmissionHandler constructs an AdmissionHandler.
func NewAdmissionHandler(admissions *service.AdmissionService, media *service.MediaService) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions, media: media}
}

// Submit godoc
// @Summary Submit admission application
// @Tags Forms
// @Accept mpfd,json
// @Produce json
// @Param payload body dto.AdmissionRequest true "Application"
// @Param supportingDocument formData file false "JPEG, PNG or PDF"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admissions [post]
func (h *AdmissionHandler) Submit(c *gin.Context) {
	var req dto.AdmissionRequest
	if !bindPayload(c, &req, "invalid admission payload") {
		return
	}
	document, err := formUpload(c, "supportingDocument")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.admissions.Submit(c.Request.Context(), req, document)
	response.Action(c, http.StatusCreated, result, err)
}

// List godoc
// @Summary List admission applications
// @Tags Admin Admissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/admissions [get]
func (h *AdmissionHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.admissions.List(c.Request.Context()))
}

// Get godoc
// @Summary Get admission application
// @Tags Admin Admissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admission ID"
// @Success 200 {object} response.Envelope
// @Router /admin/admissions/{id} [get]
func (h *AdmissionHandler) Get(c *gin.Context) {
	submission, err := h.admissions.Get(c.Request.Context(), pathID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission)
}

// Approve godoc
// @Summary Approve pending application
// @Tags Admin Admissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admission ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/admissions/{id}/approve [post]
func (h *AdmissionHandler) Approve(c *gin.Context) {
	result, err := h.admissions.Approve(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}

// Reject godoc
// @Summary Reject pending application
// @Tags Admin Admissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admission ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/admissions/{id}/reject [post]
func (h *AdmissionHandler) Reject(c *gin.Context) {
	result, err := h.admissions.Reject(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}

// DocumentLink godoc
// @Summary Issue a signed link to the supporting document
// @Tags Admin Admissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admission ID"
// @Success 200 {object} response.Envelope
// @Router /admin/admissions/{id}/document [get]
func (h *AdmissionHandler) DocumentLink(c *gin.Context) {
	link, err := h.admissions.DocumentLink(c.Request.Context(), pathID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link)
}

// Document godoc
// @Summary Download a supporting document by signed token
// @Tags Admin Admissions
// @Produce octet-stream
// @Security BearerAuth
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /admin/admissions/documents/{token} [get]
func (h *AdmissionHandler) Document(c *gin.Context) {
	if h.media == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "document not found"))
		return
	}
	name, err := h.admissions.ResolveDocument(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, contentType, err := h.media.OpenDocument(name)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read document"))
		return
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="`+path.Base(name)+`"`)
	c.Header("Cache-Control", "private, no-store")
	http.ServeContent(c.Writer, c.Request, path.Base(name), info.ModTime(), file)
}
