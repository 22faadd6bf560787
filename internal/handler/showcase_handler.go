package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// ShowcaseHandler serves the home page collections: gallery, announcements,
// toppers and testimonials.
type ShowcaseHandler struct {
	content       *service.ContentService
	gallery       *service.GalleryService
	announcements *service.AnnouncementService
}

// NewShowcaseHandler constructs a ShowcaseHandler.
func NewShowcaseHandler(content *service.ContentService, gallery *service.GalleryService, announcements *service.AnnouncementService) *ShowcaseHandler {
	return &ShowcaseHandler{content: content, gallery: gallery, announcements: announcements}
}

// Gallery godoc
// @Summary List gallery images
// @Tags Showcase
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gallery [get]
func (h *ShowcaseHandler) Gallery(c *gin.Context) {
	start := time.Now()
	items, hit := h.content.Gallery(c.Request.Context())
	listResponse(c, start, items, hit)
}

// Announcements godoc
// @Summary List announcements
// @Tags Showcase
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *ShowcaseHandler) Announcements(c *gin.Context) {
	start := time.Now()
	items, hit := h.content.Announcements(c.Request.Context())
	listResponse(c, start, items, hit)
}

// Toppers godoc
// @Summary List toppers
// @Tags Showcase
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /toppers [get]
func (h *ShowcaseHandler) Toppers(c *gin.Context) {
	start := time.Now()
	items, hit := h.content.Toppers(c.Request.Context())
	listResponse(c, start, items, hit)
}

// Testimonials godoc
// @Summary List testimonials
// @Tags Showcase
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /testimonials [get]
func (h *ShowcaseHandler) Testimonials(c *gin.Context) {
	start := time.Now()
	items, hit := h.content.Testimonials(c.Request.Context())
	listResponse(c, start, items, hit)
}

// CreateGalleryImage godoc
// @Summary Add gallery image
// @Tags Admin Showcase
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GalleryRequest true "Image"
// @Success 201 {object} response.Envelope
// @Router /admin/gallery [post]
func (h *ShowcaseHandler) CreateGalleryImage(c *gin.Context) {
	var req dto.GalleryRequest
	if !bindPayload(c, &req, "invalid gallery payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.gallery.Create(c.Request.Context(), req, image)
	response.Action(c, http.StatusCreated, result, err)
}

// DeleteGalleryImage godoc
// @Summary Delete gallery image
// @Tags Admin Showcase
// @Security BearerAuth
// @Param id path string true "Image ID"
// @Success 200 {object} response.Envelope
// @Router /admin/gallery/{id} [delete]
func (h *ShowcaseHandler) DeleteGalleryImage(c *gin.Context) {
	result, err := h.gallery.Delete(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}

// CreateAnnouncement godoc
// @Summary Add announcement
// @Tags Admin Showcase
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AnnouncementRequest true "Announcement"
// @Success 201 {object} response.Envelope
// @Router /admin/announcements [post]
func (h *ShowcaseHandler) CreateAnnouncement(c *gin.Context) {
	var req dto.AnnouncementRequest
	if !bindPayload(c, &req, "invalid announcement payload") {
		return
	}
	result, err := h.announcements.CreateAnnouncement(c.Request.Context(), req)
	response.Action(c, http.StatusCreated, result, err)
}

// DeleteAnnouncement godoc
// @Summary Delete announcement
// @Tags Admin Showcase
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /admin/announcements/{id} [delete]
func (h *ShowcaseHandler) DeleteAnnouncement(c *gin.Context) {
	result, err := h.announcements.DeleteAnnouncement(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}

// CreateTopper godoc
// @Summary Add topper
// @Tags Admin Showcase
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body dto.TopperRequest true "Topper"
// @Success 201 {object} response.Envelope
// @Router /admin/toppers [post]
func (h *ShowcaseHandler) CreateTopper(c *gin.Context) {
	var req dto.TopperRequest
	if !bindPayload(c, &req, "invalid topper payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.announcements.CreateTopper(c.Request.Context(), req, image)
	response.Action(c, http.StatusCreated, result, err)
}

// DeleteTopper godoc
// @Summary Delete topper
// @Tags Admin Showcase
// @Security BearerAuth
// @Param id path string true "Topper ID"
// @Success 200 {object} response.Envelope
// @Router /admin/toppers/{id} [delete]
func (h *ShowcaseHandler) DeleteTopper(c *gin.Context) {
	result, err := h.announcements.DeleteTopper(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}

// CreateTestimonial godoc
// @Summary Add testimonial
// @Tags Admin Showcase
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body dto.TestimonialRequest true "Testimonial"
// @Success 201 {object} response.Envelope
// @Router /admin/testimonials [post]
func (h *ShowcaseHandler) CreateTestimonial(c *gin.Context) {
	var req dto.TestimonialRequest
	if !bindPayload(c, &req, "invalid testimonial payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.announcements.CreateTestimonial(c.Request.Context(), req, image)
	response.Action(c, http.StatusCreated, result, err)
}

// DeleteTestimonial godoc
// @Summary Delete testimonial
// @Tags Admin Showcase
// @Security BearerAuth
// @Param id path string true "Testimonial ID"
// @Success 200 {object} response.Envelope
// @Router /admin/testimonials/{id} [delete]
func (h *ShowcaseHandler) DeleteTestimonial(c *gin.Context) {
	result, err := h.announcements.DeleteTestimonial(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}
