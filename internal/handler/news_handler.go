package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// NewsHandler serves news articles and school events.
type NewsHandler struct {
	content *service.ContentService
	news    *service.NewsService
	events  *service.EventService
}

// NewNewsHandler constructs a NewsHandler.
func NewNewsHandler(content *service.ContentService, news *service.NewsService, events *service.EventService) *NewsHandler {
	return &NewsHandler{content: content, news: news, events: events}
}

// ListNews godoc
// @Summary List news, newest first
// @Tags News
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /news [get]
func (h *NewsHandler) ListNews(c *gin.Context) {
	start := time.Now()
	items, hit := h.content.News(c.Request.Context())
	listResponse(c, start, items, hit)
}

// GetNews godoc
// @Summary Get news article
// @Tags News
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /news/{id} [get]
func (h *NewsHandler) GetNews(c *gin.Context) {
	item, err := h.content.NewsItem(c.Request.Context(), pathID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// CreateNews godoc
// @Summary Publish news article
// @Tags Admin News
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body dto.NewsRequest true "Article"
// @Success 201 {object} response.Envelope
// @Router /admin/news [post]
func (h *NewsHandler) CreateNews(c *gin.Context) {
	var req dto.NewsRequest
	if !bindPayload(c, &req, "invalid news payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.news.Create(c.Request.Context(), req, image)
	response.Action(c, http.StatusCreated, result, err)
}

// UpdateNews godoc
// @Summary Update news article
// @Tags Admin News
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param payload body dto.NewsRequest true "Article"
// @Success 200 {object} response.Envelope
// @Router /admin/news/{id} [put]
func (h *NewsHandler) UpdateNews(c *gin.Context) {
	var req dto.NewsRequest
	if !bindPayload(c, &req, "invalid news payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.news.Update(c.Request.Context(), pathID(c), req, image)
	response.Action(c, http.StatusOK, result, err)
}

// DeleteNews godoc
// @Summary Delete news article
// @Tags Admin News
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /admin/news/{id} [delete]
func (h *NewsHandler) DeleteNews(c *gin.Context) {
	result, err := h.news.Delete(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}

// ListEvents godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *NewsHandler) ListEvents(c *gin.Context) {
	start := time.Now()
	items, hit := h.content.Events(c.Request.Context())
	listResponse(c, start, items, hit)
}

// GetEvent godoc
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *NewsHandler) GetEvent(c *gin.Context) {
	item, err := h.content.Event(c.Request.Context(), pathID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// CreateEvent godoc
// @Summary Create event
// @Tags Admin Events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Router /admin/events [post]
func (h *NewsHandler) CreateEvent(c *gin.Context) {
	var req dto.EventRequest
	if !bindPayload(c, &req, "invalid event payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.events.Create(c.Request.Context(), req, image)
	response.Action(c, http.StatusCreated, result, err)
}

// UpdateEvent godoc
// @Summary Update event
// @Tags Admin Events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body dto.EventRequest true "Event"
// @Success 200 {object} response.Envelope
// @Router /admin/events/{id} [put]
func (h *NewsHandler) UpdateEvent(c *gin.Context) {
	var req dto.EventRequest
	if !bindPayload(c, &req, "invalid event payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.events.Update(c.Request.Context(), pathID(c), req, image)
	response.Action(c, http.StatusOK, result, err)
}

// DeleteEvent godoc
// @Summary Delete event
// @Tags Admin Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /admin/events/{id} [delete]
func (h *NewsHandler) DeleteEvent(c *gin.Context) {
	result, err := h.events.Delete(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}
