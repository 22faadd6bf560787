package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// SiteHandler serves the site settings singleton and the FAQ.
type SiteHandler struct {
	content  *service.ContentService
	settings *service.SettingsService
	faqs     *service.FAQService
}

// NewSiteHandler constructs a SiteHandler.
func NewSiteHandler(content *service.ContentService, settings *service.SettingsService, faqs *service.FAQService) *SiteHandler {
	return &SiteHandler{content: content, settings: settings, faqs: faqs}
}

// Settings godoc
// @Summary Get site settings
// @Description Returns an empty document until settings are saved once.
// @Tags Site
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SiteHandler) Settings(c *gin.Context) {
	start := time.Now()
	settings, hit, err := h.content.SiteSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if settings == nil {
		settings = &models.SiteSettings{About: models.About{Stats: []models.Stat{}}, MissionVision: []models.MissionEntry{}}
	}
	listResponse(c, start, settings, hit)
}

// UpdateSettings godoc
// @Summary Replace site settings
// @Description Form submissions send stat_value_N/stat_label_N and mv_title_N/mv_description_N fields.
// @Tags Admin Site
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SiteSettingsRequest true "Settings"
// @Success 200 {object} response.Envelope
// @Router /admin/settings [put]
func (h *SiteHandler) UpdateSettings(c *gin.Context) {
	var req dto.SiteSettingsRequest
	if !bindPayload(c, &req, "invalid settings payload") {
		return
	}
	if c.ContentType() != "application/json" {
		req.Stats = foldStats(c)
		req.MissionVision = foldMissions(c)
	}
	image, err := formUpload(c, "aboutImage")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.settings.Update(c.Request.Context(), req, image)
	response.Action(c, http.StatusOK, result, err)
}

func foldStats(c *gin.Context) []models.Stat {
	stats := make([]models.Stat, 0, models.MaxAboutStats)
	for i := 0; i < models.MaxAboutStats; i++ {
		stats = append(stats, models.Stat{
			Value: strings.TrimSpace(c.PostForm(fmt.Sprintf("stat_value_%d", i))),
			Label: strings.TrimSpace(c.PostForm(fmt.Sprintf("stat_label_%d", i))),
		})
	}
	return stats
}

func foldMissions(c *gin.Context) []models.MissionEntry {
	entries := make([]models.MissionEntry, 0, models.MaxMissionEntries)
	for i := 0; i < models.MaxMissionEntries; i++ {
		entries = append(entries, models.MissionEntry{
			Title:       strings.TrimSpace(c.PostForm(fmt.Sprintf("mv_title_%d", i))),
			Description: strings.TrimSpace(c.PostForm(fmt.Sprintf("mv_description_%d", i))),
		})
	}
	return entries
}

// ResultsMetadata godoc
// @Summary Public results page metadata
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /results/metadata [get]
func (h *SiteHandler) ResultsMetadata(c *gin.Context) {
	meta, err := h.content.PublicResultsMetadata(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meta)
}

// ListFAQ godoc
// @Summary List FAQ entries
// @Tags FAQ
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faq [get]
func (h *SiteHandler) ListFAQ(c *gin.Context) {
	start := time.Now()
	items, hit := h.content.FAQs(c.Request.Context())
	listResponse(c, start, items, hit)
}

// GetFAQ godoc
// @Summary Get FAQ entry
// @Tags FAQ
// @Produce json
// @Param id path string true "FAQ ID"
// @Success 200 {object} response.Envelope
// @Router /faq/{id} [get]
func (h *SiteHandler) GetFAQ(c *gin.Context) {
	item, err := h.content.FAQ(c.Request.Context(), pathID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// CreateFAQ godoc
// @Summary Create FAQ entry
// @Tags Admin FAQ
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param payload body dto.FAQRequest true "Question"
// @Success 201 {object} response.Envelope
// @Router /admin/faq [post]
func (h *SiteHandler) CreateFAQ(c *gin.Context) {
	var req dto.FAQRequest
	if !bindPayload(c, &req, "invalid faq payload") {
		return
	}
	result, err := h.faqs.Create(c.Request.Context(), req)
	response.Action(c, http.StatusCreated, result, err)
}

// UpdateFAQ godoc
// @Summary Update FAQ entry
// @Tags Admin FAQ
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path string true "FAQ ID"
// @Param payload body dto.FAQRequest true "Question"
// @Success 200 {object} response.Envelope
// @Router /admin/faq/{id} [put]
func (h *SiteHandler) UpdateFAQ(c *gin.Context) {
	var req dto.FAQRequest
	if !bindPayload(c, &req, "invalid faq payload") {
		return
	}
	result, err := h.faqs.Update(c.Request.Context(), pathID(c), req)
	response.Action(c, http.StatusOK, result, err)
}

// DeleteFAQ godoc
// @Summary Delete FAQ entry
// @Tags Admin FAQ
// @Security BearerAuth
// @Param id path string true "FAQ ID"
// @Success 200 {object} response.Envelope
// @Router /admin/faq/{id} [delete]
func (h *SiteHandler) DeleteFAQ(c *gin.Context) {
	result, err := h.faqs.Delete(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}
