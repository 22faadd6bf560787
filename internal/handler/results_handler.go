package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/service"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// ResultsHandler answers the public results lookup.
type ResultsHandler struct {
	content *service.ContentService
	exports *service.ExportService
}

// NewResultsHandler constructs a ResultsHandler.
func NewResultsHandler(content *service.ContentService, exports *service.ExportService) *ResultsHandler {
	return &ResultsHandler{content: content, exports: exports}
}

// Lookup godoc
// @Summary Find results by roll number
// @Description Roll numbers match case-insensitively. With a session the matching report card is included.
// @Tags Results
// @Produce json
// @Param rollNumber query string true "Roll number"
// @Param session query string false "Academic session"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /results [get]
func (h *ResultsHandler) Lookup(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	lookup, err := h.content.LookupResults(c.Request.Context(), query.RollNumber, query.Session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lookup)
}

// ReportCardPDF godoc
// @Summary Download a looked-up report card
// @Tags Results
// @Produce application/pdf
// @Param rollNumber query string true "Roll number"
// @Param session query string true "Academic session"
// @Success 200 {file} binary
// @Router /results/report-card.pdf [get]
func (h *ResultsHandler) ReportCardPDF(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.exports.PublicReportCardPDF(c.Request.Context(), &buf, query.RollNumber, query.Session); err != nil {
		response.Error(c, err)
		return
	}
	sendPDF(c, service.ReportCardFilename(query.RollNumber, query.Session), buf.Bytes())
}

func (h *ResultsHandler) bindQuery(c *gin.Context) (dto.ResultLookupQuery, bool) {
	var query dto.ResultLookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid results query"))
		return query, false
	}
	query.RollNumber = strings.TrimSpace(query.RollNumber)
	query.Session = strings.TrimSpace(query.Session)
	return query, true
}
