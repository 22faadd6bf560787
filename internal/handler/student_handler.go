package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/service"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// StudentHandler exposes the admin student roster and report cards.
type StudentHandler struct {
	content  *service.ContentService
	students *service.StudentService
	exports  *service.ExportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(content *service.ContentService, students *service.StudentService, exports *service.ExportService) *StudentHandler {
	return &StudentHandler{content: content, students: students, exports: exports}
}

// List godoc
// @Summary List students with report cards
// @Tags Admin Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	start := time.Now()
	students, hit := h.content.Students(c.Request.Context())
	listResponse(c, start, students, hit)
}

// Delete godoc
// @Summary Delete student and all report cards
// @Tags Admin Students
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	result, err := h.students.Delete(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}

// GetReportCard godoc
// @Summary Get report card
// @Tags Admin Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param resultId path string true "Report card ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/results/{resultId} [get]
func (h *StudentHandler) GetReportCard(c *gin.Context) {
	card, _, err := h.content.ReportCard(c.Request.Context(), pathID(c), c.Param("resultId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, card)
}

// UpdateReportCard godoc
// @Summary Edit report card marks
// @Description Totals, maximum and percentage are recomputed from the subjects.
// @Tags Admin Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param resultId path string true "Report card ID"
// @Param payload body dto.UpdateReportCardRequest true "Report card"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/results/{resultId} [put]
func (h *StudentHandler) UpdateReportCard(c *gin.Context) {
	var req dto.UpdateReportCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report card payload"))
		return
	}
	result, err := h.students.UpdateReportCard(c.Request.Context(), pathID(c), c.Param("resultId"), req)
	response.Action(c, http.StatusOK, result, err)
}

// DeleteReportCard godoc
// @Summary Delete report card
// @Tags Admin Students
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param resultId path string true "Report card ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/results/{resultId} [delete]
func (h *StudentHandler) DeleteReportCard(c *gin.Context) {
	result, err := h.students.DeleteReportCard(c.Request.Context(), pathID(c), c.Param("resultId"))
	response.Action(c, http.StatusOK, result, err)
}

// ReportCardPDF godoc
// @Summary Download report card as PDF
// @Tags Admin Students
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param resultId path string true "Report card ID"
// @Success 200 {file} binary
// @Router /admin/students/{id}/results/{resultId}/pdf [get]
func (h *StudentHandler) ReportCardPDF(c *gin.Context) {
	studentID, resultID := pathID(c), c.Param("resultId")
	var buf bytes.Buffer
	if err := h.exports.ReportCardPDF(c.Request.Context(), &buf, studentID, resultID); err != nil {
		response.Error(c, err)
		return
	}
	sendPDF(c, service.ReportCardFilename(studentID, resultID), buf.Bytes())
}

func sendPDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}
