package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/service"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// DataHandler serves bulk imports and roster exports.
type DataHandler struct {
	imports *service.ImportService
	exports *service.ExportService
	now     func() time.Time
}

// NewDataHandler constructs a DataHandler.
func NewDataHandler(imports *service.ImportService, exports *service.ExportService) *DataHandler {
	return &DataHandler{imports: imports, exports: exports, now: time.Now}
}

// ImportTeachers godoc
// @Summary Replace teachers from CSV or JSON
// @Description Teachers absent from the file are removed.
// @Tags Admin Data
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or JSON roster"
// @Success 200 {object} response.Envelope
// @Router /admin/import/teachers [post]
func (h *DataHandler) ImportTeachers(c *gin.Context) {
	h.importRoster(c, service.TeacherImport)
}

// ImportStudents godoc
// @Summary Replace students from CSV or JSON
// @Tags Admin Data
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or JSON roster"
// @Success 200 {object} response.Envelope
// @Router /admin/import/students [post]
func (h *DataHandler) ImportStudents(c *gin.Context) {
	h.importRoster(c, service.StudentImport)
}

// ImportResults godoc
// @Summary Attach report cards from a JSON file
// @Description Accepts a JSON array or a single object; CSV is rejected. Rows whose roll number matches no student are skipped.
// @Tags Admin Data
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "JSON report cards"
// @Success 200 {object} response.Envelope
// @Router /admin/import/results [post]
func (h *DataHandler) ImportResults(c *gin.Context) {
	upload, ok := h.upload(c)
	if !ok {
		return
	}
	result, err := h.imports.ImportResults(c.Request.Context(), upload)
	response.Action(c, http.StatusOK, result, err)
}

func (h *DataHandler) importRoster(c *gin.Context, target service.ImportTarget) {
	upload, ok := h.upload(c)
	if !ok {
		return
	}
	result, err := h.imports.ImportFile(c.Request.Context(), upload, target)
	response.Action(c, http.StatusOK, result, err)
}

func (h *DataHandler) upload(c *gin.Context) (*service.Upload, bool) {
	upload, err := formUpload(c, "file")
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return upload, true
}

// ExportTeachers godoc
// @Summary Download teacher roster
// @Tags Admin Data
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /admin/export/teachers.csv [get]
func (h *DataHandler) ExportTeachers(c *gin.Context) {
	h.sendCSV(c, "teachers", h.exports.TeachersCSV)
}

// ExportStudents godoc
// @Summary Download student roster
// @Tags Admin Data
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /admin/export/students.csv [get]
func (h *DataHandler) ExportStudents(c *gin.Context) {
	h.sendCSV(c, "students", h.exports.StudentsCSV)
}

func (h *DataHandler) sendCSV(c *gin.Context, name string, render func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := render(c.Request.Context(), &buf); err != nil {
		response.Error(c, appErrors.FromError(err))
		return
	}
	filename := fmt.Sprintf("%s-%s.csv", name, h.now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
