package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/response"
)

// TeacherHandler wires the teacher directory to HTTP routes.
type TeacherHandler struct {
	content  *service.ContentService
	teachers *service.TeacherService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(content *service.ContentService, teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{content: content, teachers: teachers}
}

// List godoc
// @Summary List teachers
// @Description Contact and salary are never included.
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	start := time.Now()
	teachers, hit := h.content.Teachers(c.Request.Context())
	listResponse(c, start, teachers, hit)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.content.Teacher(c.Request.Context(), pathID(c), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher)
}

// AdminList godoc
// @Summary List teachers with private fields
// @Tags Admin Teachers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/teachers [get]
func (h *TeacherHandler) AdminList(c *gin.Context) {
	start := time.Now()
	teachers, hit := h.content.AdminTeachers(c.Request.Context())
	listResponse(c, start, teachers, hit)
}

// AdminGet godoc
// @Summary Get teacher with private fields
// @Tags Admin Teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /admin/teachers/{id} [get]
func (h *TeacherHandler) AdminGet(c *gin.Context) {
	teacher, err := h.content.Teacher(c.Request.Context(), pathID(c), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher)
}

// Create godoc
// @Summary Create teacher
// @Tags Admin Teachers
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body dto.TeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req dto.TeacherRequest
	if !bindPayload(c, &req, "invalid teacher payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.teachers.Create(c.Request.Context(), req, image)
	response.Action(c, http.StatusCreated, result, err)
}

// Update godoc
// @Summary Update teacher
// @Tags Admin Teachers
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Param payload body dto.TeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /admin/teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	var req dto.TeacherRequest
	if !bindPayload(c, &req, "invalid teacher payload") {
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.teachers.Update(c.Request.Context(), pathID(c), req, image)
	response.Action(c, http.StatusOK, result, err)
}

// Delete godoc
// @Summary Delete teacher
// @Tags Admin Teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /admin/teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	result, err := h.teachers.Delete(c.Request.Context(), pathID(c))
	response.Action(c, http.StatusOK, result, err)
}
