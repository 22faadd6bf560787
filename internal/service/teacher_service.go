package service

import (
	"context"
	"strings"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
)

const teacherLabel = "Teacher"

// TeacherService manages the staff directory.
type TeacherService struct {
	writer *ContentWriter
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(writer *ContentWriter) *TeacherService {
	return &TeacherService{writer: writer}
}

// Create adds a teacher keyed by its teacher id.
func (s *TeacherService) Create(ctx context.Context, req dto.TeacherRequest, image *Upload) (*models.ActionResult, error) {
	req.TeacherID = strings.TrimSpace(req.TeacherID)
	issues := s.writer.check(req)
	issues = append(issues, requireImage("imageUrl", req.ImageURL, image)...)
	if len(issues) > 0 {
		return invalid(issues)
	}
	if s.writer.exists(ctx, models.CollectionTeachers, req.TeacherID) {
		msg := "A teacher with this ID already exists."
		return &models.ActionResult{Success: false, Message: msg}, appErrors.Clone(appErrors.ErrConflict, msg)
	}

	url, result, err := s.writer.attach(ctx, models.CollectionTeachers, "imageUrl", req.ImageURL, image)
	if result != nil {
		return result, err
	}
	return s.writer.put(ctx, models.CollectionTeachers, teacherLabel, req.TeacherID, ActionCreated, teacherFromRequest(req, url))
}

// Update replaces the teacher stored under id.
func (s *TeacherService) Update(ctx context.Context, id string, req dto.TeacherRequest, image *Upload) (*models.ActionResult, error) {
	existing := repository.FetchItem[models.Teacher](ctx, s.writer.repo, models.CollectionTeachers.Path(), id)
	if existing == nil {
		return notFound(teacherLabel)
	}
	if req.ImageURL == "" {
		req.ImageURL = existing.ImageURL
	}
	// the teacher id is the record key and cannot be edited
	req.TeacherID = strings.TrimSpace(req.TeacherID)
	if req.TeacherID == "" {
		req.TeacherID = id
	}
	issues := s.writer.check(req)
	issues = append(issues, requireImage("imageUrl", req.ImageURL, image)...)
	if req.TeacherID != id {
		issues = append(issues, "teacherId: teacherId cannot be changed")
	}
	if len(issues) > 0 {
		return invalid(issues)
	}

	url, result, err := s.writer.attach(ctx, models.CollectionTeachers, "imageUrl", req.ImageURL, image)
	if result != nil {
		return result, err
	}
	teacher := teacherFromRequest(req, url)
	if teacher.PhotoPath == "" {
		teacher.PhotoPath = existing.PhotoPath
	}
	return s.writer.put(ctx, models.CollectionTeachers, teacherLabel, id, ActionUpdated, teacher)
}

// Delete removes a teacher.
func (s *TeacherService) Delete(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionTeachers, teacherLabel, id)
}

func teacherFromRequest(req dto.TeacherRequest, imageURL string) models.Teacher {
	return models.Teacher{
		TeacherID:     req.TeacherID,
		Name:          strings.TrimSpace(req.Name),
		Role:          req.Role,
		Subject:       req.Subject,
		Department:    req.Department,
		Experience:    req.Experience,
		Qualification: req.Qualification,
		Bio:           req.Bio,
		Contact:       req.Contact,
		Salary:        req.Salary,
		DateJoined:    req.DateJoined,
		PhotoPath:     req.PhotoPath,
		ImageURL:      imageURL,
	}
}
