package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
)

const (
	studentLabel    = "Student"
	reportCardLabel = "Report card"
)

// StudentService manages students and their report cards.
type StudentService struct {
	writer *ContentWriter
}

// NewStudentService constructs a StudentService.
func NewStudentService(writer *ContentWriter) *StudentService {
	return &StudentService{writer: writer}
}

// Delete removes a student together with all report cards.
func (s *StudentService) Delete(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionStudents, studentLabel, id)
}

// DeleteReportCard removes one report card of a student.
func (s *StudentService) DeleteReportCard(ctx context.Context, studentID, resultID string) (*models.ActionResult, error) {
	if s.writer.repo.Item(ctx, models.ResultsPath(studentID), resultID) == nil {
		return notFound(reportCardLabel)
	}
	start := time.Now()
	err := s.writer.repo.Delete(ctx, models.ResultsPath(studentID), resultID)
	s.writer.metrics.ObserveStoreOperation("delete", string(models.CollectionStudents), time.Since(start))
	if err != nil {
		s.writer.logger.Error("delete report card failed", zap.String("student", studentID), zap.String("result", resultID), zap.Error(err))
		return failed(err)
	}
	s.writer.committed(ctx, models.CollectionStudents, ActionDeleted, studentID)
	return &models.ActionResult{Success: true, Message: "Report card deleted successfully.", ID: resultID}, nil
}

// UpdateReportCard merges the edited fields onto the stored report card.
// Fields the editor does not know about are left untouched; totals are
// recomputed from the subjects.
func (s *StudentService) UpdateReportCard(ctx context.Context, studentID, resultID string, req dto.UpdateReportCardRequest) (*models.ActionResult, error) {
	if issues := s.writer.check(req); len(issues) > 0 {
		return invalid(issues)
	}
	existing := repository.FetchItem[models.ReportCard](ctx, s.writer.repo, models.ResultsPath(studentID), resultID)
	if existing == nil {
		return notFound(reportCardLabel)
	}

	subjects := make(map[string]interface{}, len(req.Subjects))
	var total float64
	for _, subject := range req.Subjects {
		if prev, ok := subjects[subject.Name]; ok {
			total -= prev.(float64)
		}
		subjects[subject.Name] = subject.Marks
		total += subject.Marks
	}

	fields := map[string]interface{}{
		"class":       req.Class,
		"session":     req.Session,
		"grade":       req.Grade,
		"subjects":    subjects,
		"total_marks": round2(total),
	}
	if req.StudentName != "" {
		fields["student_name"] = req.StudentName
	}
	if req.RollNumber != "" {
		fields["roll_number"] = req.RollNumber
	}
	maxMarks := existing.MaxMarks.Float()
	if req.MaxMarks != nil {
		maxMarks = *req.MaxMarks
		fields["max_marks"] = maxMarks
	}
	if maxMarks > 0 {
		fields["percentage"] = round2(total / maxMarks * 100)
	}

	start := time.Now()
	err := s.writer.repo.Merge(ctx, models.ResultsPath(studentID), resultID, fields)
	s.writer.metrics.ObserveStoreOperation("merge", string(models.CollectionStudents), time.Since(start))
	if err != nil {
		s.writer.logger.Error("update report card failed", zap.String("student", studentID), zap.String("result", resultID), zap.Error(err))
		return failed(err)
	}
	s.writer.committed(ctx, models.CollectionStudents, ActionUpdated, studentID)
	return &models.ActionResult{Success: true, Message: "Report card updated successfully.", ID: resultID}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
