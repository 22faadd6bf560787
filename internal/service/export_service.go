package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/export"
)

var studentColumns = []export.Column{
	{Key: "rollNumber", Title: "Roll_Number"},
	{Key: "name", Title: "Name"},
	{Key: "class", Title: "Class"},
	{Key: "gender", Title: "Gender"},
	{Key: "contact", Title: "Contact"},
	{Key: "address", Title: "Address"},
	{Key: "results", Title: "Results"},
}

var teacherColumns = []export.Column{
	{Key: "teacherId", Title: "Teacher_ID"},
	{Key: "name", Title: "Name"},
	{Key: "role", Title: "Role"},
	{Key: "subject", Title: "Subject"},
	{Key: "department", Title: "Department"},
	{Key: "qualification", Title: "Qualification"},
	{Key: "experience", Title: "Experience"},
	{Key: "contact", Title: "Contact"},
	{Key: "salary", Title: "Salary"},
	{Key: "photoPath", Title: "Photo_Path"},
	{Key: "dateJoined", Title: "Date_Joined"},
}

// ExportService renders rosters as CSV and report cards as PDF.
type ExportService struct {
	content  *ContentService
	siteName string
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(content *ContentService, siteName string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{content: content, siteName: siteName, logger: logger, now: time.Now}
}

// StudentsCSV writes the student roster. Column titles match the import format.
func (s *ExportService) StudentsCSV(ctx context.Context, w io.Writer) error {
	students, _ := s.content.Students(ctx)
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"rollNumber": firstNonEmpty(st.RollNumber, st.ID),
			"name":       st.Name,
			"class":      st.Class,
			"gender":     st.Gender,
			"contact":    st.Contact,
			"address":    st.Address,
			"results":    fmt.Sprintf("%d", len(st.Results)),
		})
	}
	return s.writeCSV(w, export.Table{Columns: studentColumns, Rows: rows})
}

// TeachersCSV writes the full staff roster including private fields.
func (s *ExportService) TeachersCSV(ctx context.Context, w io.Writer) error {
	teachers, _ := s.content.AdminTeachers(ctx)
	rows := make([]map[string]string, 0, len(teachers))
	for _, t := range teachers {
		rows = append(rows, map[string]string{
			"teacherId":     firstNonEmpty(t.TeacherID, t.ID),
			"name":          t.Name,
			"role":          t.Role,
			"subject":       t.Subject,
			"department":    t.Department,
			"qualification": t.Qualification,
			"experience":    t.Experience,
			"contact":       t.Contact,
			"salary":        t.Salary,
			"photoPath":     t.PhotoPath,
			"dateJoined":    t.DateJoined,
		})
	}
	return s.writeCSV(w, export.Table{Columns: teacherColumns, Rows: rows})
}

func (s *ExportService) writeCSV(w io.Writer, table export.Table) error {
	if err := export.WriteCSV(w, table); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return nil
}

// ReportCardPDF renders one stored report card.
func (s *ExportService) ReportCardPDF(ctx context.Context, w io.Writer, studentID, resultID string) error {
	card, student, err := s.content.ReportCard(ctx, studentID, resultID)
	if err != nil {
		return err
	}
	return s.renderReportCard(w, *card, student.Name, firstNonEmpty(student.RollNumber, student.ID))
}

// PublicReportCardPDF renders the report card a visitor looked up by roll number and session.
func (s *ExportService) PublicReportCardPDF(ctx context.Context, w io.Writer, rollNumber, session string) error {
	if strings.TrimSpace(session) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "session is required")
	}
	lookup, err := s.content.LookupResults(ctx, rollNumber, session)
	if err != nil {
		return err
	}
	return s.renderReportCard(w, *lookup.Report, lookup.Student.Name, lookup.Student.RollNumber)
}

// ReportCardFilename returns a download name for a report card.
func ReportCardFilename(rollNumber, session string) string {
	return fmt.Sprintf("report-card-%s-%s.pdf", sanitizeFilename(rollNumber), sanitizeFilename(session))
}

func (s *ExportService) renderReportCard(w io.Writer, card models.ReportCard, studentName, rollNumber string) error {
	names := make([]string, 0, len(card.Subjects))
	for name := range card.Subjects {
		names = append(names, name)
	}
	sort.Strings(names)

	subjects := make([]export.SubjectScore, 0, len(names))
	var total float64
	for _, name := range names {
		marks := card.Subjects[name].Float()
		subjects = append(subjects, export.SubjectScore{Subject: name, Marks: marks})
		total += marks
	}
	if card.TotalMarks.Float() > 0 {
		total = card.TotalMarks.Float()
	}

	doc := export.ReportCardDocument{
		SchoolName:  s.siteName,
		StudentName: firstNonEmpty(card.StudentName, studentName),
		RollNumber:  firstNonEmpty(card.RollNumber, rollNumber),
		Class:       card.Class,
		Session:     card.Session,
		Subjects:    subjects,
		TotalMarks:  total,
		MaxMarks:    card.MaxMarks.Float(),
		Percentage:  card.Percentage.Float(),
		Grade:       card.Grade,
		IssuedAt:    s.now(),
	}
	if err := export.WriteReportCardPDF(w, doc); err != nil {
		s.logger.Error("render report card failed", zap.String("roll_number", doc.RollNumber), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report card")
	}
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func sanitizeFilename(raw string) string {
	cleaned := strings.Trim(unsafeFilename.ReplaceAllString(strings.TrimSpace(raw), "-"), "-")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}
