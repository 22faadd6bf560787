package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
)

func newExportService(t *testing.T) *ExportService {
	t.Helper()
	env := newTestEnv(t)
	seedSite(t, env)
	return NewExportService(NewContentService(env.repo, nil, zap.NewNop()), "PIISS", zap.NewNop())
}

func TestStudentsCSVMatchesImportColumns(t *testing.T) {
	svc := newExportService(t)
	var buf bytes.Buffer

	require.NoError(t, svc.StudentsCSV(context.Background(), &buf))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(buf.String(), "\ufeff")), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Roll_Number,Name,Class,Gender,Contact,Address,Results", strings.TrimSpace(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "PIISS-101,Zara,9,"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), ",2"))
}

func TestTeachersCSVIncludesPrivateFields(t *testing.T) {
	svc := newExportService(t)
	var buf bytes.Buffer

	require.NoError(t, svc.TeachersCSV(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Teacher_ID,Name")
	assert.Contains(t, buf.String(), "42000")
}

func TestReportCardPDF(t *testing.T) {
	svc := newExportService(t)
	var buf bytes.Buffer

	require.NoError(t, svc.ReportCardPDF(context.Background(), &buf, "PIISS-101", "r1"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	buf.Reset()
	require.NoError(t, svc.PublicReportCardPDF(context.Background(), &buf, "piiss-101", "2022-23"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	err := svc.PublicReportCardPDF(context.Background(), &buf, "piiss-101", "")
	requireAppError(t, err, appErrors.ErrValidation)

	err = svc.ReportCardPDF(context.Background(), &buf, "PIISS-101", "missing")
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestReportCardFilename(t *testing.T) {
	assert.Equal(t, "report-card-PIISS-101-2023-24.pdf", ReportCardFilename("PIISS-101", "2023-24"))
	assert.Equal(t, "report-card-a-b-file.pdf", ReportCardFilename("a/b", " "))
}
