package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, Table{
		Columns: []Column{{Key: "rollNumber", Title: "Roll Number"}, {Key: "name", Title: "Name"}},
		Rows:    []map[string]string{{"rollNumber": "R1", "name": "Doe, Jane"}},
	})
	require.NoError(t, err)

	out := strings.TrimPrefix(buf.String(), "\ufeff")
	assert.Equal(t, "Roll Number,Name\nR1,\"Doe, Jane\"\n", out)

	assert.Error(t, WriteCSV(&buf, Table{}))
}

func TestWriteReportCardPDF(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReportCardPDF(&buf, ReportCardDocument{
		SchoolName:  "PIISS",
		StudentName: "Jane",
		RollNumber:  "R1",
		Class:       "10",
		Session:     "2024-25",
		Subjects:    []SubjectScore{{Subject: "Math", Marks: 91}, {Subject: "English", Marks: 78.5}},
		TotalMarks:  169.5,
		MaxMarks:    200,
		Percentage:  84.75,
		Grade:       "A",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFormatMarks(t *testing.T) {
	assert.Equal(t, "91", formatMarks(91))
	assert.Equal(t, "78.5", formatMarks(78.5))
}
