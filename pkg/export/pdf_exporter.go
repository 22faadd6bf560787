package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SubjectScore is one row of a report card.
type SubjectScore struct {
	Subject string
	Marks   float64
}

// ReportCardDocument holds everything printed on a report card.
type ReportCardDocument struct {
	SchoolName  string
	StudentName string
	RollNumber  string
	Class       string
	Session     string
	Subjects    []SubjectScore
	TotalMarks  float64
	MaxMarks    float64
	Percentage  float64
	Grade       string
	IssuedAt    time.Time
}

// WriteReportCardPDF renders a single page A4 report card to w.
func WriteReportCardPDF(w io.Writer, doc ReportCardDocument) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(fmt.Sprintf("Report card %s %s", doc.RollNumber, doc.Session), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.SchoolName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr("Report Card - Session "+doc.Session), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	info := [][2]string{
		{"Student", doc.StudentName},
		{"Roll Number", doc.RollNumber},
		{"Class", doc.Class},
	}
	for _, line := range info {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, line[0], "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, tr(line[1]), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(130, 8, "Subject", "1", 0, "", true, 0, "")
	pdf.CellFormat(50, 8, "Marks", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range doc.Subjects {
		pdf.CellFormat(130, 7, tr(row.Subject), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 7, formatMarks(row.Marks), "1", 1, "C", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 8, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%s / %s", formatMarks(doc.TotalMarks), formatMarks(doc.MaxMarks)), "1", 1, "C", false, 0, "")
	pdf.CellFormat(130, 8, "Percentage", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%.2f%%", doc.Percentage), "1", 1, "C", false, 0, "")
	pdf.CellFormat(130, 8, "Grade", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, tr(doc.Grade), "1", 1, "C", false, 0, "")

	if !doc.IssuedAt.IsZero() {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, "Issued "+doc.IssuedAt.Format("2 January 2006"), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func formatMarks(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
