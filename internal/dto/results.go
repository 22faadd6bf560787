package dto

// SubjectMark is one row of the report card editor.
type SubjectMark struct {
	Name  string  `json:"name" validate:"required,notblank"`
	Marks float64 `json:"marks" validate:"min=0"`
}

// UpdateReportCardRequest edits one stored report card.
type UpdateReportCardRequest struct {
	StudentName string        `json:"studentName"`
	RollNumber  string        `json:"rollNumber"`
	Class       string        `json:"class" validate:"required"`
	Session     string        `json:"session" validate:"required"`
	Grade       string        `json:"grade" validate:"required"`
	MaxMarks    *float64      `json:"maxMarks" validate:"omitempty,min=0"`
	Subjects    []SubjectMark `json:"subjects" validate:"min=1,dive"`
}

// ResultLookupQuery is the public results search.
type ResultLookupQuery struct {
	RollNumber string `form:"rollNumber" json:"rollNumber"`
	Session    string `form:"session" json:"session"`
}
