package models

// Student is keyed by roll number. Report cards live in the nested results
// map keyed by result id.
type Student struct {
	ID         string                `json:"id,omitempty"`
	Name       string                `json:"name"`
	RollNumber string                `json:"rollNumber,omitempty"`
	Class      string                `json:"class,omitempty"`
	Gender     string                `json:"gender,omitempty"`
	Contact    string                `json:"contact,omitempty"`
	Address    string                `json:"address,omitempty"`
	Results    map[string]ReportCard `json:"results,omitempty"`
}

// ReportCard holds one term's marks. Field names follow the upload format.
type ReportCard struct {
	ID          string            `json:"id,omitempty"`
	StudentName string            `json:"student_name,omitempty"`
	RollNumber  string            `json:"roll_number"`
	Class       string            `json:"class,omitempty"`
	Session     string            `json:"session,omitempty"`
	Subjects    map[string]Number `json:"subjects,omitempty"`
	TotalMarks  Number            `json:"total_marks,omitempty"`
	MaxMarks    Number            `json:"max_marks,omitempty"`
	Percentage  Number            `json:"percentage,omitempty"`
	Grade       string            `json:"grade,omitempty"`
	DateCreated string            `json:"date_created,omitempty"`
}

// StudentSummary is the student part of a public results lookup.
type StudentSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Class      string `json:"class"`
}

// ResultLookup answers a public results query.
type ResultLookup struct {
	Student  StudentSummary `json:"student"`
	Sessions []string       `json:"sessions"`
	Report   *ReportCard    `json:"report,omitempty"`
}
