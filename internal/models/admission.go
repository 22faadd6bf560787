package models

// AdmissionStatus is the review state of an application.
type AdmissionStatus string

const (
	AdmissionPending  AdmissionStatus = "pending"
	AdmissionApproved AdmissionStatus = "approved"
	AdmissionRejected AdmissionStatus = "rejected"
)

// AdmissionSubmission is an application sent through the admissions form.
type AdmissionSubmission struct {
	ID             string          `json:"id,omitempty"`
	ApplicantName  string          `json:"applicantName"`
	DOB            string          `json:"dob"`
	Gender         string          `json:"gender"`
	ParentName     string          `json:"parentName"`
	ParentEmail    string          `json:"parentEmail"`
	ParentPhone    string          `json:"parentPhone"`
	AppliedClass   string          `json:"appliedClass"`
	PreviousSchool string          `json:"previousSchool,omitempty"`
	Comments       string          `json:"comments,omitempty"`
	DocumentURL    string          `json:"documentUrl,omitempty"`
	Status         AdmissionStatus `json:"status,omitempty"`
	SubmittedAt    int64           `json:"submittedAt"`
	DecidedAt      int64           `json:"decidedAt,omitempty"`
}

// EffectiveStatus treats a missing status as pending.
func (a AdmissionSubmission) EffectiveStatus() AdmissionStatus {
	if a.Status == "" {
		return AdmissionPending
	}
	return a.Status
}

// ContactSubmission is a message sent through the contact form.
type ContactSubmission struct {
	ID          string `json:"id,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	SubmittedAt int64  `json:"submittedAt"`
}
