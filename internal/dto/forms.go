package dto

// ContactRequest is the public contact form.
type ContactRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,min=2"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone" form:"phone"`
	Subject   string `json:"subject" form:"subject" validate:"required"`
	Message   string `json:"message" form:"message" validate:"required,min=10"`
}

// AdmissionRequest is the public admission application.
type AdmissionRequest struct {
	ApplicantName  string `json:"applicantName" form:"applicantName" validate:"required,min=2"`
	DOB            string `json:"dob" form:"dob" validate:"required,datetime=2006-01-02"`
	Gender         string `json:"gender" form:"gender" validate:"required,oneof=male female other"`
	ParentName     string `json:"parentName" form:"parentName" validate:"required,min=2"`
	ParentEmail    string `json:"parentEmail" form:"parentEmail" validate:"required,email"`
	ParentPhone    string `json:"parentPhone" form:"parentPhone" validate:"required,min=5"`
	AppliedClass   string `json:"appliedClass" form:"appliedClass" validate:"required"`
	PreviousSchool string `json:"previousSchool" form:"previousSchool"`
	Comments       string `json:"comments" form:"comments"`
}

// AssistantRequest carries a visitor question for the search or FAQ assistant.
type AssistantRequest struct {
	Query string `json:"query" form:"query"`
}
