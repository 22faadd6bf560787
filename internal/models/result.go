package models

// ActionResult is the outcome of a mutation or form submission.
type ActionResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Issues  []string `json:"issues,omitempty"`
	ID      string   `json:"id,omitempty"`
}

// ImportResult is the outcome of a bulk upload.
type ImportResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// DashboardStats counts the records of every collection.
type DashboardStats struct {
	Teachers          int `json:"teachers"`
	Students          int `json:"students"`
	Results           int `json:"results"`
	News              int `json:"news"`
	Events            int `json:"events"`
	Gallery           int `json:"gallery"`
	Announcements     int `json:"announcements"`
	Toppers           int `json:"toppers"`
	Testimonials      int `json:"testimonials"`
	FAQs              int `json:"faqs"`
	Admissions        int `json:"admissions"`
	PendingAdmissions int `json:"pendingAdmissions"`
	Contacts          int `json:"contacts"`
}
