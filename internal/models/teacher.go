package models

// Teacher is a staff directory entry. Contact and Salary are internal and
// never leave the admin API.
type Teacher struct {
	ID            string `json:"id,omitempty"`
	TeacherID     string `json:"teacherId,omitempty"`
	Name          string `json:"name"`
	Role          string `json:"role,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Department    string `json:"department,omitempty"`
	Experience    string `json:"experience,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Contact       string `json:"contact,omitempty"`
	Salary        string `json:"salary,omitempty"`
	PhotoPath     string `json:"photoPath,omitempty"`
	DateJoined    string `json:"dateJoined,omitempty"`
}

// Public returns a copy safe for anonymous visitors.
func (t Teacher) Public() Teacher {
	t.Contact = ""
	t.Salary = ""
	return t
}

// PublicTeachers strips private fields from every teacher.
func PublicTeachers(teachers []Teacher) []Teacher {
	out := make([]Teacher, len(teachers))
	for i, t := range teachers {
		out[i] = t.Public()
	}
	return out
}
