package dto

// TeacherRequest creates or replaces a directory entry. The record key is
// TeacherID.
type TeacherRequest struct {
	TeacherID     string `json:"teacherId" form:"teacherId" validate:"required,notblank,max=64"`
	Name          string `json:"name" form:"name" validate:"required,notblank"`
	Role          string `json:"role" form:"role" validate:"required"`
	Subject       string `json:"subject" form:"subject" validate:"required"`
	Department    string `json:"department" form:"department" validate:"required"`
	Experience    string `json:"experience" form:"experience" validate:"required"`
	Qualification string `json:"qualification" form:"qualification" validate:"required"`
	Bio           string `json:"bio" form:"bio" validate:"min=10"`
	Contact       string `json:"contact" form:"contact" validate:"required"`
	Salary        string `json:"salary" form:"salary" validate:"required"`
	DateJoined    string `json:"dateJoined" form:"dateJoined" validate:"required"`
	PhotoPath     string `json:"photoPath" form:"photoPath"`
	ImageURL      string `json:"imageUrl" form:"imageUrl" validate:"omitempty,uri"`
}

// NewsRequest creates or replaces an article.
type NewsRequest struct {
	Title    string `json:"title" form:"title" validate:"required,notblank"`
	Date     string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Category string `json:"category" form:"category" validate:"required"`
	Excerpt  string `json:"excerpt" form:"excerpt" validate:"required"`
	Content  string `json:"content" form:"content" validate:"required"`
	ImageURL string `json:"imageUrl" form:"imageUrl" validate:"omitempty,uri"`
}

// EventRequest creates or replaces an event.
type EventRequest struct {
	Title       string `json:"title" form:"title" validate:"required,notblank"`
	Date        string `json:"date" form:"date" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	ImageURL    string `json:"imageUrl" form:"imageUrl" validate:"omitempty,uri"`
}

// GalleryRequest adds a gallery picture.
type GalleryRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Alt         string `json:"alt" form:"alt" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Hint        string `json:"hint" form:"hint"`
	Src         string `json:"src" form:"src" validate:"omitempty,uri"`
}

// TopperRequest adds a topper.
type TopperRequest struct {
	Name       string `json:"name" form:"name" validate:"required"`
	Class      string `json:"class" form:"class" validate:"required"`
	Percentage string `json:"percentage" form:"percentage" validate:"required"`
	ImageURL   string `json:"imageUrl" form:"imageUrl" validate:"omitempty,uri"`
}

// TestimonialRequest adds a testimonial.
type TestimonialRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required"`
	Quote    string `json:"quote" form:"quote" validate:"required,min=10"`
	ImageURL string `json:"imageUrl" form:"imageUrl" validate:"omitempty,uri"`
}

// AnnouncementRequest adds a ticker announcement.
type AnnouncementRequest struct {
	Text string `json:"text" form:"text" validate:"required,notblank"`
	Link string `json:"link" form:"link" validate:"omitempty,uri"`
}

// FAQRequest creates or replaces a question.
type FAQRequest struct {
	Question string `json:"question" form:"question" validate:"required,notblank"`
	Answer   string `json:"answer" form:"answer" validate:"required,notblank"`
}
