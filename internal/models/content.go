package models

// News is an article shown on the news pages.
type News struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// GalleryImage is one picture of the gallery.
type GalleryImage struct {
	ID          string `json:"id,omitempty"`
	Src         string `json:"src"`
	Alt         string `json:"alt"`
	Hint        string `json:"hint,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Announcement is a ticker line with an optional link.
type Announcement struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// Topper is a high achieving student featured on the home page.
type Topper struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Class      string `json:"class"`
	Percentage string `json:"percentage"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// Testimonial is a quote from a parent, student or alumnus.
type Testimonial struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Quote    string `json:"quote"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Event is a dated school event.
type Event struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// FAQ is a question and answer pair.
type FAQ struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
