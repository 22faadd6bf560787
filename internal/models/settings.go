package models

// Maximum entries accepted from the settings form.
const (
	MaxAboutStats     = 4
	MaxMissionEntries = 3
)

// SiteSettings is the singleton describing the school.
type SiteSettings struct {
	SiteName      string         `json:"siteName"`
	Tagline       string         `json:"tagline"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	About         About          `json:"about"`
	MissionVision []MissionEntry `json:"missionVision"`
}

// About is the about section of the site.
type About struct {
	Story    string `json:"story"`
	Stats    []Stat `json:"stats"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Stat is a headline figure such as "1200+ students".
type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MissionEntry is one mission or vision statement.
type MissionEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
