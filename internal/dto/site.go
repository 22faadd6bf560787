package dto

import "github.com/noah-isme/school-site-api/internal/models"

// SiteSettingsRequest replaces the site settings singleton. The form variant
// arrives as stat_value_<i>/stat_label_<i> and mv_title_<i>/mv_description_<i>
// fields which the handler folds into Stats and MissionVision.
type SiteSettingsRequest struct {
	SiteName      string                `json:"siteName" form:"siteName" validate:"required,notblank"`
	Tagline       string                `json:"tagline" form:"tagline" validate:"required"`
	Phone         string                `json:"phone" form:"phone" validate:"required"`
	Address       string                `json:"address" form:"address" validate:"required"`
	AboutStory    string                `json:"aboutStory" form:"aboutStory" validate:"required"`
	AboutImageURL string                `json:"aboutImageUrl" form:"aboutImageUrl" validate:"omitempty,uri"`
	Stats         []models.Stat         `json:"stats" form:"-" validate:"max=4"`
	MissionVision []models.MissionEntry `json:"missionVision" form:"-" validate:"max=3"`
}
