package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
)

const settingsCollection = models.Collection("siteSettings")

// SettingsService replaces the site settings singleton.
type SettingsService struct {
	writer *ContentWriter
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(writer *ContentWriter) *SettingsService {
	return &SettingsService{writer: writer}
}

// Update overwrites the settings document. Stats and mission entries missing
// either half are dropped, as are entries past the section limits.
func (s *SettingsService) Update(ctx context.Context, req dto.SiteSettingsRequest, aboutImage *Upload) (*models.ActionResult, error) {
	req.Stats = completeStats(req.Stats)
	req.MissionVision = completeMissions(req.MissionVision)
	if issues := s.writer.check(req); len(issues) > 0 {
		return invalid(issues)
	}

	imageURL := req.AboutImageURL
	if imageURL == "" && aboutImage.Empty() {
		var current models.SiteSettings
		if found, err := s.writer.repo.Document(ctx, models.PathSiteSettings, &current); err == nil && found {
			imageURL = current.About.ImageURL
		}
	}
	url, result, err := s.writer.attach(ctx, settingsCollection, "aboutImageUrl", imageURL, aboutImage)
	if result != nil {
		return result, err
	}

	settings := models.SiteSettings{
		SiteName: strings.TrimSpace(req.SiteName),
		Tagline:  req.Tagline,
		Phone:    req.Phone,
		Address:  req.Address,
		About: models.About{
			Story:    req.AboutStory,
			Stats:    req.Stats,
			ImageURL: url,
		},
		MissionVision: req.MissionVision,
	}

	start := time.Now()
	err = s.writer.repo.SetDocument(ctx, models.PathSiteSettings, settings)
	s.writer.metrics.ObserveStoreOperation("set", string(settingsCollection), time.Since(start))
	if err != nil {
		s.writer.logger.Error("update site settings failed", zap.Error(err))
		return failed(err)
	}
	s.writer.committed(ctx, settingsCollection, ActionUpdated, "")
	return &models.ActionResult{Success: true, Message: "Site settings updated successfully."}, nil
}

func completeStats(stats []models.Stat) []models.Stat {
	out := make([]models.Stat, 0, len(stats))
	for _, stat := range stats {
		if strings.TrimSpace(stat.Value) == "" || strings.TrimSpace(stat.Label) == "" {
			continue
		}
		if len(out) == models.MaxAboutStats {
			break
		}
		out = append(out, stat)
	}
	return out
}

func completeMissions(entries []models.MissionEntry) []models.MissionEntry {
	out := make([]models.MissionEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" || strings.TrimSpace(entry.Description) == "" {
			continue
		}
		if len(out) == models.MaxMissionEntries {
			break
		}
		entry.Icon = ""
		out = append(out, entry)
	}
	return out
}
