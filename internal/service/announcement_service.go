package service

import (
	"context"
	"strings"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
)

const (
	announcementLabel = "Announcement"
	topperLabel       = "Topper"
	testimonialLabel  = "Testimonial"
)

// AnnouncementService manages the home page collections that are only ever
// added or removed: announcements, toppers and testimonials.
type AnnouncementService struct {
	writer *ContentWriter
}

// NewAnnouncementService constructs an AnnouncementService.
func NewAnnouncementService(writer *ContentWriter) *AnnouncementService {
	return &AnnouncementService{writer: writer}
}

// CreateAnnouncement adds a ticker line.
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, req dto.AnnouncementRequest) (*models.ActionResult, error) {
	if issues := s.writer.check(req); len(issues) > 0 {
		return invalid(issues)
	}
	return s.writer.create(ctx, models.CollectionAnnouncements, announcementLabel, models.Announcement{
		Text: strings.TrimSpace(req.Text),
		Link: req.Link,
	})
}

// DeleteAnnouncement removes a ticker line.
func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionAnnouncements, announcementLabel, id)
}

// CreateTopper adds a topper.
func (s *AnnouncementService) CreateTopper(ctx context.Context, req dto.TopperRequest, image *Upload) (*models.ActionResult, error) {
	issues := s.writer.check(req)
	issues = append(issues, requireImage("imageUrl", req.ImageURL, image)...)
	if len(issues) > 0 {
		return invalid(issues)
	}
	url, result, err := s.writer.attach(ctx, models.CollectionToppers, "imageUrl", req.ImageURL, image)
	if result != nil {
		return result, err
	}
	return s.writer.create(ctx, models.CollectionToppers, topperLabel, models.Topper{
		Name:       req.Name,
		Class:      req.Class,
		Percentage: req.Percentage,
		ImageURL:   url,
	})
}

// DeleteTopper removes a topper.
func (s *AnnouncementService) DeleteTopper(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionToppers, topperLabel, id)
}

// CreateTestimonial adds a testimonial. The photo is optional.
func (s *AnnouncementService) CreateTestimonial(ctx context.Context, req dto.TestimonialRequest, image *Upload) (*models.ActionResult, error) {
	if issues := s.writer.check(req); len(issues) > 0 {
		return invalid(issues)
	}
	url, result, err := s.writer.attach(ctx, models.CollectionTestimonials, "imageUrl", req.ImageURL, image)
	if result != nil {
		return result, err
	}
	return s.writer.create(ctx, models.CollectionTestimonials, testimonialLabel, models.Testimonial{
		Name:     req.Name,
		Role:     req.Role,
		Quote:    req.Quote,
		ImageURL: url,
	})
}

// DeleteTestimonial removes a testimonial.
func (s *AnnouncementService) DeleteTestimonial(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionTestimonials, testimonialLabel, id)
}
