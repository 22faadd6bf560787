package service

import (
	"context"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
)

const eventLabel = "Event"

// EventService manages the events calendar.
type EventService struct {
	writer *ContentWriter
}

// NewEventService constructs an EventService.
func NewEventService(writer *ContentWriter) *EventService {
	return &EventService{writer: writer}
}

func (s *EventService) Create(ctx context.Context, req dto.EventRequest, image *Upload) (*models.ActionResult, error) {
	issues := s.writer.check(req)
	issues = append(issues, requireImage("imageUrl", req.ImageURL, image)...)
	if len(issues) > 0 {
		return invalid(issues)
	}
	url, result, err := s.writer.attach(ctx, models.CollectionEvents, "imageUrl", req.ImageURL, image)
	if result != nil {
		return result, err
	}
	return s.writer.create(ctx, models.CollectionEvents, eventLabel, models.Event{
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
		ImageURL:    url,
	})
}

func (s *EventService) Update(ctx context.Context, id string, req dto.EventRequest, image *Upload) (*models.ActionResult, error) {
	existing := repository.FetchItem[models.Event](ctx, s.writer.repo, models.CollectionEvents.Path(), id)
	if existing == nil {
		return notFound(eventLabel)
	}
	if req.ImageURL == "" {
		req.ImageURL = existing.ImageURL
	}
	issues := s.writer.check(req)
	issues = append(issues, requireImage("imageUrl", req.ImageURL, image)...)
	if len(issues) > 0 {
		return invalid(issues)
	}
	url, result, err := s.writer.attach(ctx, models.CollectionEvents, "imageUrl", req.ImageURL, image)
	if result != nil {
		return result, err
	}
	return s.writer.put(ctx, models.CollectionEvents, eventLabel, id, ActionUpdated, models.Event{
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
		ImageURL:    url,
	})
}

func (s *EventService) Delete(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionEvents, eventLabel, id)
}
