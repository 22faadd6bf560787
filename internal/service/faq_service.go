package service

import (
	"context"
	"strings"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
)

const faqLabel = "FAQ"

// FAQService manages frequently asked questions.
type FAQService struct {
	writer *ContentWriter
}

func NewFAQService(writer *ContentWriter) *FAQService {
	return &FAQService{writer: writer}
}

func (s *FAQService) Create(ctx context.Context, req dto.FAQRequest) (*models.ActionResult, error) {
	if issues := s.writer.check(req); len(issues) > 0 {
		return invalid(issues)
	}
	return s.writer.create(ctx, models.CollectionFAQ, faqLabel, faqFromRequest(req))
}

func (s *FAQService) Update(ctx context.Context, id string, req dto.FAQRequest) (*models.ActionResult, error) {
	if !s.writer.exists(ctx, models.CollectionFAQ, id) {
		return notFound(faqLabel)
	}
	if issues := s.writer.check(req); len(issues) > 0 {
		return invalid(issues)
	}
	return s.writer.put(ctx, models.CollectionFAQ, faqLabel, id, ActionUpdated, faqFromRequest(req))
}

func (s *FAQService) Delete(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionFAQ, faqLabel, id)
}

func faqFromRequest(req dto.FAQRequest) models.FAQ {
	return models.FAQ{Question: strings.TrimSpace(req.Question), Answer: strings.TrimSpace(req.Answer)}
}
