package service

import (
	"context"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
)

const newsLabel = "News article"

// NewsService manages news articles.
type NewsService struct {
	writer *ContentWriter
}

// NewNewsService constructs a NewsService.
func NewNewsService(writer *ContentWriter) *NewsService {
	return &NewsService{writer: writer}
}

// Create publishes an article. An image URL or an attached image is required.
func (s *NewsService) Create(ctx context.Context, req dto.NewsRequest, image *Upload) (*models.ActionResult, error) {
	issues := s.writer.check(req)
	issues = append(issues, requireImage("imageUrl", req.ImageURL, image)...)
	if len(issues) > 0 {
		return invalid(issues)
	}
	url, result, err := s.writer.attach(ctx, models.CollectionNews, "imageUrl", req.ImageURL, image)
	if result != nil {
		return result, err
	}
	return s.writer.create(ctx, models.CollectionNews, newsLabel, newsFromRequest(req, url))
}

// Update replaces an article, keeping its image unless a new one is given.
func (s *NewsService) Update(ctx context.Context, id string, req dto.NewsRequest, image *Upload) (*models.ActionResult, error) {
	existing := repository.FetchItem[models.News](ctx, s.writer.repo, models.CollectionNews.Path(), id)
	if existing == nil {
		return notFound(newsLabel)
	}
	if req.ImageURL == "" {
		req.ImageURL = existing.ImageURL
	}
	issues := s.writer.check(req)
	issues = append(issues, requireImage("imageUrl", req.ImageURL, image)...)
	if len(issues) > 0 {
		return invalid(issues)
	}
	url, result, err := s.writer.attach(ctx, models.CollectionNews, "imageUrl", req.ImageURL, image)
	if result != nil {
		return result, err
	}
	return s.writer.put(ctx, models.CollectionNews, newsLabel, id, ActionUpdated, newsFromRequest(req, url))
}

// Delete removes an article.
func (s *NewsService) Delete(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionNews, newsLabel, id)
}

func newsFromRequest(req dto.NewsRequest, imageURL string) models.News {
	return models.News{
		Title:    req.Title,
		Date:     req.Date,
		Category: req.Category,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		ImageURL: imageURL,
	}
}
