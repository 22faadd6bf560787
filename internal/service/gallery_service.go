package service

import (
	"context"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
)

const galleryLabel = "Gallery image"

// GalleryService manages gallery pictures. Pictures are immutable; replacing
// one means deleting and adding it again.
type GalleryService struct {
	writer *ContentWriter
}

func NewGalleryService(writer *ContentWriter) *GalleryService {
	return &GalleryService{writer: writer}
}

// Create adds a picture from a URL or an uploaded file.
func (s *GalleryService) Create(ctx context.Context, req dto.GalleryRequest, image *Upload) (*models.ActionResult, error) {
	issues := s.writer.check(req)
	issues = append(issues, requireImage("src", req.Src, image)...)
	if len(issues) > 0 {
		return invalid(issues)
	}
	src, result, err := s.writer.attach(ctx, models.CollectionGallery, "src", req.Src, image)
	if result != nil {
		return result, err
	}
	return s.writer.create(ctx, models.CollectionGallery, galleryLabel, models.GalleryImage{
		Src:         src,
		Alt:         req.Alt,
		Hint:        req.Hint,
		Title:       req.Title,
		Description: req.Description,
	})
}

func (s *GalleryService) Delete(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionGallery, galleryLabel, id)
}
