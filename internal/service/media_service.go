package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/pkg/config"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/media"
	"github.com/noah-isme/school-site-api/pkg/storage"
)

// Upload is a file received with a form submission.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Empty reports whether no file content was received.
func (u *Upload) Empty() bool {
	return u == nil || len(u.Data) == 0
}

// FileStorage persists uploaded files.
type FileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	PublicURL(name string) string
}

// MediaService validates, normalises and stores uploaded files.
type MediaService struct {
	storage         FileStorage
	image           media.ImageOptions
	maxImageSize    int64
	maxDocumentSize int64
	documentTypes   []string
	logger          *zap.Logger
}

// NewMediaService constructs the media service.
func NewMediaService(storage FileStorage, mediaCfg config.MediaConfig, uploads config.UploadConfig, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	documentTypes := mediaCfg.DocumentMIMEs
	if len(documentTypes) == 0 {
		documentTypes = []string{"image/jpeg", "image/png", "application/pdf"}
	}
	return &MediaService{
		storage: storage,
		image: media.ImageOptions{
			MaxWidth:  mediaCfg.ImageMaxWidth,
			MaxHeight: mediaCfg.ImageMaxHeight,
			Quality:   mediaCfg.ImageQuality,
		},
		maxImageSize:    uploads.MaxImageSize,
		maxDocumentSize: uploads.MaxDocumentSize,
		documentTypes:   documentTypes,
		logger:          logger,
	}
}

// StoreImage normalises an image attachment and returns its public URL.
func (s *MediaService) StoreImage(ctx context.Context, folder string, upload *Upload) (string, error) {
	if upload.Empty() {
		return "", appErrors.Clone(appErrors.ErrValidation, "image is empty")
	}
	if s.maxImageSize > 0 && int64(len(upload.Data)) > s.maxImageSize {
		return "", appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("image must be at most %s", humanSize(s.maxImageSize)))
	}
	processed, err := media.ProcessImage(upload.Data, s.image)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			return "", appErrors.Clone(appErrors.ErrUnsupportedMedia, "image must be a JPEG, PNG, GIF or WebP file")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to process image")
	}
	name := path.Join(folder, uuid.NewString()+processed.Extension)
	stored, err := s.storage.Save(name, processed.Data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
	}
	s.logger.Debug("image stored", zap.String("name", stored), zap.Int("width", processed.Width), zap.Int("height", processed.Height))
	return s.storage.PublicURL(stored), nil
}

// StoreDocument stores a supporting document and returns its storage path.
func (s *MediaService) StoreDocument(ctx context.Context, folder string, upload *Upload) (string, error) {
	if upload.Empty() {
		return "", appErrors.Clone(appErrors.ErrValidation, "document is empty")
	}
	if s.maxDocumentSize > 0 && int64(len(upload.Data)) > s.maxDocumentSize {
		return "", appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("document must be at most %s", humanSize(s.maxDocumentSize)))
	}
	detected := mimetype.Detect(upload.Data)
	if !media.Matches(detected.String(), s.documentTypes...) {
		return "", appErrors.Clone(appErrors.ErrUnsupportedMedia, "document must be a JPEG, PNG or PDF file")
	}
	name := path.Join(folder, uuid.NewString()+detected.Extension())
	stored, err := s.storage.Save(name, upload.Data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	return stored, nil
}

// OpenDocument opens a stored document and reports its content type.
func (s *MediaService) OpenDocument(name string) (*os.File, string, error) {
	return s.open(name, "document not found")
}

// OpenPublic opens a stored image for the public media route. Admission
// documents are only reachable through signed links.
func (s *MediaService) OpenPublic(name string) (*os.File, string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" || clean == documentFolder || strings.HasPrefix(clean, documentFolder+"/") {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	return s.open(clean, "file not found")
}

func (s *MediaService) open(name, notFound string) (*os.File, string, error) {
	file, err := s.storage.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, notFound)
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
	}
	contentType, err := media.Sniff(file)
	if err != nil {
		_ = file.Close()
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file")
	}
	return file, contentType, nil
}

func humanSize(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return strings.TrimSpace(fmt.Sprintf("%d bytes", n))
}
