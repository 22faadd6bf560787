package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/realtime"
	"github.com/noah-isme/school-site-api/pkg/validation"
)

const msgFixErrors = "Please fix the errors below."

// Change actions published on the change feed.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionImported = "imported"
)

// ContentWriterRepository is the write side of the content repository.
type ContentWriterRepository interface {
	repository.ChildReader
	Document(ctx context.Context, path string, dest interface{}) (bool, error)
	Create(ctx context.Context, path string, record interface{}) (string, error)
	Put(ctx context.Context, path, id string, record interface{}) error
	SetDocument(ctx context.Context, path string, doc interface{}) error
	Merge(ctx context.Context, path, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, path, id string) error
	Replace(ctx context.Context, path string, records map[string]interface{}) error
	Update(ctx context.Context, values map[string]interface{}) error
	NewKey() (string, error)
}

// ImageStore stores image attachments.
type ImageStore interface {
	StoreImage(ctx context.Context, folder string, upload *Upload) (string, error)
}

// EventPublisher receives committed change events.
type EventPublisher interface {
	Publish(event realtime.Event)
}

// ContentWriter performs single-record writes and the bookkeeping every
// successful mutation shares: cache invalidation, change events and metrics.
type ContentWriter struct {
	repo      ContentWriterRepository
	images    ImageStore
	cache     *CacheService
	events    EventPublisher
	metrics   *MetricsService
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewContentWriter constructs a ContentWriter. images, cache, events and
// metrics are optional.
func NewContentWriter(repo ContentWriterRepository, images ImageStore, cache *CacheService, events EventPublisher, metrics *MetricsService, v *validation.Validator, logger *zap.Logger) *ContentWriter {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentWriter{
		repo:      repo,
		images:    images,
		cache:     cache,
		events:    events,
		metrics:   metrics,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// check validates input and returns its field issues.
func (w *ContentWriter) check(input interface{}) []string {
	issues, err := w.validator.Struct(input)
	if err != nil {
		w.logger.Error("validation failed to run", zap.Error(err))
		return []string{err.Error()}
	}
	return issues
}

// requireImage reports a missing image when neither a URL nor a file was given.
func requireImage(field, url string, upload *Upload) []string {
	if url == "" && upload.Empty() {
		return []string{fmt.Sprintf("%s: %s is required unless an image is attached", field, field)}
	}
	return nil
}

// attach stores upload when present and returns the URL to persist.
func (w *ContentWriter) attach(ctx context.Context, c models.Collection, field, current string, upload *Upload) (string, *models.ActionResult, error) {
	if upload.Empty() {
		return current, nil, nil
	}
	if w.images == nil {
		result, err := invalid([]string{field + ": image uploads are not enabled"})
		return "", result, err
	}
	url, err := w.images.StoreImage(ctx, string(c), upload)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Status >= 500 {
			result, failure := failed(err)
			return "", result, failure
		}
		return "", &models.ActionResult{Success: false, Message: msgFixErrors, Issues: []string{field + ": " + appErr.Message}}, appErr
	}
	return url, nil, nil
}

func (w *ContentWriter) create(ctx context.Context, c models.Collection, label string, record interface{}) (*models.ActionResult, error) {
	id, err := w.insert(ctx, c, record)
	if err != nil {
		return failed(err)
	}
	return &models.ActionResult{Success: true, Message: label + " created successfully.", ID: id}, nil
}

// insert pushes record under a new key and returns the key.
func (w *ContentWriter) insert(ctx context.Context, c models.Collection, record interface{}) (string, error) {
	start := time.Now()
	id, err := w.repo.Create(ctx, c.Path(), record)
	w.metrics.ObserveStoreOperation("create", string(c), time.Since(start))
	if err != nil {
		w.logger.Error("create failed", zap.String("collection", string(c)), zap.Error(err))
		return "", err
	}
	w.committed(ctx, c, ActionCreated, id)
	return id, nil
}

func (w *ContentWriter) put(ctx context.Context, c models.Collection, label, id, action string, record interface{}) (*models.ActionResult, error) {
	start := time.Now()
	err := w.repo.Put(ctx, c.Path(), id, record)
	w.metrics.ObserveStoreOperation("put", string(c), time.Since(start))
	if err != nil {
		w.logger.Error("write failed", zap.String("collection", string(c)), zap.String("id", id), zap.Error(err))
		return failed(err)
	}
	w.committed(ctx, c, action, id)
	return &models.ActionResult{Success: true, Message: fmt.Sprintf("%s %s successfully.", label, action), ID: id}, nil
}

func (w *ContentWriter) remove(ctx context.Context, c models.Collection, label, id string) (*models.ActionResult, error) {
	if !w.exists(ctx, c, id) {
		return notFound(label)
	}
	start := time.Now()
	err := w.repo.Delete(ctx, c.Path(), id)
	w.metrics.ObserveStoreOperation("delete", string(c), time.Since(start))
	if err != nil {
		w.logger.Error("delete failed", zap.String("collection", string(c)), zap.String("id", id), zap.Error(err))
		return failed(err)
	}
	w.committed(ctx, c, ActionDeleted, id)
	return &models.ActionResult{Success: true, Message: label + " deleted successfully.", ID: id}, nil
}

func (w *ContentWriter) exists(ctx context.Context, c models.Collection, id string) bool {
	return w.repo.Item(ctx, c.Path(), id) != nil
}

// committed runs the shared side effects of a successful write.
func (w *ContentWriter) committed(ctx context.Context, c models.Collection, action, id string) {
	w.cache.Forget(ctx, c.Path())
	w.metrics.RecordMutation(string(c), action)
	if w.events != nil {
		w.events.Publish(realtime.Event{Collection: string(c), Action: action, ID: id, At: w.now().UTC()})
	}
	w.logger.Info("content changed", zap.String("collection", string(c)), zap.String("action", action), zap.String("id", id))
}

func invalid(issues []string) (*models.ActionResult, error) {
	return &models.ActionResult{Success: false, Message: msgFixErrors, Issues: issues}, appErrors.WithIssues(msgFixErrors, issues)
}

func failed(err error) (*models.ActionResult, error) {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return &models.ActionResult{Success: false, Message: appErr.Message}, appErr
	}
	return &models.ActionResult{Success: false, Message: err.Error()},
		appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
}

func notFound(label string) (*models.ActionResult, error) {
	msg := label + " not found."
	return &models.ActionResult{Success: false, Message: msg}, appErrors.Clone(appErrors.ErrNotFound, msg)
}

