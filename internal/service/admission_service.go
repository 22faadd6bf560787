package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/storage"
)

const (
	admissionLabel   = "Admission"
	msgFormFailed    = "An error occurred while submitting the form. Please try again."
	documentFolder   = "admissions"
	documentFormName = "supportingDocument"
)

// AdmissionNotifier sends the admission emails.
type AdmissionNotifier interface {
	AdmissionReceived(ctx context.Context, a models.AdmissionSubmission) error
	AdmissionDecided(ctx context.Context, a models.AdmissionSubmission) error
}

// DocumentStore keeps supporting documents.
type DocumentStore interface {
	StoreDocument(ctx context.Context, folder string, upload *Upload) (string, error)
}

// DocumentLink is a short-lived download URL for an admission document.
type DocumentLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdmissionService runs the admission workflow: submissions start pending
// and move once to approved or rejected.
type AdmissionService struct {
	writer    *ContentWriter
	documents DocumentStore
	notifier  AdmissionNotifier
	signer    *storage.SignedURLSigner
	urlPrefix string
	logger    *zap.Logger
}

// NewAdmissionService constructs an AdmissionService. documents and signer may
// be nil when document uploads are disabled.
func NewAdmissionService(writer *ContentWriter, documents DocumentStore, notifier AdmissionNotifier, signer *storage.SignedURLSigner, urlPrefix string, logger *zap.Logger) *AdmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionService{
		writer:    writer,
		documents: documents,
		notifier:  notifier,
		signer:    signer,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		logger:    logger,
	}
}

// Submit validates and records an application, then notifies the school and
// the parent. Notification failures are logged only.
func (s *AdmissionService) Submit(ctx context.Context, req dto.AdmissionRequest, document *Upload) (*models.ActionResult, error) {
	if issues := s.writer.check(req); len(issues) > 0 {
		return invalid(issues)
	}

	var documentPath string
	if !document.Empty() {
		if s.documents == nil {
			return invalid([]string{documentFormName + ": document uploads are not enabled"})
		}
		stored, err := s.documents.StoreDocument(ctx, documentFolder, document)
		if err != nil {
			appErr := appErrors.FromError(err)
			if appErr.Status >= 500 {
				s.logger.Error("store admission document failed", zap.Error(err))
				return &models.ActionResult{Success: false, Message: msgFormFailed}, appErr
			}
			return &models.ActionResult{Success: false, Message: msgFixErrors, Issues: []string{documentFormName + ": " + appErr.Message}}, appErr
		}
		documentPath = stored
	}

	submission := models.AdmissionSubmission{
		ApplicantName:  strings.TrimSpace(req.ApplicantName),
		DOB:            req.DOB,
		Gender:         req.Gender,
		ParentName:     strings.TrimSpace(req.ParentName),
		ParentEmail:    req.ParentEmail,
		ParentPhone:    req.ParentPhone,
		AppliedClass:   req.AppliedClass,
		PreviousSchool: req.PreviousSchool,
		Comments:       req.Comments,
		DocumentURL:    documentPath,
		Status:         models.AdmissionPending,
		SubmittedAt:    s.writer.now().UnixMilli(),
	}
	id, err := s.writer.insert(ctx, models.CollectionAdmissions, submission)
	if err != nil {
		return &models.ActionResult{Success: false, Message: msgFormFailed},
			appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgFormFailed)
	}
	submission.ID = id

	if s.notifier != nil {
		if err := s.notifier.AdmissionReceived(ctx, submission); err != nil {
			s.logger.Warn("admission notification failed", zap.String("id", id), zap.Error(err))
		}
	}
	return &models.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Thank you, %s! Your admission form has been submitted successfully.", submission.ApplicantName),
		ID:      id,
	}, nil
}

// List returns every submission, newest first.
func (s *AdmissionService) List(ctx context.Context) []models.AdmissionSubmission {
	items := repository.FetchCollection[models.AdmissionSubmission](ctx, s.writer.repo, models.CollectionAdmissions.Path())
	for i := range items {
		items[i].Status = items[i].EffectiveStatus()
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].SubmittedAt > items[j].SubmittedAt })
	return items
}

// Get returns one submission.
func (s *AdmissionService) Get(ctx context.Context, id string) (*models.AdmissionSubmission, error) {
	item := repository.FetchItem[models.AdmissionSubmission](ctx, s.writer.repo, models.CollectionAdmissions.Path(), id)
	if item == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "admission not found")
	}
	item.Status = item.EffectiveStatus()
	return item, nil
}

// Approve moves a pending submission to approved and notifies the parent.
func (s *AdmissionService) Approve(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.decide(ctx, id, models.AdmissionApproved)
}

// Reject moves a pending submission to rejected and notifies the parent.
func (s *AdmissionService) Reject(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.decide(ctx, id, models.AdmissionRejected)
}

func (s *AdmissionService) decide(ctx context.Context, id string, status models.AdmissionStatus) (*models.ActionResult, error) {
	submission := repository.FetchItem[models.AdmissionSubmission](ctx, s.writer.repo, models.CollectionAdmissions.Path(), id)
	if submission == nil {
		return notFound(admissionLabel)
	}
	if current := submission.EffectiveStatus(); current != models.AdmissionPending {
		msg := fmt.Sprintf("Admission has already been %s.", current)
		return &models.ActionResult{Success: false, Message: msg, ID: id}, appErrors.Clone(appErrors.ErrConflict, msg)
	}

	decidedAt := s.writer.now().UnixMilli()
	start := time.Now()
	err := s.writer.repo.Merge(ctx, models.CollectionAdmissions.Path(), id, map[string]interface{}{
		"status":    string(status),
		"decidedAt": decidedAt,
	})
	s.writer.metrics.ObserveStoreOperation("merge", string(models.CollectionAdmissions), time.Since(start))
	if err != nil {
		s.logger.Error("admission decision failed", zap.String("id", id), zap.Error(err))
		return failed(err)
	}
	s.writer.committed(ctx, models.CollectionAdmissions, ActionUpdated, id)

	submission.Status = status
	submission.DecidedAt = decidedAt
	if s.notifier != nil {
		if err := s.notifier.AdmissionDecided(ctx, *submission); err != nil {
			s.logger.Warn("admission decision notification failed", zap.String("id", id), zap.String("status", string(status)), zap.Error(err))
		}
	}
	return &models.ActionResult{Success: true, Message: fmt.Sprintf("Admission %s successfully.", status), ID: id}, nil
}

// DocumentLink issues a signed download URL for the submission's document.
func (s *AdmissionService) DocumentLink(ctx context.Context, id string) (*DocumentLink, error) {
	submission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if submission.DocumentURL == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no document attached to this admission")
	}
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "document links are not configured")
	}
	token, expiresAt, err := s.signer.Generate(id, submission.DocumentURL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign document link")
	}
	return &DocumentLink{URL: s.urlPrefix + "/" + token, ExpiresAt: expiresAt}, nil
}

// ResolveDocument validates a download token and returns the stored path.
func (s *AdmissionService) ResolveDocument(token string) (string, error) {
	if s.signer == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "document not found")
	}
	link, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return "", appErrors.Clone(appErrors.ErrForbidden, "download link has expired")
		}
		return "", appErrors.Clone(appErrors.ErrForbidden, "download link is invalid")
	}
	return link.Path, nil
}
