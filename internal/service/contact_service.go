package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/internal/repository"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
)

const contactLabel = "Contact submission"

// ContactNotifier sends the contact form emails.
type ContactNotifier interface {
	ContactReceived(ctx context.Context, c models.ContactSubmission) error
}

// ContactService records contact form messages.
type ContactService struct {
	writer   *ContentWriter
	notifier ContactNotifier
	logger   *zap.Logger
}

// NewContactService constructs a ContactService.
func NewContactService(writer *ContentWriter, notifier ContactNotifier, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{writer: writer, notifier: notifier, logger: logger}
}

// Submit stores the message and sends the admin alert and acknowledgement.
func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest) (*models.ActionResult, error) {
	if issues := s.writer.check(req); len(issues) > 0 {
		return invalid(issues)
	}
	submission := models.ContactSubmission{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Message:     req.Message,
		SubmittedAt: s.writer.now().UnixMilli(),
	}
	id, err := s.writer.insert(ctx, models.CollectionContacts, submission)
	if err != nil {
		return &models.ActionResult{Success: false, Message: msgFormFailed},
			appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msgFormFailed)
	}
	submission.ID = id
	if s.notifier != nil {
		if err := s.notifier.ContactReceived(ctx, submission); err != nil {
			s.logger.Warn("contact notification failed", zap.String("id", id), zap.Error(err))
		}
	}
	return &models.ActionResult{Success: true, Message: "Thank you for your message! We will get back to you shortly.", ID: id}, nil
}

// List returns contact messages, newest first.
func (s *ContactService) List(ctx context.Context) []models.ContactSubmission {
	items := repository.FetchCollection[models.ContactSubmission](ctx, s.writer.repo, models.CollectionContacts.Path())
	sort.SliceStable(items, func(i, j int) bool { return items[i].SubmittedAt > items[j].SubmittedAt })
	return items
}

// Delete removes a contact message.
func (s *ContactService) Delete(ctx context.Context, id string) (*models.ActionResult, error) {
	return s.writer.remove(ctx, models.CollectionContacts, contactLabel, id)
}
