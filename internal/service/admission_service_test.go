package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/dto"
	"github.com/noah-isme/school-site-api/internal/models"
	appErrors "github.com/noah-isme/school-site-api/pkg/errors"
	"github.com/noah-isme/school-site-api/pkg/storage"
)

type recordingNotifier struct {
	received []models.AdmissionSubmission
	decided  []models.AdmissionSubmission
	contacts []models.ContactSubmission
	err      error
}

func (n *recordingNotifier) AdmissionReceived(ctx context.Context, a models.AdmissionSubmission) error {
	n.received = append(n.received, a)
	return n.err
}

func (n *recordingNotifier) AdmissionDecided(ctx context.Context, a models.AdmissionSubmission) error {
	n.decided = append(n.decided, a)
	return n.err
}

func (n *recordingNotifier) ContactReceived(ctx context.Context, c models.ContactSubmission) error {
	n.contacts = append(n.contacts, c)
	return n.err
}

type fakeDocuments struct {
	path string
	err  error
}

func (f *fakeDocuments) StoreDocument(ctx context.Context, folder string, upload *Upload) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

func validAdmission() dto.AdmissionRequest {
	return dto.AdmissionRequest{
		ApplicantName: "Aarav Shah",
		DOB:           "2015-03-14",
		Gender:        "male",
		ParentName:    "Meera Shah",
		ParentEmail:   "meera@example.com",
		ParentPhone:   "5550101",
		AppliedClass:  "4",
	}
}

func newAdmissionService(t *testing.T, notifier *recordingNotifier) (*AdmissionService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	signer := storage.NewSignedURLSigner("secret", time.Minute)
	svc := NewAdmissionService(env.writer, &fakeDocuments{path: "admissions/doc.pdf"}, notifier, signer, "/api/v1/admin/admissions/documents/", zap.NewNop())
	return svc, env
}

func TestAdmissionSubmitStoresPending(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newAdmissionService(t, notifier)

	res, err := svc.Submit(context.Background(), validAdmission(), nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Thank you, Aarav Shah! Your admission form has been submitted successfully.", res.Message)

	stored, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionPending, stored.Status)
	assert.Equal(t, fixedNow.UnixMilli(), stored.SubmittedAt)
	require.Len(t, notifier.received, 1)
	assert.Equal(t, res.ID, notifier.received[0].ID)
}

func TestAdmissionSubmitInvalid(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, env := newAdmissionService(t, notifier)
	req := validAdmission()
	req.ParentEmail = "not-an-email"
	req.Gender = "unknown"

	res, err := svc.Submit(context.Background(), req, nil)
	requireAppError(t, err, appErrors.ErrValidation)
	assert.Equal(t, "Please fix the errors below.", res.Message)
	assert.Len(t, res.Issues, 2)
	assert.Empty(t, notifier.received)
	assert.Empty(t, env.repo.Children(context.Background(), "/admissionSubmissions"))
}

func TestAdmissionSubmitNotificationFailureStillSucceeds(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc, _ := newAdmissionService(t, notifier)

	res, err := svc.Submit(context.Background(), validAdmission(), nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestAdmissionSubmitRejectedDocument(t *testing.T) {
	env := newTestEnv(t)
	docs := &fakeDocuments{err: appErrors.Clone(appErrors.ErrUnsupportedMedia, "file type is not allowed")}
	svc := NewAdmissionService(env.writer, docs, nil, nil, "", nil)

	res, err := svc.Submit(context.Background(), validAdmission(), &Upload{Data: []byte("MZ")})
	requireAppError(t, err, appErrors.ErrUnsupportedMedia)
	assert.Equal(t, []string{"supportingDocument: file type is not allowed"}, res.Issues)
}

func TestAdmissionApproveOnlyOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, env := newAdmissionService(t, notifier)
	res, err := svc.Submit(context.Background(), validAdmission(), nil)
	require.NoError(t, err)

	decision, err := svc.Approve(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admission approved successfully.", decision.Message)
	require.Len(t, notifier.decided, 1)
	assert.Equal(t, models.AdmissionApproved, notifier.decided[0].Status)

	decision, err = svc.Reject(context.Background(), res.ID)
	requireAppError(t, err, appErrors.ErrConflict)
	assert.Equal(t, "Admission has already been approved.", decision.Message)
	assert.Len(t, notifier.decided, 1)

	stored, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionApproved, stored.Status)
	assert.Equal(t, fixedNow.UnixMilli(), stored.DecidedAt)
	assert.NotEmpty(t, env.publisher.events)
}

func TestAdmissionDecisionMailFailureKeepsStatus(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newAdmissionService(t, notifier)
	res, err := svc.Submit(context.Background(), validAdmission(), nil)
	require.NoError(t, err)

	notifier.err = errors.New("mail rejected")
	decision, err := svc.Reject(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, decision.Success)

	stored, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdmissionRejected, stored.Status)
}

func TestAdmissionMissingStatusReadsAsPending(t *testing.T) {
	svc, env := newAdmissionService(t, &recordingNotifier{})
	env.seed(t, "/admissionSubmissions/legacy", map[string]interface{}{"applicantName": "Old", "submittedAt": 1})
	env.seed(t, "/admissionSubmissions/recent", map[string]interface{}{"applicantName": "New", "submittedAt": 2, "status": "rejected"})

	items := svc.List(context.Background())
	require.Len(t, items, 2)
	assert.Equal(t, "recent", items[0].ID)
	assert.Equal(t, models.AdmissionPending, items[1].Status)

	_, err := svc.Approve(context.Background(), "legacy")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "missing")
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestAdmissionDocumentLinkRoundTrip(t *testing.T) {
	svc, _ := newAdmissionService(t, &recordingNotifier{})
	res, err := svc.Submit(context.Background(), validAdmission(), &Upload{Filename: "birth.pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)

	link, err := svc.DocumentLink(context.Background(), res.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link.URL, "/api/v1/admin/admissions/documents/"))

	token := strings.TrimPrefix(link.URL, "/api/v1/admin/admissions/documents/")
	path, err := svc.ResolveDocument(token)
	require.NoError(t, err)
	assert.Equal(t, "admissions/doc.pdf", path)

	_, err = svc.ResolveDocument(token + "x")
	requireAppError(t, err, appErrors.ErrForbidden)
}

func TestAdmissionDocumentLinkWithoutDocument(t *testing.T) {
	svc, _ := newAdmissionService(t, &recordingNotifier{})
	res, err := svc.Submit(context.Background(), validAdmission(), nil)
	require.NoError(t, err)

	_, err = svc.DocumentLink(context.Background(), res.ID)
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestContactSubmitAndList(t *testing.T) {
	env := newTestEnv(t)
	notifier := &recordingNotifier{err: errors.New("mail down")}
	svc := NewContactService(env.writer, notifier, zap.NewNop())

	res, err := svc.Submit(context.Background(), dto.ContactRequest{
		FirstName: "Nina",
		LastName:  "Rao",
		Email:     "nina@example.com",
		Subject:   "Bus route",
		Message:   "Is there a bus from the east side?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Thank you for your message! We will get back to you shortly.", res.Message)
	require.Len(t, notifier.contacts, 1)

	items := svc.List(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, "Nina", items[0].FirstName)

	_, err = svc.Delete(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Empty(t, svc.List(context.Background()))
}

func TestContactSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewContactService(env.writer, nil, nil)

	res, err := svc.Submit(context.Background(), dto.ContactRequest{FirstName: "N", Email: "x", Message: "short"})
	requireAppError(t, err, appErrors.ErrValidation)
	assert.NotEmpty(t, res.Issues)
}
