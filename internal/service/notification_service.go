package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/mail"

	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/internal/models"
	"github.com/noah-isme/school-site-api/pkg/mailer"
)

// Template names, also used as metric labels.
const (
	TemplateContactAdmin      = "contact_admin"
	TemplateContactAck        = "contact_ack"
	TemplateAdmissionAdmin    = "admission_admin"
	TemplateAdmissionAck      = "admission_ack"
	TemplateAdmissionApproved = "admission_approved"
	TemplateAdmissionRejected = "admission_rejected"
)

const notificationTemplates = `
{{define "contact_admin"}}<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>{{end}}

{{define "contact_ack"}}<h2>Thank You for Contacting Us!</h2>
<p>Hi {{.FirstName}},</p>
<p>Thank you for reaching out to us. We have received your message and will get back to you as soon as possible.</p>
<p><strong>Here's a copy of your message:</strong></p>
<blockquote style="border-left: 2px solid #ccc; padding-left: 1em; margin-left: 1em;">
<p><strong>Subject:</strong> {{.Subject}}</p>
<p>{{.Message}}</p>
</blockquote>
<p>Sincerely,<br/>The {{site}} Team</p>{{end}}

{{define "admission_admin"}}<h2>New Admission Application Received</h2>
<p><strong>Applicant Name:</strong> {{.ApplicantName}}</p>
<p><strong>Applying for Class:</strong> {{.AppliedClass}}</p>
<p><strong>Parent Name:</strong> {{.ParentName}}</p>
<p><strong>Parent Email:</strong> {{.ParentEmail}}</p>
<p>Please review the full application in the admin dashboard.</p>{{end}}

{{define "admission_ack"}}<h2>Application Received!</h2>
<p>Dear {{.ParentName}},</p>
<p>Thank you for submitting an admission application for <strong>{{.ApplicantName}}</strong> for <strong>Class {{.AppliedClass}}</strong>.</p>
<p>We have successfully received your application. Our admissions team will review it and get in touch with you regarding the next steps.</p>
<p>Sincerely,<br/>The {{site}} Admissions Team</p>{{end}}

{{define "admission_approved"}}<h2>Admission Approved</h2>
<p>Dear {{.ParentName}},</p>
<p>We are pleased to inform you that the admission application for <strong>{{.ApplicantName}}</strong> for <strong>Class {{.AppliedClass}}</strong> has been approved.</p>
<p>Our admissions team will contact you shortly with the enrollment steps.</p>
<p>Sincerely,<br/>The {{site}} Admissions Team</p>{{end}}

{{define "admission_rejected"}}<h2>Admission Application Update</h2>
<p>Dear {{.ParentName}},</p>
<p>Thank you for your interest in our school. After careful review, we regret to inform you that we are unable to offer admission to <strong>{{.ApplicantName}}</strong> for <strong>Class {{.AppliedClass}}</strong> at this time.</p>
<p>Sincerely,<br/>The {{site}} Admissions Team</p>{{end}}
`

// NotificationService renders and sends the transactional emails.
type NotificationService struct {
	mailer     mailer.Mailer
	templates  *template.Template
	siteName   string
	adminEmail string
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewNotificationService constructs a NotificationService. Admin alerts are
// skipped when adminEmail is empty.
func NewNotificationService(m mailer.Mailer, siteName, adminEmail string, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if siteName == "" {
		siteName = "PIISS"
	}
	tmpl := template.Must(template.New("notifications").
		Funcs(template.FuncMap{"site": func() string { return siteName }}).
		Parse(notificationTemplates))
	return &NotificationService{
		mailer:     m,
		templates:  tmpl,
		siteName:   siteName,
		adminEmail: adminEmail,
		metrics:    metrics,
		logger:     logger,
	}
}

// ContactReceived alerts the admin and acknowledges the sender.
func (s *NotificationService) ContactReceived(ctx context.Context, c models.ContactSubmission) error {
	return errors.Join(
		s.sendAdmin(ctx, TemplateContactAdmin, "New Contact Form Submission: "+c.Subject, c),
		s.send(ctx, TemplateContactAck, mail.Address{Name: c.FirstName + " " + c.LastName, Address: c.Email}, "We've received your message!", c),
	)
}

// AdmissionReceived alerts the admin and acknowledges the parent.
func (s *NotificationService) AdmissionReceived(ctx context.Context, a models.AdmissionSubmission) error {
	return errors.Join(
		s.sendAdmin(ctx, TemplateAdmissionAdmin, "New Admission Application: "+a.ApplicantName, a),
		s.send(ctx, TemplateAdmissionAck, parentAddress(a),
			fmt.Sprintf("Your Admission Application for %s has been received!", a.ApplicantName), a),
	)
}

// AdmissionDecided tells the parent about an approval or rejection.
func (s *NotificationService) AdmissionDecided(ctx context.Context, a models.AdmissionSubmission) error {
	switch a.Status {
	case models.AdmissionApproved:
		return s.send(ctx, TemplateAdmissionApproved, parentAddress(a),
			fmt.Sprintf("Admission Approved: %s", a.ApplicantName), a)
	case models.AdmissionRejected:
		return s.send(ctx, TemplateAdmissionRejected, parentAddress(a),
			fmt.Sprintf("Update on the Admission Application for %s", a.ApplicantName), a)
	default:
		return fmt.Errorf("no notification for status %q", a.Status)
	}
}

func parentAddress(a models.AdmissionSubmission) mail.Address {
	return mail.Address{Name: a.ParentName, Address: a.ParentEmail}
}

func (s *NotificationService) sendAdmin(ctx context.Context, name, subject string, data interface{}) error {
	if s.adminEmail == "" {
		s.logger.Debug("admin email not configured, skipping alert", zap.String("template", name))
		return nil
	}
	return s.send(ctx, name, mail.Address{Name: s.siteName + " Admin", Address: s.adminEmail}, subject, data)
}

func (s *NotificationService) send(ctx context.Context, name string, to mail.Address, subject string, data interface{}) error {
	body, err := s.Render(name, data)
	if err != nil {
		return err
	}
	if s.mailer == nil {
		return errors.New("mailer not configured")
	}
	err = s.mailer.Send(ctx, mailer.Message{To: []mail.Address{to}, Subject: subject, HTML: body})
	s.metrics.RecordNotification(name, err == nil)
	if err != nil {
		s.logger.Error("send email failed", zap.String("template", name), zap.String("to", to.Address), zap.Error(err))
		return fmt.Errorf("send %s: %w", name, err)
	}
	return nil
}

// Render executes a named template.
func (s *NotificationService) Render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
