package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

// NewSendGridMailer builds a SendGrid backed mailer. Subjects are prefixed
// with the site name in brackets.
func NewSendGridMailer(key, siteName, fromName, fromEmail string) *SendGridMailer {
	prefix := ""
	if siteName != "" {
		prefix = "[" + siteName + "] "
	}
	return &SendGridMailer{
		key:        key,
		host:       sendGridHost,
		from:       sgmail.NewEmail(fromName, fromEmail),
		subjPrefix: prefix,
	}
}

// WithHost points the mailer at another API host.
func (m *SendGridMailer) WithHost(host string) *SendGridMailer {
	m.host = host
	return m
}

func (m *SendGridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	if msg.Text != "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return v3
}

// Send implements Mailer.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("%w: %q", ErrNoRecipients, msg.Subject)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := sendgrid.GetRequest(m.key, sendGridEndpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.MakeRequest(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
