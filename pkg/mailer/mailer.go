// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"errors"
	"net/mail"
)

// ErrNoRecipients is returned for messages without a To address.
var ErrNoRecipients = errors.New("message has no recipients")

// Message is a rendered email.
type Message struct {
	To      []mail.Address
	Subject string
	HTML    string
	Text    string
}

// Mailer sends one message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
