package mailer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-site-api/pkg/jobs"
)

func TestSendGridMailerSend(t *testing.T) {
	var gotAuth, gotBody, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer("sg-key", "PIISS", "PIISS Website", "no-reply@example.com").WithHost(srv.URL)
	err := m.Send(context.Background(), Message{
		To:      []mail.Address{{Name: "Parent", Address: "parent@example.com"}},
		Subject: "Application received",
		HTML:    "<p>Thanks</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sg-key", gotAuth)
	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Contains(t, gotBody, "[PIISS] Application received")
	assert.Contains(t, gotBody, "parent@example.com")
}

func TestSendGridMailerReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := NewSendGridMailer("bad", "", "Site", "no-reply@example.com").WithHost(srv.URL)
	err := m.Send(context.Background(), Message{
		To:      []mail.Address{{Address: "a@example.com"}},
		Subject: "x",
		Text:    "y",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendRequiresRecipients(t *testing.T) {
	m := NewSendGridMailer("k", "", "Site", "no-reply@example.com")
	assert.Error(t, m.Send(context.Background(), Message{Subject: "x"}))

	assert.NoError(t, NewLogMailer(zap.NewNop()).Send(context.Background(), Message{Subject: "x"}))
}

func TestQueuedMailerDeliversThroughQueue(t *testing.T) {
	delivered := make(chan Message, 1)
	handler := DeliveryHandler(mailerFunc(func(ctx context.Context, msg Message) error {
		delivered <- msg
		return nil
	}))
	queue := jobs.NewQueue("mail", handler, jobs.QueueConfig{})
	queue.Start(context.Background())
	defer queue.Stop()

	m := NewQueuedMailer(queue)
	require.NoError(t, m.Send(context.Background(), Message{To: []mail.Address{{Address: "a@example.com"}}, Subject: "Hi"}))
	assert.ErrorIs(t, m.Send(context.Background(), Message{Subject: "nobody"}), ErrNoRecipients)

	select {
	case msg := <-delivered:
		assert.Equal(t, "Hi", msg.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

type mailerFunc func(ctx context.Context, msg Message) error

func (f mailerFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }
