package mailer_test

import (
	"encoding/json"
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"

	"contactbook/internal/mailer"
	"contactbook/pkg/queue"
)

func newTestMailer() *mailer.Mailer {
	// Points at a closed port: sends fail fast, which is exactly the
	// path under test.
	return mailer.New(mailer.Config{
		Host:       "127.0.0.1",
		Port:       1,
		SenderAddr: "noreply@contactbook.local",
		BaseURL:    "http://localhost:3000",
	})
}

func TestHandleEmailMessage_MalformedBodyIsDiscarded(t *testing.T) {
	m := newTestMailer()

	err := m.HandleEmailMessage(amqp.Delivery{Body: []byte("not json")})
	assert.NoError(t, err)
}

func TestHandleEmailMessage_SendFailureDoesNotRequeue(t *testing.T) {
	m := newTestMailer()

	body, err := json.Marshal(queue.EmailMessage{
		To:                "hello@example.com",
		VerificationToken: "sometoken",
	})
	assert.NoError(t, err)

	// SMTP is unreachable; the failure must be swallowed so the broker
	// never redelivers.
	err = m.HandleEmailMessage(amqp.Delivery{Body: body})
	assert.NoError(t, err)
}

func TestSendVerificationEmail_UnreachableSMTP(t *testing.T) {
	m := newTestMailer()

	err := m.SendVerificationEmail("hello@example.com", "sometoken")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send verification email")
}
