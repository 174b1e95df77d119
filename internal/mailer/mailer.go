// Package mailer delivers verification emails over SMTP. It consumes the
// email queue, so signup never blocks on (or fails because of) delivery;
// send failures are logged and the message is acked.
package mailer

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/streadway/amqp"
	gomail "gopkg.in/gomail.v2"

	"contactbook/pkg/queue"
)

// Config holds SMTP settings and the public base URL used to build
// verification links.
type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	SenderAddr string
	BaseURL    string
}

// Mailer sends verification emails.
type Mailer struct {
	dialer *gomail.Dialer
	cfg    Config
}

// New creates a Mailer with the given SMTP configuration.
func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		cfg:    cfg,
	}
}

// SendVerificationEmail sends the verification link for the given token.
func (m *Mailer) SendVerificationEmail(to, verificationToken string) error {
	link := fmt.Sprintf("%s/api/auth/verify/%s", m.cfg.BaseURL, verificationToken)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SenderAddr)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify your email")
	msg.SetBody("text/plain", fmt.Sprintf("Please verify your email by visiting: %s", link))
	msg.AddAlternative("text/html", fmt.Sprintf(`<p>Please verify your email by clicking <a href="%s">this link</a>.</p>`, link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification email to %s: %w", to, err)
	}
	return nil
}

// HandleEmailMessage processes one queued email event. It always returns
// nil: an undeliverable email is logged, not retried, so a broken SMTP
// setup cannot wedge the queue.
func (m *Mailer) HandleEmailMessage(msg amqp.Delivery) error {
	var email queue.EmailMessage
	if err := json.Unmarshal(msg.Body, &email); err != nil {
		log.Printf("Discarding malformed email event (tag %d): %v", msg.DeliveryTag, err)
		return nil
	}

	if err := m.SendVerificationEmail(email.To, email.VerificationToken); err != nil {
		log.Printf("Error: %v", err)
		return nil
	}

	log.Printf("Verification email sent to %s", email.To)
	return nil
}
