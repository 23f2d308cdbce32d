// Package mailer delivers transactional email through a pluggable transport.
//
// Services depend on the Mailer port only. SendGridMailer talks to the relay
// directly, QueueMailer hands messages to RabbitMQ for the mail worker, and
// LogMailer writes them to the log for local development.
package mailer

import (
	"context"
	"errors"
	"fmt"
)

// ErrDelivery is wrapped by every transport failure.
var ErrDelivery = errors.New("mail delivery failed")

// Message is a plain-text email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer sends a single message. A nil error means the transport accepted it.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// VerificationMessage builds the email sent after registration.
func VerificationMessage(to, firstName, link string) Message {
	return Message{
		To:      to,
		Subject: "Email Verification",
		Body: fmt.Sprintf("Hello %s,\n\nPlease verify your email by clicking the link: \n%s\n\nThank You!\n",
			firstName, link),
	}
}

// ResetMessage builds the password reset email.
func ResetMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "Password Reset Request",
		Body:    fmt.Sprintf("Please click the following link to reset your password: %s", link),
	}
}
