// Package mailer sends outbound transactional email. The primary backend is
// a Microsoft Graph-style API authenticated with an OAuth2 client-credentials
// flow; Postmark and a filesystem dev sender are available behind the same
// interface.
package mailer

import (
	"context"
	"regexp"
)

// Sender delivers one email message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a plaintext email to a single recipient. The sender identity
// comes from the configured backend.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	// Tag optionally labels the message for provider-side analytics.
	Tag string `json:"tag,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the message has a deliverable recipient and a body.
func (m Message) Validate() error {
	if m.To == "" || !emailRegex.MatchString(m.To) {
		return ErrInvalidRecipient
	}
	if m.TextBody == "" {
		return ErrEmptyBody
	}
	return nil
}
