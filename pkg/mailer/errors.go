package mailer

import "errors"

var (
	ErrInvalidConfig    = errors.New("mailer: invalid config")
	ErrInvalidRecipient = errors.New("mailer: invalid recipient address")
	ErrEmptyBody        = errors.New("mailer: empty message body")
	ErrSendFailed       = errors.New("mailer: failed to send email")
)
