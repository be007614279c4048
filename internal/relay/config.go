package relay

import "time"

// Config holds the relay's delivery target and abuse-control knobs.
type Config struct {
	// RecipientEmail receives every relayed submission.
	RecipientEmail string `env:"RELAY_RECIPIENT_EMAIL,required"`
	// DefaultSubject is used when the submission carries no subject.
	DefaultSubject string `env:"RELAY_DEFAULT_SUBJECT" envDefault:"New contact form submission"`

	// RateWindow and RateMax bound submissions per client IP: at most
	// RateMax requests within any trailing RateWindow.
	RateWindow time.Duration `env:"RELAY_RATE_WINDOW" envDefault:"15m"`
	RateMax    int           `env:"RELAY_RATE_MAX" envDefault:"5"`

	// SenderLogTTL is how long sender addresses are retained for abuse
	// analysis.
	SenderLogTTL time.Duration `env:"RELAY_SENDER_LOG_TTL" envDefault:"720h"`
}
