// Package emailcheck validates business email addresses for forms: a
// structural format check followed by a consumer-domain lookup, with
// localized verdict messages. Synchronous, no I/O; every outcome is
// represented in the Result, never an error.
package emailcheck

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/praxisio/contactrelay/pkg/emaildomain"
	"github.com/praxisio/contactrelay/pkg/i18n"
	"github.com/praxisio/contactrelay/pkg/sanitizer"
)

//go:embed locales/messages.yaml
var messagesCatalog []byte

// emailRegex checks the local@domain.tld shape. Kept identical to the
// server-side rule so client feedback never contradicts the relay.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the validation verdict for one email address.
type Result struct {
	// IsValid is true when the address passes both the format check and
	// the consumer-domain check.
	IsValid bool
	// IsConsumerEmail is true when the domain is a known free-mail
	// provider. Only meaningful when IsValid is false.
	IsConsumerEmail bool
	// Message is the localized user-facing explanation; empty when valid.
	Message string
}

// Validator checks email addresses against the frontend consumer-domain
// subset and produces localized messages.
type Validator struct {
	translator *i18n.Translator
}

// New creates a Validator with the embedded en/no message catalog.
func New() *Validator {
	return &Validator{translator: i18n.MustNewTranslator(messagesCatalog)}
}

// Validate checks email and returns a verdict with a message localized for
// lang. The check is two-step: structural shape first, then the frontend
// consumer-domain subset. An unknown lang falls back to English.
func (v *Validator) Validate(email, lang string) Result {
	email = sanitizer.NormalizeEmail(email)

	if !emailRegex.MatchString(email) {
		return Result{
			IsValid: false,
			Message: v.translator.T(lang, "email.invalid_format"),
		}
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if emaildomain.IsConsumerFast(domain) {
		return Result{
			IsValid:         false,
			IsConsumerEmail: true,
			Message:         v.translator.T(lang, "email.consumer_domain"),
		}
	}

	return Result{IsValid: true}
}
