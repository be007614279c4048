package emaildomain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praxisio/contactrelay/pkg/emaildomain"
)

func TestIsConsumer(t *testing.T) {
	t.Parallel()

	consumer := []string{
		"gmail.com",
		"hotmail.no",
		"online.no",
		"proton.me",
		"GMAIL.COM",
		"  yahoo.com  ",
		"icloud.com.",
	}
	for _, d := range consumer {
		assert.True(t, emaildomain.IsConsumer(d), d)
	}

	business := []string{
		"acme.com",
		"praxis.io",
		"equinor.com",
		"kommune.no",
		"",
		"gmail.com.evil.com",
	}
	for _, d := range business {
		assert.False(t, emaildomain.IsConsumer(d), d)
	}
}

func TestIsConsumerFast(t *testing.T) {
	t.Parallel()

	assert.True(t, emaildomain.IsConsumerFast("gmail.com"))
	assert.True(t, emaildomain.IsConsumerFast("Outlook.com"))
	assert.False(t, emaildomain.IsConsumerFast("acme.com"))

	// The frontend subset is strictly smaller than the canonical list.
	assert.True(t, emaildomain.IsConsumer("getmail.no"))
	assert.False(t, emaildomain.IsConsumerFast("getmail.no"))
}
