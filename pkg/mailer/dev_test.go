package mailer_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisio/contactrelay/pkg/mailer"
)

func TestDevSenderSend(t *testing.T) {
	t.Parallel()

	t.Run("writes body and metadata files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := mailer.NewDevSender(filepath.Join(dir, "outbox"))

		err := sender.Send(context.Background(), mailer.Message{
			To:       "hello@praxis.io",
			Subject:  "Contact form submission",
			TextBody: "Name: Jo Doe\nMessage: hello there",
			Tag:      "contact",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(filepath.Join(dir, "outbox"))
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var txtFile, jsonFile string
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".txt":
				txtFile = e.Name()
			case ".json":
				jsonFile = e.Name()
			}
		}
		require.NotEmpty(t, txtFile)
		require.NotEmpty(t, jsonFile)
		assert.True(t, strings.HasSuffix(strings.TrimSuffix(txtFile, ".txt"), "contact"))

		body, err := os.ReadFile(filepath.Join(dir, "outbox", txtFile))
		require.NoError(t, err)
		assert.Contains(t, string(body), "hello there")

		raw, err := os.ReadFile(filepath.Join(dir, "outbox", jsonFile))
		require.NoError(t, err)
		var meta map[string]string
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, "hello@praxis.io", meta["to"])
		assert.Equal(t, "Contact form submission", meta["subject"])
		assert.Equal(t, "contact", meta["tag"])
		assert.NotEmpty(t, meta["timestamp"])
	})

	t.Run("rejects invalid message without touching disk", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "outbox")
		sender := mailer.NewDevSender(dir)

		err := sender.Send(context.Background(), mailer.Message{To: "broken", TextBody: "x"})
		assert.ErrorIs(t, err, mailer.ErrInvalidRecipient)

		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))
	})
}
