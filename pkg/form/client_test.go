package form_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisio/contactrelay/pkg/form"
	"github.com/praxisio/contactrelay/pkg/telemetry"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []telemetry.Event
}

func (c *captureNotifier) Send(_ context.Context, event telemetry.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureNotifier) Close() error { return nil }

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := form.NewClient("  ")
	assert.ErrorIs(t, err, form.ErrEmptyEndpoint)
}

func TestClientSubmit(t *testing.T) {
	t.Parallel()

	data := form.Data{
		Name:    "Kari Nordmann",
		Email:   "kari@acme.no",
		Message: "we would like a demo",
	}

	t.Run("successful submission", func(t *testing.T) {
		t.Parallel()

		var received map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"message": "Message sent successfully!",
			})
		}))
		t.Cleanup(srv.Close)

		notifier := &captureNotifier{}
		client, err := form.NewClient(srv.URL,
			form.WithTokenProvider(func(context.Context) (string, bool) { return "tok-123", true }),
			form.WithNotifier(notifier),
		)
		require.NoError(t, err)

		res := client.Submit(context.Background(), data, map[string]string{"source": "/pricing"})

		assert.True(t, res.Success)
		assert.Equal(t, "Message sent successfully!", res.Message)
		assert.Empty(t, res.Error)

		assert.Equal(t, "kari@acme.no", received["email"])
		assert.Equal(t, "tok-123", received["turnstileToken"])
		assert.Equal(t, "/pricing", received["source"])

		require.Len(t, notifier.events, 1)
		assert.Equal(t, "form_submit", notifier.events[0].Name)
		assert.Equal(t, "success", notifier.events[0].Payload["outcome"])
	})

	t.Run("missing token is not an error", func(t *testing.T) {
		t.Parallel()

		var received map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
		t.Cleanup(srv.Close)

		client, err := form.NewClient(srv.URL,
			form.WithTokenProvider(func(context.Context) (string, bool) { return "", false }))
		require.NoError(t, err)

		res := client.Submit(context.Background(), data, nil)
		assert.True(t, res.Success)
		_, hasToken := received["turnstileToken"]
		assert.False(t, hasToken)
	})

	t.Run("server error envelope is surfaced verbatim", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"Message must be at least 10 characters"}`))
		}))
		t.Cleanup(srv.Close)

		client, err := form.NewClient(srv.URL)
		require.NoError(t, err)

		res := client.Submit(context.Background(), data, nil)
		assert.False(t, res.Success)
		assert.Equal(t, "Message must be at least 10 characters", res.Error)
	})

	t.Run("non-JSON body treated as opaque error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>502 Bad Gateway</html>"))
		}))
		t.Cleanup(srv.Close)

		client, err := form.NewClient(srv.URL)
		require.NoError(t, err)

		res := client.Submit(context.Background(), data, nil)
		assert.False(t, res.Success)
		assert.Equal(t, "<html>502 Bad Gateway</html>", res.Error)
	})

	t.Run("empty error body falls back to status message", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		client, err := form.NewClient(srv.URL)
		require.NoError(t, err)

		res := client.Submit(context.Background(), data, nil)
		assert.False(t, res.Success)
		assert.Equal(t, "Request failed with status 503.", res.Error)
	})

	t.Run("network failure maps to localized generic message", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		notifier := &captureNotifier{}
		client, err := form.NewClient(srv.URL, form.WithNotifier(notifier))
		require.NoError(t, err)

		res := client.Submit(context.Background(), data, nil)
		assert.False(t, res.Success)
		assert.Equal(t, "Something went wrong. Please try again.", res.Error)

		norsk := data
		norsk.Language = "no"
		res = client.Submit(context.Background(), norsk, nil)
		assert.Equal(t, "Noe gikk galt. Vennligst prøv igjen.", res.Error)

		require.Len(t, notifier.events, 2)
		assert.Equal(t, "error", notifier.events[0].Payload["outcome"])
	})

	t.Run("2xx without success flag is a failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":false,"error":"upstream rejected the message"}`))
		}))
		t.Cleanup(srv.Close)

		client, err := form.NewClient(srv.URL)
		require.NoError(t, err)

		res := client.Submit(context.Background(), data, nil)
		assert.False(t, res.Success)
		assert.Equal(t, "upstream rejected the message", res.Error)
	})
}
