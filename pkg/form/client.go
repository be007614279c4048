package form

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/praxisio/contactrelay/pkg/i18n"
	"github.com/praxisio/contactrelay/pkg/telemetry"
)

//go:embed locales/messages.yaml
var messagesCatalog []byte

// Result is the interpreted outcome of one submission attempt. Network
// and server failures are folded into it; Submit never returns an error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	// ValidationErrors maps field names to server-reported messages.
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// TokenProvider supplies an anti-bot token for the payload. Absence is
// not an error; the relay treats the token as best-effort.
type TokenProvider func(ctx context.Context) (string, bool)

// Client posts form submissions to the relay endpoint and interprets its
// response envelope.
type Client struct {
	endpoint string
	hc       *http.Client
	tokens   TokenProvider
	notifier telemetry.Notifier
	tr       *i18n.Translator
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientHTTPClient sets the HTTP client used for submissions.
func WithClientHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithTokenProvider sets the anti-bot token source.
func WithTokenProvider(p TokenProvider) ClientOption {
	return func(c *Client) {
		c.tokens = p
	}
}

// WithNotifier sets the analytics notifier for submit events.
func WithNotifier(n telemetry.Notifier) ClientOption {
	return func(c *Client) {
		c.notifier = n
	}
}

// NewClient creates a submission client targeting endpoint.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, ErrEmptyEndpoint
	}

	c := &Client{
		endpoint: endpoint,
		hc:       http.DefaultClient,
		tr:       i18n.MustNewTranslator(messagesCatalog),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit posts data merged with additional page metadata and returns the
// interpreted result. All failure modes, including transport errors, come
// back as a non-success Result with a message localized for the form's
// language. An analytics event tagged success or error is fired
// best-effort on every attempt.
func (c *Client) Submit(ctx context.Context, data Data, additional map[string]string) Result {
	lang := data.lang()

	payload, err := c.buildPayload(ctx, data, additional)
	if err != nil {
		return c.finish(ctx, data, Result{Error: c.tr.T(lang, "form.network_error")})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return c.finish(ctx, data, Result{Error: c.tr.T(lang, "form.network_error")})
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return c.finish(ctx, data, Result{Error: c.tr.T(lang, "form.network_error")})
	}
	defer resp.Body.Close() //nolint:errcheck

	return c.finish(ctx, data, c.interpret(resp, lang))
}

// buildPayload serializes the form data, merges page metadata, and
// attaches the anti-bot token when one is available.
func (c *Client) buildPayload(ctx context.Context, data Data, additional map[string]string) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	for k, v := range additional {
		payload[k] = v
	}

	if c.tokens != nil {
		if token, ok := c.tokens(ctx); ok && token != "" {
			payload["turnstileToken"] = token
		}
	}

	return json.Marshal(payload)
}

// interpret maps the HTTP response onto a Result. A JSON body is parsed
// into the envelope; anything else, e.g. an HTML error page from a proxy,
// is treated as an opaque error message.
func (c *Client) interpret(resp *http.Response, lang string) Result {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var res Result
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.Unmarshal(body, &res); err != nil {
			res = Result{}
		}
	} else if len(body) > 0 {
		res.Error = strings.TrimSpace(string(body))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && res.Success {
		return res
	}

	res.Success = false
	if res.Error == "" {
		res.Error = c.tr.T(lang, "form.http_error", "status", strconv.Itoa(resp.StatusCode))
	}
	return res
}

// finish fires the analytics event and returns the result unchanged.
func (c *Client) finish(ctx context.Context, data Data, res Result) Result {
	outcome := "error"
	if res.Success {
		outcome = "success"
	}
	telemetry.TryNotify(ctx, c.notifier, telemetry.NewEvent("form_submit", data.Email, map[string]any{
		"form_type": data.FormType,
		"language":  data.lang(),
		"outcome":   outcome,
	}))
	return res
}
