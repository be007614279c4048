package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// GraphConfig holds credentials and endpoints for the Graph-style mail API.
// TokenURL and APIBase are overridable for tests and sovereign-cloud
// deployments; left empty, TokenURL is derived from the tenant.
type GraphConfig struct {
	TenantID     string `env:"GRAPH_TENANT_ID"`
	ClientID     string `env:"GRAPH_CLIENT_ID"`
	ClientSecret string `env:"GRAPH_CLIENT_SECRET"`
	SenderEmail  string `env:"GRAPH_SENDER_EMAIL"`
	TokenURL     string `env:"GRAPH_TOKEN_URL"`
	APIBase      string `env:"GRAPH_API_BASE" envDefault:"https://graph.microsoft.com/v1.0"`
	Scope        string `env:"GRAPH_SCOPE" envDefault:"https://graph.microsoft.com/.default"`
}

// GraphSender sends mail through a Graph-style sendMail endpoint using a
// bearer token obtained via the OAuth2 client-credentials flow. A failed
// token exchange surfaces as a send failure.
type GraphSender struct {
	cfg  GraphConfig
	cc   clientcredentials.Config
	base *http.Client
}

// GraphOption configures a GraphSender.
type GraphOption func(*GraphSender)

// WithHTTPClient sets the HTTP client used for both the token exchange and
// the send call. Defaults to http.DefaultClient, so timeouts are whatever
// the runtime gives us.
func WithHTTPClient(hc *http.Client) GraphOption {
	return func(s *GraphSender) {
		if hc != nil {
			s.base = hc
		}
	}
}

// NewGraphSender creates a Graph-backed sender, failing fast on incomplete
// credentials.
func NewGraphSender(cfg GraphConfig, opts ...GraphOption) (*GraphSender, error) {
	if cfg.TenantID == "" && cfg.TokenURL == "" {
		return nil, fmt.Errorf("%w: TenantID or TokenURL is required", ErrInvalidConfig)
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: ClientID is required", ErrInvalidConfig)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: ClientSecret is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID)
	}

	s := &GraphSender{
		cfg: cfg,
		cc: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{cfg.Scope},
		},
		base: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// graphMessage mirrors the sendMail request shape of the Graph API.
type graphMessage struct {
	Message         graphMessageBody `json:"message"`
	SaveToSentItems bool             `json:"saveToSentItems"`
}

type graphMessageBody struct {
	Subject      string           `json:"subject"`
	Body         graphBody        `json:"body"`
	ToRecipients []graphRecipient `json:"toRecipients"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphEmailAddress struct {
	Address string `json:"address"`
}

// Send posts the message to the sendMail endpoint. Any non-2xx response
// raises an error carrying the provider's body for diagnostics.
func (s *GraphSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	payload := graphMessage{
		Message: graphMessageBody{
			Subject: msg.Subject,
			Body: graphBody{
				ContentType: "Text",
				Content:     msg.TextBody,
			},
			ToRecipients: []graphRecipient{
				{EmailAddress: graphEmailAddress{Address: msg.To}},
			},
		},
		SaveToSentItems: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	url := fmt.Sprintf("%s/users/%s/sendMail", s.cfg.APIBase, s.cfg.SenderEmail)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	// The oauth2 transport acquires (and caches) the bearer token before
	// forwarding the request; token-exchange failures surface here.
	client := s.cc.Client(context.WithValue(ctx, oauth2.HTTPClient, s.base))
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		providerBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: mail API returned %d: %s", ErrSendFailed, resp.StatusCode, providerBody)
	}
	return nil
}
