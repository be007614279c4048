// Package relay implements the server-side trust boundary of the contact
// pipeline: a rate-limited POST endpoint that validates submissions and
// forwards them as email, logging sender addresses for abuse analysis.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/praxisio/contactrelay/pkg/clientip"
	"github.com/praxisio/contactrelay/pkg/emaildomain"
	"github.com/praxisio/contactrelay/pkg/httpserver"
	"github.com/praxisio/contactrelay/pkg/logger"
	"github.com/praxisio/contactrelay/pkg/mailer"
	"github.com/praxisio/contactrelay/pkg/ratelimit"
	"github.com/praxisio/contactrelay/pkg/requestid"
	"github.com/praxisio/contactrelay/pkg/telemetry"
)

const (
	sentMessage      = "Message sent successfully!"
	rateLimitMessage = "Too many requests. Please try again later."

	maxBodyBytes = 1 << 20
)

// ErrNilDependency is returned by NewHandler when a required collaborator
// is missing.
var ErrNilDependency = errors.New("relay: missing dependency")

// Handler serves the contact relay endpoint. Each request runs the same
// pipeline: rate-check, validate, send, log, respond; the first failing
// stage short-circuits into an error response.
type Handler struct {
	cfg       Config
	log       *slog.Logger
	limiter   ratelimit.Limiter
	limitKey  ratelimit.KeyFunc
	sender    mailer.Sender
	senderLog *SenderLog
	notifier  telemetry.Notifier
	health    []func(context.Context) error
}

// Option configures a Handler.
type Option func(*Handler)

// WithNotifier sets the analytics notifier for relayed submissions.
func WithNotifier(n telemetry.Notifier) Option {
	return func(h *Handler) {
		h.notifier = n
	}
}

// WithHealthChecks adds readiness checks to the health endpoint.
func WithHealthChecks(funcs ...func(context.Context) error) Option {
	return func(h *Handler) {
		h.health = append(h.health, funcs...)
	}
}

// WithLimitKeyFunc overrides how the rate-limit key is derived from a
// request. Defaults to the best-available client IP.
func WithLimitKeyFunc(fn ratelimit.KeyFunc) Option {
	return func(h *Handler) {
		if fn != nil {
			h.limitKey = fn
		}
	}
}

// NewHandler creates the relay handler.
func NewHandler(cfg Config, log *slog.Logger, limiter ratelimit.Limiter, sender mailer.Sender, senderLog *SenderLog, opts ...Option) (*Handler, error) {
	if log == nil || limiter == nil || sender == nil || senderLog == nil {
		return nil, ErrNilDependency
	}

	h := &Handler{
		cfg:       cfg,
		log:       log,
		limiter:   limiter,
		limitKey:  ratelimit.ByClientIP("contact"),
		sender:    sender,
		senderLog: senderLog,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Router mounts the relay's routes. Every response, including errors and
// the 404, carries the shared CORS headers; OPTIONS preflights on any
// path short-circuit with 200 and an empty body.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(corsMiddleware)

	r.Post("/api/contact", h.handleContact)
	r.Get("/healthz", httpserver.HealthCheckHandler(h.log, h.health...))

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORS(w.Header())
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not Found"))
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := clientip.GetIP(r)

	if key := h.limitKey(r); key != "" {
		res, err := h.limiter.Allow(ctx, key)
		switch {
		case err != nil:
			// A broken counter store should not take the contact form
			// down with it; let the request through and flag it.
			h.log.WarnContext(ctx, "Rate limit check failed, allowing request",
				logger.Error(err), logger.ClientIP(ip))
		case !res.Allowed:
			h.log.InfoContext(ctx, "Rate limit exceeded",
				logger.ClientIP(ip), slog.Duration("retry_after", res.RetryAfter()))
			writeError(w, http.StatusTooManyRequests, rateLimitMessage)
			return
		}
	}

	var req ContactRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "Invalid request body")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		h.log.InfoContext(ctx, "Submission rejected", logger.Error(err), logger.ClientIP(ip))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	msg := mailer.Message{
		To:       h.cfg.RecipientEmail,
		Subject:  req.SubjectOr(h.cfg.DefaultSubject),
		TextBody: req.EmailBody(),
		Tag:      req.FormType,
	}
	if err := h.sender.Send(ctx, msg); err != nil {
		h.log.ErrorContext(ctx, "Mail send failed", logger.Error(err), logger.ClientIP(ip))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.senderLog.Record(ctx, req.Email); err != nil {
		h.log.WarnContext(ctx, "Sender log write failed", logger.Error(err))
	}

	domain := req.Email[strings.LastIndex(req.Email, "@")+1:]
	telemetry.TryNotify(ctx, h.notifier, telemetry.NewEvent("contact_relayed", ip, map[string]any{
		"form_type":      req.FormType,
		"language":       req.Language,
		"consumer_email": emaildomain.IsConsumer(domain),
	}))

	h.log.InfoContext(ctx, "Submission relayed",
		logger.ClientIP(ip), logger.FormType(req.FormType))
	writeSuccess(w, sentMessage)
}
