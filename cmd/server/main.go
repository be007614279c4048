// Command server runs the contact relay: a rate-limited HTTP endpoint that
// validates form submissions and forwards them as email.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/praxisio/contactrelay/internal/relay"
	"github.com/praxisio/contactrelay/pkg/config"
	"github.com/praxisio/contactrelay/pkg/httpserver"
	"github.com/praxisio/contactrelay/pkg/kvstore"
	"github.com/praxisio/contactrelay/pkg/logger"
	"github.com/praxisio/contactrelay/pkg/mailer"
	"github.com/praxisio/contactrelay/pkg/ratelimit"
	"github.com/praxisio/contactrelay/pkg/requestid"
	"github.com/praxisio/contactrelay/pkg/telemetry"
)

type appConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`

	// MailDriver selects the outbound backend: graph, postmark, or dev.
	MailDriver string `env:"MAIL_DRIVER" envDefault:"dev"`
	// MailOutDir is where the dev driver writes messages.
	MailOutDir string `env:"MAIL_OUT_DIR" envDefault:"./outbox"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		app      appConfig
		httpCfg  httpserver.Config
		relayCfg relay.Config
		redisCfg kvstore.RedisConfig
		phCfg    telemetry.PostHogConfig
	)
	for _, err := range []error{
		config.Load(&app),
		config.Load(&httpCfg),
		config.Load(&relayCfg),
		config.Load(&redisCfg),
		config.Load(&phCfg),
	} {
		if err != nil {
			return err
		}
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, "contactrelay"),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			id := requestid.FromContext(ctx)
			return logger.RequestID(id), id != ""
		}),
	)

	var (
		store  kvstore.Store
		checks []func(context.Context) error
	)
	if redisCfg.ConnectionURL != "" {
		rs, err := kvstore.ConnectRedis(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rs.Close() //nolint:errcheck
		store = rs
		checks = append(checks, rs.Healthcheck())
		log.Info("Using redis store")
	} else {
		ms := kvstore.NewMemoryStore()
		defer ms.Close()
		store = ms
		log.Warn("REDIS_URL not set, using in-memory store; rate limits reset on restart")
	}

	limiter, err := ratelimit.NewSlidingWindow(store, relayCfg.RateMax, relayCfg.RateWindow)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	sender, err := newSender(app)
	if err != nil {
		return fmt.Errorf("mail driver: %w", err)
	}

	notifier, err := telemetry.NewPostHog(phCfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer notifier.Close() //nolint:errcheck

	handler, err := relay.NewHandler(relayCfg, log, limiter, sender,
		relay.NewSenderLog(store, relayCfg.SenderLogTTL),
		relay.WithNotifier(notifier),
		relay.WithHealthChecks(checks...),
	)
	if err != nil {
		return fmt.Errorf("relay handler: %w", err)
	}

	log.Info("Starting contact relay",
		slog.String("addr", httpCfg.Addr),
		slog.String("mail_driver", app.MailDriver),
		slog.String("env", app.Env),
	)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, handler.Router())
}

func newSender(app appConfig) (mailer.Sender, error) {
	switch app.MailDriver {
	case "graph":
		var cfg mailer.GraphConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		return mailer.NewGraphSender(cfg)
	case "postmark":
		var cfg mailer.PostmarkConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		return mailer.NewPostmarkSender(cfg)
	case "dev":
		return mailer.NewDevSender(app.MailOutDir), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_DRIVER %q", app.MailDriver)
	}
}
