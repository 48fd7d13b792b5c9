package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/9ssi7/exponent"
	"github.com/joho/godotenv"

	"cartrecovery/internal/config"
	"cartrecovery/internal/docstore"
	"cartrecovery/internal/domain/dispatch"
	"cartrecovery/internal/logging"
)

// main wires the abandonment pipeline's components together: the document
// store gateway, the dispatch gate with its optional delivery senders, and a
// logger. Running a scheduled detect-diagnose-decide-dispatch-record pass is
// an orchestrator concern spec.md §1 explicitly leaves out of scope; this
// entrypoint only proves the components wire together, the way an
// integration smoke test would.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if os.Getenv("DOCKER") == "" && env == "development" {
		_ = godotenv.Load(".env.development")
	}

	logger, err := logging.New(env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gw, err := docstore.New(ctx, docstore.Config{
		URL:      cfg.Store.URL,
		APIKey:   cfg.Store.APIKey,
		Username: cfg.Store.Username,
		Password: cfg.Store.Password,
		Timeout:  cfg.Store.Timeout,
	}, logger)
	if err != nil {
		logger.Fatalw("document store gateway unavailable", "error", err)
	}
	_ = gw

	senders := map[string]dispatch.Sender{}
	if cfg.Mail.FromEmail != "" {
		senders["email"] = dispatch.NewMailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.FromEmail)
	}
	if cfg.Push.Enabled {
		pushClient := exponent.NewClient(exponent.WithHttpClient(&http.Client{Timeout: cfg.Push.Timeout}))
		senders["push"] = dispatch.NewPushSender(pushClient)
	}

	gate := dispatch.New(senders, logger)
	_ = gate

	logger.Infow("abandoned cart recovery components ready",
		"env", env,
		"mail_sender_configured", senders["email"] != nil,
		"push_sender_configured", senders["push"] != nil,
	)
}
