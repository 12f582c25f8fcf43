package bootstrap

import (
	"github.com/getsentry/sentry-go"

	"github.com/GregMSThompson/insideoutbound-backend/internal/config"
)

// InitSentry is a no-op without a DSN; capture calls then go nowhere.
func InitSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      string(cfg.Environment),
		AttachStacktrace: true,
	})
}
