package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GregMSThompson/insideoutbound-backend/internal/bootstrap"
	"github.com/GregMSThompson/insideoutbound-backend/internal/client/prospecting"
	"github.com/GregMSThompson/insideoutbound-backend/internal/config"
	"github.com/GregMSThompson/insideoutbound-backend/internal/crypto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/services"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
	"github.com/GregMSThompson/insideoutbound-backend/internal/store"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// The service binary runs the scheduled activity refresh once and exits.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()
	ctx = logger.ToContext(ctx, bs.Log.With("job", "activity-refresh"))

	// secrets
	secrets := store.NewSecretStore(bs.Secrets, cfg.ProjectID)
	serviceKey, err := secrets.Latest(ctx, cfg.ServiceKeySecret)
	exitOnError("failed to load service key", err, bs.Log)

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	api := prospecting.New(cfg.APIBaseURL, nil, serviceKey)

	// stores
	sestore := store.NewSettingsStore(bs.Firestore)
	ssstore := store.NewSessionStore(bs.Firestore)

	// services
	sessions := session.NewManager(ssstore, kmsHelper, api)
	job := services.NewRefreshJob(sestore, sessions, api)

	_, err = job.Run(ctx)
	exitOnError("activity refresh failed", err, bs.Log)
}
