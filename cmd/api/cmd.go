package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/insideoutbound-backend/internal/bootstrap"
	"github.com/GregMSThompson/insideoutbound-backend/internal/client/prospecting"
	"github.com/GregMSThompson/insideoutbound-backend/internal/config"
	"github.com/GregMSThompson/insideoutbound-backend/internal/crypto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/handlers"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
	"github.com/GregMSThompson/insideoutbound-backend/internal/router"
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

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// secrets
	secrets := store.NewSecretStore(bs.Secrets, cfg.ProjectID)
	serviceKey, err := secrets.Latest(logger.ToContext(ctx, bs.Log), cfg.ServiceKeySecret)
	exitOnError("failed to load service key", err, bs.Log)

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	api := prospecting.New(cfg.APIBaseURL, nil, serviceKey)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	sestore := store.NewSettingsStore(bs.Firestore)
	ssstore := store.NewSessionStore(bs.Firestore)
	obstore := store.NewOnboardingStore(bs.Firestore)

	// sessions
	sessions := session.NewManager(ssstore, kmsHelper, api)

	// services
	autosaver := services.NewAutosaver(sestore, cfg.AutosaveDelay, bs.Log)
	defer autosaver.Close()
	userv := services.NewUserService(ustore)
	seserv := services.NewSettingsService(sestore, autosaver)
	observ := services.NewOnboardingService(obstore, sestore, api)
	dbserv := services.NewDashboardService(api, sestore)
	sfserv := services.NewSalesforceService(api)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.Sessions = sessions
	deps.UserSvc = userv
	deps.SettingsSvc = seserv
	deps.OnboardingSvc = observ
	deps.DashboardSvc = dbserv
	deps.SalesforceSvc = sfserv
	deps.PublicConfig = dto.PublicConfig{
		Environment:          string(cfg.Environment),
		StripePublishableKey: cfg.StripePublishableKey,
		SentryDSN:            cfg.SentryDSN,
	}

	// router
	r := router.NewRouter(deps)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	bs.Log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
