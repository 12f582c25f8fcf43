package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	kms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"
	"github.com/getsentry/sentry-go"

	"github.com/GregMSThompson/insideoutbound-backend/internal/config"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	KMS       *kms.KeyManagementClient
	Secrets   *secretmanager.Client
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err = InitSentry(cfg); err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.KMS, err = InitKMS(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.Secrets, err = InitSecretManager(applicationCtx)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

// Close releases every client Run opened. Safe on a partially built Bootstrap.
func (bs *Bootstrap) Close() {
	if bs.Secrets != nil {
		bs.Secrets.Close()
	}
	if bs.KMS != nil {
		bs.KMS.Close()
	}
	if bs.Firestore != nil {
		bs.Firestore.Close()
	}
	sentry.Flush(2 * time.Second)
}
