package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

type settingsStore struct {
	client *firestore.Client
}

func NewSettingsStore(client *firestore.Client) *settingsStore {
	return &settingsStore{client: client}
}

func (s *settingsStore) collection() *firestore.CollectionRef {
	return s.client.Collection("settings")
}

func (s *settingsStore) Get(ctx context.Context, uid string) (*models.Settings, error) {
	doc, err := s.collection().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("settings not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get settings", err)
	}
	var d SettingsDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse settings data", err)
	}
	return ParseSettingsFromStorage(&d)
}

// Upsert writes the whole record under the user's id, keeping CreatedAt of
// an existing record.
func (s *settingsStore) Upsert(ctx context.Context, settings *models.Settings) error {
	now := time.Now()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	d, err := FormatSettingsForStorage(settings)
	if err != nil {
		return err
	}
	if _, err := s.collection().Doc(settings.ID).Set(ctx, d); err != nil {
		return errs.NewDatabaseError("upsert", "failed to save settings", err)
	}
	return nil
}

// List streams every stored settings record to fn; used by the refresh job.
func (s *settingsStore) List(ctx context.Context, fn func(*models.Settings) error) error {
	iter := s.collection().Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to list settings", err)
		}
		var d SettingsDoc
		if err := doc.DataTo(&d); err != nil {
			return errs.NewDatabaseError("read", "failed to parse settings data", err)
		}
		settings, err := ParseSettingsFromStorage(&d)
		if err != nil {
			return err
		}
		if err := fn(settings); err != nil {
			return err
		}
	}
}
