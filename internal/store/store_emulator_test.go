package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSettingsStoreWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewSettingsStore(client)

	_, err := store.Get(ctx, "missing-user")
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}

	in := sampleSettings()
	if err := store.Upsert(ctx, in); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := store.Get(ctx, in.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Criteria) != 1 || got.Criteria[0].FilterLogic != "1 AND 2" || got.MeetingObject != models.MeetingObjectEvent {
		t.Fatalf("settings = %+v", got)
	}

	seen := 0
	if err := store.List(ctx, func(*models.Settings) error { seen++; return nil }); err != nil {
		t.Fatalf("List: %v", err)
	}
	if seen == 0 {
		t.Fatal("List returned no settings")
	}
}

func TestUserStoreUpsertKeepsCreatedAt(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewUserStore(client)

	first, err := store.Upsert(ctx, &models.User{SalesforceID: "005X", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second, err := store.Upsert(ctx, &models.User{SalesforceID: "005X", Email: "b@example.com"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("createdAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	got, err := store.Get(ctx, "005X")
	if err != nil || got.Email != "b@example.com" {
		t.Fatalf("user = %+v, err = %v", got, err)
	}
}

func TestOnboardingStoreWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	store := NewOnboardingStore(client)

	p := &models.OnboardingProgress{
		UserID:          "u1",
		CurrentStep:     2,
		Draft:           models.Settings{ID: "u1", TeamMemberIDs: []string{"005A"}},
		SelectedTaskIDs: []string{"00T1"},
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CurrentStep != 2 || len(got.Draft.TeamMemberIDs) != 1 || got.SelectedTaskIDs[0] != "00T1" {
		t.Fatalf("progress = %+v", got)
	}
}
