package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

type onboardingDoc struct {
	UserID          string       `firestore:"userId"`
	CurrentStep     int          `firestore:"currentStep"`
	Completed       bool         `firestore:"completed"`
	Draft           *SettingsDoc `firestore:"draft"`
	SelectedTaskIDs []string     `firestore:"selectedTaskIds"`
	UpdatedAt       time.Time    `firestore:"updatedAt"`
}

type onboardingStore struct {
	client *firestore.Client
}

func NewOnboardingStore(client *firestore.Client) *onboardingStore {
	return &onboardingStore{client: client}
}

func (s *onboardingStore) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("onboarding").Doc("progress")
}

func (s *onboardingStore) Get(ctx context.Context, uid string) (*models.OnboardingProgress, error) {
	snap, err := s.doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("onboarding progress not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get onboarding progress", err)
	}
	var d onboardingDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse onboarding progress", err)
	}

	p := &models.OnboardingProgress{
		UserID:          d.UserID,
		CurrentStep:     d.CurrentStep,
		Completed:       d.Completed,
		SelectedTaskIDs: d.SelectedTaskIDs,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Draft != nil {
		draft, err := ParseSettingsFromStorage(d.Draft)
		if err != nil {
			return nil, err
		}
		p.Draft = *draft
	}
	return p, nil
}

func (s *onboardingStore) Save(ctx context.Context, p *models.OnboardingProgress) error {
	p.UpdatedAt = time.Now()
	draft, err := FormatSettingsForStorage(&p.Draft)
	if err != nil {
		return err
	}
	d := onboardingDoc{
		UserID:          p.UserID,
		CurrentStep:     p.CurrentStep,
		Completed:       p.Completed,
		Draft:           draft,
		SelectedTaskIDs: p.SelectedTaskIDs,
		UpdatedAt:       p.UpdatedAt,
	}
	if _, err := s.doc(p.UserID).Set(ctx, d); err != nil {
		return errs.NewDatabaseError("upsert", "failed to save onboarding progress", err)
	}
	return nil
}
