package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/GregMSThompson/insideoutbound-backend/internal/criteria"
	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

type settingsStore interface {
	Get(ctx context.Context, uid string) (*models.Settings, error)
	Upsert(ctx context.Context, settings *models.Settings) error
}

type settingsService struct {
	store    settingsStore
	autosave *Autosaver
}

func NewSettingsService(store settingsStore, autosave *Autosaver) *settingsService {
	return &settingsService{store: store, autosave: autosave}
}

// Get returns the stored settings with any unsaved edit applied, so a reload
// during the autosave window shows what the user typed.
func (s *settingsService) Get(ctx context.Context, uid string) (*models.Settings, error) {
	settings, err := s.store.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if patch, ok := s.autosave.Pending(uid); ok {
		patch.Apply(settings)
	}
	return settings, nil
}

// Save replaces the whole record. A pending autosave for the user is dropped
// and one already writing finishes first.
func (s *settingsService) Save(ctx context.Context, uid string, settings *models.Settings) (*models.Settings, error) {
	log := logger.FromContext(ctx)

	settings.ID = uid
	if issues := fieldIssues(settings); len(issues) > 0 {
		return nil, errs.NewFieldValidationError(issues[0].Field, issues[0].Message)
	}

	s.autosave.Cancel(uid)
	unlock := s.autosave.lockUser(uid)
	defer unlock()

	existing, err := s.store.Get(ctx, uid)
	var nf *errs.NotFoundError
	switch {
	case err == nil:
		settings.CreatedAt = existing.CreatedAt
	case !errors.As(err, &nf):
		return nil, err
	}

	if err := s.store.Upsert(ctx, settings); err != nil {
		log.Error("failed to save settings", "error", err)
		return nil, err
	}
	log.Info("settings saved")
	return settings, nil
}

// Patch validates a field-level edit and queues it for autosave. It returns
// the settings as they will look once saved.
func (s *settingsService) Patch(ctx context.Context, uid string, patch models.SettingsPatch) (*models.Settings, error) {
	current, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	preview := *current
	patch.Apply(&preview)
	if issues := fieldIssues(&preview); len(issues) > 0 {
		return nil, errs.NewFieldValidationError(issues[0].Field, issues[0].Message)
	}

	if err := s.autosave.Queue(uid, patch); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("settings edit queued")
	return &preview, nil
}

// Validate reports field errors and advisory criteria issues without saving.
func (s *settingsService) Validate(_ context.Context, settings *models.Settings) dto.SettingsValidation {
	issues := fieldIssues(settings)
	for _, c := range settings.Criteria {
		issues = append(issues, criteria.ValidateContainer(c)...)
	}
	if len(settings.MeetingsCriteria.Filters) > 0 {
		issues = append(issues, criteria.ValidateContainer(settings.MeetingsCriteria)...)
	}
	for _, c := range []*models.FilterContainer{settings.SkipAccountCriteria, settings.SkipOpportunityCriteria} {
		if c != nil {
			issues = append(issues, criteria.ValidateContainer(*c)...)
		}
	}
	if issues == nil {
		issues = []criteria.Issue{}
	}
	return dto.SettingsValidation{Valid: len(issues) == 0, Issues: issues}
}

func fieldIssues(s *models.Settings) []criteria.Issue {
	var issues []criteria.Issue
	positive := []struct {
		field string
		value int
	}{
		{"inactivityThreshold", s.InactivityThreshold},
		{"trackingPeriod", s.TrackingPeriod},
		{"activitiesPerContact", s.ActivitiesPerContact},
		{"contactsPerAccount", s.ContactsPerAccount},
	}
	for _, p := range positive {
		if p.value < 1 {
			issues = append(issues, criteria.Issue{Field: p.field, Message: fmt.Sprintf("%s must be at least 1", p.field)})
		}
	}
	if s.MeetingObject != models.MeetingObjectTask && s.MeetingObject != models.MeetingObjectEvent {
		issues = append(issues, criteria.Issue{Field: "meetingObject", Message: "meetingObject must be Task or Event"})
	}
	return issues
}
