package store

import (
	"encoding/json"
	"time"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

// SettingsDoc is the stored form of models.Settings. Filter containers and
// team member ids are kept as JSON text.
type SettingsDoc struct {
	ID                      string     `firestore:"id"`
	InactivityThreshold     int        `firestore:"inactivity_threshold"`
	TrackingPeriod          int        `firestore:"tracking_period"`
	ActivitiesPerContact    int        `firestore:"activities_per_contact"`
	ContactsPerAccount      int        `firestore:"contacts_per_account"`
	Criteria                string     `firestore:"criteria"`
	MeetingsCriteria        string     `firestore:"meetings_criteria"`
	MeetingObject           string     `firestore:"meeting_object"`
	ActivateByMeeting       bool       `firestore:"activate_by_meeting"`
	ActivateByOpportunity   bool       `firestore:"activate_by_opportunity"`
	TeamMemberIDs           string     `firestore:"team_member_ids"`
	LatestDateQueried       *time.Time `firestore:"latest_date_queried"`
	SkipAccountCriteria     string     `firestore:"skip_account_criteria"`
	SkipOpportunityCriteria string     `firestore:"skip_opportunity_criteria"`
	CreatedAt               time.Time  `firestore:"created_at"`
	UpdatedAt               time.Time  `firestore:"updated_at"`
}

// FormatSettingsForStorage converts s to its stored form.
// ParseSettingsFromStorage is its inverse.
func FormatSettingsForStorage(s *models.Settings) (*SettingsDoc, error) {
	criteria, err := marshalField("criteria", s.Criteria)
	if err != nil {
		return nil, err
	}
	meetings, err := marshalField("meetingsCriteria", s.MeetingsCriteria)
	if err != nil {
		return nil, err
	}
	team, err := marshalField("teamMemberIds", s.TeamMemberIDs)
	if err != nil {
		return nil, err
	}
	skipAccount, err := marshalOptional("skipAccountCriteria", s.SkipAccountCriteria)
	if err != nil {
		return nil, err
	}
	skipOpportunity, err := marshalOptional("skipOpportunityCriteria", s.SkipOpportunityCriteria)
	if err != nil {
		return nil, err
	}

	return &SettingsDoc{
		ID:                      s.ID,
		InactivityThreshold:     s.InactivityThreshold,
		TrackingPeriod:          s.TrackingPeriod,
		ActivitiesPerContact:    s.ActivitiesPerContact,
		ContactsPerAccount:      s.ContactsPerAccount,
		Criteria:                criteria,
		MeetingsCriteria:        meetings,
		MeetingObject:           s.MeetingObject,
		ActivateByMeeting:       s.ActivateByMeeting,
		ActivateByOpportunity:   s.ActivateByOpportunity,
		TeamMemberIDs:           team,
		LatestDateQueried:       s.LatestDateQueried,
		SkipAccountCriteria:     skipAccount,
		SkipOpportunityCriteria: skipOpportunity,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
	}, nil
}

func ParseSettingsFromStorage(d *SettingsDoc) (*models.Settings, error) {
	s := &models.Settings{
		ID:                    d.ID,
		InactivityThreshold:   d.InactivityThreshold,
		TrackingPeriod:        d.TrackingPeriod,
		ActivitiesPerContact:  d.ActivitiesPerContact,
		ContactsPerAccount:    d.ContactsPerAccount,
		MeetingObject:         d.MeetingObject,
		ActivateByMeeting:     d.ActivateByMeeting,
		ActivateByOpportunity: d.ActivateByOpportunity,
		LatestDateQueried:     d.LatestDateQueried,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
	if err := unmarshalField("criteria", d.Criteria, &s.Criteria); err != nil {
		return nil, err
	}
	if err := unmarshalField("meetingsCriteria", d.MeetingsCriteria, &s.MeetingsCriteria); err != nil {
		return nil, err
	}
	if err := unmarshalField("teamMemberIds", d.TeamMemberIDs, &s.TeamMemberIDs); err != nil {
		return nil, err
	}
	if err := unmarshalField("skipAccountCriteria", d.SkipAccountCriteria, &s.SkipAccountCriteria); err != nil {
		return nil, err
	}
	if err := unmarshalField("skipOpportunityCriteria", d.SkipOpportunityCriteria, &s.SkipOpportunityCriteria); err != nil {
		return nil, err
	}
	return s, nil
}

func marshalField(field string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errs.NewFieldValidationError(field, "cannot encode "+field+": "+err.Error())
	}
	return string(b), nil
}

func marshalOptional(field string, c *models.FilterContainer) (string, error) {
	if c == nil {
		return "", nil
	}
	return marshalField(field, c)
}

// unmarshalField leaves dst untouched for empty text.
func unmarshalField(field, text string, dst any) error {
	if text == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		return errs.NewDatabaseError("read", "failed to parse "+field, err)
	}
	return nil
}
