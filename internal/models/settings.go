package models

import "time"

const (
	MeetingObjectTask  = "Task"
	MeetingObjectEvent = "Event"
)

// Settings is the single per-user configuration record. ID is the user id.
type Settings struct {
	ID                      string            `json:"id"`
	InactivityThreshold     int               `json:"inactivityThreshold"`
	TrackingPeriod          int               `json:"trackingPeriod"`
	ActivitiesPerContact    int               `json:"activitiesPerContact"`
	ContactsPerAccount      int               `json:"contactsPerAccount"`
	Criteria                []FilterContainer `json:"criteria"`
	MeetingsCriteria        FilterContainer   `json:"meetingsCriteria"`
	MeetingObject           string            `json:"meetingObject"`
	ActivateByMeeting       bool              `json:"activateByMeeting"`
	ActivateByOpportunity   bool              `json:"activateByOpportunity"`
	TeamMemberIDs           []string          `json:"teamMemberIds"`
	LatestDateQueried       *time.Time        `json:"latestDateQueried,omitempty"`
	SkipAccountCriteria     *FilterContainer  `json:"skipAccountCriteria,omitempty"`
	SkipOpportunityCriteria *FilterContainer  `json:"skipOpportunityCriteria,omitempty"`
	CreatedAt               time.Time         `json:"createdAt"`
	UpdatedAt               time.Time         `json:"updatedAt"`
}

// SettingsPatch carries a field-level edit from the settings console.
// Nil fields are left untouched.
type SettingsPatch struct {
	InactivityThreshold     *int              `json:"inactivityThreshold,omitempty"`
	TrackingPeriod          *int              `json:"trackingPeriod,omitempty"`
	ActivitiesPerContact    *int              `json:"activitiesPerContact,omitempty"`
	ContactsPerAccount      *int              `json:"contactsPerAccount,omitempty"`
	Criteria                []FilterContainer `json:"criteria,omitempty"`
	MeetingsCriteria        *FilterContainer  `json:"meetingsCriteria,omitempty"`
	MeetingObject           *string           `json:"meetingObject,omitempty"`
	ActivateByMeeting       *bool             `json:"activateByMeeting,omitempty"`
	ActivateByOpportunity   *bool             `json:"activateByOpportunity,omitempty"`
	TeamMemberIDs           []string          `json:"teamMemberIds,omitempty"`
	LatestDateQueried       *time.Time        `json:"latestDateQueried,omitempty"`
	SkipAccountCriteria     *FilterContainer  `json:"skipAccountCriteria,omitempty"`
	SkipOpportunityCriteria *FilterContainer  `json:"skipOpportunityCriteria,omitempty"`
}

// Apply merges the non-nil fields of p into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.InactivityThreshold != nil {
		s.InactivityThreshold = *p.InactivityThreshold
	}
	if p.TrackingPeriod != nil {
		s.TrackingPeriod = *p.TrackingPeriod
	}
	if p.ActivitiesPerContact != nil {
		s.ActivitiesPerContact = *p.ActivitiesPerContact
	}
	if p.ContactsPerAccount != nil {
		s.ContactsPerAccount = *p.ContactsPerAccount
	}
	if p.Criteria != nil {
		s.Criteria = p.Criteria
	}
	if p.MeetingsCriteria != nil {
		s.MeetingsCriteria = *p.MeetingsCriteria
	}
	if p.MeetingObject != nil {
		s.MeetingObject = *p.MeetingObject
	}
	if p.ActivateByMeeting != nil {
		s.ActivateByMeeting = *p.ActivateByMeeting
	}
	if p.ActivateByOpportunity != nil {
		s.ActivateByOpportunity = *p.ActivateByOpportunity
	}
	if p.TeamMemberIDs != nil {
		s.TeamMemberIDs = p.TeamMemberIDs
	}
	if p.LatestDateQueried != nil {
		s.LatestDateQueried = p.LatestDateQueried
	}
	if p.SkipAccountCriteria != nil {
		s.SkipAccountCriteria = p.SkipAccountCriteria
	}
	if p.SkipOpportunityCriteria != nil {
		s.SkipOpportunityCriteria = p.SkipOpportunityCriteria
	}
}

// Merge folds a later patch over p; fields set in next win.
func (p SettingsPatch) Merge(next SettingsPatch) SettingsPatch {
	out := p
	if next.InactivityThreshold != nil {
		out.InactivityThreshold = next.InactivityThreshold
	}
	if next.TrackingPeriod != nil {
		out.TrackingPeriod = next.TrackingPeriod
	}
	if next.ActivitiesPerContact != nil {
		out.ActivitiesPerContact = next.ActivitiesPerContact
	}
	if next.ContactsPerAccount != nil {
		out.ContactsPerAccount = next.ContactsPerAccount
	}
	if next.Criteria != nil {
		out.Criteria = next.Criteria
	}
	if next.MeetingsCriteria != nil {
		out.MeetingsCriteria = next.MeetingsCriteria
	}
	if next.MeetingObject != nil {
		out.MeetingObject = next.MeetingObject
	}
	if next.ActivateByMeeting != nil {
		out.ActivateByMeeting = next.ActivateByMeeting
	}
	if next.ActivateByOpportunity != nil {
		out.ActivateByOpportunity = next.ActivateByOpportunity
	}
	if next.TeamMemberIDs != nil {
		out.TeamMemberIDs = next.TeamMemberIDs
	}
	if next.LatestDateQueried != nil {
		out.LatestDateQueried = next.LatestDateQueried
	}
	if next.SkipAccountCriteria != nil {
		out.SkipAccountCriteria = next.SkipAccountCriteria
	}
	if next.SkipOpportunityCriteria != nil {
		out.SkipOpportunityCriteria = next.SkipOpportunityCriteria
	}
	return out
}
