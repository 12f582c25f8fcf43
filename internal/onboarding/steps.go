// Package onboarding declares the setup wizard: an ordered table of steps,
// each writing one part of the draft Settings.
package onboarding

import (
	"fmt"

	"github.com/GregMSThompson/insideoutbound-backend/internal/criteria"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/grid"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

type InputKind string

const (
	KindTable    InputKind = "table"
	KindNumber   InputKind = "number"
	KindPicklist InputKind = "picklist"
	KindCriteria InputKind = "criteria"
	KindToggles  InputKind = "toggles"
)

// Step ids.
const (
	StepTeamMembers          = "team-members"
	StepActivitiesPerContact = "activities-per-contact"
	StepContactsPerAccount   = "contacts-per-account"
	StepTrackingPeriod       = "tracking-period"
	StepInactivityThreshold  = "inactivity-threshold"
	StepMeetingObject        = "meeting-object"
	StepExampleTasks         = "example-tasks"
	StepReviewCriteria       = "review-criteria"
	StepActivationToggles    = "activation-toggles"
	StepMeetingCriteria      = "meeting-criteria"
)

// Toggle keys for StepActivationToggles.
const (
	ToggleActivateByMeeting     = "activateByMeeting"
	ToggleActivateByOpportunity = "activateByOpportunity"
)

type Step struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Kind        InputKind               `json:"kind"`
	Min         int                     `json:"min,omitempty"`
	Options     []models.PicklistOption `json:"options,omitempty"`
	Columns     []grid.Column           `json:"columns,omitempty"`
	Toggles     []models.PicklistOption `json:"toggles,omitempty"`
	// Requires names a toggle that must be on for the step to be shown.
	Requires string `json:"requires,omitempty"`
}

// Answer is the input submitted for a step. Only the member matching the
// step's kind is read.
type Answer struct {
	SelectedIDs []string                 `json:"selectedIds,omitempty"`
	Number      *int                     `json:"number,omitempty"`
	Choice      string                   `json:"choice,omitempty"`
	Criteria    []models.FilterContainer `json:"criteria,omitempty"`
	Toggles     map[string]bool          `json:"toggles,omitempty"`
}

var userColumns = []grid.Column{
	{ID: "select", DataType: grid.TypeSelect},
	{ID: "photo_url", Label: "", DataType: grid.TypeImage},
	{ID: "first_name", Label: "First Name"},
	{ID: "last_name", Label: "Last Name"},
	{ID: "email", Label: "Email"},
	{ID: "role", Label: "Role"},
}

var taskColumns = []grid.Column{
	{ID: "select", DataType: grid.TypeSelect},
	{ID: "Subject", Label: "Subject"},
	{ID: "Type", Label: "Type"},
	{ID: "Status", Label: "Status"},
	{ID: "ActivityDate", Label: "Date", DataType: grid.TypeDate},
}

var steps = []Step{
	{
		ID:          StepTeamMembers,
		Title:       "Select your team",
		Description: "Choose the Salesforce users whose prospecting activity should be tracked.",
		Kind:        KindTable,
		Min:         1,
		Columns:     userColumns,
	},
	{
		ID:          StepActivitiesPerContact,
		Title:       "Activities per contact",
		Description: "How many prospecting activities make a contact count as prospected?",
		Kind:        KindNumber,
		Min:         1,
	},
	{
		ID:          StepContactsPerAccount,
		Title:       "Contacts per account",
		Description: "How many prospected contacts activate an account?",
		Kind:        KindNumber,
		Min:         1,
	},
	{
		ID:          StepTrackingPeriod,
		Title:       "Tracking period",
		Description: "Within how many days must those activities happen?",
		Kind:        KindNumber,
		Min:         1,
	},
	{
		ID:          StepInactivityThreshold,
		Title:       "Inactivity threshold",
		Description: "After how many days without activity does an account become unresponsive?",
		Kind:        KindNumber,
		Min:         1,
	},
	{
		ID:          StepMeetingObject,
		Title:       "Meetings",
		Description: "Which Salesforce object records your meetings?",
		Kind:        KindPicklist,
		Options: []models.PicklistOption{
			{Label: "Task", Value: models.MeetingObjectTask},
			{Label: "Event", Value: models.MeetingObjectEvent},
		},
	},
	{
		ID:          StepExampleTasks,
		Title:       "Example activities",
		Description: "Pick tasks that represent outbound prospecting. Criteria are generated from them.",
		Kind:        KindTable,
		Min:         1,
		Columns:     taskColumns,
	},
	{
		ID:          StepReviewCriteria,
		Title:       "Review criteria",
		Description: "Adjust the generated prospecting criteria.",
		Kind:        KindCriteria,
	},
	{
		ID:          StepActivationToggles,
		Title:       "Activation rules",
		Description: "Choose what else activates an account.",
		Kind:        KindToggles,
		Toggles: []models.PicklistOption{
			{Label: "A meeting is set", Value: ToggleActivateByMeeting},
			{Label: "An opportunity is created", Value: ToggleActivateByOpportunity},
		},
	},
	{
		ID:          StepMeetingCriteria,
		Title:       "Meeting criteria",
		Description: "Which activities count as a meeting being set?",
		Kind:        KindCriteria,
		Requires:    ToggleActivateByMeeting,
	},
}

func Steps() []Step {
	return append([]Step(nil), steps...)
}

func Count() int { return len(steps) }

// Index returns the position of step id.
func Index(id string) (int, bool) {
	for i, s := range steps {
		if s.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Active reports whether step applies to the draft answers so far.
func Active(step Step, draft models.Settings) bool {
	switch step.Requires {
	case "":
		return true
	case ToggleActivateByMeeting:
		return draft.ActivateByMeeting
	case ToggleActivateByOpportunity:
		return draft.ActivateByOpportunity
	}
	return false
}

// Next returns the index of the first active step after idx, or Count()
// when none is left.
func Next(idx int, draft models.Settings) int {
	for i := idx + 1; i < len(steps); i++ {
		if Active(steps[i], draft) {
			return i
		}
	}
	return len(steps)
}

// Prev returns the index of the last active step before idx, or 0.
func Prev(idx int, draft models.Settings) int {
	for i := idx - 1; i >= 0; i-- {
		if Active(steps[i], draft) {
			return i
		}
	}
	return 0
}

// DefaultDraft is the starting point of a new wizard.
func DefaultDraft(uid string) models.Settings {
	return models.Settings{
		ID:                   uid,
		InactivityThreshold:  30,
		TrackingPeriod:       5,
		ActivitiesPerContact: 3,
		ContactsPerAccount:   2,
		MeetingObject:        models.MeetingObjectTask,
	}
}

// Apply validates a and writes it into p. It does not move CurrentStep.
func Apply(step Step, a Answer, p *models.OnboardingProgress) error {
	switch step.Kind {
	case KindTable:
		if len(a.SelectedIDs) < step.Min {
			return errs.NewFieldValidationError("selectedIds", fmt.Sprintf("select at least %d row(s)", step.Min))
		}
		ids := append([]string(nil), a.SelectedIDs...)
		if step.ID == StepTeamMembers {
			p.Draft.TeamMemberIDs = ids
		} else {
			p.SelectedTaskIDs = ids
		}

	case KindNumber:
		if a.Number == nil {
			return errs.NewFieldValidationError("number", "a value is required")
		}
		if *a.Number < step.Min {
			return errs.NewFieldValidationError("number", fmt.Sprintf("value must be at least %d", step.Min))
		}
		n := *a.Number
		switch step.ID {
		case StepActivitiesPerContact:
			p.Draft.ActivitiesPerContact = n
		case StepContactsPerAccount:
			p.Draft.ContactsPerAccount = n
		case StepTrackingPeriod:
			p.Draft.TrackingPeriod = n
		case StepInactivityThreshold:
			p.Draft.InactivityThreshold = n
		}

	case KindPicklist:
		valid := false
		for _, o := range step.Options {
			if o.Value == a.Choice {
				valid = true
				break
			}
		}
		if !valid {
			return errs.NewFieldValidationError("choice", fmt.Sprintf("%q is not a valid option", a.Choice))
		}
		p.Draft.MeetingObject = a.Choice

	case KindCriteria:
		if step.ID == StepMeetingCriteria {
			return applyMeetingCriteria(a, p)
		}
		if a.Criteria != nil {
			p.Draft.Criteria = a.Criteria
		}

	case KindToggles:
		p.Draft.ActivateByMeeting = a.Toggles[ToggleActivateByMeeting]
		p.Draft.ActivateByOpportunity = a.Toggles[ToggleActivateByOpportunity]
		if !p.Draft.ActivateByMeeting {
			p.Draft.MeetingsCriteria = models.FilterContainer{}
		}
	}
	return nil
}

func applyMeetingCriteria(a Answer, p *models.OnboardingProgress) error {
	if len(a.Criteria) != 1 || len(a.Criteria[0].Filters) == 0 {
		return errs.NewFieldValidationError("criteria", "define one meeting criteria with at least one filter")
	}
	c := a.Criteria[0]
	if err := criteria.ValidateLogic(c.FilterLogic, len(c.Filters)); err != nil {
		return err
	}
	p.Draft.MeetingsCriteria = c
	return nil
}
