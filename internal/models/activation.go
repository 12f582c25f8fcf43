package models

import "time"

type ActivationStatus string

const (
	StatusActivated          ActivationStatus = "Activated"
	StatusEngaged            ActivationStatus = "Engaged"
	StatusOpportunityCreated ActivationStatus = "Opportunity Created"
	StatusMeetingSet         ActivationStatus = "Meeting Set"
	StatusUnresponsive       ActivationStatus = "Unresponsive"
)

// Activation is a server-computed record of an account being actively
// prospected. It is read-only here.
type Activation struct {
	ID                       string                `json:"id"`
	AccountID                string                `json:"account_id"`
	AccountName              string                `json:"account_name"`
	ActivatedBy              string                `json:"activated_by"`
	ActivatedDate            *time.Time            `json:"activated_date,omitempty"`
	ActiveContactIDs         []string              `json:"active_contact_ids"`
	TaskIDs                  []string              `json:"task_ids"`
	FirstProspectingActivity *time.Time            `json:"first_prospecting_activity,omitempty"`
	LastProspectingActivity  *time.Time            `json:"last_prospecting_activity,omitempty"`
	LastOutboundActivityDate *time.Time            `json:"last_outbound_activity_date,omitempty"`
	EngagementDate           *time.Time            `json:"engagement_date,omitempty"`
	OpportunityCreatedDate   *time.Time            `json:"opportunity_created_date,omitempty"`
	DaysActivated            int                   `json:"days_activated"`
	DaysEngaged              int                   `json:"days_engaged"`
	OpportunityAmount        float64               `json:"opportunity_amount"`
	ProspectingEffort        []ProspectingEffort   `json:"prospecting_effort"`
	ProspectingMetadata      []ProspectingMetadata `json:"prospecting_metadata"`
	Status                   ActivationStatus      `json:"status"`
}

// ProspectingEffort is a per-status slice of the activity timeline.
type ProspectingEffort struct {
	Status      ActivationStatus `json:"status"`
	DateEntered *time.Time       `json:"date_entered,omitempty"`
	TaskIDs     []string         `json:"task_ids"`
}

// ProspectingMetadata aggregates activity counts per criteria name.
type ProspectingMetadata struct {
	Name            string     `json:"name"`
	FirstOccurrence *time.Time `json:"first_occurrence,omitempty"`
	LastOccurrence  *time.Time `json:"last_occurrence,omitempty"`
	Total           int        `json:"total"`
}

// ActivitySummary is the aggregated header data for the prospecting dashboard.
type ActivitySummary struct {
	TotalActivations        int     `json:"total_activations"`
	ActivatedCount          int     `json:"activated_count"`
	EngagedCount            int     `json:"engaged_count"`
	OpportunityCreatedCount int     `json:"opportunity_created_count"`
	MeetingSetCount         int     `json:"meeting_set_count"`
	TotalTasks              int     `json:"total_tasks"`
	TotalEvents             int     `json:"total_events"`
	TotalContactsActivated  int     `json:"total_contacts_activated"`
	TotalPipelineValue      float64 `json:"total_pipeline_value"`
	AvgTasksPerActivation   float64 `json:"avg_tasks_per_activation"`
}

// SalesforceUser is a user record as returned by the prospecting API.
type SalesforceUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Role      string `json:"role,omitempty"`
}
