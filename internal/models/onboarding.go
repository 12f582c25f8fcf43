package models

import "time"

// OnboardingProgress is the persisted state of the setup wizard. Draft
// accumulates the answers that become the user's Settings on completion.
type OnboardingProgress struct {
	UserID          string    `json:"userId"`
	CurrentStep     int       `json:"currentStep"`
	Completed       bool      `json:"completed"`
	Draft           Settings  `json:"draft"`
	SelectedTaskIDs []string  `json:"selectedTaskIds"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
