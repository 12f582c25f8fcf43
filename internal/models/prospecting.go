package models

// ProspectingActivity is the dashboard payload returned by the prospecting API.
type ProspectingActivity struct {
	Summary     ActivitySummary `json:"summary"`
	Activations []Activation    `json:"raw_data"`
}

// Record is a raw Salesforce record such as a Task or Event.
type Record map[string]any
