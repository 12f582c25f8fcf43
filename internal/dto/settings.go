package dto

import "github.com/GregMSThompson/insideoutbound-backend/internal/criteria"

// SettingsValidation lists advisory problems in a settings payload.
type SettingsValidation struct {
	Valid  bool             `json:"valid"`
	Issues []criteria.Issue `json:"issues"`
}

// PatchResponse reports a queued autosave.
type PatchResponse struct {
	Pending bool `json:"pending"`
}
