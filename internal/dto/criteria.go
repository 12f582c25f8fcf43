package dto

import "github.com/GregMSThompson/insideoutbound-backend/internal/models"

// CriteriaEditRequest carries the container being edited along with one
// edit. Only the members an endpoint reads need to be set. Advisory echoes
// the advisory returned by the previous edit.
type CriteriaEditRequest struct {
	Container    models.FilterContainer `json:"container"`
	Fields       []models.FieldMeta     `json:"fields"`
	Advisory     string                 `json:"advisory,omitempty"`
	AutoRenumber bool                   `json:"autoRenumber,omitempty"`
	Field        *string                `json:"field,omitempty"`
	Operator     *string                `json:"operator,omitempty"`
	Value        *string                `json:"value,omitempty"`
	Logic        *string                `json:"logic,omitempty"`
}

type CriteriaEditResponse struct {
	Container models.FilterContainer `json:"container"`
	State     string                 `json:"state"`
	Message   string                 `json:"message,omitempty"`
	Advisory  string                 `json:"advisory,omitempty"`
}
