package models

// Filter is one (field, operator, value) row of a FilterContainer.
type Filter struct {
	ID       string           `json:"id,omitempty"`
	Field    string           `json:"field"`
	Operator string           `json:"operator"`
	Value    string           `json:"value"`
	DataType string           `json:"dataType"`
	Options  []PicklistOption `json:"options,omitempty"`
}

type PicklistOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FilterContainer is a named set of filter rows combined by FilterLogic,
// a boolean expression over 1-based row positions such as "1 AND (2 OR 3)".
type FilterContainer struct {
	Name        string   `json:"name"`
	Filters     []Filter `json:"filters"`
	FilterLogic string   `json:"filterLogic"`
}

// FieldMeta describes a Salesforce field the criteria builder can filter on.
type FieldMeta struct {
	Name    string           `json:"name"`
	Label   string           `json:"label"`
	Type    string           `json:"type"`
	Options []PicklistOption `json:"options,omitempty"`
}
