package criteria

import (
	"fmt"

	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

// Issue is a problem found in a saved container. Row is 1-based; 0 means
// the logic expression.
type Issue struct {
	Container string `json:"container"`
	Row       int    `json:"row,omitempty"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// ValidateContainer reports logic bounds and operator/datatype mismatches.
// Issues are advisory: saving is never blocked on them.
func ValidateContainer(c models.FilterContainer) []Issue {
	var issues []Issue
	if err := ValidateLogic(c.FilterLogic, len(c.Filters)); err != nil {
		issues = append(issues, Issue{Container: c.Name, Field: "filterLogic", Message: err.Error()})
	}
	for i, f := range c.Filters {
		if f.Field == "" {
			issues = append(issues, Issue{Container: c.Name, Row: i + 1, Field: "field", Message: "field is required"})
			continue
		}
		if f.Operator != "" && !IsValidOperator(f.DataType, f.Operator) {
			issues = append(issues, Issue{
				Container: c.Name,
				Row:       i + 1,
				Field:     "operator",
				Message:   fmt.Sprintf("operator %q is not valid for %s fields", f.Operator, f.DataType),
			})
		}
	}
	return issues
}
