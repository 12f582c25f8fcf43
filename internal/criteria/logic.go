package criteria

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

var logicIndexPattern = regexp.MustCompile(`\d+`)

// ValidateLogic checks that every integer referenced by logic names an
// existing filter row. The AND/OR/parenthesis structure is not parsed.
func ValidateLogic(logic string, filterCount int) error {
	for _, tok := range logicIndexPattern.FindAllString(logic, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil || n > filterCount {
			return errs.NewFieldValidationError("filterLogic", fmt.Sprintf(
				"Invalid filter logic: filter %s does not exist (only %d filters defined)", tok, filterCount))
		}
	}
	return nil
}

// extendLogic is the default logic after appending a row to count existing rows.
func extendLogic(logic string, count int) string {
	if count == 0 || strings.TrimSpace(logic) == "" {
		return strconv.Itoa(count + 1)
	}
	return fmt.Sprintf("%s AND %d", logic, count+1)
}

// renumberLogic rewrites positional references after the row with deletedID
// was removed, resolving each position through the stable row ids. References
// to the deleted row are left in place and reported.
func renumberLogic(logic string, before, after []models.Filter, deletedID string) (string, bool) {
	positions := make(map[string]int, len(after))
	for i, f := range after {
		positions[f.ID] = i + 1
	}

	referencesDeleted := false
	out := logicIndexPattern.ReplaceAllStringFunc(logic, func(tok string) string {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > len(before) {
			return tok
		}
		id := before[n-1].ID
		if id == deletedID {
			referencesDeleted = true
			return tok
		}
		if pos, ok := positions[id]; ok {
			return strconv.Itoa(pos)
		}
		return tok
	})
	return out, referencesDeleted
}
