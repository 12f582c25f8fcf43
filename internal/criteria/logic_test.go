package criteria

import (
	"errors"
	"strings"
	"testing"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

func TestValidateLogic(t *testing.T) {
	cases := []struct {
		logic   string
		count   int
		wantErr string
	}{
		{"1 AND 2", 2, ""},
		{"1 AND 3", 2, "3"},
		{"1 AND (2 OR 3)", 3, ""},
		{"(1 OR 2", 2, ""}, // structure is not checked
		{"1 AND 1", 1, ""},
		{"", 0, ""},
		{"12", 2, "12"},
		{"99999999999999999999", 5, "99999999999999999999"},
	}
	for _, tc := range cases {
		err := ValidateLogic(tc.logic, tc.count)
		if tc.wantErr == "" {
			if err != nil {
				t.Errorf("ValidateLogic(%q, %d) = %v, want nil", tc.logic, tc.count, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("ValidateLogic(%q, %d) = nil, want error", tc.logic, tc.count)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("error %q does not mention %q", err.Error(), tc.wantErr)
		}
		var verr *errs.ValidationError
		if !errors.As(err, &verr) || verr.Field != "filterLogic" {
			t.Errorf("expected filterLogic validation error, got %T", err)
		}
	}
}

func TestExtendLogic(t *testing.T) {
	if got := extendLogic("", 0); got != "1" {
		t.Fatalf("extendLogic empty = %q", got)
	}
	if got := extendLogic("1", 1); got != "1 AND 2" {
		t.Fatalf("extendLogic = %q", got)
	}
	if got := extendLogic("1 OR 2", 2); got != "1 OR 2 AND 3" {
		t.Fatalf("extendLogic = %q", got)
	}
	if got := extendLogic("  ", 2); got != "3" {
		t.Fatalf("extendLogic blank = %q", got)
	}
}

func TestRenumberLogic(t *testing.T) {
	before := []models.Filter{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	after := []models.Filter{{ID: "a"}, {ID: "c"}}

	got, stale := renumberLogic("1 AND 3", before, after, "b")
	if got != "1 AND 2" || stale {
		t.Fatalf("renumberLogic = %q stale=%v", got, stale)
	}

	got, stale = renumberLogic("1 OR 2", before, after, "b")
	if got != "1 OR 2" || !stale {
		t.Fatalf("renumberLogic deleted ref = %q stale=%v", got, stale)
	}
}

func TestOperatorsFor(t *testing.T) {
	if len(OperatorsFor(DataTypeInt)) != 6 {
		t.Fatalf("int should have six comparison operators")
	}
	if !IsValidOperator(DataTypePicklist, "LIKE") {
		t.Fatalf("picklist should accept LIKE")
	}
	if IsValidOperator(DataTypeString, ">") {
		t.Fatalf("string should reject >")
	}
	if !IsValidOperator("somethingNew", "=") {
		t.Fatalf("unknown datatypes fall back to string operators")
	}
}

func TestValidateContainer(t *testing.T) {
	c := models.FilterContainer{
		Name: "Outbound Calls",
		Filters: []models.Filter{
			{Field: "Subject", Operator: "LIKE", Value: "Call", DataType: DataTypeString},
			{Field: "CallDurationInSeconds", Operator: "LIKE", Value: "30", DataType: DataTypeInt},
			{Field: "", Operator: "=", DataType: DataTypeString},
		},
		FilterLogic: "1 AND 4",
	}

	issues := ValidateContainer(c)
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %+v", len(issues), issues)
	}
	if issues[0].Field != "filterLogic" || issues[0].Row != 0 {
		t.Fatalf("first issue should be logic: %+v", issues[0])
	}
	if issues[1].Row != 2 || issues[1].Field != "operator" {
		t.Fatalf("second issue should be row 2 operator: %+v", issues[1])
	}
	if issues[2].Row != 3 || issues[2].Field != "field" {
		t.Fatalf("third issue should be row 3 field: %+v", issues[2])
	}
}
