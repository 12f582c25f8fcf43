package grid

import (
	"fmt"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
)

// Column datatypes that change how a cell renders.
const (
	TypeSelect   = "select"
	TypeImage    = "image"
	TypeDate     = "date"
	TypeDateTime = "datetime"
	TypeNumber   = "number"
)

type Column struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	DataType string `json:"dataType,omitempty"`
}

// Row is one record; every row carries an "id" key.
type Row map[string]any

func (r Row) ID() string {
	if v, ok := r["id"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

type TableData struct {
	Columns          []Column `json:"columns"`
	Data             []Row    `json:"data"`
	SelectedIDs      []string `json:"selectedIds"`
	AvailableColumns []Column `json:"availableColumns,omitempty"`
}

// Validate checks column id uniqueness, the presence of row ids and that
// columns are drawn from AvailableColumns when it is set.
func (t TableData) Validate() error {
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := seen[c.ID]; dup {
			return errs.NewValidationError(fmt.Sprintf("duplicate column id %q", c.ID))
		}
		seen[c.ID] = struct{}{}
	}
	if len(t.AvailableColumns) > 0 {
		available := make(map[string]struct{}, len(t.AvailableColumns))
		for _, c := range t.AvailableColumns {
			available[c.ID] = struct{}{}
		}
		for _, c := range t.Columns {
			if _, ok := available[c.ID]; !ok {
				return errs.NewValidationError(fmt.Sprintf("column %q is not in availableColumns", c.ID))
			}
		}
	}
	for i, r := range t.Data {
		if r.ID() == "" {
			return errs.NewValidationError(fmt.Sprintf("row %d has no id", i))
		}
	}
	return nil
}

func (t TableData) clone() TableData {
	return TableData{
		Columns:          append([]Column(nil), t.Columns...),
		Data:             append([]Row(nil), t.Data...),
		SelectedIDs:      append([]string(nil), t.SelectedIDs...),
		AvailableColumns: append([]Column(nil), t.AvailableColumns...),
	}
}

type PaginationType string

const (
	ClientSide PaginationType = "client-side"
	ServerSide PaginationType = "server-side"
)

const DefaultRowsPerPage = 10

type PaginationConfig struct {
	Type        PaginationType `json:"type"`
	TotalItems  int            `json:"totalItems"`
	Page        int            `json:"page"`
	RowsPerPage int            `json:"rowsPerPage"`
}

// normalized treats a missing or unknown type as client side.
func (p PaginationConfig) normalized() PaginationConfig {
	if p.Type != ServerSide {
		p.Type = ClientSide
	}
	if p.RowsPerPage <= 0 {
		p.RowsPerPage = DefaultRowsPerPage
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Toggle returns the state after a click on column: a new column sorts
// ascending, the same column flips direction.
func (s SortState) Toggle(column string) SortState {
	if s.Column != column {
		return SortState{Column: column, Direction: Asc}
	}
	if s.Direction == Asc {
		return SortState{Column: column, Direction: Desc}
	}
	return SortState{Column: column, Direction: Asc}
}
