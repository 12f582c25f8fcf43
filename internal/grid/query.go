package grid

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
)

// Query is a server-side page request. Columns, when set, is the visible
// column set and must be drawn from the table's AvailableColumns.
type Query struct {
	Search      string    `json:"search"`
	SortColumn  string    `json:"sortColumn"`
	SortDir     Direction `json:"sortDirection"`
	Page        int       `json:"page"`
	RowsPerPage int       `json:"rowsPerPage"`
	Columns     []string  `json:"columns,omitempty"`
}

// Page is one page of a table, with the rendered view next to the raw rows.
type Page struct {
	Columns     []Column `json:"columns"`
	Rows        []Row    `json:"rows"`
	View        View     `json:"view"`
	TotalItems  int      `json:"totalItems"`
	Page        int      `json:"page"`
	RowsPerPage int      `json:"rowsPerPage"`
}

// Apply runs q against data through a client-side Grid and returns the
// resulting page. The input is not modified.
func Apply(data TableData, q Query) (Page, error) {
	if q.RowsPerPage <= 0 {
		q.RowsPerPage = DefaultRowsPerPage
	}
	if q.Page < 0 {
		q.Page = 0
	}

	g := New(data,
		WithPagination(PaginationConfig{Type: ClientSide, RowsPerPage: q.RowsPerPage}),
		WithSort(q.sortState()),
	)
	defer g.Close()

	if err := showColumns(g, q.Columns); err != nil {
		return Page{}, err
	}
	if q.Search != "" {
		g.Search(q.Search)
		g.FlushSearch()
	}
	// searching resets the page, so the requested one is applied last
	g.SetPage(q.Page)

	return Page{
		Columns:     g.Columns(),
		Rows:        g.Rows(),
		View:        g.View(),
		TotalItems:  g.TotalItems(),
		Page:        g.Page(),
		RowsPerPage: q.RowsPerPage,
	}, nil
}

func (q Query) sortState() SortState {
	if q.SortColumn == "" {
		return SortState{}
	}
	dir := q.SortDir
	if dir != Desc {
		dir = Asc
	}
	return SortState{Column: q.SortColumn, Direction: dir}
}

// showColumns toggles g until exactly ids are visible.
func showColumns(g *Grid, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for _, c := range g.Columns() {
		if _, ok := want[c.ID]; !ok {
			if err := g.ToggleColumn(c.ID); err != nil {
				return err
			}
		}
	}
	visible := make(map[string]struct{}, len(ids))
	for _, c := range g.Columns() {
		visible[c.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := visible[id]; ok {
			continue
		}
		if err := g.ToggleColumn(id); err != nil {
			return errs.NewFieldValidationError("columns", fmt.Sprintf("column %q is not available", id))
		}
		visible[id] = struct{}{}
	}
	return nil
}

// filterRows keeps rows where any stringified value contains term, ignoring case.
func filterRows(rows []Row, term string) []Row {
	out := make([]Row, 0, len(rows))
	needle := strings.ToLower(strings.TrimSpace(term))
	for _, r := range rows {
		if needle == "" || rowMatches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func rowMatches(r Row, needle string) bool {
	for _, v := range r {
		if v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}

func sortRows(rows []Row, s SortState) {
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareValues(rows[i][s.Column], rows[j][s.Column])
		if s.Direction == Desc {
			return c > 0
		}
		return c < 0
	})
}

func pageRows(rows []Row, page, perPage int) []Row {
	start := page * perPage
	if start >= len(rows) {
		return []Row{}
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// compareValues orders nil first, then numbers, times and strings by their
// natural order. Mixed kinds fall back to string comparison.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}
