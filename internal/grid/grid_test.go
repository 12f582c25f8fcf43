package grid

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
)

func makeRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"id": fmt.Sprintf("r%02d", i), "name": fmt.Sprintf("Contact %02d", i), "score": i}
	}
	return rows
}

func testTable(n int) TableData {
	cols := []Column{
		{ID: "select", Label: "", DataType: TypeSelect},
		{ID: "name", Label: "Name"},
		{ID: "score", Label: "Score", DataType: TypeNumber},
	}
	return TableData{
		Columns:          cols,
		Data:             makeRows(n),
		AvailableColumns: append(cols, Column{ID: "email", Label: "Email"}),
	}
}

func TestSortTogglesDirectionAndResetsPage(t *testing.T) {
	var sorts []SortState
	var pages []int
	g := New(testTable(25), WithCallbacks(Callbacks{
		OnSortChange: func(s SortState) { sorts = append(sorts, s) },
		OnPageChange: func(p int) { pages = append(pages, p) },
	}))
	defer g.Close()

	g.Sort("score")
	if got := g.SortState(); got != (SortState{Column: "score", Direction: Asc}) {
		t.Fatalf("first click = %+v, want score asc", got)
	}

	g.SetPage(2)
	g.Sort("score")
	if got := g.SortState(); got.Direction != Desc {
		t.Fatalf("second click direction = %s, want desc", got.Direction)
	}
	if g.Page() != 0 {
		t.Fatalf("page after sort = %d, want 0", g.Page())
	}

	rows := g.Rows()
	if rows[0].ID() != "r24" {
		t.Fatalf("first row = %s, want r24", rows[0].ID())
	}

	g.Sort("name")
	if got := g.SortState(); got != (SortState{Column: "name", Direction: Asc}) {
		t.Fatalf("new column = %+v, want name asc", got)
	}
	if len(sorts) != 3 {
		t.Fatalf("OnSortChange calls = %d, want 3", len(sorts))
	}
	// SetPage(2), then the reset to 0 from the second sort
	if len(pages) != 2 || pages[1] != 0 {
		t.Fatalf("page callbacks = %v, want [2 0]", pages)
	}
}

func TestClientPaginationLastPage(t *testing.T) {
	g := New(testTable(25), WithPagination(PaginationConfig{RowsPerPage: 10}))
	defer g.Close()

	if g.Mode() != ClientSide {
		t.Fatalf("mode = %s, want client-side default", g.Mode())
	}
	g.SetPage(2)
	rows := g.Rows()
	if len(rows) != 5 {
		t.Fatalf("rows on page 2 = %d, want 5", len(rows))
	}
	if rows[0].ID() != "r20" {
		t.Fatalf("first row on page 2 = %s, want r20", rows[0].ID())
	}
	if g.TotalItems() != 25 {
		t.Fatalf("total = %d, want 25", g.TotalItems())
	}
}

func TestSetRowsPerPageResetsPage(t *testing.T) {
	var got int
	g := New(testTable(25), WithCallbacks(Callbacks{OnRowsPerPageChange: func(n int) { got = n }}))
	defer g.Close()

	g.SetPage(1)
	g.SetRowsPerPage(25)
	if g.Page() != 0 || got != 25 {
		t.Fatalf("page=%d rowsPerPage callback=%d, want 0 and 25", g.Page(), got)
	}
	if len(g.Rows()) != 25 {
		t.Fatalf("rows = %d, want 25", len(g.Rows()))
	}
}

func TestServerSideSearchIsDebouncedAndThresholded(t *testing.T) {
	var mu sync.Mutex
	var searches []string
	fired := make(chan struct{}, 4)

	g := New(testTable(5),
		WithPagination(PaginationConfig{Type: ServerSide, TotalItems: 120}),
		WithSearchDelay(40*time.Millisecond),
		WithCallbacks(Callbacks{OnSearch: func(term string) {
			mu.Lock()
			searches = append(searches, term)
			mu.Unlock()
			fired <- struct{}{}
		}}),
	)
	defer g.Close()

	for _, term := range []string{"a", "ac", "acm", "acme"} {
		g.Search(term)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("search never forwarded")
	}
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	got := append([]string(nil), searches...)
	mu.Unlock()
	if len(got) != 1 || got[0] != "acme" {
		t.Fatalf("searches = %v, want [acme]", got)
	}

	// three characters or fewer are not forwarded, empty is
	g.Search("acm")
	g.FlushSearch()
	g.Search("éé")
	g.FlushSearch()
	g.Search("")
	g.FlushSearch()
	g.Search("café")
	g.FlushSearch()

	mu.Lock()
	got = append([]string(nil), searches...)
	mu.Unlock()
	if len(got) != 3 || got[1] != "" || got[2] != "café" {
		t.Fatalf("searches = %q, want [acme \"\" café]", got)
	}
	if g.TotalItems() != 120 {
		t.Fatalf("server total = %d, want 120", g.TotalItems())
	}
}

func TestClientSideSearchFiltersLocally(t *testing.T) {
	g := New(testTable(25), WithSearchDelay(time.Hour))
	defer g.Close()

	g.SetPage(1)
	g.Search("contact 1")
	g.FlushSearch()

	if g.Page() != 0 {
		t.Fatalf("page = %d, want 0 after search", g.Page())
	}
	if n := g.TotalItems(); n != 10 {
		t.Fatalf("matches = %d, want 10", n)
	}
}

func TestServerSideDoesNotSortLocally(t *testing.T) {
	g := New(testTable(3), WithPagination(PaginationConfig{Type: ServerSide}))
	defer g.Close()

	g.Sort("score")
	g.Sort("score")
	rows := g.Rows()
	if rows[0].ID() != "r00" {
		t.Fatalf("server rows reordered: first = %s", rows[0].ID())
	}
}

func TestSelection(t *testing.T) {
	var last []string
	data := testTable(3)
	data.SelectedIDs = []string{"r01"}
	g := New(data, WithCallbacks(Callbacks{OnSelectionChange: func(ids []string) { last = ids }}))
	defer g.Close()

	g.ToggleSelect("r00")
	if fmt.Sprint(last) != "[r00 r01]" {
		t.Fatalf("selection = %v", last)
	}
	g.ToggleSelectAll()
	if len(last) != 3 {
		t.Fatalf("select all = %v", last)
	}
	g.ToggleSelectAll()
	if len(last) != 0 {
		t.Fatalf("deselect all = %v", last)
	}
	if len(data.SelectedIDs) != 1 {
		t.Fatal("input table was mutated")
	}
}

func TestClickRowIsIndependentOfSelection(t *testing.T) {
	var clicked Row
	g := New(testTable(3), WithCallbacks(Callbacks{OnRowClick: func(r Row) { clicked = r }}))
	defer g.Close()

	if err := g.ClickRow("r02"); err != nil {
		t.Fatalf("ClickRow: %v", err)
	}
	if clicked.ID() != "r02" || g.ActiveRowID() != "r02" {
		t.Fatalf("clicked=%v active=%s", clicked, g.ActiveRowID())
	}
	if len(g.SelectedIDs()) != 0 {
		t.Fatal("row click changed selection")
	}
	if err := g.ClickRow("missing"); err == nil {
		t.Fatal("expected error for unknown row")
	}
}

func TestToggleColumn(t *testing.T) {
	var cols []Column
	data := testTable(1)
	g := New(data, WithCallbacks(Callbacks{OnColumnsChange: func(c []Column) { cols = c }}))
	defer g.Close()

	if err := g.ToggleColumn("name"); err != nil {
		t.Fatal(err)
	}
	if len(cols) != 2 {
		t.Fatalf("after hide = %v", cols)
	}
	if err := g.ToggleColumn("email"); err != nil {
		t.Fatal(err)
	}
	if err := g.ToggleColumn("name"); err != nil {
		t.Fatal(err)
	}
	want := []string{"select", "name", "score", "email"}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v", cols)
	}
	for i, c := range cols {
		if c.ID != want[i] {
			t.Fatalf("column %d = %s, want %s", i, c.ID, want[i])
		}
	}
	if err := g.ToggleColumn("nope"); err == nil {
		t.Fatal("expected error for unavailable column")
	}
	if len(data.Columns) != 3 {
		t.Fatal("input columns were mutated")
	}
}

func TestViewLoadingShowsSpinnerRow(t *testing.T) {
	g := New(testTable(3))
	defer g.Close()

	g.SetLoading(true)
	v := g.View()
	if !v.Loading || len(v.Rows) != 0 || v.SpinnerCol != 3 {
		t.Fatalf("loading view = %+v", v)
	}

	g.SetLoading(false)
	g.ToggleSelect("r01")
	v = g.View()
	if len(v.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(v.Rows))
	}
	if c := v.Rows[1].Cells[0]; c.Kind != CellCheckbox || !c.Checked {
		t.Fatalf("select cell = %+v", c)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1234567, "1,234,567"},
		{1234.5, "1,234.5"},
		{0.12345, "0.123"},
		{nil, ""},
		{"n/a", "n/a"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)
	if got := FormatDate(ts, dateLayout); got != "3/7/2024" {
		t.Errorf("date = %q", got)
	}
	if got := FormatDate("2024-03-07T15:04:05Z", dateTimeLayout); got != "3/7/2024, 3:04:05 PM" {
		t.Errorf("datetime = %q", got)
	}
	if got := FormatDate(nil, dateLayout); got != "" {
		t.Errorf("nil = %q", got)
	}
}

func TestApply(t *testing.T) {
	td := testTable(25)
	td.SelectedIDs = []string{"r24"}
	p, err := Apply(td, Query{Search: "contact 2", SortColumn: "score", SortDir: Desc, RowsPerPage: 3})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p.TotalItems != 5 {
		t.Fatalf("total = %d, want 5", p.TotalItems)
	}
	if len(p.Rows) != 3 || p.Rows[0].ID() != "r24" {
		t.Fatalf("rows = %v", p.Rows)
	}
	if len(p.View.Rows) != 3 || !p.View.Rows[0].Selected || p.View.Sort.Direction != Desc {
		t.Fatalf("view = %+v", p.View)
	}
	if td.Data[0].ID() != "r00" {
		t.Fatal("input rows were reordered")
	}
}

func TestApplyKeepsRequestedPageAfterSearch(t *testing.T) {
	p, err := Apply(testTable(25), Query{Search: "contact", Page: 2, RowsPerPage: 10})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p.Page != 2 || len(p.Rows) != 5 || p.Rows[0].ID() != "r20" {
		t.Fatalf("page = %d rows = %v", p.Page, p.Rows)
	}
}

func TestApplyVisibleColumns(t *testing.T) {
	p, err := Apply(testTable(3), Query{Columns: []string{"name", "email"}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(p.Columns) != 2 || p.Columns[0].ID != "name" || p.Columns[1].ID != "email" {
		t.Fatalf("columns = %+v", p.Columns)
	}
	if len(p.View.Rows[0].Cells) != 2 {
		t.Fatalf("cells = %+v", p.View.Rows[0].Cells)
	}

	_, err = Apply(testTable(3), Query{Columns: []string{"phone"}})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) || ve.Field != "columns" {
		t.Fatalf("err = %v, want columns ValidationError", err)
	}
}

func TestTableDataValidate(t *testing.T) {
	td := testTable(2)
	if err := td.Validate(); err != nil {
		t.Fatalf("valid table: %v", err)
	}
	td.Data = append(td.Data, Row{"name": "no id"})
	if err := td.Validate(); err == nil {
		t.Fatal("expected error for row without id")
	}
}
