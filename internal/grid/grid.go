// Package grid holds the view-model behind the generic data table: sorting,
// pagination in client or server mode, debounced search, selection and
// column visibility. It never mutates the TableData it is given.
package grid

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/GregMSThompson/insideoutbound-backend/internal/debounce"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
)

const (
	DefaultSearchDelay = 2000 * time.Millisecond
	// server mode only forwards searches longer than this many characters (or empty ones)
	minServerSearchLen = 3
)

type Callbacks struct {
	OnSelectionChange   func(ids []string)
	OnRowClick          func(row Row)
	OnColumnsChange     func(columns []Column)
	OnSortChange        func(s SortState)
	OnPageChange        func(page int)
	OnRowsPerPageChange func(rowsPerPage int)
	OnSearch            func(term string)
}

type Option func(*Grid)

func WithPagination(p PaginationConfig) Option {
	return func(g *Grid) { g.pagination = p.normalized() }
}

func WithCallbacks(cb Callbacks) Option {
	return func(g *Grid) { g.cb = cb }
}

func WithSearchDelay(d time.Duration) Option {
	return func(g *Grid) { g.searchDelay = d }
}

func WithSort(s SortState) Option {
	return func(g *Grid) { g.sort = s }
}

type Grid struct {
	mu          sync.Mutex
	data        TableData
	selected    map[string]struct{}
	pagination  PaginationConfig
	sort        SortState
	search      string
	activeRowID string
	loading     bool
	cb          Callbacks

	searchDelay time.Duration
	searcher    *debounce.Debouncer[string]
}

func New(data TableData, opts ...Option) *Grid {
	g := &Grid{
		data:        data.clone(),
		selected:    make(map[string]struct{}, len(data.SelectedIDs)),
		pagination:  PaginationConfig{}.normalized(),
		searchDelay: DefaultSearchDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, id := range data.SelectedIDs {
		g.selected[id] = struct{}{}
	}
	g.searcher = debounce.New(g.searchDelay, g.applySearch)
	return g
}

// Close cancels any pending search.
func (g *Grid) Close() {
	g.searcher.Stop()
}

func (g *Grid) Mode() PaginationType {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pagination.Type
}

func (g *Grid) SortState() SortState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sort
}

func (g *Grid) Page() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pagination.Page
}

func (g *Grid) Columns() []Column {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Column(nil), g.data.Columns...)
}

// Sort toggles sorting on column and resets to the first page. In server
// mode the request is forwarded instead of sorting locally.
func (g *Grid) Sort(column string) {
	g.mu.Lock()
	g.sort = g.sort.Toggle(column)
	s := g.sort
	pageChanged := g.pagination.Page != 0
	g.pagination.Page = 0
	g.mu.Unlock()

	if g.cb.OnSortChange != nil {
		g.cb.OnSortChange(s)
	}
	if pageChanged && g.cb.OnPageChange != nil {
		g.cb.OnPageChange(0)
	}
}

func (g *Grid) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	g.mu.Lock()
	g.pagination.Page = page
	g.mu.Unlock()

	if g.cb.OnPageChange != nil {
		g.cb.OnPageChange(page)
	}
}

func (g *Grid) SetRowsPerPage(n int) {
	if n <= 0 {
		n = DefaultRowsPerPage
	}
	g.mu.Lock()
	g.pagination.RowsPerPage = n
	g.pagination.Page = 0
	g.mu.Unlock()

	if g.cb.OnRowsPerPageChange != nil {
		g.cb.OnRowsPerPageChange(n)
	}
}

// Search schedules term; only the last term within the delay window is applied.
func (g *Grid) Search(term string) {
	g.searcher.Push(term)
}

// FlushSearch applies a pending search immediately.
func (g *Grid) FlushSearch() {
	g.searcher.Flush()
}

func (g *Grid) applySearch(term string) {
	g.mu.Lock()
	mode := g.pagination.Type
	if mode == ClientSide {
		g.search = term
		g.pagination.Page = 0
	}
	g.mu.Unlock()

	if n := utf8.RuneCountInString(term); mode == ServerSide && n != 0 && n <= minServerSearchLen {
		return
	}
	if g.cb.OnSearch != nil {
		g.cb.OnSearch(term)
	}
}

func (g *Grid) SetLoading(loading bool) {
	g.mu.Lock()
	g.loading = loading
	g.mu.Unlock()
}

// SetData replaces the rows, typically with a fresh server page.
func (g *Grid) SetData(rows []Row, totalItems int) {
	g.mu.Lock()
	g.data.Data = append([]Row(nil), rows...)
	g.pagination.TotalItems = totalItems
	g.mu.Unlock()
}

func (g *Grid) ToggleSelect(id string) {
	g.mu.Lock()
	if _, ok := g.selected[id]; ok {
		delete(g.selected, id)
	} else {
		g.selected[id] = struct{}{}
	}
	ids := g.selectedIDsLocked()
	g.mu.Unlock()

	if g.cb.OnSelectionChange != nil {
		g.cb.OnSelectionChange(ids)
	}
}

// ToggleSelectAll selects every visible-after-search row, or clears the
// selection when all of them are already selected.
func (g *Grid) ToggleSelectAll() {
	g.mu.Lock()
	rows := g.data.Data
	if g.pagination.Type == ClientSide {
		rows = filterRows(rows, g.search)
	}
	all := len(rows) > 0
	for _, r := range rows {
		if _, ok := g.selected[r.ID()]; !ok {
			all = false
			break
		}
	}
	for _, r := range rows {
		if all {
			delete(g.selected, r.ID())
		} else {
			g.selected[r.ID()] = struct{}{}
		}
	}
	ids := g.selectedIDsLocked()
	g.mu.Unlock()

	if g.cb.OnSelectionChange != nil {
		g.cb.OnSelectionChange(ids)
	}
}

func (g *Grid) SelectedIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selectedIDsLocked()
}

// selectedIDsLocked lists selected ids in row order, followed by selected
// ids that are not on the current rows.
func (g *Grid) selectedIDsLocked() []string {
	ids := make([]string, 0, len(g.selected))
	seen := make(map[string]struct{}, len(g.selected))
	for _, r := range g.data.Data {
		id := r.ID()
		if _, ok := g.selected[id]; ok {
			ids = append(ids, id)
			seen[id] = struct{}{}
		}
	}
	for _, id := range g.data.SelectedIDs {
		if _, ok := g.selected[id]; ok {
			if _, dup := seen[id]; !dup {
				ids = append(ids, id)
				seen[id] = struct{}{}
			}
		}
	}
	return ids
}

// ClickRow marks the row active and reports it. This is separate from the
// checkbox selection used for bulk actions.
func (g *Grid) ClickRow(id string) error {
	g.mu.Lock()
	var found Row
	for _, r := range g.data.Data {
		if r.ID() == id {
			found = make(Row, len(r))
			for k, v := range r {
				found[k] = v
			}
			break
		}
	}
	if found == nil {
		g.mu.Unlock()
		return errs.NewNotFoundError("row " + id + " not found")
	}
	g.activeRowID = id
	g.mu.Unlock()

	if g.cb.OnRowClick != nil {
		g.cb.OnRowClick(found)
	}
	return nil
}

func (g *Grid) ActiveRowID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.activeRowID
}

// ToggleColumn shows or hides an available column, keeping the order of
// AvailableColumns for columns being added back.
func (g *Grid) ToggleColumn(id string) error {
	g.mu.Lock()
	idx := -1
	for i, c := range g.data.Columns {
		if c.ID == id {
			idx = i
			break
		}
	}

	var next []Column
	if idx >= 0 {
		next = make([]Column, 0, len(g.data.Columns)-1)
		next = append(next, g.data.Columns[:idx]...)
		next = append(next, g.data.Columns[idx+1:]...)
	} else {
		var added *Column
		for i := range g.data.AvailableColumns {
			if g.data.AvailableColumns[i].ID == id {
				added = &g.data.AvailableColumns[i]
				break
			}
		}
		if added == nil {
			g.mu.Unlock()
			return errs.NewValidationError("column " + id + " is not available")
		}
		active := make(map[string]struct{}, len(g.data.Columns)+1)
		for _, c := range g.data.Columns {
			active[c.ID] = struct{}{}
		}
		active[id] = struct{}{}
		next = make([]Column, 0, len(g.data.Columns)+1)
		for _, c := range g.data.AvailableColumns {
			if _, ok := active[c.ID]; ok {
				next = append(next, c)
			}
		}
	}
	g.data.Columns = next
	out := append([]Column(nil), next...)
	g.mu.Unlock()

	if g.cb.OnColumnsChange != nil {
		g.cb.OnColumnsChange(out)
	}
	return nil
}

// TotalItems is the row count driving the pager.
func (g *Grid) TotalItems() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pagination.Type == ServerSide {
		return g.pagination.TotalItems
	}
	return len(filterRows(g.data.Data, g.search))
}

// Rows returns the rows on the current page. Server mode shows the data as given.
func (g *Grid) Rows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rowsLocked()
}

func (g *Grid) rowsLocked() []Row {
	if g.pagination.Type == ServerSide {
		return append([]Row(nil), g.data.Data...)
	}
	rows := filterRows(g.data.Data, g.search)
	if g.sort.Column != "" {
		sortRows(rows, g.sort)
	}
	return pageRows(rows, g.pagination.Page, g.pagination.RowsPerPage)
}

type ViewRow struct {
	ID       string `json:"id"`
	Cells    []Cell `json:"cells"`
	Active   bool   `json:"active,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

type View struct {
	Columns    []Column  `json:"columns"`
	Rows       []ViewRow `json:"rows"`
	Loading    bool      `json:"loading"`
	SpinnerCol int       `json:"spinnerColSpan,omitempty"`
	Sort       SortState `json:"sort"`
	Page       int       `json:"page"`
	TotalItems int       `json:"totalItems"`
}

// View renders the current page. While loading the body is replaced by a
// single spinner row spanning all columns.
func (g *Grid) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := View{
		Columns: append([]Column(nil), g.data.Columns...),
		Loading: g.loading,
		Sort:    g.sort,
		Page:    g.pagination.Page,
	}
	if g.pagination.Type == ServerSide {
		v.TotalItems = g.pagination.TotalItems
	} else {
		v.TotalItems = len(filterRows(g.data.Data, g.search))
	}

	if g.loading {
		v.SpinnerCol = len(g.data.Columns)
		v.Rows = []ViewRow{}
		return v
	}

	rows := g.rowsLocked()
	v.Rows = make([]ViewRow, 0, len(rows))
	for _, r := range rows {
		id := r.ID()
		_, selected := g.selected[id]
		vr := ViewRow{
			ID:       id,
			Cells:    make([]Cell, 0, len(g.data.Columns)),
			Active:   id == g.activeRowID,
			Selected: selected,
		}
		for _, c := range g.data.Columns {
			vr.Cells = append(vr.Cells, RenderCell(r, c, selected))
		}
		v.Rows = append(v.Rows, vr)
	}
	return v
}
