// Package table derives what the collection view shows from the cached
// records. The pipeline is fixed: filter, then sort, then paginate.
//
// Row selection is keyed by record id, so sorting, filtering or paging
// never changes which records are selected.
package table

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DefaultPageSize is the page size of a fresh table.
const DefaultPageSize = 10

// PageSizeOptions are offered by the UI besides "all".
var PageSizeOptions = []int{5, 10}

// Errors returned by table operations.
var (
	ErrOutOfRange  = errors.New("row index out of range")
	ErrBadPageSize = errors.New("page size must be positive")
	ErrUnknownCol  = errors.New("unknown column")
)

// Row is a record the table can display.
type Row interface {
	GetID() string
	Fields() []string
	Value(field string) any
}

// Order is a sort direction.
type Order int

const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "desc"
	}
	return "asc"
}

// Header describes one column.
type Header struct {
	ID         string
	Label      string
	AlignRight bool
}

// View is one rendered page.
type View[T Row] struct {
	Rows      []T
	Total     int // rows after filtering
	Page      int
	PageCount int
	EmptyRows int
}

// Table holds the sort, filter, paging and selection state of one
// collection view.
type Table[T Row] struct {
	headers []Header

	orderBy string
	order   Order

	filterOn bool
	filters  map[string]string

	page     int
	pageSize int
	allRows  bool
	dense    bool

	selected map[string]bool
	shown    []T
}

// New builds a table whose columns come from template's fields.
func New[T Row](template T) *Table[T] {
	t := &Table[T]{
		pageSize: DefaultPageSize,
		dense:    true,
		filters:  map[string]string{},
		selected: map[string]bool{},
	}
	for _, f := range template.Fields() {
		_, isString := template.Value(f).(string)
		t.headers = append(t.headers, Header{ID: f, Label: f, AlignRight: !isString && f != "id"})
		t.filters[f] = ""
	}
	return t
}

// Headers lists the columns in field order.
func (t *Table[T]) Headers() []Header { return slices.Clone(t.headers) }

func (t *Table[T]) hasColumn(field string) bool {
	return slices.ContainsFunc(t.headers, func(h Header) bool { return h.ID == field })
}

// RequestSort sorts by field. Asking again for the ascending column flips
// it to descending; any other request sorts ascending.
func (t *Table[T]) RequestSort(field string) error {
	if !t.hasColumn(field) {
		return fmt.Errorf("%w: %s", ErrUnknownCol, field)
	}
	if t.orderBy == field && t.order == Asc {
		t.order = Desc
	} else {
		t.order = Asc
	}
	t.orderBy = field
	return nil
}

func (t *Table[T]) Sort() (string, Order) { return t.orderBy, t.order }

// SetFilter sets the substring a column must contain. An empty text
// always matches.
func (t *Table[T]) SetFilter(field, text string) error {
	if !t.hasColumn(field) {
		return fmt.Errorf("%w: %s", ErrUnknownCol, field)
	}
	t.filters[field] = text
	return nil
}

func (t *Table[T]) Filters() map[string]string {
	out := make(map[string]string, len(t.filters))
	for k, v := range t.filters {
		out[k] = v
	}
	return out
}

func (t *Table[T]) ToggleFilter() bool {
	t.filterOn = !t.filterOn
	return t.filterOn
}

func (t *Table[T]) SetFilterOn(on bool) { t.filterOn = on }

func (t *Table[T]) FilterOn() bool { return t.filterOn }

// SetPage moves to page n. Out-of-range pages are kept and render empty.
func (t *Table[T]) SetPage(n int) {
	if n < 0 {
		n = 0
	}
	t.page = n
}

// Page is the zero-based current page.
func (t *Table[T]) Page() int { return t.page }

// SetPageSize changes the page size and goes back to the first page.
func (t *Table[T]) SetPageSize(n int) error {
	if n <= 0 {
		return ErrBadPageSize
	}
	t.pageSize, t.allRows, t.page = n, false, 0
	return nil
}

// SetAllRows makes one page hold every row.
func (t *Table[T]) SetAllRows() {
	t.allRows, t.page = true, 0
}

// PageSize is the number of rows per page; with all rows shown it is
// total, but never less than one.
func (t *Table[T]) PageSize(total int) int {
	if t.allRows {
		return max(total, 1)
	}
	return t.pageSize
}

// SetDense turns padding rows off (true) or on.
func (t *Table[T]) SetDense(on bool) { t.dense = on }

func (t *Table[T]) Dense() bool { return t.dense }

// Filtered applies the active filters, or returns rows as is when
// filtering is off.
func (t *Table[T]) Filtered(rows []T) []T {
	if !t.filterOn {
		return slices.Clone(rows)
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if t.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table[T]) matches(r T) bool {
	for field, text := range t.filters {
		if text == "" {
			continue
		}
		if !strings.Contains(Text(r.Value(field)), text) {
			return false
		}
	}
	return true
}

// Sorted is a stable sort on the chosen column. With no column chosen the
// input order is kept.
func (t *Table[T]) Sorted(rows []T) []T {
	out := slices.Clone(rows)
	if t.orderBy == "" {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		c := compare(a.Value(t.orderBy), b.Value(t.orderBy))
		if t.order == Desc {
			return -c
		}
		return c
	})
	return out
}

// Paginate returns the window of the current page.
func (t *Table[T]) Paginate(rows []T) []T {
	size := t.PageSize(len(rows))
	start := t.page * size
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+size, len(rows))
	return slices.Clone(rows[start:end])
}

// EmptyRows is the padding needed to keep the page height constant:
// max(0, (page+1)*pageSize - total). Showing all rows needs none.
func (t *Table[T]) EmptyRows(total int) int {
	if t.allRows {
		return 0
	}
	return max(0, (t.page+1)*t.pageSize-total)
}

// PageCount is the number of pages holding total rows.
func (t *Table[T]) PageCount(total int) int {
	size := t.PageSize(total)
	return (total + size - 1) / size
}

// View runs the whole pipeline and remembers the page for ToggleSelect.
func (t *Table[T]) View(rows []T) View[T] {
	processed := t.Sorted(t.Filtered(rows))
	v := View[T]{
		Rows:      t.Paginate(processed),
		Total:     len(processed),
		Page:      t.page,
		PageCount: t.PageCount(len(processed)),
		EmptyRows: t.EmptyRows(len(processed)),
	}
	t.shown = v.Rows
	return v
}

// ToggleSelect flips the selection of the row at index of the last View.
func (t *Table[T]) ToggleSelect(index int) (string, error) {
	if index < 0 || index >= len(t.shown) {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	id := t.shown[index].GetID()
	if t.selected[id] {
		delete(t.selected, id)
	} else {
		t.selected[id] = true
	}
	return id, nil
}

// SelectAll selects every row, not only the visible page.
func (t *Table[T]) SelectAll(rows []T) {
	for _, r := range rows {
		t.selected[r.GetID()] = true
	}
}

// ClearSelection deselects everything.
func (t *Table[T]) ClearSelection() {
	clear(t.selected)
}

func (t *Table[T]) IsSelected(id string) bool { return t.selected[id] }

// SelectedIDs lists selected ids in the order of rows, skipping ids that
// are no longer present.
func (t *Table[T]) SelectedIDs(rows []T) []string {
	var ids []string
	for _, r := range rows {
		if t.selected[r.GetID()] {
			ids = append(ids, r.GetID())
		}
	}
	return ids
}

func (t *Table[T]) SelectedCount() int { return len(t.selected) }

// Text is the string form used for filtering and display: booleans become
// "Yes"/"No", numbers their decimal form, nil the empty string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func compare(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmp.Compare(boolRank(x), boolRank(y))
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	}
	return cmp.Compare(Text(a), Text(b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
