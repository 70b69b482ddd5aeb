package tabular

import (
	"fmt"
	"slices"
	"strconv"
)

// RowIDFunc returns the identity of a raw item given its index among its
// siblings and its parent row (nil at the top level).
type RowIDFunc func(original any, index int, parent *Row) string

// SubRowsFunc extracts the nested items of a raw item.
type SubRowsFunc func(original any, index int) []any

// ValueHook transforms a cell value after the column accessor ran. Hooks run
// in registration order; each sees the value returned by the previous one.
type ValueHook func(value any, row *Row, column *Column) any

// DefaultRowID identifies a row by its index, prefixed by the parent id for
// nested rows: "0", "0.1", "0.1.3".
func DefaultRowID(_ any, index int, parent *Row) string {
	if parent == nil {
		return strconv.Itoa(index)
	}
	return parent.ID + "." + strconv.Itoa(index)
}

// DefaultSubRows reads the "subRows" key or field of a raw item.
func DefaultSubRows(original any, _ int) []any {
	return toSlice(Get(original, "subRows", nil))
}

// Row is a materialized row. Group rows produced by the grouping plugin have
// IsGrouped set and no Original.
type Row struct {
	ID       string
	Original any
	// Index is the position within the parent's sub rows.
	Index    int
	Depth    int
	ParentID string
	// Path lists the row ids from the top-level ancestor down to this row.
	Path    []string
	Values  map[string]any
	SubRows []*Row

	IsGrouped  bool
	GroupByID  string
	GroupByVal any
	LeafRows   []*Row

	IsExpanded bool
	CanExpand  bool

	subOriginals []any
	cells        []*Cell
	prepared     bool
}

// Cells returns the row's cells in visible column order. It panics with an
// error wrapping ErrRowNotPrepared when Instance.PrepareRow has not run for
// the row.
func (r *Row) Cells() []*Cell {
	if !r.prepared {
		panic(fmt.Errorf("%w: row %q", ErrRowNotPrepared, r.ID))
	}
	return r.cells
}

// Prepared reports whether the row's cells are populated.
func (r *Row) Prepared() bool { return r.prepared }

// Cell is the render-ready value of one column in one row.
type Cell struct {
	ColumnID string
	RowID    string
	Value    any

	// IsGrouped marks the cell of a group row holding the grouped value.
	IsGrouped bool
	// IsAggregated marks a group row cell holding an aggregate.
	IsAggregated bool
	// IsRepeatedValue marks a cell of a grouped column that repeats the
	// value of an enclosing group.
	IsRepeatedValue bool
}

type rowSet struct {
	rows []*Row
	flat []*Row
	byID map[string]*Row
}

type rowMaterializer struct {
	getRowID   RowIDFunc
	getSubRows SubRowsFunc
	hooks      []ValueHook
	set        rowSet
}

// materializeRows accesses every leaf column over the whole data tree, one
// column at a time. Rows are created the first time their id is seen and
// reused on later visits, so values of earlier columns are visible to the
// hooks of later ones.
func materializeRows(data []any, leaves []*Column, getRowID RowIDFunc, getSubRows SubRowsFunc, hooks []ValueHook) rowSet {
	m := &rowMaterializer{
		getRowID:   getRowID,
		getSubRows: getSubRows,
		hooks:      hooks,
		set:        rowSet{byID: make(map[string]*Row, len(data))},
	}
	for _, col := range leaves {
		for i, original := range data {
			m.access(original, i, 0, nil, col, len(leaves))
		}
	}
	return m.set
}

func (m *rowMaterializer) access(original any, index, depth int, parent *Row, col *Column, width int) {
	id := m.getRowID(original, index, parent)
	row, ok := m.set.byID[id]
	if !ok {
		row = &Row{
			ID:       id,
			Original: original,
			Index:    index,
			Depth:    depth,
			Values:   make(map[string]any, width),
		}
		if parent != nil {
			row.ParentID = parent.ID
			row.Path = append(slices.Clone(parent.Path), id)
			parent.SubRows = append(parent.SubRows, row)
		} else {
			row.Path = []string{id}
			m.set.rows = append(m.set.rows, row)
		}
		m.set.byID[id] = row
		m.set.flat = append(m.set.flat, row)
		row.subOriginals = m.getSubRows(original, index)
	}

	for i, sub := range row.subOriginals {
		m.access(sub, i, depth+1, row, col, width)
	}

	value := col.Value(original)
	for _, hook := range m.hooks {
		value = hook(value, row, col)
	}
	row.Values[col.ID] = value
}
