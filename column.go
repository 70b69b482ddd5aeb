package tabular

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Accessor derives a cell value from a raw data item.
type Accessor func(original any) any

// ColumnDef configures one column. A ColumnDef with nested Columns is a group
// column: it shapes the header groups but holds no row values.
//
// The column id is resolved from ID, then Accessor, then Header. A column
// with none of them is a configuration error.
type ColumnDef struct {
	ID           string      `yaml:"id,omitempty"`
	Header       string      `yaml:"header,omitempty"`
	Accessor     string      `yaml:"accessor,omitempty"`
	AccessorFunc Accessor    `yaml:"-"`
	Columns      []ColumnDef `yaml:"columns,omitempty"`
	Hidden       bool        `yaml:"hidden,omitempty"`

	// Aggregate names an entry of the aggregation registry used for group
	// rows. AggregateFunc takes precedence.
	Aggregate     string        `yaml:"aggregate,omitempty"`
	AggregateFunc AggregateFunc `yaml:"-"`

	// Filter names an entry of the filter type registry. FilterType takes
	// precedence.
	Filter     string      `yaml:"filter,omitempty"`
	FilterType *FilterType `yaml:"-"`

	// SortType names an entry of the sort type registry. SortFunc takes
	// precedence.
	SortType      string   `yaml:"sortType,omitempty"`
	SortFunc      SortFunc `yaml:"-"`
	SortDescFirst bool     `yaml:"sortDescFirst,omitempty"`

	DisableGrouping bool `yaml:"disableGrouping,omitempty"`
	DisableFilters  bool `yaml:"disableFilters,omitempty"`
	DisableSorting  bool `yaml:"disableSorting,omitempty"`
}

// withDefaults fills unset behaviour fields from the default column template.
// Identity fields (ID, Header, Accessor, Columns) are never inherited.
func (d ColumnDef) withDefaults(def ColumnDef) ColumnDef {
	if d.Aggregate == "" {
		d.Aggregate = def.Aggregate
	}
	if d.AggregateFunc == nil {
		d.AggregateFunc = def.AggregateFunc
	}
	if d.Filter == "" {
		d.Filter = def.Filter
	}
	if d.FilterType == nil {
		d.FilterType = def.FilterType
	}
	if d.SortType == "" {
		d.SortType = def.SortType
	}
	if d.SortFunc == nil {
		d.SortFunc = def.SortFunc
	}
	d.Hidden = d.Hidden || def.Hidden
	d.SortDescFirst = d.SortDescFirst || def.SortDescFirst
	d.DisableGrouping = d.DisableGrouping || def.DisableGrouping
	d.DisableFilters = d.DisableFilters || def.DisableFilters
	d.DisableSorting = d.DisableSorting || def.DisableSorting
	return d
}

// Column is a materialized column. Group columns list their children in
// Columns; leaf columns carry the accessor. The parent is referenced by id
// and resolved with Instance.Column.
type Column struct {
	ID       string
	Header   string
	Depth    int
	ParentID string
	Columns  []*Column
	Hidden   bool

	// Def is the column definition with the default column applied.
	Def ColumnDef

	accessor Accessor

	CanGroupBy   bool
	IsGrouped    bool
	GroupedIndex int

	CanFilter       bool
	FilterValue     any
	IsFiltered      bool
	PreFilteredRows []*Row
	FilteredRows    []*Row

	CanSort      bool
	IsSorted     bool
	IsSortedDesc bool
	SortedIndex  int
}

// IsLeaf reports whether the column holds row values.
func (c *Column) IsLeaf() bool { return len(c.Columns) == 0 }

// HasAccessor reports whether the column derives values from raw data.
func (c *Column) HasAccessor() bool { return c.accessor != nil }

// Value applies the column accessor to a raw data item.
func (c *Column) Value(original any) any {
	if c.accessor == nil {
		return nil
	}
	return c.accessor(original)
}

type columnSet struct {
	roots  []*Column
	leaves []*Column
	byID   map[string]*Column
}

// materializeColumns walks the column tree depth first, resolving ids and
// accessors. Every problem in the tree is collected and reported at once.
func materializeColumns(defs []ColumnDef, defaults ColumnDef) (columnSet, error) {
	set := columnSet{byID: make(map[string]*Column)}
	var errs *multierror.Error

	var walk func(defs []ColumnDef, parent *Column, prefix string) []*Column
	walk = func(defs []ColumnDef, parent *Column, prefix string) []*Column {
		out := make([]*Column, 0, len(defs))
		for i, def := range defs {
			path := fmt.Sprintf("%s[%d]", prefix, i)
			id, err := resolveColumnID(def)
			if err != nil {
				errs = multierror.Append(errs, &ColumnError{Path: path, Header: def.Header, Err: err})
				continue
			}
			if _, dup := set.byID[id]; dup {
				errs = multierror.Append(errs, &ColumnError{
					Path:   path,
					Header: def.Header,
					Err:    fmt.Errorf("%w: %q", ErrDuplicateColumn, id),
				})
				continue
			}
			col := newColumn(id, def.withDefaults(defaults), parent)
			set.byID[id] = col
			if len(def.Columns) > 0 {
				col.Columns = walk(def.Columns, col, path+".columns")
			} else {
				set.leaves = append(set.leaves, col)
			}
			out = append(out, col)
		}
		return out
	}
	set.roots = walk(defs, nil, "columns")

	if err := errs.ErrorOrNil(); err != nil {
		return columnSet{}, err
	}
	return set, nil
}

func resolveColumnID(def ColumnDef) (string, error) {
	switch {
	case def.ID != "":
		return def.ID, nil
	case def.Accessor != "":
		return def.Accessor, nil
	case def.Header != "":
		return def.Header, nil
	}
	return "", ErrColumnID
}

func newColumn(id string, def ColumnDef, parent *Column) *Column {
	col := &Column{
		ID:           id,
		Header:       def.Header,
		Hidden:       def.Hidden,
		GroupedIndex: -1,
		SortedIndex:  -1,
	}
	if parent != nil {
		col.ParentID = parent.ID
		col.Depth = parent.Depth + 1
	}
	switch {
	case len(def.Columns) > 0:
	case def.AccessorFunc != nil:
		col.accessor = def.AccessorFunc
	case def.Accessor != "":
		keys := PathKeys(def.Accessor)
		col.accessor = func(original any) any { return GetKeys(original, keys, nil) }
	}
	def.Columns = nil
	col.Def = def
	return col
}
