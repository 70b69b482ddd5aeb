package tabular

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"
)

// Extension point signatures. Callbacks registered during the plugin fold
// run in registration order once every plugin has been applied.
type (
	// ColumnsHook reorders or filters the visible leaf columns before header
	// groups are built.
	ColumnsHook func(inst *Instance, columns []*Column) []*Column
	// HeaderGroupsHook decorates the built header groups.
	HeaderGroupsHook func(inst *Instance, groups []*HeaderGroup) []*HeaderGroup
	// InstanceHook decorates the final instance.
	InstanceHook func(inst *Instance) error
	// PrepareRowHook decorates a row after its cells are populated.
	PrepareRowHook func(inst *Instance, row *Row)
)

type hook[F any] struct {
	plugin string
	fn     F
}

type hooks struct {
	columns       []hook[ColumnsHook]
	headerGroups  []hook[HeaderGroupsHook]
	instance      []hook[InstanceHook]
	prepareRow    []hook[PrepareRowHook]
	stateReducers []hook[Reducer]
}

// Instance is the view model produced by one materialization pass. It is
// rebuilt whenever data or state change; an Instance is never updated in
// place after it is returned.
type Instance struct {
	Options *Options
	State   State

	// Columns are the top-level columns of the column tree.
	Columns []*Column
	// LeafColumns are all leaf columns in configuration order.
	LeafColumns []*Column
	// VisibleColumns are the leaf columns that get headers and cells, in
	// display order.
	VisibleColumns []*Column
	HeaderGroups   []*HeaderGroup
	// Headers are the headers of the innermost header group.
	Headers []*Header

	// Rows is the current row sequence. Each plugin replaces it with its
	// output.
	Rows     []*Row
	FlatRows []*Row
	RowsByID map[string]*Row

	PreGroupedRows  []*Row
	GroupedRows     []*Row
	PreFilteredRows []*Row
	FilteredRows    []*Row
	PreSortedRows   []*Row
	SortedRows      []*Row
	ExpandedRows    []*Row

	Page            []*Row
	PageCount       int
	PageOptions     []int
	CanPreviousPage bool
	CanNextPage     bool

	columnsByID map[string]*Column
	plugins     []string
	current     string
	hooks       hooks
	dispatch    func(Updater, Action) error
	log         logr.Logger
}

// Column returns the column with the given id, or nil.
func (inst *Instance) Column(id string) *Column {
	return inst.columnsByID[id]
}

// Parent returns the parent of a column, or nil for a top-level column.
func (inst *Instance) Parent(col *Column) *Column {
	if col.ParentID == "" {
		return nil
	}
	return inst.columnsByID[col.ParentID]
}

// Uses reports whether the named plugin took part in the pass.
func (inst *Instance) Uses(plugin string) bool {
	return slices.Contains(inst.plugins, plugin)
}

// UseColumns registers a columns extension point callback.
func (inst *Instance) UseColumns(fn ColumnsHook) {
	inst.hooks.columns = append(inst.hooks.columns, hook[ColumnsHook]{inst.current, fn})
}

// UseHeaderGroups registers a headerGroups extension point callback.
func (inst *Instance) UseHeaderGroups(fn HeaderGroupsHook) {
	inst.hooks.headerGroups = append(inst.hooks.headerGroups, hook[HeaderGroupsHook]{inst.current, fn})
}

// UseInstance registers an instance extension point callback.
func (inst *Instance) UseInstance(fn InstanceHook) {
	inst.hooks.instance = append(inst.hooks.instance, hook[InstanceHook]{inst.current, fn})
}

// UsePrepareRow registers a prepareRow extension point callback.
func (inst *Instance) UsePrepareRow(fn PrepareRowHook) {
	inst.hooks.prepareRow = append(inst.hooks.prepareRow, hook[PrepareRowHook]{inst.current, fn})
}

// UseStateReducer registers a reducer applied to every later state update,
// before the caller's Options.StateReducer.
func (inst *Instance) UseStateReducer(fn Reducer) {
	inst.hooks.stateReducers = append(inst.hooks.stateReducers, hook[Reducer]{inst.current, fn})
}

// PrepareRow populates the row's cells for the visible columns and runs the
// prepareRow callbacks.
func (inst *Instance) PrepareRow(row *Row) {
	cells := make([]*Cell, 0, len(inst.VisibleColumns))
	for _, col := range inst.VisibleColumns {
		cells = append(cells, &Cell{ColumnID: col.ID, RowID: row.ID, Value: row.Values[col.ID]})
	}
	row.cells = cells
	row.prepared = true
	for _, h := range inst.hooks.prepareRow {
		h.fn(inst, row)
	}
}

// PrepareRows prepares each row.
func (inst *Instance) PrepareRows(rows ...*Row) {
	for _, row := range rows {
		inst.PrepareRow(row)
	}
}

// update routes a state change through the owning table.
func (inst *Instance) update(fn Updater, action Action) error {
	if inst.dispatch == nil {
		return ErrDetached
	}
	return inst.dispatch(fn, action)
}

// build runs one materialization pass: columns, rows, the plugin fold and
// finalization. No instance is returned when any step fails.
func build(opts *Options, plugins []Plugin, data []any, state State, dispatch func(Updater, Action) error) (*Instance, error) {
	cols, err := materializeColumns(opts.Columns, opts.DefaultColumn)
	if err != nil {
		return nil, err
	}

	valueHooks := slices.Clone(opts.AccessValueHooks)
	for _, p := range plugins {
		if p.AccessValue != nil {
			valueHooks = append(valueHooks, p.AccessValue)
		}
	}
	rows := materializeRows(data, cols.leaves, opts.GetRowID, opts.GetSubRows, valueHooks)

	inst := &Instance{
		Options:     opts,
		State:       state,
		Columns:     cols.roots,
		LeafColumns: cols.leaves,
		Rows:        rows.rows,
		FlatRows:    rows.flat,
		RowsByID:    rows.byID,
		columnsByID: cols.byID,
		dispatch:    dispatch,
		log:         opts.Logger,
	}
	for _, p := range plugins {
		inst.plugins = append(inst.plugins, p.Name)
	}

	for _, p := range plugins {
		if p.Apply == nil {
			continue
		}
		inst.current = p.Name
		next, err := p.Apply(inst)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Name, err)
		}
		if next != nil {
			inst = next
		}
		inst.log.V(1).Info("applied plugin", "plugin", p.Name, "rows", len(inst.Rows))
	}
	inst.current = ""

	if err := inst.finalize(); err != nil {
		return nil, err
	}
	inst.log.V(1).Info("materialized",
		"rows", len(inst.Rows),
		"flatRows", len(inst.FlatRows),
		"page", len(inst.Page),
		"headerGroups", len(inst.HeaderGroups),
	)
	return inst, nil
}

func (inst *Instance) finalize() error {
	visible := make([]*Column, 0, len(inst.LeafColumns))
	for _, col := range inst.LeafColumns {
		if !col.Hidden {
			visible = append(visible, col)
		}
	}
	for _, h := range inst.hooks.columns {
		inst.log.V(2).Info("extension point", "point", "columns", "plugin", h.plugin)
		visible = h.fn(inst, visible)
	}
	inst.VisibleColumns = visible

	groups := buildHeaderGroups(visible, inst.columnsByID)
	for _, h := range inst.hooks.headerGroups {
		inst.log.V(2).Info("extension point", "point", "headerGroups", "plugin", h.plugin)
		groups = h.fn(inst, groups)
	}
	inst.HeaderGroups = groups
	if n := len(groups); n > 0 {
		inst.Headers = groups[n-1].Headers
	}

	for _, h := range inst.hooks.instance {
		inst.log.V(2).Info("extension point", "point", "instance", "plugin", h.plugin)
		if err := h.fn(inst); err != nil {
			return fmt.Errorf("plugin %s: %w", h.plugin, err)
		}
	}
	return nil
}
