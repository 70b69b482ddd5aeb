package tabular

import (
	"fmt"
	"slices"
)

// GroupBy returns the grouping and aggregation plugin. It replaces the rows
// with one group row per distinct value of each State.GroupBy column, nested
// in GroupBy order. Group rows hold the grouped value for their own column
// and aggregates of their leaf rows for the other columns.
func GroupBy() Plugin {
	return Plugin{Name: "groupBy", Stage: StageGroupBy, Apply: applyGroupBy}
}

func applyGroupBy(inst *Instance) (*Instance, error) {
	opts := inst.Options
	groupBy := inst.State.GroupBy
	for _, id := range groupBy {
		if col := inst.Column(id); col == nil || !col.IsLeaf() {
			return nil, fmt.Errorf("%w: groupBy %q", ErrUnknownColumn, id)
		}
	}

	for _, col := range inst.LeafColumns {
		col.CanGroupBy = col.HasAccessor() && !opts.DisableGrouping && !col.Def.DisableGrouping
		col.GroupedIndex = slices.Index(groupBy, col.ID)
		col.IsGrouped = col.GroupedIndex >= 0
	}

	inst.UseColumns(groupedColumnsFirst)
	inst.UsePrepareRow(markGroupedCells)

	inst.PreGroupedRows = inst.Rows
	if opts.ManualGroupBy || len(groupBy) == 0 {
		inst.GroupedRows = inst.Rows
		return inst, nil
	}

	g := &grouper{inst: inst, groupBy: groupBy, aggs: make(map[string]AggregateFunc)}
	registry := aggregations(opts.Aggregations)
	for _, col := range inst.LeafColumns {
		fn, err := resolveAggregate(col, registry, opts.DefaultAggregate)
		if err != nil {
			return nil, err
		}
		g.aggs[col.ID] = fn
	}

	grouped := g.group(inst.Rows, 0, nil)
	inst.Rows = grouped
	inst.GroupedRows = grouped
	inst.log.V(1).Info("grouped rows", "groupBy", groupBy, "groups", len(grouped))
	return inst, nil
}

func resolveAggregate(col *Column, registry map[string]AggregateFunc, fallback string) (AggregateFunc, error) {
	if col.Def.AggregateFunc != nil {
		return col.Def.AggregateFunc, nil
	}
	name := col.Def.Aggregate
	if name == "" {
		name = fallback
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: aggregate %q on column %q", ErrUnknownType, name, col.ID)
	}
	return fn, nil
}

type grouper struct {
	inst    *Instance
	groupBy []string
	aggs    map[string]AggregateFunc
}

// group partitions rows by the value of groupBy[depth]. Groups keep the order
// in which their first member appeared, and members keep their order.
func (g *grouper) group(rows []*Row, depth int, parent *Row) []*Row {
	if depth >= len(g.groupBy) {
		return rows
	}
	columnID := g.groupBy[depth]

	var keys []string
	members := make(map[string][]*Row)
	vals := make(map[string]any)
	for _, r := range rows {
		v := r.Values[columnID]
		k := valueKey(v)
		if _, ok := members[k]; !ok {
			keys = append(keys, k)
			vals[k] = v
		}
		members[k] = append(members[k], r)
	}

	out := make([]*Row, 0, len(keys))
	for i, k := range keys {
		id := columnID + ":" + k
		row := &Row{
			Index:      i,
			Depth:      depth,
			IsGrouped:  true,
			GroupByID:  columnID,
			GroupByVal: vals[k],
		}
		if parent != nil {
			id = parent.ID + ">" + id
			row.ParentID = parent.ID
			row.Path = append(slices.Clone(parent.Path), id)
		} else {
			row.Path = []string{id}
		}
		row.ID = id
		row.SubRows = g.group(members[k], depth+1, row)
		row.LeafRows = leafRows(row.SubRows)
		row.Values = g.aggregate(row)

		g.inst.RowsByID[id] = row
		g.inst.FlatRows = append(g.inst.FlatRows, row)
		out = append(out, row)
	}
	return out
}

func leafRows(rows []*Row) []*Row {
	var out []*Row
	for _, r := range rows {
		if r.IsGrouped {
			out = append(out, r.LeafRows...)
			continue
		}
		out = append(out, r)
	}
	return out
}

func (g *grouper) aggregate(row *Row) map[string]any {
	values := make(map[string]any, len(g.inst.LeafColumns))
	for _, col := range g.inst.LeafColumns {
		if col.ID == row.GroupByID {
			values[col.ID] = row.GroupByVal
			continue
		}
		if col.IsGrouped && col.GroupedIndex < row.Depth {
			// Shared by every leaf of an enclosing group.
			values[col.ID] = row.LeafRows[0].Values[col.ID]
			continue
		}
		fn, ok := g.aggs[col.ID]
		if !ok {
			continue
		}
		leaf := make([]any, len(row.LeafRows))
		for i, r := range row.LeafRows {
			leaf[i] = r.Values[col.ID]
		}
		values[col.ID] = fn(leaf)
	}
	return values
}

func groupedColumnsFirst(inst *Instance, columns []*Column) []*Column {
	groupBy := inst.State.GroupBy
	if len(groupBy) == 0 {
		return columns
	}
	out := make([]*Column, 0, len(columns))
	for _, id := range groupBy {
		if i := slices.IndexFunc(columns, func(c *Column) bool { return c.ID == id }); i >= 0 {
			out = append(out, columns[i])
		}
	}
	for _, col := range columns {
		if !col.IsGrouped {
			out = append(out, col)
		}
	}
	return out
}

func markGroupedCells(inst *Instance, row *Row) {
	for _, cell := range row.cells {
		col := inst.Column(cell.ColumnID)
		cell.IsGrouped = col.IsGrouped && row.GroupByID == col.ID
		cell.IsRepeatedValue = !cell.IsGrouped && col.IsGrouped
		cell.IsAggregated = !cell.IsGrouped && !cell.IsRepeatedValue && row.IsGrouped
	}
}

// ToggleGroupBy adds the column to the end of State.GroupBy, or removes it
// when it is already grouped.
func (inst *Instance) ToggleGroupBy(columnID string) error {
	return inst.SetGroupBy(columnID, !slices.Contains(inst.State.GroupBy, columnID))
}

// SetGroupBy groups or ungroups by a column.
func (inst *Instance) SetGroupBy(columnID string, grouped bool) error {
	if inst.Column(columnID) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, columnID)
	}
	return inst.update(func(old State) State {
		old.GroupBy = slices.DeleteFunc(old.GroupBy, func(id string) bool { return id == columnID })
		if grouped {
			old.GroupBy = append(old.GroupBy, columnID)
		}
		return old
	}, ActionGroupByChange)
}
