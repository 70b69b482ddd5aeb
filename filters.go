package tabular

import (
	"fmt"
	"slices"
)

// Filters returns the filtering plugin. Every entry of State.Filters narrows
// the rows in turn, so filters combine with AND semantics. Sub rows are
// filtered with the same rules.
func Filters() Plugin {
	return Plugin{Name: "filters", Stage: StageFilters, Apply: applyFilters}
}

func applyFilters(inst *Instance) (*Instance, error) {
	opts := inst.Options
	registry := filterTypes(opts.FilterTypes)

	f := &filterer{inst: inst, types: make(map[string]FilterType, len(inst.State.Filters))}
	for _, fl := range inst.State.Filters {
		col := inst.Column(fl.ID)
		if col == nil {
			return nil, fmt.Errorf("%w: filter %q", ErrUnknownColumn, fl.ID)
		}
		typ, err := resolveFilterType(col, registry)
		if err != nil {
			return nil, err
		}
		f.types[col.ID] = typ
	}

	for _, col := range inst.LeafColumns {
		col.CanFilter = col.HasAccessor() && !opts.DisableFilters && !col.Def.DisableFilters
		col.FilterValue, col.IsFiltered = inst.State.FilterValue(col.ID)
		col.PreFilteredRows = inst.Rows
		col.FilteredRows = inst.Rows
	}

	inst.PreFilteredRows = inst.Rows
	if opts.ManualFilters || len(inst.State.Filters) == 0 {
		inst.FilteredRows = inst.Rows
		return inst, nil
	}

	filtered := f.filter(inst.Rows, true)
	inst.Rows = filtered
	inst.FilteredRows = filtered
	inst.log.V(1).Info("filtered rows", "filters", len(inst.State.Filters), "rows", len(filtered))
	return inst, nil
}

func resolveFilterType(col *Column, registry map[string]FilterType) (FilterType, error) {
	if col.Def.FilterType != nil {
		return *col.Def.FilterType, nil
	}
	typ, ok := registry[col.Def.Filter]
	if !ok {
		return FilterType{}, fmt.Errorf("%w: filter %q on column %q", ErrUnknownType, col.Def.Filter, col.ID)
	}
	return typ, nil
}

type filterer struct {
	inst  *Instance
	types map[string]FilterType
}

func (f *filterer) filter(rows []*Row, top bool) []*Row {
	out := rows
	for _, fl := range f.inst.State.Filters {
		col := f.inst.Column(fl.ID)
		if top {
			col.PreFilteredRows = out
		}
		out = f.types[fl.ID].Fn(out, fl.ID, fl.Value)
		if top {
			col.FilteredRows = out
		}
	}
	for _, r := range out {
		if len(r.SubRows) > 0 {
			r.SubRows = f.filter(r.SubRows, false)
		}
	}
	return out
}

// filterType resolves the filter type of a column against the instance's
// registry.
func (inst *Instance) filterType(col *Column) (FilterType, error) {
	return resolveFilterType(col, filterTypes(inst.Options.FilterTypes))
}

// SetFilter sets the filter value of a column. A value the column's filter
// type considers empty removes the filter instead.
func (inst *Instance) SetFilter(columnID string, value any) error {
	return inst.UpdateFilter(columnID, func(any) any { return value })
}

// UpdateFilter computes a column's filter value from its current value (nil
// when unfiltered).
func (inst *Instance) UpdateFilter(columnID string, fn func(old any) any) error {
	col := inst.Column(columnID)
	if col == nil {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, columnID)
	}
	typ, err := inst.filterType(col)
	if err != nil {
		return err
	}
	return inst.update(func(old State) State {
		prev, _ := old.FilterValue(columnID)
		value := fn(prev)
		i := slices.IndexFunc(old.Filters, func(f Filter) bool { return f.ID == columnID })
		switch {
		case typ.shouldRemove(value):
			if i >= 0 {
				old.Filters = slices.Delete(old.Filters, i, i+1)
			}
		case i >= 0:
			old.Filters[i].Value = value
		default:
			old.Filters = append(old.Filters, Filter{ID: columnID, Value: value})
		}
		return old
	}, ActionFilterChange)
}

// SetAllFilters replaces every filter. Entries whose value the column's
// filter type considers empty are dropped.
func (inst *Instance) SetAllFilters(filters []Filter) error {
	kept := make([]Filter, 0, len(filters))
	for _, fl := range filters {
		col := inst.Column(fl.ID)
		if col == nil {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, fl.ID)
		}
		typ, err := inst.filterType(col)
		if err != nil {
			return err
		}
		if !typ.shouldRemove(fl.Value) {
			kept = append(kept, fl)
		}
	}
	return inst.update(func(old State) State {
		old.Filters = kept
		return old
	}, ActionFilterChange)
}
