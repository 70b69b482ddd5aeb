package tabular

import (
	"fmt"
	"slices"
)

// SortBy returns the sorting plugin. Rows are ordered by State.SortBy in
// priority order with a stable sort, so rows equal on every key keep their
// previous order. Sub rows are sorted with the same keys.
func SortBy() Plugin {
	return Plugin{Name: "sortBy", Stage: StageSortBy, Apply: applySortBy}
}

type sortKey struct {
	id   string
	desc bool
	fn   SortFunc
}

func applySortBy(inst *Instance) (*Instance, error) {
	opts := inst.Options
	sortBy := inst.State.SortBy

	for _, col := range inst.LeafColumns {
		col.CanSort = col.HasAccessor() && !opts.DisableSorting && !col.Def.DisableSorting
		i, rule := inst.State.sortRule(col.ID)
		col.SortedIndex = i
		col.IsSorted = i >= 0
		col.IsSortedDesc = col.IsSorted && rule.Desc
	}

	inst.PreSortedRows = inst.Rows
	if opts.ManualSorting || len(sortBy) == 0 {
		inst.SortedRows = inst.Rows
		return inst, nil
	}

	registry := sortTypes(opts.Locale, opts.SortTypes)
	keys := make([]sortKey, 0, len(sortBy))
	for _, rule := range sortBy {
		col := inst.Column(rule.ID)
		if col == nil {
			return nil, fmt.Errorf("%w: sortBy %q", ErrUnknownColumn, rule.ID)
		}
		fn, err := resolveSortFunc(col, registry)
		if err != nil {
			return nil, err
		}
		keys = append(keys, sortKey{id: rule.ID, desc: rule.Desc, fn: fn})
	}

	sorted := sortRows(inst.Rows, keys)
	inst.Rows = sorted
	inst.SortedRows = sorted
	inst.log.V(1).Info("sorted rows", "keys", len(keys))
	return inst, nil
}

func resolveSortFunc(col *Column, registry map[string]SortFunc) (SortFunc, error) {
	if col.Def.SortFunc != nil {
		return col.Def.SortFunc, nil
	}
	fn, ok := registry[col.Def.SortType]
	if !ok {
		return nil, fmt.Errorf("%w: sort type %q on column %q", ErrUnknownType, col.Def.SortType, col.ID)
	}
	return fn, nil
}

func sortRows(rows []*Row, keys []sortKey) []*Row {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b *Row) int {
		for _, k := range keys {
			c := k.fn(a, b, k.id)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	for _, r := range sorted {
		if len(r.SubRows) > 0 {
			r.SubRows = sortRows(r.SubRows, keys)
		}
	}
	return sorted
}

// ToggleSortBy cycles a column's sort. Without multi, the column replaces any
// other sort; sorting a column that is already the only sort flips its
// direction, and a second flip clears it. With multi (unless
// DisableMultiSort), the column is added as the lowest priority key or its
// direction flips.
func (inst *Instance) ToggleSortBy(columnID string, multi bool) error {
	return inst.sortBy(columnID, nil, multi)
}

// SetSortBy sorts by a column in the given direction, following the same
// replace or add rules as ToggleSortBy.
func (inst *Instance) SetSortBy(columnID string, desc, multi bool) error {
	return inst.sortBy(columnID, &desc, multi)
}

// ClearSortBy removes every sort.
func (inst *Instance) ClearSortBy() error {
	return inst.update(func(old State) State {
		old.SortBy = nil
		return old
	}, ActionSortByChange)
}

func (inst *Instance) sortBy(columnID string, desc *bool, multi bool) error {
	col := inst.Column(columnID)
	if col == nil {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, columnID)
	}
	opts := inst.Options
	descFirst := col.Def.SortDescFirst

	return inst.update(func(old State) State {
		i, existing := old.sortRule(columnID)
		exists := i >= 0

		pick := func(fallback bool) bool {
			if desc != nil {
				return *desc
			}
			return fallback
		}

		switch {
		case multi && !opts.DisableMultiSort && exists && desc == nil && existing.Desc != descFirst:
			old.SortBy = slices.Delete(old.SortBy, i, i+1)
		case multi && !opts.DisableMultiSort && exists:
			old.SortBy[i].Desc = pick(!existing.Desc)
		case multi && !opts.DisableMultiSort:
			old.SortBy = append(old.SortBy, SortingRule{ID: columnID, Desc: pick(descFirst)})
			if limit := opts.MaxMultiSortColCount; limit > 0 && len(old.SortBy) > limit {
				old.SortBy = old.SortBy[len(old.SortBy)-limit:]
			}
		case exists && len(old.SortBy) == 1 && desc == nil && existing.Desc != descFirst:
			old.SortBy = nil
		case exists && len(old.SortBy) == 1:
			old.SortBy[0].Desc = pick(!existing.Desc)
		default:
			old.SortBy = []SortingRule{{ID: columnID, Desc: pick(descFirst)}}
		}
		return old
	}, ActionSortByChange)
}
