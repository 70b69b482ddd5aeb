package tabular

import "github.com/spf13/cast"

// Expanded returns the expansion plugin. It flattens the row tree into the
// row sequence: each row is followed by its sub rows when it is expanded;
// sub rows of collapsed rows are left out entirely.
func Expanded() Plugin {
	return Plugin{Name: "expanded", Stage: StageExpanded, Apply: applyExpanded}
}

func applyExpanded(inst *Instance) (*Instance, error) {
	opts := inst.Options
	expanded := inst.State.Expanded
	out := make([]*Row, 0, len(inst.Rows))

	var visit func(r *Row, emit bool)
	visit = func(r *Row, emit bool) {
		r.IsExpanded = expanded.IsExpanded(r.Path)
		if !r.IsExpanded && opts.ExpandedKey != "" && r.Original != nil {
			r.IsExpanded = cast.ToBool(Get(r.Original, opts.ExpandedKey, false))
		}
		r.CanExpand = len(r.SubRows) > 0
		if emit {
			out = append(out, r)
		}
		if !r.IsExpanded {
			return
		}
		for _, sub := range r.SubRows {
			visit(sub, emit && !opts.DisableExpandSubRows)
		}
	}
	for _, r := range inst.Rows {
		visit(r, true)
	}

	inst.Rows = out
	inst.ExpandedRows = out
	return inst, nil
}

// ToggleExpanded flips the expansion of the row at path (the row's Path).
func (inst *Instance) ToggleExpanded(path ...string) error {
	return inst.update(func(old State) State {
		old.Expanded = old.Expanded.With(path, !old.Expanded.IsExpanded(path))
		return old
	}, ActionExpandedChange)
}

// SetExpanded expands or collapses the row at path.
func (inst *Instance) SetExpanded(expanded bool, path ...string) error {
	return inst.update(func(old State) State {
		old.Expanded = old.Expanded.With(path, expanded)
		return old
	}, ActionExpandedChange)
}
