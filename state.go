package tabular

import "slices"

// DefaultPageSize is used when the state carries no page size.
const DefaultPageSize = 10

// State holds every plugin's sub-state. Each field is owned by one plugin
// but readable by all. A State is replaced as a whole on every update.
type State struct {
	GroupBy   []string      `yaml:"groupBy,omitempty"`
	Filters   []Filter      `yaml:"filters,omitempty"`
	SortBy    []SortingRule `yaml:"sortBy,omitempty"`
	Expanded  ExpandedState `yaml:"expanded,omitempty"`
	PageIndex int           `yaml:"pageIndex,omitempty"`
	PageSize  int           `yaml:"pageSize,omitempty"`
}

// Filter is the active filter value of one column. Filters apply in slice
// order.
type Filter struct {
	ID    string `yaml:"id"`
	Value any    `yaml:"value"`
}

// SortingRule sorts by one column. Earlier rules take priority.
type SortingRule struct {
	ID   string `yaml:"id"`
	Desc bool   `yaml:"desc,omitempty"`
}

// Clone returns a deep copy of the state containers. Filter values are
// copied by reference.
func (s State) Clone() State {
	s.GroupBy = slices.Clone(s.GroupBy)
	s.Filters = slices.Clone(s.Filters)
	s.SortBy = slices.Clone(s.SortBy)
	s.Expanded = s.Expanded.Clone()
	return s
}

// FilterValue returns the filter value for a column.
func (s State) FilterValue(columnID string) (any, bool) {
	for _, f := range s.Filters {
		if f.ID == columnID {
			return f.Value, true
		}
	}
	return nil, false
}

// sortRule returns the position and rule for a column in SortBy.
func (s State) sortRule(columnID string) (int, SortingRule) {
	for i, r := range s.SortBy {
		if r.ID == columnID {
			return i, r
		}
	}
	return -1, SortingRule{}
}

func (s State) pageSize() int {
	if s.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.PageSize
}

// ExpandedState records expanded rows as a tree keyed by row path segments.
// A key present in the map is expanded; its value holds the expanded
// descendants and may be nil.
type ExpandedState map[string]ExpandedState

// IsExpanded reports whether the row at path is expanded. A row is expanded
// when its own entry exists, which implies every ancestor entry exists too.
func (e ExpandedState) IsExpanded(path []string) bool {
	if len(path) == 0 {
		return false
	}
	node := e
	for _, seg := range path {
		next, ok := node[seg]
		if !ok {
			return false
		}
		node = next
	}
	return true
}

// With returns a copy of e with the row at path expanded or collapsed.
// Expanding a row expands its ancestors; collapsing drops its descendants.
func (e ExpandedState) With(path []string, expanded bool) ExpandedState {
	out := e.Clone()
	if len(path) == 0 {
		return out
	}
	if out == nil {
		if !expanded {
			return nil
		}
		out = ExpandedState{}
	}
	seg := path[0]
	child, ok := out[seg]
	if len(path) == 1 {
		if !expanded {
			delete(out, seg)
		} else if !ok {
			out[seg] = nil
		}
		return out
	}
	if !ok && !expanded {
		return out
	}
	sub := child.With(path[1:], expanded)
	if sub == nil {
		sub = ExpandedState{}
	}
	out[seg] = sub
	return out
}

// Clone returns a deep copy.
func (e ExpandedState) Clone() ExpandedState {
	if e == nil {
		return nil
	}
	out := make(ExpandedState, len(e))
	for k, v := range e {
		out[k] = v.Clone()
	}
	return out
}

// Updater computes the next state from the previous one. The argument is a
// private copy and may be modified.
type Updater func(old State) State

// Replace returns an Updater that substitutes s for the current state.
func Replace(s State) Updater {
	return func(State) State { return s.Clone() }
}

// Reducer decides the committed state of an update. It receives the previous
// state, the proposed state and the action that produced it.
type Reducer func(old, next State, action Action) State

// StateStore holds the table state. Supplying one through Options hoists the
// state out of the table; the table reads it on every materialization and
// writes every committed update.
type StateStore interface {
	Load() State
	Store(State)
}

type memoryStore struct {
	state State
}

func (m *memoryStore) Load() State { return m.state }

func (m *memoryStore) Store(s State) { m.state = s }

func filtersEqual(a, b []Filter) bool {
	return slices.EqualFunc(a, b, func(x, y Filter) bool {
		return x.ID == y.ID && valuesEqual(x.Value, y.Value)
	})
}
