package tabular

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrConfig          = errors.New("invalid configuration")
	ErrMissingOption   = errors.New("missing required option")
	ErrColumnID        = errors.New("column id cannot be resolved")
	ErrDuplicateColumn = errors.New("duplicate column id")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownType     = errors.New("unknown type")
	ErrPluginOrder     = errors.New("plugin out of order")
	ErrDuplicatePlugin = errors.New("duplicate plugin")
	ErrRowNotPrepared  = errors.New("row cells read before PrepareRow")
	ErrDetached        = errors.New("instance is not attached to a table")
	ErrPageSize        = errors.New("page size must be positive")
)

// ColumnError reports a column configuration problem together with the
// position of the offending column in the configuration tree.
type ColumnError struct {
	// Path locates the column, e.g. "columns[1].columns[0]".
	Path   string
	Header string
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Header != "" {
		return fmt.Sprintf("%s (header %q): %v", e.Path, e.Header, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// Action names the kind of state change handed to reducers and observers.
type Action string

const (
	ActionInit           Action = "init"
	ActionSetState       Action = "setState"
	ActionDataChange     Action = "dataChange"
	ActionGroupByChange  Action = "groupByChange"
	ActionFilterChange   Action = "filterChange"
	ActionSortByChange   Action = "sortByChange"
	ActionExpandedChange Action = "expandedChange"
	ActionPageChange     Action = "pageChange"
	ActionPageSizeChange Action = "pageSizeChange"
)

// String returns the action name.
func (a Action) String() string { return string(a) }

// Stage places a plugin in the documented pipeline order. Built-in plugins
// must appear as grouping, filtering, sorting, expansion, pagination.
// StageAny plugins may go anywhere.
type Stage int

const (
	StageAny Stage = iota
	StageGroupBy
	StageFilters
	StageSortBy
	StageExpanded
	StagePagination
)

var stageNames = map[Stage]string{
	StageAny:        "any",
	StageGroupBy:    "groupBy",
	StageFilters:    "filters",
	StageSortBy:     "sortBy",
	StageExpanded:   "expanded",
	StagePagination: "pagination",
}

// String returns the stage name.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Plugin is one step of the materialization pipeline. Apply receives the
// instance after every earlier plugin has run and returns the instance for the
// next one (usually the same pointer). Work that needs the final instance is
// registered through the Use* extension points instead.
type Plugin struct {
	Name  string
	Stage Stage

	// AccessValue, when set, runs on every cell value during row
	// materialization, after Options.AccessValueHooks.
	AccessValue ValueHook

	Apply func(inst *Instance) (*Instance, error)
}

func validatePlugins(plugins []Plugin) error {
	seen := make(map[string]bool, len(plugins))
	last := StageAny
	lastName := ""
	for _, p := range plugins {
		if p.Name == "" {
			return fmt.Errorf("%w: plugin name", ErrMissingOption)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicatePlugin, p.Name)
		}
		seen[p.Name] = true
		if p.Stage == StageAny {
			continue
		}
		if p.Stage < last {
			return fmt.Errorf("%w: %q (%s) must come before %q (%s)", ErrPluginOrder, p.Name, p.Stage, lastName, last)
		}
		last, lastName = p.Stage, p.Name
	}
	return nil
}
