package tabular

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Table owns the inputs of the pipeline (options, plugins, data and state)
// and rebuilds the Instance whenever one of them changes. A Table is not
// safe for concurrent use.
type Table struct {
	opts    Options
	plugins []Plugin
	store   StateStore
	data    []any
	inst    *Instance
	log     logr.Logger
}

// New validates the column configuration and the plugin order, then
// materializes the first instance.
func New(opts Options, plugins ...Plugin) (*Table, error) {
	if len(opts.Columns) == 0 {
		return nil, fmt.Errorf("%w: Columns", ErrMissingOption)
	}
	if err := validatePlugins(plugins); err != nil {
		return nil, err
	}

	o := opts.withDefaults()
	t := &Table{
		opts:    o,
		plugins: plugins,
		store:   o.StateStore,
		data:    o.Data,
		log:     o.Logger,
	}
	if t.store == nil {
		initial := o.InitialState.Clone()
		if initial.PageSize <= 0 {
			initial.PageSize = DefaultPageSize
		}
		t.store = &memoryStore{state: initial}
	}
	if err := t.rebuild(); err != nil {
		return nil, err
	}
	t.log.V(1).Info("table created", "plugins", len(plugins), "rows", len(t.data))
	return t, nil
}

// Instance returns the most recent successfully materialized instance.
func (t *Table) Instance() *Instance { return t.inst }

// State returns the committed state.
func (t *Table) State() State { return t.store.Load().Clone() }

// Data returns the current raw data.
func (t *Table) Data() []any { return t.data }

// SetData replaces the raw data and rematerializes. The previous data is
// kept when the build fails.
func (t *Table) SetData(data []any) error {
	prev := t.data
	t.data = data
	if err := t.dispatch(func(s State) State { return s }, ActionDataChange); err != nil {
		t.data = prev
		return err
	}
	return nil
}

// SetState is the single entry point for state changes. The proposed state
// passes through the plugin reducers and Options.StateReducer and a new
// instance is built from it. Only a state that builds is committed to the
// store and reported to Options.OnStateChange; when the build fails the error
// is returned and both the stored state and the instance stay unchanged.
func (t *Table) SetState(fn Updater, action Action) error {
	if action == "" {
		action = ActionSetState
	}
	return t.dispatch(fn, action)
}

func (t *Table) dispatch(fn Updater, action Action) error {
	old := t.store.Load()
	next := fn(old.Clone())
	if t.inst != nil {
		for _, r := range t.inst.hooks.stateReducers {
			next = r.fn(old, next, action)
		}
	}
	if t.opts.StateReducer != nil {
		next = t.opts.StateReducer(old, next, action)
	}
	inst, err := t.build(next)
	if err != nil {
		t.log.V(1).Info("state rejected", "action", action, "error", err.Error())
		return err
	}
	t.store.Store(next)
	t.inst = inst
	t.log.V(1).Info("state committed", "action", action)
	if t.opts.OnStateChange != nil {
		t.opts.OnStateChange(next.Clone(), action)
	}
	return nil
}

func (t *Table) rebuild() error {
	inst, err := t.build(t.store.Load())
	if err != nil {
		return err
	}
	t.inst = inst
	return nil
}

func (t *Table) build(state State) (*Instance, error) {
	return build(&t.opts, t.plugins, t.data, state.Clone(), t.dispatch)
}
