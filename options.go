package tabular

import (
	"github.com/go-logr/logr"
	"golang.org/x/text/language"
)

// Options configures a Table. Only Columns is required.
type Options struct {
	Columns       []ColumnDef
	DefaultColumn ColumnDef
	Data          []any

	// InitialState seeds the internal state store. It is ignored when
	// StateStore is set.
	InitialState State
	StateStore   StateStore
	// StateReducer runs after the plugin reducers on every update and returns
	// the state that is committed.
	StateReducer Reducer
	// OnStateChange observes every committed update.
	OnStateChange func(State, Action)

	GetRowID         RowIDFunc
	GetSubRows       SubRowsFunc
	AccessValueHooks []ValueHook

	// Logger receives debug output at V(1) and V(2). The zero value discards.
	Logger logr.Logger
	// Locale selects the collation of the alphanumeric sort type.
	Locale language.Tag

	// ManualGroupBy exposes grouping state without grouping rows; the data
	// source is expected to deliver grouped rows.
	ManualGroupBy    bool
	DisableGrouping  bool
	Aggregations     map[string]AggregateFunc
	DefaultAggregate string

	// ManualFilters exposes filter state without narrowing rows; the data
	// source is expected to deliver filtered rows.
	ManualFilters  bool
	DisableFilters bool
	FilterTypes    map[string]FilterType

	// ManualSorting exposes sort state without sorting; the data source is
	// expected to deliver rows already in order.
	ManualSorting        bool
	DisableSorting       bool
	DisableMultiSort     bool
	MaxMultiSortColCount int
	SortTypes            map[string]SortFunc

	// ExpandedKey, when set, is resolved on each raw item; a truthy value
	// marks the row expanded regardless of the expanded state.
	ExpandedKey string
	// DisableExpandSubRows keeps expanded sub rows out of the row sequence,
	// leaving their layout to the caller.
	DisableExpandSubRows bool

	// ManualPagination leaves the rows unsliced and takes PageCount from the
	// caller. A PageCount of -1 means unknown.
	ManualPagination             bool
	PageCount                    int
	DisablePageResetOnDataChange bool
}

func (o Options) withDefaults() Options {
	if o.GetRowID == nil {
		o.GetRowID = DefaultRowID
	}
	if o.GetSubRows == nil {
		o.GetSubRows = DefaultSubRows
	}
	o.Logger = o.Logger.WithName("tabular")
	if o.DefaultAggregate == "" {
		o.DefaultAggregate = "count"
	}
	if o.DefaultColumn.Filter == "" && o.DefaultColumn.FilterType == nil {
		o.DefaultColumn.Filter = "text"
	}
	if o.DefaultColumn.SortType == "" && o.DefaultColumn.SortFunc == nil {
		o.DefaultColumn.SortType = "alphanumeric"
	}
	return o
}
