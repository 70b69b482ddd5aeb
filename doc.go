// Package tabular turns raw records and a column configuration into a
// render-ready table model: columns, header groups, rows and cells.
//
// Rendering is left to the caller. The package computes what a table shows
// (which rows, in which order, grouped how, on which page) and keeps the
// interaction state that drives it.
//
// # Columns
//
// A [ColumnDef] describes one column. Nested Columns make a group column that
// only shapes the header rows. The column id comes from ID, then Accessor,
// then Header:
//
//	cols := []tabular.ColumnDef{
//		{Header: "Name", Columns: []tabular.ColumnDef{
//			{Header: "First Name", Accessor: "firstName"},
//			{Header: "Last Name", Accessor: "lastName"},
//		}},
//		{Header: "Age", Accessor: "age"},
//	}
//
// Accessor strings are paths such as "a.b[0].c" resolved with [Get] over
// maps, slices and structs. Use AccessorFunc for computed values.
//
// # Tables and Instances
//
// [New] validates the configuration and the plugin order and builds the first
// [Instance]. Every state change goes through [Table.SetState] or one of the
// Instance helpers (ToggleSortBy, SetFilter, GotoPage, ...), after which a new
// Instance is built:
//
//	t, err := tabular.New(tabular.Options{Columns: cols, Data: data},
//		tabular.SortBy(), tabular.Pagination())
//	inst := t.Instance()
//	err = inst.ToggleSortBy("firstName", false)
//	inst = t.Instance()
//
// Call [Instance.PrepareRow] before reading [Row.Cells].
//
// # Plugins
//
// A [Plugin] transforms the instance during the pipeline fold and may register
// callbacks on the extension points:
//
//   - [Instance.UseColumns] → reorder or filter visible columns
//   - [Instance.UseHeaderGroups] → decorate header groups
//   - [Instance.UseInstance] → decorate the final instance
//   - [Instance.UsePrepareRow] → decorate prepared rows
//   - [Instance.UseStateReducer] → adjust later state updates
//
// The built-in plugins must be registered in this order, other plugins may go
// anywhere:
//
//   - [GroupBy] → group rows and aggregate values
//   - [Filters] → narrow rows per column
//   - [SortBy] → order rows by one or more columns
//   - [Expanded] → flatten expanded sub rows into the row sequence
//   - [Pagination] → slice rows into pages
//
// # Configuration
//
// [LoadConfig] reads the declarative part of [Options] from YAML.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrColumnID], [ErrDuplicateColumn]: column configuration, reported as
//     [*ColumnError] values
//   - [ErrPluginOrder], [ErrDuplicatePlugin]: plugin registration
//   - [ErrUnknownColumn], [ErrUnknownType]: state or registry lookups
//   - [ErrRowNotPrepared]: panics from [Row.Cells]
//   - [ErrConfig]: configuration decoding
package tabular
