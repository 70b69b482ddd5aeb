package tabular_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/tabular"
)

func TestFilters(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		cols    func([]tabular.ColumnDef)
		filters []tabular.Filter
		want    []any
	}{
		"text contains case-insensitively": {
			filters: []tabular.Filter{{ID: "firstName", Value: "AN"}},
			want:    []any{"Tanner", "Ryan"},
		},
		"filters combine": {
			filters: []tabular.Filter{
				{ID: "firstName", Value: "an"},
				{ID: "dept", Value: "eng"},
				{ID: "lastName", Value: "lin"},
			},
			want: []any{"Tanner"},
		},
		"no match": {
			filters: []tabular.Filter{{ID: "firstName", Value: "zzz"}},
			want:    []any{},
		},
		"between": {
			cols:    func(c []tabular.ColumnDef) { c[2].Filter = "between" },
			filters: []tabular.Filter{{ID: "age", Value: []any{30, 33}}},
			want:    []any{"Tanner", "Kent", "Cassidy"},
		},
		"between open upper": {
			cols:    func(c []tabular.ColumnDef) { c[2].Filter = "between" },
			filters: []tabular.Filter{{ID: "age", Value: []any{33, nil}}},
			want:    []any{"Tanner", "Ryan"},
		},
		"between swapped bounds": {
			cols:    func(c []tabular.ColumnDef) { c[2].Filter = "between" },
			filters: []tabular.Filter{{ID: "age", Value: []any{30, 29}}},
			want:    []any{"Shawn", "Cassidy"},
		},
		"equals": {
			cols:    func(c []tabular.ColumnDef) { c[2].Filter = "equals" },
			filters: []tabular.Filter{{ID: "age", Value: "32"}},
			want:    []any{"Kent"},
		},
		"exact": {
			cols:    func(c []tabular.ColumnDef) { c[2].Filter = "exact" },
			filters: []tabular.Filter{{ID: "age", Value: 36}},
			want:    []any{"Ryan"},
		},
		"exactText": {
			cols:    func(c []tabular.ColumnDef) { c[3].Filter = "exactText" },
			filters: []tabular.Filter{{ID: "dept", Value: "EDU"}},
			want:    []any{"Kent", "Shawn"},
		},
		"exactTextCase": {
			cols:    func(c []tabular.ColumnDef) { c[3].Filter = "exactTextCase" },
			filters: []tabular.Filter{{ID: "dept", Value: "EDU"}},
			want:    []any{},
		},
		"custom filter function": {
			cols: func(c []tabular.ColumnDef) {
				c[2].FilterType = &tabular.FilterType{Fn: func(rows []*tabular.Row, id string, value any) []*tabular.Row {
					var out []*tabular.Row
					for _, r := range rows {
						if r.Values[id].(int)%2 == value.(int) {
							out = append(out, r)
						}
					}
					return out
				}}
			},
			filters: []tabular.Filter{{ID: "age", Value: 0}},
			want:    []any{"Kent", "Ryan", "Cassidy"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cols := personColumns()
			if tt.cols != nil {
				tt.cols(cols)
			}
			tbl := newTable(t, tabular.Options{
				Columns:      cols,
				InitialState: tabular.State{Filters: tt.filters},
			}, tabular.Filters())
			assert.Equal(t, tt.want, values(tbl.Instance().Rows, "firstName"))
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, tabular.Options{}, tabular.Filters())
	inst := tbl.Instance()
	require.NoError(t, inst.SetFilter("firstName", "an"))
	once := values(tbl.Instance().Rows, "firstName")

	require.NoError(t, tbl.Instance().SetFilter("firstName", "an"))
	assert.Equal(t, once, values(tbl.Instance().Rows, "firstName"))
	assert.Len(t, tbl.State().Filters, 1)
}

func TestSetFilter(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, tabular.Options{}, tabular.Filters())

	require.NoError(t, tbl.Instance().SetFilter("dept", "eng"))
	inst := tbl.Instance()
	assert.Len(t, inst.Rows, 3)
	assert.Len(t, inst.PreFilteredRows, 5)
	col := inst.Column("dept")
	assert.True(t, col.IsFiltered)
	assert.Equal(t, "eng", col.FilterValue)
	assert.Len(t, col.FilteredRows, 3)
	assert.True(t, col.CanFilter)

	require.NoError(t, inst.UpdateFilter("dept", func(old any) any { return old.(string)[:1] }))
	assert.Equal(t, []tabular.Filter{{ID: "dept", Value: "e"}}, tbl.State().Filters)

	// An empty text value removes the filter.
	require.NoError(t, tbl.Instance().SetFilter("dept", ""))
	assert.Empty(t, tbl.State().Filters)
	assert.Len(t, tbl.Instance().Rows, 5)

	require.ErrorIs(t, tbl.Instance().SetFilter("missing", "x"), tabular.ErrUnknownColumn)
}

func TestSetAllFilters(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, tabular.Options{}, tabular.Filters())
	require.NoError(t, tbl.Instance().SetAllFilters([]tabular.Filter{
		{ID: "dept", Value: "edu"},
		{ID: "lastName", Value: "w"},
	}))
	assert.Equal(t, []any{"Shawn"}, values(tbl.Instance().Rows, "firstName"))

	// Empty values are dropped rather than stored.
	require.NoError(t, tbl.Instance().SetAllFilters([]tabular.Filter{
		{ID: "firstName", Value: ""},
		{ID: "age", Value: nil},
		{ID: "dept", Value: "eng"},
	}))
	assert.Equal(t, []tabular.Filter{{ID: "dept", Value: "eng"}}, tbl.State().Filters)
	assert.Len(t, tbl.Instance().Rows, 3)

	require.ErrorIs(t, tbl.Instance().SetAllFilters([]tabular.Filter{{ID: "missing", Value: "x"}}), tabular.ErrUnknownColumn)
}

func TestSetAllFiltersDropsOpenRange(t *testing.T) {
	t.Parallel()
	cols := personColumns()
	cols[2].Filter = "between"
	tbl := newTable(t, tabular.Options{Columns: cols}, tabular.Filters())
	require.NoError(t, tbl.Instance().SetAllFilters([]tabular.Filter{{ID: "age", Value: []any{nil, nil}}}))
	assert.Empty(t, tbl.State().Filters)
	assert.Len(t, tbl.Instance().Rows, 5)
}

func TestFilterOptions(t *testing.T) {
	t.Parallel()
	state := tabular.State{Filters: []tabular.Filter{{ID: "dept", Value: "eng"}}}
	t.Run("manual", func(t *testing.T) {
		t.Parallel()
		tbl := newTable(t, tabular.Options{ManualFilters: true, InitialState: state}, tabular.Filters())
		assert.Len(t, tbl.Instance().Rows, 5)
		assert.True(t, tbl.Instance().Column("dept").IsFiltered)
	})
	t.Run("unknown filter type", func(t *testing.T) {
		t.Parallel()
		cols := personColumns()
		cols[3].Filter = "fuzzy"
		_, err := tabular.New(tabular.Options{Columns: cols, Data: people(), InitialState: state}, tabular.Filters())
		require.ErrorIs(t, err, tabular.ErrUnknownType)
	})
	t.Run("registered filter type", func(t *testing.T) {
		t.Parallel()
		cols := personColumns()
		cols[3].Filter = "none"
		tbl := newTable(t, tabular.Options{
			Columns:      cols,
			InitialState: state,
			FilterTypes: map[string]tabular.FilterType{
				"none": {Fn: func([]*tabular.Row, string, any) []*tabular.Row { return nil }},
			},
		}, tabular.Filters())
		assert.Empty(t, tbl.Instance().Rows)
	})
	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		tbl := newTable(t, tabular.Options{DisableFilters: true}, tabular.Filters())
		assert.False(t, tbl.Instance().Column("dept").CanFilter)
	})
}

func TestFilterSubRows(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, tabular.Options{
		Columns:      []tabular.ColumnDef{{Accessor: "name"}},
		Data:         tree(),
		InitialState: tabular.State{Filters: []tabular.Filter{{ID: "name", Value: "a"}}},
	}, tabular.Filters())
	rows := tbl.Instance().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "alpha", rows[0].Values["name"])
	assert.Equal(t, []any{"ant"}, values(rows[0].SubRows, "name"))
}

func TestDefaultFilterTypesAutoRemove(t *testing.T) {
	t.Parallel()
	types := tabular.DefaultFilterTypes()
	tests := map[string]struct {
		typ   string
		value any
		want  bool
	}{
		"text empty":          {typ: "text", value: "", want: true},
		"text set":            {typ: "text", value: "a", want: false},
		"includesAll empty":   {typ: "includesAll", value: []any{}, want: true},
		"includesAll set":     {typ: "includesAll", value: []any{"a"}, want: false},
		"between open":        {typ: "between", value: []any{nil, nil}, want: true},
		"between lower bound": {typ: "between", value: []any{1, nil}, want: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, types[tt.typ].AutoRemove(tt.value))
		})
	}
}

func TestIncludesFilters(t *testing.T) {
	t.Parallel()
	data := []any{
		map[string]any{"name": "a", "tags": []any{"x", "y"}},
		map[string]any{"name": "b", "tags": []any{"y"}},
		map[string]any{"name": "c", "tags": []any{}},
	}
	cols := func(filter string) []tabular.ColumnDef {
		return []tabular.ColumnDef{{Accessor: "name"}, {Accessor: "tags", Filter: filter}}
	}

	tbl := newTable(t, tabular.Options{
		Columns:      cols("includes"),
		Data:         data,
		InitialState: tabular.State{Filters: []tabular.Filter{{ID: "tags", Value: "y"}}},
	}, tabular.Filters())
	assert.Equal(t, []any{"a", "b"}, values(tbl.Instance().Rows, "name"))

	tbl = newTable(t, tabular.Options{
		Columns:      cols("includesAll"),
		Data:         data,
		InitialState: tabular.State{Filters: []tabular.Filter{{ID: "tags", Value: []any{"x", "y"}}}},
	}, tabular.Filters())
	assert.Equal(t, []any{"a"}, values(tbl.Instance().Rows, "name"))
}
