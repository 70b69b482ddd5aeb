package tabular_test

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/tabular"
)

func TestSortBy(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		sortBy []tabular.SortingRule
		want   []any
	}{
		"unsorted": {
			want: []any{"Tanner", "Kent", "Ryan", "Shawn", "Cassidy"},
		},
		"ties keep input order": {
			sortBy: []tabular.SortingRule{{ID: "dept"}},
			want:   []any{"Kent", "Shawn", "Tanner", "Ryan", "Cassidy"},
		},
		"descending ties keep input order": {
			sortBy: []tabular.SortingRule{{ID: "dept", Desc: true}},
			want:   []any{"Tanner", "Ryan", "Cassidy", "Kent", "Shawn"},
		},
		"numbers": {
			sortBy: []tabular.SortingRule{{ID: "age"}},
			want:   []any{"Shawn", "Cassidy", "Kent", "Tanner", "Ryan"},
		},
		"multiple keys": {
			sortBy: []tabular.SortingRule{{ID: "dept"}, {ID: "age", Desc: true}},
			want:   []any{"Kent", "Shawn", "Ryan", "Tanner", "Cassidy"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tbl := newTable(t, tabular.Options{
				InitialState: tabular.State{SortBy: tt.sortBy},
			}, tabular.SortBy())
			assert.Equal(t, tt.want, values(tbl.Instance().Rows, "firstName"))
		})
	}
}

func TestSortTypes(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		sortType string
		in       []any
		want     []any
	}{
		"alphanumeric text": {
			sortType: "alphanumeric",
			in:       []any{"item10", "Banana", "item2", "apple"},
			want:     []any{"apple", "Banana", "item2", "item10"},
		},
		"alphanumeric numbers": {
			sortType: "alphanumeric",
			in:       []any{10, 9.5, 100},
			want:     []any{9.5, 10, 100},
		},
		"datetime": {
			sortType: "datetime",
			in:       []any{"2024-03-01", "2023-12-31", "2024-01-15"},
			want:     []any{"2023-12-31", "2024-01-15", "2024-03-01"},
		},
		"basic": {
			sortType: "basic",
			in:       []any{"b", "B", "a"},
			want:     []any{"B", "a", "b"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			data := make([]any, len(tt.in))
			for i, v := range tt.in {
				data[i] = map[string]any{"v": v}
			}
			tbl := newTable(t, tabular.Options{
				Columns:      []tabular.ColumnDef{{Accessor: "v", SortType: tt.sortType}},
				Data:         data,
				InitialState: tabular.State{SortBy: []tabular.SortingRule{{ID: "v"}}},
			}, tabular.SortBy())
			assert.Equal(t, tt.want, values(tbl.Instance().Rows, "v"))
		})
	}
}

func TestSortFuncDirection(t *testing.T) {
	t.Parallel()
	byLength := func(a, b *tabular.Row, id string) int {
		return cmp.Compare(len(a.Values[id].(string)), len(b.Values[id].(string)))
	}
	cols := personColumns()
	cols[1].SortFunc = byLength
	tbl := newTable(t, tabular.Options{
		Columns:      cols,
		InitialState: tabular.State{SortBy: []tabular.SortingRule{{ID: "lastName", Desc: true}}},
	}, tabular.SortBy())
	assert.Equal(t, []any{"Florence", "Williams", "Linsley", "Dodds", "Wang"}, values(tbl.Instance().Rows, "lastName"))
}

func TestSortSubRows(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, tabular.Options{
		Columns:      []tabular.ColumnDef{{Accessor: "name"}},
		Data:         tree(),
		InitialState: tabular.State{SortBy: []tabular.SortingRule{{ID: "name", Desc: true}}},
	}, tabular.SortBy())
	rows := tbl.Instance().Rows
	assert.Equal(t, []any{"crow", "bee", "alpha"}, values(rows, "name"))
	assert.Equal(t, []any{"bee", "ant"}, values(rows[2].SubRows, "name"))
}

func TestToggleSortBy(t *testing.T) {
	t.Parallel()
	t.Run("cycles ascending, descending, off", func(t *testing.T) {
		t.Parallel()
		tbl := newTable(t, tabular.Options{}, tabular.SortBy())
		for _, want := range [][]tabular.SortingRule{
			{{ID: "age"}},
			{{ID: "age", Desc: true}},
			{},
		} {
			require.NoError(t, tbl.Instance().ToggleSortBy("age", false))
			assert.Equal(t, len(want), len(tbl.State().SortBy))
			if len(want) > 0 {
				assert.Equal(t, want, tbl.State().SortBy)
			}
		}
	})
	t.Run("descending first", func(t *testing.T) {
		t.Parallel()
		cols := personColumns()
		cols[2].SortDescFirst = true
		tbl := newTable(t, tabular.Options{Columns: cols}, tabular.SortBy())
		require.NoError(t, tbl.Instance().ToggleSortBy("age", false))
		assert.Equal(t, []tabular.SortingRule{{ID: "age", Desc: true}}, tbl.State().SortBy)
		require.NoError(t, tbl.Instance().ToggleSortBy("age", false))
		assert.Equal(t, []tabular.SortingRule{{ID: "age"}}, tbl.State().SortBy)
		require.NoError(t, tbl.Instance().ToggleSortBy("age", false))
		assert.Empty(t, tbl.State().SortBy)
	})
	t.Run("multi", func(t *testing.T) {
		t.Parallel()
		tbl := newTable(t, tabular.Options{}, tabular.SortBy())
		require.NoError(t, tbl.Instance().ToggleSortBy("dept", false))
		require.NoError(t, tbl.Instance().ToggleSortBy("age", true))
		assert.Equal(t, []tabular.SortingRule{{ID: "dept"}, {ID: "age"}}, tbl.State().SortBy)
		require.NoError(t, tbl.Instance().ToggleSortBy("age", true))
		assert.Equal(t, []tabular.SortingRule{{ID: "dept"}, {ID: "age", Desc: true}}, tbl.State().SortBy)

		col := tbl.Instance().Column("age")
		assert.True(t, col.IsSorted)
		assert.True(t, col.IsSortedDesc)
		assert.Equal(t, 1, col.SortedIndex)
		assert.Equal(t, -1, tbl.Instance().Column("lastName").SortedIndex)

		require.NoError(t, tbl.Instance().ToggleSortBy("age", true))
		assert.Equal(t, []tabular.SortingRule{{ID: "dept"}}, tbl.State().SortBy)
		assert.False(t, tbl.Instance().Column("age").IsSorted)

		require.NoError(t, tbl.Instance().ToggleSortBy("firstName", false))
		assert.Equal(t, []tabular.SortingRule{{ID: "firstName"}}, tbl.State().SortBy)
	})
	t.Run("multi limit", func(t *testing.T) {
		t.Parallel()
		tbl := newTable(t, tabular.Options{MaxMultiSortColCount: 2}, tabular.SortBy())
		for _, id := range []string{"dept", "age", "lastName"} {
			require.NoError(t, tbl.Instance().ToggleSortBy(id, true))
		}
		assert.Equal(t, []tabular.SortingRule{{ID: "age"}, {ID: "lastName"}}, tbl.State().SortBy)
	})
	t.Run("multi disabled", func(t *testing.T) {
		t.Parallel()
		tbl := newTable(t, tabular.Options{DisableMultiSort: true}, tabular.SortBy())
		require.NoError(t, tbl.Instance().ToggleSortBy("dept", true))
		require.NoError(t, tbl.Instance().ToggleSortBy("age", true))
		assert.Equal(t, []tabular.SortingRule{{ID: "age"}}, tbl.State().SortBy)
	})
	t.Run("unknown column", func(t *testing.T) {
		t.Parallel()
		tbl := newTable(t, tabular.Options{}, tabular.SortBy())
		require.ErrorIs(t, tbl.Instance().ToggleSortBy("missing", false), tabular.ErrUnknownColumn)
	})
}

func TestSetSortBy(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, tabular.Options{}, tabular.SortBy())
	require.NoError(t, tbl.Instance().SetSortBy("age", true, false))
	require.NoError(t, tbl.Instance().SetSortBy("age", true, false))
	assert.Equal(t, []tabular.SortingRule{{ID: "age", Desc: true}}, tbl.State().SortBy)
	assert.Equal(t, []any{"Ryan", "Tanner", "Kent", "Cassidy", "Shawn"}, values(tbl.Instance().Rows, "firstName"))

	require.NoError(t, tbl.Instance().ClearSortBy())
	assert.Empty(t, tbl.State().SortBy)
	assert.Equal(t, "Tanner", tbl.Instance().Rows[0].Values["firstName"])
}

func TestSortOptions(t *testing.T) {
	t.Parallel()
	state := tabular.State{SortBy: []tabular.SortingRule{{ID: "firstName"}}}
	t.Run("manual", func(t *testing.T) {
		t.Parallel()
		tbl := newTable(t, tabular.Options{ManualSorting: true, InitialState: state}, tabular.SortBy())
		assert.Equal(t, "Tanner", tbl.Instance().Rows[0].Values["firstName"])
		assert.True(t, tbl.Instance().Column("firstName").IsSorted)
	})
	t.Run("unknown sort type", func(t *testing.T) {
		t.Parallel()
		cols := personColumns()
		cols[0].SortType = "random"
		_, err := tabular.New(tabular.Options{Columns: cols, Data: people(), InitialState: state}, tabular.SortBy())
		require.ErrorIs(t, err, tabular.ErrUnknownType)
	})
	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		cols := personColumns()
		cols[0].DisableSorting = true
		tbl := newTable(t, tabular.Options{Columns: cols}, tabular.SortBy())
		assert.False(t, tbl.Instance().Column("firstName").CanSort)
		assert.True(t, tbl.Instance().Column("lastName").CanSort)
	})
}
