package tabular

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
)

// FilterFunc returns the rows whose value for columnID passes value. It must
// not modify the input slice.
type FilterFunc func(rows []*Row, columnID string, value any) []*Row

// FilterType pairs a filter function with the rule deciding when a filter
// value is empty and should be dropped from state. A nil AutoRemove drops
// only nil values.
type FilterType struct {
	Fn         FilterFunc
	AutoRemove func(value any) bool
}

func (t FilterType) shouldRemove(value any) bool {
	if t.AutoRemove == nil {
		return value == nil
	}
	return t.AutoRemove(value)
}

// DefaultFilterTypes returns a fresh copy of the built-in filter types:
// text, exactText, exactTextCase, includes, includesAll, exact, equals and
// between.
func DefaultFilterTypes() map[string]FilterType {
	return map[string]FilterType{
		"text":          {Fn: filterText, AutoRemove: emptyText},
		"exactText":     {Fn: filterExactText, AutoRemove: emptyText},
		"exactTextCase": {Fn: filterExactTextCase, AutoRemove: emptyText},
		"includes":      {Fn: filterIncludes},
		"includesAll":   {Fn: filterIncludesAll, AutoRemove: emptyList},
		"exact":         {Fn: filterExact},
		"equals":        {Fn: filterEquals},
		"between":       {Fn: filterBetween, AutoRemove: emptyRange},
	}
}

func filterTypes(custom map[string]FilterType) map[string]FilterType {
	all := DefaultFilterTypes()
	maps.Copy(all, custom)
	return all
}

func keepRows(rows []*Row, keep func(*Row) bool) []*Row {
	out := make([]*Row, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func filterText(rows []*Row, columnID string, value any) []*Row {
	fold := cases.Fold()
	needle := fold.String(cast.ToString(value))
	return keepRows(rows, func(r *Row) bool {
		return strings.Contains(fold.String(cast.ToString(r.Values[columnID])), needle)
	})
}

func filterExactText(rows []*Row, columnID string, value any) []*Row {
	fold := cases.Fold()
	want := fold.String(cast.ToString(value))
	return keepRows(rows, func(r *Row) bool {
		return fold.String(cast.ToString(r.Values[columnID])) == want
	})
}

func filterExactTextCase(rows []*Row, columnID string, value any) []*Row {
	want := cast.ToString(value)
	return keepRows(rows, func(r *Row) bool {
		return cast.ToString(r.Values[columnID]) == want
	})
}

// filterIncludes keeps rows whose list value contains the filter value.
func filterIncludes(rows []*Row, columnID string, value any) []*Row {
	return keepRows(rows, func(r *Row) bool {
		return slices.ContainsFunc(toSlice(r.Values[columnID]), func(v any) bool { return valuesEqual(v, value) })
	})
}

// filterIncludesAll keeps rows whose list value contains every filter value.
func filterIncludesAll(rows []*Row, columnID string, value any) []*Row {
	wants := toSlice(value)
	return keepRows(rows, func(r *Row) bool {
		have := toSlice(r.Values[columnID])
		for _, w := range wants {
			if !slices.ContainsFunc(have, func(v any) bool { return valuesEqual(v, w) }) {
				return false
			}
		}
		return true
	})
}

func filterExact(rows []*Row, columnID string, value any) []*Row {
	return keepRows(rows, func(r *Row) bool {
		return valuesEqual(r.Values[columnID], value)
	})
}

// filterEquals compares the string forms, so 3 equals "3".
func filterEquals(rows []*Row, columnID string, value any) []*Row {
	want := cast.ToString(value)
	return keepRows(rows, func(r *Row) bool {
		return cast.ToString(r.Values[columnID]) == want
	})
}

// filterBetween takes a two element [min, max] value. A bound that is not a
// number leaves that side open. Both bounds are inclusive.
func filterBetween(rows []*Row, columnID string, value any) []*Row {
	lo, hasLo, hi, hasHi := rangeBounds(value)
	if hasLo && hasHi && lo > hi {
		lo, hi = hi, lo
	}
	return keepRows(rows, func(r *Row) bool {
		v, err := cast.ToFloat64E(r.Values[columnID])
		if err != nil || r.Values[columnID] == nil {
			return false
		}
		return (!hasLo || v >= lo) && (!hasHi || v <= hi)
	})
}

func rangeBounds(value any) (lo float64, hasLo bool, hi float64, hasHi bool) {
	bounds := toSlice(value)
	if len(bounds) > 0 && bounds[0] != nil {
		if f, err := cast.ToFloat64E(bounds[0]); err == nil {
			lo, hasLo = f, true
		}
	}
	if len(bounds) > 1 && bounds[1] != nil {
		if f, err := cast.ToFloat64E(bounds[1]); err == nil {
			hi, hasHi = f, true
		}
	}
	return lo, hasLo, hi, hasHi
}

func emptyText(value any) bool {
	return value == nil || cast.ToString(value) == ""
}

func emptyList(value any) bool {
	return len(toSlice(value)) == 0
}

func emptyRange(value any) bool {
	_, hasLo, _, hasHi := rangeBounds(value)
	return !hasLo && !hasHi
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

// valueKey renders a value for use as a map key. nil is kept apart from the
// empty string.
func valueKey(v any) string {
	switch t := v.(type) {
	case nil:
		return "\x00"
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
