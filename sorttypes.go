package tabular

import (
	"cmp"
	"maps"
	"reflect"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortFunc compares the values of columnID in two rows in ascending order.
// Descending order is applied by the caller by negating the result.
type SortFunc func(a, b *Row, columnID string) int

// DefaultSortTypes returns the built-in sort types:
//
//   - alphanumeric: numbers compare numerically; everything else compares as
//     text under the locale's collation, with digit runs compared by value
//     ("item2" < "item10").
//   - datetime: time.Time values or strings parseable as times.
//   - basic: numbers numerically, everything else by byte order.
//
// The alphanumeric collator is not safe for concurrent use, so every call
// returns new functions.
func DefaultSortTypes(tag language.Tag) map[string]SortFunc {
	c := collate.New(tag, collate.Numeric)
	return map[string]SortFunc{
		"alphanumeric": func(a, b *Row, id string) int {
			return compareAlphanumeric(c, a.Values[id], b.Values[id])
		},
		"datetime": func(a, b *Row, id string) int {
			return compareDatetime(a.Values[id], b.Values[id])
		},
		"basic": func(a, b *Row, id string) int {
			return compareBasic(a.Values[id], b.Values[id])
		},
	}
}

func sortTypes(tag language.Tag, custom map[string]SortFunc) map[string]SortFunc {
	all := DefaultSortTypes(tag)
	maps.Copy(all, custom)
	return all
}

func compareAlphanumeric(c *collate.Collator, a, b any) int {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return c.CompareString(cast.ToString(a), cast.ToString(b))
}

func compareDatetime(a, b any) int {
	return toTime(a).Compare(toTime(b))
}

func compareBasic(a, b any) int {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return cmp.Compare(cast.ToString(a), cast.ToString(b))
}

// number converts values of numeric kinds. Numeric strings are not numbers
// here; they are ordered by the collator instead.
func number(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	}
	return 0, false
}

func toTime(v any) time.Time {
	if v == nil {
		return time.Time{}
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}
	}
	return t
}
