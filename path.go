package tabular

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// pathCache maps a literal accessor path to its parsed keys. It grows with the
// number of distinct paths configured, not with data volume.
var pathCache sync.Map

var pathReplacer = strings.NewReplacer("[", ".", "]", "")

// PathKeys parses a dot/bracket path such as "a.b[0].c" into its keys
// ("a", "b", "0", "c"). Results are cached by the literal path.
func PathKeys(path string) []string {
	if keys, ok := pathCache.Load(path); ok {
		return keys.([]string)
	}
	keys, _ := pathCache.LoadOrStore(path, parsePath(path))
	return keys.([]string)
}

func parsePath(path string) []string {
	parts := strings.Split(pathReplacer.Replace(path), ".")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// Get resolves path against obj. It returns def when a key does not resolve
// or the resolved value is nil.
func Get(obj any, path string, def any) any {
	return GetKeys(obj, PathKeys(path), def)
}

// GetKeys is Get with a pre-split key sequence.
func GetKeys(obj any, keys []string, def any) any {
	v := obj
	for _, k := range keys {
		next, ok := lookup(v, k)
		if !ok {
			return def
		}
		v = next
	}
	if v == nil {
		return def
	}
	return v
}

// lookup resolves one key against maps, slices, arrays and structs. Struct
// fields match by name, then by yaml or json tag, then case-insensitively.
func lookup(v any, key string) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		val, ok := t[key]
		return val, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(t) {
			return nil, false
		}
		return t[i], true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		return structField(rv, key)
	}
	return nil, false
}

func structField(rv reflect.Value, key string) (any, bool) {
	rt := rv.Type()
	if f, ok := rt.FieldByName(key); ok && f.IsExported() {
		// Fails when promoted through a nil embedded pointer.
		v, err := rv.FieldByIndexErr(f.Index)
		if err != nil || !v.CanInterface() {
			return nil, false
		}
		return v.Interface(), true
	}
	fold := -1
	for i := range rt.NumField() {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if tagName(f, "yaml") == key || tagName(f, "json") == key {
			return rv.Field(i).Interface(), true
		}
		if fold < 0 && strings.EqualFold(f.Name, key) {
			fold = i
		}
	}
	if fold >= 0 {
		return rv.Field(fold).Interface(), true
	}
	return nil, false
}

func tagName(f reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
	return name
}

// toSlice converts any slice or array value to []any. Other values yield nil.
func toSlice(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
