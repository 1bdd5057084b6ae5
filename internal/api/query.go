package api

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EncodeQuery serializes a filter value into a query string.
//
// Structs are read through `query:"name"` tags in field declaration order;
// untagged fields and fields tagged "-" are skipped. Maps are encoded in
// key order. A value is included iff it is not nil and not an empty
// string; the ",omitempty" tag option also drops zero values (page=0).
// Slices are joined with commas.
func EncodeQuery(v any) string {
	pairs := queryPairs(v)
	if len(pairs) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// WithQuery appends the encoded filters to path.
func WithQuery(path string, v any) string {
	q := EncodeQuery(v)
	if q == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + q
	}
	return path + "?" + q
}

type queryPair struct {
	key   string
	value string
}

func queryPairs(v any) []queryPair {
	switch m := v.(type) {
	case nil:
		return nil
	case url.Values:
		var pairs []queryPair
		for _, k := range sortedKeys(m) {
			for _, val := range m[k] {
				if val != "" {
					pairs = append(pairs, queryPair{k, val})
				}
			}
		}
		return pairs
	case map[string]string:
		var pairs []queryPair
		for _, k := range sortedKeys(m) {
			if m[k] != "" {
				pairs = append(pairs, queryPair{k, m[k]})
			}
		}
		return pairs
	case map[string]any:
		var pairs []queryPair
		for _, k := range sortedKeys(m) {
			if s, ok := formatValue(reflect.ValueOf(m[k])); ok {
				pairs = append(pairs, queryPair{k, s})
			}
		}
		return pairs
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	var pairs []queryPair
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty := parseQueryTag(field.Tag.Get("query"))
		if name == "" {
			continue
		}

		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		if s, ok := formatValue(fv); ok {
			pairs = append(pairs, queryPair{name, s})
		}
	}
	return pairs
}

func parseQueryTag(tag string) (name string, omitEmpty bool) {
	if tag == "" || tag == "-" {
		return "", false
	}
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts == "omitempty"
}

var timeType = reflect.TypeOf(time.Time{})

// formatValue stringifies v, reporting false when it must be omitted.
func formatValue(v reflect.Value) (string, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return "", false
	}

	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "", false
		}
		return t.Format(time.RFC3339), true
	}

	switch v.Kind() {
	case reflect.String:
		s := v.String()
		return s, s != ""
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, v.Len())
		for i := range v.Len() {
			if s, ok := formatValue(v.Index(i)); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), len(parts) > 0
	case reflect.Map, reflect.Struct, reflect.Func, reflect.Chan:
		return "", false
	}
	return fmt.Sprint(v.Interface()), true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
