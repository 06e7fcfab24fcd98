// Package tree walks decoded JSON documents (maps, slices and scalars, as
// produced by unmarshaling into an interface value) without ever panicking.
//
// Registry documents are sparse: branches may be missing, null, or present as
// empty objects and lists that mean the same thing as missing. Get treats all
// of these alike and hands back the caller's default.
package tree

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the shape of a decoded value.
type Kind int

const (
	Missing Kind = iota
	Mapping
	Sequence
	Scalar
)

func (k Kind) String() string {
	switch k {
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	case Scalar:
		return "scalar"
	default:
		return "missing"
	}
}

// KindOf reports the shape of v. Nil maps and slices count as missing.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return Missing
	case map[string]any:
		if t == nil {
			return Missing
		}
		return Mapping
	case []any:
		if t == nil {
			return Missing
		}
		return Sequence
	default:
		return Scalar
	}
}

// IsEmpty is true for missing values and for empty mappings and sequences,
// which the registry uses interchangeably to mean "not there".
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// Get follows path from root. A string step looks up a key in a mapping, an
// int step selects an element of a sequence. A key absent from a mapping
// resolves to an empty mapping, so the walk continues and ends in def. Any
// other mismatch between step and shape aborts the walk with def. If the walk
// ends on an empty value, def is returned as well.
func Get(root any, def any, path ...any) any {
	current := root
	for _, step := range path {
		switch c := current.(type) {
		case map[string]any:
			key, ok := step.(string)
			if !ok {
				current = map[string]any{}
				continue
			}
			v, ok := c[key]
			if !ok {
				v = map[string]any{}
			}
			current = v
		case []any:
			i, ok := step.(int)
			if !ok || i < 0 || i >= len(c) {
				return def
			}
			current = c[i]
		default:
			return def
		}
	}
	if IsEmpty(current) {
		return def
	}
	return current
}

// String returns the scalar at path rendered as text, or nil if there is no
// scalar there.
func String(root any, path ...any) *string {
	v := Get(root, nil, path...)
	if KindOf(v) != Scalar {
		return nil
	}
	s := Text(v)
	return &s
}

// StringOr is like String, but with a fallback instead of nil.
func StringOr(root any, def string, path ...any) string {
	if s := String(root, path...); s != nil {
		return *s
	}
	return def
}

// List returns the sequence at path, or an empty slice.
func List(root any, path ...any) []any {
	if v, ok := Get(root, nil, path...).([]any); ok {
		return v
	}
	return []any{}
}

// Map returns the mapping at path, or nil.
func Map(root any, path ...any) map[string]any {
	if v, ok := Get(root, nil, path...).(map[string]any); ok {
		return v
	}
	return nil
}

// Int returns the number at path, truncated to an int; def if there is no
// number there. Numeric strings are accepted.
func Int(root any, def int, path ...any) int {
	switch v := Get(root, nil, path...).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Text renders a decoded scalar as a string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
