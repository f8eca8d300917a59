package assetdoc

import "reflect"

// Clone returns a deep copy of a JSON value tree. Scalars are returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// CloneRecords deep-copies a record list, giving an edit session its own
// working copy.
func CloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Record{Title: r.Title, Type: r.Type, Data: Clone(r.Data)}
	}
	return out
}

// Equal reports whether two JSON value trees hold the same content.
// Numbers compare by value whatever their Go type, and string lists equal
// the matching []any.
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}

	if ma, ok := a.(map[string]any); ok {
		mb, ok := b.(map[string]any)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, present := mb[k]
			if !present || !Equal(va, vb) {
				return false
			}
		}
		return true
	}

	if sa, ok := asSlice(a); ok {
		sb, ok := asSlice(b)
		if !ok || len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !Equal(sa[i], sb[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// MergeData overlays the top-level keys of patch onto a copy of base.
// Nested objects are replaced, not merged. When either side is not an
// object, patch wins outright.
func MergeData(base, patch any) any {
	mb, okBase := base.(map[string]any)
	mp, okPatch := patch.(map[string]any)
	if !okBase || !okPatch {
		return patch
	}
	out := make(map[string]any, len(mb)+len(mp))
	for k, v := range mb {
		out[k] = v
	}
	for k, v := range mp {
		out[k] = v
	}
	return out
}

// toFloat widens Go numeric kinds to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
