package assetdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// PathSeparator delimits path segments ("rounds.0.series").
const PathSeparator = "."

// MaxArrayIndex bounds numeric segments so a stray path cannot allocate
// an arbitrarily large array.
const MaxArrayIndex = 9999

// Lookup walks root along path and returns the value found there.
// The boolean is false when any segment is missing or a non-container
// is met before the end of the path. Lookup never panics on bad paths.
func Lookup(root any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := root
	for _, seg := range strings.Split(path, PathSeparator) {
		switch c := current.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			current = v
		default:
			items, isSlice := asSlice(current)
			if !isSlice {
				return nil, false
			}
			idx, ok := parseIndex(seg)
			if !ok || idx >= len(items) {
				return nil, false
			}
			current = items[idx]
		}
	}
	return current, true
}

// Get returns the value at path, or def when the path does not resolve.
func Get(root any, path string, def any) any {
	if v, ok := Lookup(root, path); ok {
		return v
	}
	return def
}

// Set assigns value at path inside root and returns the resulting root.
//
// Intermediate containers are created on demand. The kind of each one is
// chosen by looking at the next segment: a non-negative decimal integer
// yields an array ([]any), anything else an object (map[string]any). An
// existing intermediate value of the wrong kind is replaced by a fresh
// container ("repair forward"). The leaf is always overwritten.
//
// Maps are mutated in place. Arrays may need to grow, so callers must use
// the returned root; a nil root is allocated from the first segment. An
// index above MaxArrayIndex is rejected before anything is touched.
func Set(root any, path string, value any) (any, error) {
	return set(root, path, value, false)
}

// SetStrict behaves like Set but returns ErrPathShapeConflict instead of
// replacing an existing intermediate value of the wrong kind. On error the
// root may already hold containers created for earlier segments.
func SetStrict(root any, path string, value any) (any, error) {
	return set(root, path, value, true)
}

func set(root any, path string, value any, strict bool) (any, error) {
	if path == "" {
		return root, ErrEmptyPath
	}
	segs := strings.Split(path, PathSeparator)

	if root == nil {
		root = newContainer(segs[0])
	}
	if _, ok := root.(map[string]any); !ok {
		if _, isSlice := asSlice(root); !isSlice {
			return root, fmt.Errorf("%w: got %T", ErrInvalidRoot, root)
		}
	}
	if err := checkIndexes(root, segs); err != nil {
		return root, err
	}
	return setIn(root, segs, value, strict)
}

// checkIndexes rejects indexes above MaxArrayIndex. Below the root every
// numeric segment addresses an array, since childFor builds or keeps one
// for it; the first segment does only when root is an array.
func checkIndexes(root any, segs []string) error {
	for i, seg := range segs {
		idx, ok := parseIndex(seg)
		if !ok || idx <= MaxArrayIndex {
			continue
		}
		if _, isSlice := asSlice(root); i == 0 && !isSlice {
			continue
		}
		return fmt.Errorf("%w: index %d exceeds %d", ErrPathShapeConflict, idx, MaxArrayIndex)
	}
	return nil
}

// setIn assigns value below node and returns node, which differs from the
// input only when an array had to grow or be converted.
func setIn(node any, segs []string, value any, strict bool) (any, error) {
	seg := segs[0]
	last := len(segs) == 1

	if m, ok := node.(map[string]any); ok {
		if last {
			m[seg] = value
			return m, nil
		}
		child, err := childFor(m[seg], segs[1], seg, strict)
		if err != nil {
			return m, err
		}
		child, err = setIn(child, segs[1:], value, strict)
		m[seg] = child
		return m, err
	}

	items, _ := asSlice(node)
	idx, ok := parseIndex(seg)
	if !ok {
		return node, fmt.Errorf("%w: segment %q addresses an array", ErrPathShapeConflict, seg)
	}
	items = grow(items, idx)
	if last {
		items[idx] = value
		return items, nil
	}
	child, err := childFor(items[idx], segs[1], seg, strict)
	if err != nil {
		return items, err
	}
	child, err = setIn(child, segs[1:], value, strict)
	items[idx] = child
	return items, err
}

// childFor returns the container to descend into for segment seg, whose
// kind is dictated by the following segment.
func childFor(existing any, next, seg string, strict bool) (any, error) {
	if _, wantArray := parseIndex(next); wantArray {
		if items, ok := asSlice(existing); ok {
			return items, nil
		}
	} else if m, ok := existing.(map[string]any); ok {
		return m, nil
	}

	if strict && existing != nil {
		return nil, fmt.Errorf("%w: %q holds %T, next segment %q", ErrPathShapeConflict, seg, existing, next)
	}
	return newContainer(next), nil
}

// newContainer allocates the container kind implied by seg.
func newContainer(seg string) any {
	if _, ok := parseIndex(seg); ok {
		return []any{}
	}
	return map[string]any{}
}

// parseIndex reports whether seg is a non-negative decimal integer.
func parseIndex(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// asSlice views v as []any. String lists produced by csv and lines fields
// are accepted so they can be addressed and extended by index.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	}
	return nil, false
}

// grow pads items with nil up to and including idx.
func grow(items []any, idx int) []any {
	for len(items) <= idx {
		items = append(items, nil)
	}
	return items
}
