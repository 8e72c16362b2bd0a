// Package pathutil provides helpers for addressing values inside a nested
// configuration tree using slash-delimited paths. Trees are built from
// map[string]any and []any nodes; numeric path segments index into slices.
package pathutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Split breaks a slash-delimited path into its segments.
// Leading and trailing slashes are ignored. An empty path has no segments.
func Split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Join assembles path segments into a slash-delimited path.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Leaf returns the final segment of a path, or "" for an empty path.
func Leaf(path string) string {
	segs := Split(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Namespace returns everything before the final segment of a path.
// Single-segment and empty paths have an empty namespace.
func Namespace(path string) string {
	segs := Split(path)
	if len(segs) < 2 {
		return ""
	}
	return strings.Join(segs[:len(segs)-1], "/")
}

// Get walks the tree to the value at path.
// The second return value reports whether the full path resolved.
func Get(root any, path string) (any, bool) {
	node := root
	for _, seg := range Split(path) {
		switch n := node.(type) {
		case map[string]any:
			child, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = child
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

// Count returns the number of entries in the slice at path, or 0 if the
// path does not resolve to a slice.
func Count(root any, path string) int {
	node, ok := Get(root, path)
	if !ok {
		return 0
	}
	list, ok := node.([]any)
	if !ok {
		return 0
	}
	return len(list)
}

// Set writes a value at path, creating intermediate containers as needed.
// A numeric segment creates or indexes a slice; appending is allowed only at
// the current length so slices stay dense. Returns an error when the path
// traverses a non-container value or indexes out of range.
func Set(root map[string]any, path string, value any) error {
	segs := Split(path)
	if len(segs) == 0 {
		return fmt.Errorf("empty path")
	}
	_, err := setIn(root, segs, value)
	return err
}

// setIn recursively descends into node and returns the (possibly replaced)
// node. Slice append replaces the slice header, so every level writes its
// child back.
func setIn(node any, segs []string, value any) (any, error) {
	if len(segs) == 0 {
		return value, nil
	}
	seg := segs[0]

	if idx, err := strconv.Atoi(seg); err == nil {
		list, ok := node.([]any)
		if node == nil {
			list, ok = []any{}, true
		}
		if !ok {
			return nil, fmt.Errorf("segment %q indexes a non-list value", seg)
		}
		switch {
		case idx >= 0 && idx < len(list):
			child, err := setIn(list[idx], segs[1:], value)
			if err != nil {
				return nil, err
			}
			list[idx] = child
			return list, nil
		case idx == len(list):
			child, err := setIn(newChild(segs[1:]), segs[1:], value)
			if err != nil {
				return nil, err
			}
			return append(list, child), nil
		default:
			return nil, fmt.Errorf("index %d out of range (len %d)", idx, len(list))
		}
	}

	m, ok := node.(map[string]any)
	if node == nil {
		m, ok = map[string]any{}, true
	}
	if !ok {
		return nil, fmt.Errorf("segment %q descends into a non-map value", seg)
	}
	existing, present := m[seg]
	if !present {
		existing = newChild(segs[1:])
	}
	child, err := setIn(existing, segs[1:], value)
	if err != nil {
		return nil, err
	}
	m[seg] = child
	return m, nil
}

// newChild picks the container type for a missing intermediate node based on
// the next segment: numeric segments imply a slice.
func newChild(rest []string) any {
	if len(rest) == 0 {
		return nil
	}
	if _, err := strconv.Atoi(rest[0]); err == nil {
		return []any{}
	}
	return map[string]any{}
}

// Delete removes the value at path. Removing a slice element splices it out,
// keeping the remaining elements dense. Deleting a missing path is an error.
func Delete(root map[string]any, path string) error {
	segs := Split(path)
	if len(segs) == 0 {
		return fmt.Errorf("empty path")
	}
	parentPath := strings.Join(segs[:len(segs)-1], "/")
	leaf := segs[len(segs)-1]

	parent, ok := Get(root, parentPath)
	if !ok {
		return fmt.Errorf("path %q not found", path)
	}

	switch p := parent.(type) {
	case map[string]any:
		if _, present := p[leaf]; !present {
			return fmt.Errorf("path %q not found", path)
		}
		delete(p, leaf)
		return nil
	case []any:
		idx, err := strconv.Atoi(leaf)
		if err != nil || idx < 0 || idx >= len(p) {
			return fmt.Errorf("path %q not found", path)
		}
		spliced := append(p[:idx:idx], p[idx+1:]...)
		return Set(root, parentPath, spliced)
	default:
		return fmt.Errorf("path %q not found", path)
	}
}

// Copy returns a deep copy of a tree of map[string]any and []any nodes.
// Scalar leaves are copied by value.
func Copy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Copy(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Copy(item)
		}
		return out
	default:
		return value
	}
}
