package record

import (
	"strings"
)

const (
	IdKey   = "_id"
	NameKey = "name"
	TypeKey = "type"
	ImgKey  = "img"
)

// Record is a tree-shaped document addressed by dotted paths
// (e.g., "data.quantity.value"). Nested nodes may be Record or
// map[string]any, which is what encoding/json produces.
type Record map[string]any

// Split breaks a dotted path into its segments. An empty or
// whitespace-only path has no segments.
func Split(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func node(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// Get returns the value at path. A missing or non-map intermediate
// segment yields (nil, false).
func (r Record) Get(path string) (any, bool) {
	segs := Split(path)
	if len(segs) == 0 || r == nil {
		return nil, false
	}

	cur := map[string]any(r)
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		cur, ok = node(v)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

// Has reports whether a non-nil value exists at path.
func (r Record) Has(path string) bool {
	v, ok := r.Get(path)
	return ok && v != nil
}

// Set writes v at path, creating intermediate nodes as needed. Intermediate
// values that are not maps are replaced. Siblings are never touched.
func (r Record) Set(path string, v any) {
	segs := Split(path)
	if len(segs) == 0 || r == nil {
		return
	}

	cur := map[string]any(r)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := node(cur[seg])
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

// Delete removes the value at path, if present.
func (r Record) Delete(path string) {
	segs := Split(path)
	if len(segs) == 0 || r == nil {
		return
	}

	cur := map[string]any(r)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := node(cur[seg])
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, segs[len(segs)-1])
}

// Clone returns a deep copy of the record. Nested maps and slices are
// copied; scalar values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(cloneMap(r))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return Record(cloneMap(t))
	case map[string]any:
		return cloneMap(t)
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// String returns the string at path, or "" if absent or not a string.
func (r Record) String(path string) string {
	v, ok := r.Get(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (r Record) Id() string {
	return r.String(IdKey)
}

func (r Record) Name() string {
	return r.String(NameKey)
}

func (r Record) Type() string {
	return r.String(TypeKey)
}

func (r Record) Img() string {
	return r.String(ImgKey)
}
