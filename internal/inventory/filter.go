package inventory

import (
	"strings"

	"github.com/pixil98/item-piles/internal/profile"
	"github.com/pixil98/item-piles/internal/record"
)

// Filter is a normalized profile.ItemFilter.
type Filter struct {
	Path   string
	Values map[string]struct{}
}

// NormalizeFilters trims paths and turns every filter list into a set.
// Filters without a path are dropped.
func NormalizeFilters(filters []profile.ItemFilter) []Filter {
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		path := strings.TrimSpace(f.Path)
		if path == "" {
			continue
		}

		values := make(map[string]struct{}, len(f.Filters))
		for _, v := range f.Filters {
			if v = strings.TrimSpace(v); v != "" {
				values[v] = struct{}{}
			}
		}
		out = append(out, Filter{Path: path, Values: values})
	}
	return out
}

// IsItemExcluded reports whether item is removed from pile inventory by
// one of filters, and the value that matched. Filters are checked in
// order and the first match wins. Only string values can match.
func IsItemExcluded(item record.Record, filters []Filter) (string, bool) {
	for _, f := range filters {
		v, ok := item.Get(f.Path)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, ok := f.Values[s]; ok {
			return s, true
		}
	}
	return "", false
}
