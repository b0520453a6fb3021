package reconcile

import (
	"fmt"
	"strings"

	"github.com/pixil98/item-piles/internal/record"
)

// ComputeAttributeAdd adds each amount to the attribute at its path.
// Absent attributes count as 0.
func ComputeAttributeAdd(attributes record.Record, amounts map[string]int) (AttributesChanged, error) {
	amounts, err := normalizeAmounts("adding to", amounts)
	if err != nil {
		return AttributesChanged{}, err
	}

	out := AttributesChanged{
		Updates: make(map[string]int, len(amounts)),
		Changed: make(map[string]int, len(amounts)),
	}

	for path, amount := range amounts {
		current := record.GetQuantity(attributes, path)
		out.Updates[path] = current + amount
		out.Changed[path] = amount
	}

	return out, nil
}

// ComputeAttributeRemove takes each amount from the attribute at its path.
// Attributes never go below 0; when less was available than asked for,
// the amount that was there is reported. Paths the holder does not have
// are skipped.
func ComputeAttributeRemove(attributes record.Record, amounts map[string]int) (AttributesChanged, error) {
	amounts, err := normalizeAmounts("removing from", amounts)
	if err != nil {
		return AttributesChanged{}, err
	}

	out := AttributesChanged{
		Updates: make(map[string]int, len(amounts)),
		Changed: make(map[string]int, len(amounts)),
	}

	for path, amount := range amounts {
		if !attributes.Has(path) {
			continue
		}

		current := record.GetQuantity(attributes, path)
		out.Updates[path] = max(0, current-amount)
		if current >= amount {
			out.Changed[path] = amount
		} else {
			out.Changed[path] = max(0, current)
		}
	}

	return out, nil
}

// DrainAttributes removes the full current value of every listed
// attribute. Repeated paths are only drained once and paths the holder
// does not have are ignored.
func DrainAttributes(attributes record.Record, paths []string) (AttributesChanged, error) {
	amounts := make(map[string]int, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, ok := amounts[path]; ok || !attributes.Has(path) {
			continue
		}
		amounts[path] = max(0, record.GetQuantity(attributes, path))
	}
	return ComputeAttributeRemove(attributes, amounts)
}

// normalizeAmounts trims every path and sums amounts whose paths only
// differ by surrounding whitespace. Blank paths are dropped.
func normalizeAmounts(verb string, amounts map[string]int) (map[string]int, error) {
	out := make(map[string]int, len(amounts))
	for path, amount := range amounts {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if amount < 0 {
			return nil, fmt.Errorf("%s %s: %w", verb, path, ErrNegativeQuantity)
		}
		out[path] += amount
	}
	return out, nil
}
