package inventory

import (
	"github.com/pixil98/item-piles/internal/profile"
	"github.com/pixil98/item-piles/internal/record"
)

// FindSimilarItem returns the first item in items that denotes the same
// kind of item as candidate. An item matches when it has the candidate's
// identifier, or when every similarity key holds equal values on both
// and at least one of them is set.
// An empty key set falls back to profile.DefaultSimilarities.
func FindSimilarItem(items []record.Record, candidate record.Record, similarities []string) (record.Record, bool) {
	if len(similarities) == 0 {
		similarities = profile.DefaultSimilarities
	}

	id := candidate.Id()
	for _, item := range items {
		if id != "" && item.Id() == id {
			return item, true
		}
		if isSimilar(item, candidate, similarities) {
			return item, true
		}
	}
	return nil, false
}

// isSimilar requires every key to agree and at least one to be present.
func isSimilar(a, b record.Record, keys []string) bool {
	present := false
	for _, k := range keys {
		av, aok := a.Get(k)
		bv, bok := b.Get(k)
		if aok != bok {
			return false
		}
		if !record.Equal(av, bv) {
			return false
		}
		present = present || aok
	}
	return present
}
