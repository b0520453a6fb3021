package inventory

import (
	"github.com/pixil98/item-piles/internal/profile"
	"github.com/pixil98/item-piles/internal/record"
)

// Rules are the effective inventory rules for one holder: the active
// profile with any holder overrides applied.
type Rules struct {
	QuantityPath string
	Similarities []string
	Filters      []Filter
	Currencies   profile.Currencies
}

// RulesFor builds the rules of p with no overrides.
func RulesFor(p *profile.Profile) Rules {
	return Rules{
		QuantityPath: p.QuantityPath(),
		Similarities: p.Similarities(),
		Filters:      NormalizeFilters(p.ItemFilters),
		Currencies:   p.Currencies,
	}
}

// CurrencyItems returns the holder items that act as currency. Each item
// currency definition claims the first similar holder item.
func CurrencyItems(items []record.Record, rules Rules) []record.Record {
	var out []record.Record
	seen := map[string]struct{}{}
	for _, def := range rules.Currencies.Items {
		item, ok := FindSimilarItem(items, def, rules.Similarities)
		if !ok {
			continue
		}
		if _, dup := seen[item.Id()]; dup {
			continue
		}
		seen[item.Id()] = struct{}{}
		out = append(out, item)
	}
	return out
}

// LootItems returns the holder items that belong in the pile inventory:
// everything that is neither a currency item nor excluded by a filter.
func LootItems(items []record.Record, rules Rules) []record.Record {
	currencies := map[string]struct{}{}
	for _, c := range CurrencyItems(items, rules) {
		currencies[c.Id()] = struct{}{}
	}

	var out []record.Record
	for _, item := range items {
		if _, ok := currencies[item.Id()]; ok {
			continue
		}
		if _, excluded := IsItemExcluded(item, rules.Filters); excluded {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Currency is a display entry for one currency a holder has.
type Currency struct {
	Name string `json:"name"`

	// Path is set for attribute currencies
	Path string `json:"path,omitempty"`

	// ItemId is set for item currencies
	ItemId string `json:"item_id,omitempty"`

	Img      string `json:"img"`
	Quantity int    `json:"quantity"`
	Index    int    `json:"index"`
}

// FormattedCurrencies lists the attribute currencies followed by the item
// currencies of a holder. Only positive balances are listed unless all is
// set.
func FormattedCurrencies(attributes record.Record, items []record.Record, rules Rules, all bool) []Currency {
	var out []Currency
	for _, c := range rules.Currencies.Attributes {
		has := attributes.Has(c.Path)
		q := record.GetQuantity(attributes, c.Path)
		if !all && (!has || q <= 0) {
			continue
		}
		out = append(out, Currency{
			Name:     c.Name,
			Path:     c.Path,
			Img:      c.Img,
			Quantity: q,
			Index:    len(out),
		})
	}

	for _, item := range CurrencyItems(items, rules) {
		q := record.GetQuantity(item, rules.QuantityPath)
		if !all && q <= 0 {
			continue
		}
		out = append(out, Currency{
			Name:     item.Name(),
			ItemId:   item.Id(),
			Img:      item.Img(),
			Quantity: q,
			Index:    len(out),
		})
	}
	return out
}
