package inventory

import (
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/item-piles/internal/profile"
	"github.com/pixil98/item-piles/internal/record"
)

func item(id, name, typ string, qty int) record.Record {
	r := record.Record{"name": name, "type": typ, "img": name + ".png"}
	if id != "" {
		r["_id"] = id
	}
	r.Set("data.quantity", qty)
	return r
}

func TestNormalizeFilters(t *testing.T) {
	filters := NormalizeFilters([]profile.ItemFilter{
		{Path: "  type ", Filters: profile.FilterList{" spell", "feat ", ""}},
		{Path: "", Filters: profile.FilterList{"ignored"}},
	})

	testutil.AssertEqual(t, "count", len(filters), 1)
	testutil.AssertEqual(t, "path", filters[0].Path, "type")
	testutil.AssertEqual(t, "values", len(filters[0].Values), 2)
	_, ok := filters[0].Values["spell"]
	testutil.AssertEqual(t, "has spell", ok, true)
}

func TestIsItemExcluded(t *testing.T) {
	filters := NormalizeFilters([]profile.ItemFilter{
		{Path: "type", Filters: profile.FilterList{"spell", "feat"}},
		{Path: "data.rarity", Filters: profile.ParseFilterList("artifact")},
	})

	tests := map[string]struct {
		item       record.Record
		expExclude bool
		expValue   string
	}{
		"spell is excluded": {
			item:       record.Record{"type": "spell"},
			expExclude: true,
			expValue:   "spell",
		},
		"weapon is kept": {
			item: record.Record{"type": "weapon"},
		},
		"nested path": {
			item:       record.Record{"type": "weapon", "data": map[string]any{"rarity": "artifact"}},
			expExclude: true,
			expValue:   "artifact",
		},
		"missing path": {
			item: record.Record{"name": "Rock"},
		},
		"non string value": {
			item: record.Record{"type": 3},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, excluded := IsItemExcluded(tt.item, filters)
			testutil.AssertEqual(t, "excluded", excluded, tt.expExclude)
			testutil.AssertEqual(t, "value", v, tt.expValue)
		})
	}
}

func TestFindSimilarItem(t *testing.T) {
	items := []record.Record{
		item("a1", "Torch", "gear", 2),
		item("a2", "Torch", "weapon", 1),
		item("a3", "Torch", "gear", 4),
	}

	tests := map[string]struct {
		candidate    record.Record
		similarities []string
		expFound     bool
		expId        string
	}{
		"matches by similarity keys, first wins": {
			candidate:    record.Record{"name": "Torch", "type": "gear"},
			similarities: []string{"name", "type"},
			expFound:     true,
			expId:        "a1",
		},
		"matches by identifier": {
			candidate:    record.Record{"_id": "a3", "name": "Renamed"},
			similarities: []string{"name", "type"},
			expFound:     true,
			expId:        "a3",
		},
		"type differs": {
			candidate:    record.Record{"name": "Torch", "type": "loot"},
			similarities: []string{"name", "type"},
		},
		"key missing on candidate": {
			candidate:    record.Record{"name": "Torch"},
			similarities: []string{"name", "type"},
		},
		"default keys": {
			candidate: record.Record{"name": "Torch", "type": "weapon"},
			expFound:  true,
			expId:     "a2",
		},
		"custom keys": {
			candidate:    record.Record{"name": "Torch", "type": "other"},
			similarities: []string{"name"},
			expFound:     true,
			expId:        "a1",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			found, ok := FindSimilarItem(items, tt.candidate, tt.similarities)
			testutil.AssertEqual(t, "found", ok, tt.expFound)
			if tt.expFound {
				testutil.AssertEqual(t, "id", found.Id(), tt.expId)
			}
		})
	}
}

func testRules() Rules {
	p := &profile.Profile{
		ItemQuantityAttribute: "data.quantity",
		ItemSimilarities:      []string{"name", "type"},
		ItemFilters:           []profile.ItemFilter{{Path: "type", Filters: profile.FilterList{"spell"}}},
		Currencies: profile.Currencies{
			Attributes: []profile.AttributeCurrency{
				{Name: "Gold", Path: "data.currency.gp", Img: "gold.png", Primary: true, Exchange: 1},
				{Name: "Silver", Path: "data.currency.sp", Img: "silver.png", Exchange: 0.1},
			},
			Items: []record.Record{
				{"name": "Gem", "type": "loot"},
				{"name": "Gem", "type": "loot"},
			},
		},
	}
	return RulesFor(p)
}

func TestFindSimilarItem_NoKeysPresent(t *testing.T) {
	items := []record.Record{
		{"_id": "blank", "img": "blank.png"},
		item("a1", "Torch", "gear", 1),
	}

	_, ok := FindSimilarItem(items, record.Record{"img": "other.png"}, []string{"name", "type"})
	testutil.AssertEqual(t, "found", ok, false)

	found, ok := FindSimilarItem(items, record.Record{"name": "Torch", "type": "gear"}, []string{"name", "type"})
	testutil.AssertEqual(t, "found keyed", ok, true)
	testutil.AssertEqual(t, "id", found.Id(), "a1")
}

func TestCurrencyAndLootItems(t *testing.T) {
	rules := testRules()
	items := []record.Record{
		item("i1", "Torch", "gear", 1),
		item("i2", "Gem", "loot", 5),
		item("i3", "Fireball", "spell", 1),
		item("i4", "Gem", "loot", 2),
	}

	currencies := CurrencyItems(items, rules)
	testutil.AssertEqual(t, "currency count", len(currencies), 1)
	testutil.AssertEqual(t, "currency id", currencies[0].Id(), "i2")

	loot := LootItems(items, rules)
	testutil.AssertEqual(t, "loot count", len(loot), 2)
	testutil.AssertEqual(t, "loot 0", loot[0].Id(), "i1")
	testutil.AssertEqual(t, "loot 1", loot[1].Id(), "i4")
}

func TestFormattedCurrencies(t *testing.T) {
	rules := testRules()
	attributes := record.Record{}
	attributes.Set("data.currency.gp", 12)
	attributes.Set("data.currency.sp", 0)
	items := []record.Record{item("i2", "Gem", "loot", 3)}

	got := FormattedCurrencies(attributes, items, rules, false)
	testutil.AssertEqual(t, "count", len(got), 2)
	testutil.AssertEqual(t, "gold", got[0], Currency{Name: "Gold", Path: "data.currency.gp", Img: "gold.png", Quantity: 12, Index: 0})
	testutil.AssertEqual(t, "gem", got[1], Currency{Name: "Gem", ItemId: "i2", Img: "Gem.png", Quantity: 3, Index: 1})

	all := FormattedCurrencies(attributes, items, rules, true)
	testutil.AssertEqual(t, "all count", len(all), 3)
	testutil.AssertEqual(t, "silver quantity", all[1].Quantity, 0)
}
