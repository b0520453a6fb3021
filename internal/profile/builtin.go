package profile

import "github.com/pixil98/item-piles/internal/record"

// Builtins returns the profiles shipped with the module, keyed by game
// system identifier. Each call returns fresh copies.
func Builtins() map[string]*Profile {
	return map[string]*Profile{
		"dnd5e":  dnd5e(),
		"swade":  swade(),
		"wfrp4e": wfrp4e(),
	}
}

func dnd5e() *Profile {
	return &Profile{
		ActorClassType:        "character",
		ItemQuantityAttribute: "data.quantity",
		ItemFilters: []ItemFilter{
			{Path: "type", Filters: FilterList{"spell", "feat", "class"}},
		},
		ItemSimilarities: []string{"name", "type"},
		Currencies: Currencies{
			Attributes: []AttributeCurrency{
				{Name: "Platinum Coins", Path: "data.currency.pp", Img: "icons/commodities/currency/coin-inset-snail-silver.webp", Exchange: 10},
				{Name: "Gold Coins", Path: "data.currency.gp", Img: "icons/commodities/currency/coin-embossed-crown-gold.webp", Primary: true, Exchange: 1},
				{Name: "Electrum Coins", Path: "data.currency.ep", Img: "icons/commodities/currency/coin-inset-copper-axe.webp", Exchange: 0.5},
				{Name: "Silver Coins", Path: "data.currency.sp", Img: "icons/commodities/currency/coin-engraved-moon-silver.webp", Exchange: 0.1},
				{Name: "Copper Coins", Path: "data.currency.cp", Img: "icons/commodities/currency/coin-engraved-waves-copper.webp", Exchange: 0.01},
			},
		},
	}
}

func swade() *Profile {
	return &Profile{
		ActorClassType:        "character",
		ItemQuantityAttribute: "data.quantity",
		ItemFilters: []ItemFilter{
			{Path: "type", Filters: ParseFilterList("edge,hindrance,skill,power,ability")},
		},
		ItemSimilarities: []string{"name", "type"},
		Currencies: Currencies{
			Attributes: []AttributeCurrency{
				{Name: "Currency", Path: "data.details.currency", Img: "icons/svg/coins.svg", Primary: true, Exchange: 1},
			},
			Items: []record.Record{},
		},
	}
}

func wfrp4e() *Profile {
	return &Profile{
		ActorClassType:        "character",
		ItemQuantityAttribute: "data.quantity.value",
		ItemFilters: []ItemFilter{
			{
				Path: "type",
				Filters: ParseFilterList("career,container,critical,disease,injury,mutation,prayer,psychology," +
					"talent,skill,spell,trait,extendedTest,vehicleMod,cargo"),
			},
		},
		ItemSimilarities: []string{"name", "type"},
		Currencies: Currencies{
			Attributes: []AttributeCurrency{},
			Items:      []record.Record{},
		},
	}
}
