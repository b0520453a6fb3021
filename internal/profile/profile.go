package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/item-piles/internal/record"
)

// DefaultSimilarities is the similarity key set used when a profile does
// not name its own.
var DefaultSimilarities = []string{record.NameKey, record.TypeKey}

// Profile describes how a game system stores items and currency.
// Profiles are loaded once and never mutated afterwards.
type Profile struct {
	// ActorClassType is the actor type created for new piles (e.g., "character")
	ActorClassType string `json:"actorClassType"`

	// ItemQuantityAttribute is the path to the quantity on an item (e.g., "data.quantity")
	ItemQuantityAttribute string `json:"itemQuantityAttribute"`

	// ItemFilters remove unlootable items such as spells and feats from a pile's inventory
	ItemFilters []ItemFilter `json:"itemFilters"`

	// ItemSimilarities are the paths compared to decide two items are the same kind
	ItemSimilarities []string `json:"itemSimilarities"`

	Currencies Currencies `json:"currencies"`
}

// Validate satisfies storage.ValidatingSpec
func (p *Profile) Validate() error {
	el := errors.NewErrorList()

	if strings.TrimSpace(p.ItemQuantityAttribute) == "" {
		el.Add(fmt.Errorf("itemQuantityAttribute is required"))
	}

	if len(p.ItemSimilarities) == 0 {
		el.Add(fmt.Errorf("at least one item similarity is required"))
	}
	for i, s := range p.ItemSimilarities {
		if strings.TrimSpace(s) == "" {
			el.Add(fmt.Errorf("item similarity %d: path is required", i))
		}
	}

	for i, f := range p.ItemFilters {
		if err := f.Validate(); err != nil {
			el.Add(fmt.Errorf("item filter %d: %w", i, err))
		}
	}

	el.Add(p.Currencies.Validate())

	return el.Err()
}

// Similarities returns the trimmed similarity keys, falling back to
// DefaultSimilarities when none are configured.
func (p *Profile) Similarities() []string {
	var keys []string
	for _, s := range p.ItemSimilarities {
		if s = strings.TrimSpace(s); s != "" {
			keys = append(keys, s)
		}
	}
	if len(keys) == 0 {
		return append([]string(nil), DefaultSimilarities...)
	}
	return keys
}

// QuantityPath returns the trimmed item quantity path.
func (p *Profile) QuantityPath() string {
	return strings.TrimSpace(p.ItemQuantityAttribute)
}

// ItemFilter excludes items whose value at Path is one of Filters.
type ItemFilter struct {
	Path    string     `json:"path"`
	Filters FilterList `json:"filters"`
}

func (f *ItemFilter) Validate() error {
	if strings.TrimSpace(f.Path) == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// FilterList accepts either a comma delimited string ("spell,feat") or a
// JSON array of strings.
type FilterList []string

func (fl *FilterList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*fl = ParseFilterList(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("filters must be a delimited string or an array of strings: %w", err)
	}
	*fl = list
	return nil
}

// ParseFilterList splits a comma delimited filter string.
func ParseFilterList(s string) FilterList {
	var fl FilterList
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			fl = append(fl, v)
		}
	}
	return fl
}

// Currencies lists the currencies of a system. Attribute currencies live
// on the actor, item currencies are items that act like money.
type Currencies struct {
	Attributes []AttributeCurrency `json:"attributes"`
	Items      []record.Record     `json:"items"`
}

func (c *Currencies) Validate() error {
	el := errors.NewErrorList()

	primaries := 0
	for i, a := range c.Attributes {
		if err := a.Validate(); err != nil {
			el.Add(fmt.Errorf("currency attribute %d: %w", i, err))
		}
		if a.Primary {
			primaries++
		}
	}
	if primaries > 1 {
		el.Add(fmt.Errorf("only one currency attribute may be primary, found %d", primaries))
	}

	for i, item := range c.Items {
		if item.Name() == "" {
			el.Add(fmt.Errorf("currency item %d: name is required", i))
		}
	}

	return el.Err()
}

// AttributeCurrency is a currency stored as a number on the actor.
type AttributeCurrency struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Img      string  `json:"img"`
	Primary  bool    `json:"primary"`
	Exchange float64 `json:"exchange"`
}

func (a *AttributeCurrency) Validate() error {
	el := errors.NewErrorList()
	if a.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if strings.TrimSpace(a.Path) == "" {
		el.Add(fmt.Errorf("path is required"))
	}
	if a.Exchange <= 0 {
		el.Add(fmt.Errorf("exchange must be positive"))
	}
	return el.Err()
}
