package pile

import (
	"fmt"

	"github.com/pixil98/item-piles/internal/inventory"
	"github.com/pixil98/item-piles/internal/profile"
	"github.com/pixil98/item-piles/internal/storage"
)

// ExtKey is the extension state key the pile flags are stored under.
const ExtKey = "item-piles"

// Flags configure a holder as an item pile. Stored flags are merged over
// DefaultFlags when read.
type Flags struct {
	Enabled     bool `json:"enabled"`
	IsContainer bool `json:"isContainer"`
	Closed      bool `json:"closed"`
	Locked      bool `json:"locked"`

	ClosedImage string `json:"closedImage,omitempty"`
	EmptyImage  string `json:"emptyImage,omitempty"`
	OpenedImage string `json:"openedImage,omitempty"`
	LockedImage string `json:"lockedImage,omitempty"`

	// DisplayOne shows the single item in the pile instead of the pile itself
	DisplayOne              bool    `json:"displayOne"`
	ShowItemName            bool    `json:"showItemName"`
	OverrideSingleItemScale bool    `json:"overrideSingleItemScale"`
	SingleItemScale         float64 `json:"singleItemScale"`

	// DeleteWhenEmpty removes the pile's tokens once everything is taken
	DeleteWhenEmpty bool `json:"deleteWhenEmpty"`

	OverrideItemFilters []profile.ItemFilter `json:"overrideItemFilters,omitempty"`
	OverrideCurrencies  *profile.Currencies  `json:"overrideCurrencies,omitempty"`
}

// DefaultFlags returns the flags of a holder that has never been made a pile.
func DefaultFlags() Flags {
	return Flags{
		SingleItemScale: 1,
	}
}

// Extensible is implemented by documents carrying extension state.
type Extensible interface {
	Set(string, any) error
	Get(string, any) (bool, error)
}

// ReadFlags merges the stored flags over DefaultFlags.
func ReadFlags(ext storage.ExtensionState) (Flags, error) {
	f := DefaultFlags()
	if _, err := ext.Get(ExtKey, &f); err != nil {
		return DefaultFlags(), fmt.Errorf("reading pile flags: %w", err)
	}
	if f.SingleItemScale <= 0 {
		f.SingleItemScale = 1
	}
	return f, nil
}

// WriteFlags stores f in e.
func WriteFlags(e Extensible, f Flags) error {
	return e.Set(ExtKey, f)
}

// IsValid reports whether the holder is an enabled item pile.
func (f Flags) IsValid() bool {
	return f.Enabled
}

func (f Flags) IsContainerPile() bool {
	return f.Enabled && f.IsContainer
}

// IsClosed only holds for enabled containers.
func (f Flags) IsClosed() bool {
	return f.IsContainerPile() && f.Closed
}

// IsLocked only holds for enabled containers.
func (f Flags) IsLocked() bool {
	return f.IsContainerPile() && f.Locked
}

// Rules returns the holder's effective inventory rules: override filters
// replace the profile's only on enabled piles, override currencies
// whenever they are set.
func (f Flags) Rules(p *profile.Profile) inventory.Rules {
	rules := inventory.RulesFor(p)
	if f.IsValid() && len(f.OverrideItemFilters) > 0 {
		rules.Filters = inventory.NormalizeFilters(f.OverrideItemFilters)
	}
	if f.OverrideCurrencies != nil {
		rules.Currencies = *f.OverrideCurrencies
	}
	return rules
}
