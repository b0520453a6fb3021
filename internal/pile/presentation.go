package pile

import (
	"github.com/pixil98/item-piles/internal/inventory"
	"github.com/pixil98/item-piles/internal/record"
)

// Contents is what a pile currently holds, as shown to players.
type Contents struct {
	Items      []record.Record
	Currencies []inventory.Currency
}

// ContentsOf builds the displayed contents from a holder's items and
// attributes.
func ContentsOf(items []record.Record, attributes record.Record, rules inventory.Rules) Contents {
	return Contents{
		Items:      inventory.LootItems(items, rules),
		Currencies: inventory.FormattedCurrencies(attributes, items, rules, false),
	}
}

func (c Contents) count() int {
	return len(c.Items) + len(c.Currencies)
}

// single returns the image and name of the only thing in the pile.
func (c Contents) single() (img, name string) {
	if len(c.Items) > 0 {
		return c.Items[0].Img(), c.Items[0].Name()
	}
	return c.Currencies[0].Img, c.Currencies[0].Name
}

// Display is the token appearance derived for a pile.
type Display struct {
	Img   string  `json:"img"`
	Scale float64 `json:"scale"`
	Name  string  `json:"name"`
}

// IsEmpty reports whether an enabled pile holds no items and no currency.
func (f Flags) IsEmpty(c Contents) bool {
	return f.IsValid() && c.count() == 0
}

// Image derives the token image. base is the image the token shows when
// it is not a pile.
func (f Flags) Image(base string, c Contents) string {
	if !f.IsValid() {
		return base
	}

	var img string
	if f.DisplayOne && c.count() == 1 {
		img, _ = c.single()
	}

	if f.IsContainer {
		img = firstNonEmpty(f.LockedImage, f.ClosedImage, f.OpenedImage, f.EmptyImage)

		switch {
		case f.IsLocked() && f.LockedImage != "":
			img = f.LockedImage
		case f.IsClosed() && f.ClosedImage != "":
			img = f.ClosedImage
		case f.EmptyImage != "" && f.IsEmpty(c):
			img = f.EmptyImage
		case f.OpenedImage != "":
			img = f.OpenedImage
		}
	}

	if img == "" {
		return base
	}
	return img
}

func (f Flags) showsSingle(c Contents) bool {
	return f.IsValid() && !f.IsContainer && f.DisplayOne && c.count() == 1
}

// Scale derives the token scale.
func (f Flags) Scale(base float64, c Contents) float64 {
	if !f.showsSingle(c) || !f.OverrideSingleItemScale {
		return base
	}
	return f.SingleItemScale
}

// Name derives the token name.
func (f Flags) Name(base string, c Contents) string {
	if !f.showsSingle(c) || !f.ShowItemName {
		return base
	}
	_, name := c.single()
	return name
}

// Display derives the full token appearance from base.
func (f Flags) Display(base Display, c Contents) Display {
	return Display{
		Img:   f.Image(base.Img, c),
		Scale: f.Scale(base.Scale, c),
		Name:  f.Name(base.Name, c),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
