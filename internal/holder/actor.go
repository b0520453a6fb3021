package holder

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/item-piles/internal/record"
	"github.com/pixil98/item-piles/internal/storage"
)

// Appearance is how a token looks on the scene.
type Appearance struct {
	Name  string  `json:"name"`
	Img   string  `json:"img"`
	Scale float64 `json:"scale"`
}

// Actor is an entity that owns items and attributes. Item piles, player
// characters and merchants are all actors.
type Actor struct {
	Name string `json:"name"`

	// Type is the system's actor class (e.g., "character")
	Type string `json:"type"`

	// Items are kept in insertion order; the order decides which stack
	// wins when several are similar to an incoming item.
	Items []record.Record `json:"items"`

	// Attributes is the actor's data tree, addressed by dotted paths such
	// as "data.currency.gp".
	Attributes record.Record `json:"attributes"`

	// Token is the prototype appearance of tokens placed from this actor
	Token Appearance `json:"token"`

	storage.ExtensionState `json:"ext,omitempty"`
}

func (a *Actor) UnmarshalJSON(b []byte) error {
	type Alias Actor
	if err := json.Unmarshal(b, (*Alias)(a)); err != nil {
		return err
	}
	if a.Attributes == nil {
		a.Attributes = record.Record{}
	}
	if a.Token.Scale == 0 {
		a.Token.Scale = 1
	}
	return nil
}

// Validate satisfies storage.ValidatingSpec
func (a *Actor) Validate() error {
	el := errors.NewErrorList()
	if a.Name == "" {
		el.Add(fmt.Errorf("actor name is required"))
	}

	seen := make(map[string]struct{}, len(a.Items))
	for i, item := range a.Items {
		id := item.Id()
		if id == "" {
			el.Add(fmt.Errorf("item %d: _id is required", i))
			continue
		}
		if _, dup := seen[id]; dup {
			el.Add(fmt.Errorf("item %d: duplicate _id %q", i, id))
		}
		seen[id] = struct{}{}
	}
	return el.Err()
}

// Item returns the item with id, or nil.
func (a *Actor) Item(id string) record.Record {
	for _, item := range a.Items {
		if item.Id() == id {
			return item
		}
	}
	return nil
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	c := &Actor{
		Name:           a.Name,
		Type:           a.Type,
		Items:          make([]record.Record, len(a.Items)),
		Attributes:     a.Attributes.Clone(),
		Token:          a.Token,
		ExtensionState: a.ExtensionState.Clone(),
	}
	for i, item := range a.Items {
		c.Items[i] = item.Clone()
	}
	if c.Attributes == nil {
		c.Attributes = record.Record{}
	}
	return c
}
