package holder

import (
	"github.com/pixil98/go-errors"
	"github.com/pixil98/item-piles/internal/storage"
)

// Token is an actor placed on the scene. A linked token shares its
// actor's items and attributes. An unlinked token owns a synthetic copy
// of the actor in Delta, created the first time it is used as a holder.
type Token struct {
	Appearance

	Actor     storage.SmartIdentifier[*Actor] `json:"actor"`
	ActorLink bool                            `json:"actor_link"`

	Delta *Actor `json:"delta,omitempty"`

	storage.ExtensionState `json:"ext,omitempty"`
}

// Validate satisfies storage.ValidatingSpec
func (t *Token) Validate() error {
	el := errors.NewErrorList()
	el.Add(t.Actor.Validate())
	if t.Delta != nil {
		el.Add(t.Delta.Validate())
	}
	return el.Err()
}

// Clone returns a copy of the token. The actor reference is shared.
func (t *Token) Clone() *Token {
	c := *t
	if t.Delta != nil {
		c.Delta = t.Delta.Clone()
	}
	c.ExtensionState = t.ExtensionState.Clone()
	return &c
}
