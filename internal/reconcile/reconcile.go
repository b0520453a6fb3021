package reconcile

import (
	"errors"

	"github.com/pixil98/item-piles/internal/inventory"
	"github.com/pixil98/item-piles/internal/record"
)

var ErrNegativeQuantity = errors.New("quantity must not be negative")

// Rules is the context a reconciliation runs against. It is built once per
// operation from the holder's effective inventory rules.
type Rules struct {
	QuantityPath string
	Similarities []string
}

// NewRules extracts the reconciliation context from inventory rules.
func NewRules(r inventory.Rules) Rules {
	return Rules{
		QuantityPath: r.QuantityPath,
		Similarities: r.Similarities,
	}
}

// Incoming is an item offered to a holder. A nil Quantity means the
// quantity stored on Item is used.
type Incoming struct {
	Item     record.Record `json:"item"`
	Quantity *int          `json:"quantity,omitempty"`
}

// Removal asks for Quantity of the holder item Id to be taken away.
type Removal struct {
	Id       string `json:"_id"`
	Quantity int    `json:"quantity"`
}

// ItemUpdate sets the quantity of an existing holder item.
type ItemUpdate struct {
	Id       string `json:"_id"`
	Quantity int    `json:"quantity"`
}

// Delta is a manifest entry: what quantity of which item was actually
// moved. Item carries the moved quantity at the profile's quantity path.
type Delta struct {
	Item     record.Record `json:"item"`
	Quantity int           `json:"quantity"`
	Deleted  bool          `json:"deleted,omitempty"`
}

// ItemsAdded is the result of ComputeAdd.
type ItemsAdded struct {
	Added    []Delta
	ToUpdate []ItemUpdate
	ToCreate []record.Record
}

func (a ItemsAdded) Batch() Batch {
	return Batch{Create: a.ToCreate, Update: a.ToUpdate}
}

// ItemsRemoved is the result of ComputeRemove.
type ItemsRemoved struct {
	Removed  []Delta
	ToUpdate []ItemUpdate
	ToDelete []string
}

func (r ItemsRemoved) Batch() Batch {
	return Batch{Update: r.ToUpdate, Delete: r.ToDelete}
}

// AttributesChanged is the result of the attribute computations. Updates
// holds the new value per path, Changed the amount actually moved.
type AttributesChanged struct {
	Updates map[string]int
	Changed map[string]int
}

func (a AttributesChanged) Batch() Batch {
	return Batch{Attributes: a.Updates}
}

// Batch is the set of persistence operations produced by a
// reconciliation. It is applied as a whole by a committer.
type Batch struct {
	Create     []record.Record
	Update     []ItemUpdate
	Delete     []string
	Attributes map[string]int
}

// Merge combines two batches computed against the same holder snapshot.
func (b Batch) Merge(o Batch) Batch {
	out := Batch{
		Create: append(append([]record.Record(nil), b.Create...), o.Create...),
		Update: append(append([]ItemUpdate(nil), b.Update...), o.Update...),
		Delete: append(append([]string(nil), b.Delete...), o.Delete...),
	}
	if len(b.Attributes)+len(o.Attributes) > 0 {
		out.Attributes = make(map[string]int, len(b.Attributes)+len(o.Attributes))
		for k, v := range b.Attributes {
			out.Attributes[k] = v
		}
		for k, v := range o.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// Empty reports whether applying b would change nothing.
func (b Batch) Empty() bool {
	return len(b.Create) == 0 && len(b.Update) == 0 && len(b.Delete) == 0 && len(b.Attributes) == 0
}
