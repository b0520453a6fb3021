package commit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"
	"github.com/pixil98/item-piles/internal/holder"
	"github.com/pixil98/item-piles/internal/pile"
	"github.com/pixil98/item-piles/internal/reconcile"
	"github.com/pixil98/item-piles/internal/record"
	"github.com/pixil98/item-piles/internal/storage"
)

var ErrUnknownItem = errors.New("unknown item")

// Committer writes reconciliation results back to storage.
type Committer struct {
	actors storage.Storer[*holder.Actor]
	tokens storage.Storer[*holder.Token]

	newId func() string
}

func NewCommitter(actors storage.Storer[*holder.Actor], tokens storage.Storer[*holder.Token]) *Committer {
	return &Committer{
		actors: actors,
		tokens: tokens,
		newId:  uuid.NewString,
	}
}

// Apply returns a copy of a with b applied. Created items get fresh
// identifiers. Updates and deletes naming items a does not have fail.
func (c *Committer) Apply(a *holder.Actor, quantityPath string, b reconcile.Batch) (*holder.Actor, error) {
	out := a.Clone()

	for _, u := range b.Update {
		item := out.Item(u.Id)
		if item == nil {
			return nil, fmt.Errorf("updating %s: %w", u.Id, ErrUnknownItem)
		}
		record.SetQuantity(item, quantityPath, u.Quantity)
	}

	if len(b.Delete) > 0 {
		drop := make(map[string]struct{}, len(b.Delete))
		for _, id := range b.Delete {
			if out.Item(id) == nil {
				return nil, fmt.Errorf("deleting %s: %w", id, ErrUnknownItem)
			}
			drop[id] = struct{}{}
		}
		kept := out.Items[:0]
		for _, item := range out.Items {
			if _, ok := drop[item.Id()]; !ok {
				kept = append(kept, item)
			}
		}
		out.Items = kept
	}

	for _, item := range b.Create {
		created := item.Clone()
		created.Set(record.IdKey, c.newId())
		out.Items = append(out.Items, created)
	}

	for path, v := range b.Attributes {
		out.Attributes.Set(path, v)
	}

	return out, nil
}

// Commit applies b to the holder and saves the document owning its state:
// the actor, or the unlinked token carrying the synthetic actor. On
// success h.Actor is replaced by the saved copy.
func (c *Committer) Commit(ctx context.Context, h *holder.Holder, quantityPath string, b reconcile.Batch) (*holder.Actor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	actor, err := c.Apply(h.Actor, quantityPath, b)
	if err != nil {
		return nil, fmt.Errorf("applying batch to %s: %w", h.Key(), err)
	}

	if err := c.save(h, actor); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "committed batch",
		"holder", h.Key(),
		"created", len(b.Create),
		"updated", len(b.Update),
		"deleted", len(b.Delete),
		"attributes", len(b.Attributes))

	h.Actor = actor
	return actor, nil
}

// Restore saves prev as the holder's state, undoing an earlier commit.
func (c *Committer) Restore(ctx context.Context, h *holder.Holder, prev *holder.Actor) error {
	if err := c.save(h, prev.Clone()); err != nil {
		return fmt.Errorf("restoring %s: %w", h.Key(), err)
	}
	slog.WarnContext(ctx, "restored holder after failed transfer", "holder", h.Key())
	h.Actor = prev
	return nil
}

func (c *Committer) save(h *holder.Holder, actor *holder.Actor) error {
	if !h.Synthetic() {
		if err := c.actors.Save(h.Ref.Id, actor); err != nil {
			return fmt.Errorf("saving actor %s: %w", h.Ref.Id, err)
		}
		return nil
	}

	stored := c.tokens.Get(h.Ref.Id)
	if stored == nil {
		return fmt.Errorf("saving token %s: %w", h.Ref.Id, holder.ErrHolderNotFound)
	}
	tok := stored.Clone()
	tok.Delta = actor
	if err := c.tokens.Save(h.Ref.Id, tok); err != nil {
		return fmt.Errorf("saving token %s: %w", h.Ref.Id, err)
	}
	return nil
}

// UpdateTokens patches the appearance and pile flags of every token
// showing the holder. Tokens that already match are not written.
func (c *Committer) UpdateTokens(ctx context.Context, h *holder.Holder, d pile.Display, f pile.Flags) error {
	for _, th := range h.Tokens {
		if err := ctx.Err(); err != nil {
			return err
		}

		stored := c.tokens.Get(th.Id)
		if stored == nil {
			continue
		}

		current, err := pile.ReadFlags(stored.ExtensionState)
		if err != nil {
			return fmt.Errorf("token %s: %w", th.Id, err)
		}
		appearance := holder.Appearance{Name: d.Name, Img: d.Img, Scale: d.Scale}
		if stored.Appearance == appearance && reflect.DeepEqual(current, f) {
			continue
		}

		tok := stored.Clone()
		tok.Appearance = appearance
		if err := pile.WriteFlags(&tok.ExtensionState, f); err != nil {
			return fmt.Errorf("token %s: %w", th.Id, err)
		}
		if err := c.tokens.Save(th.Id, tok); err != nil {
			return fmt.Errorf("saving token %s: %w", th.Id, err)
		}
	}
	return nil
}

// DeleteTokens removes every token showing the holder. For an unlinked
// token this also removes the holder's state.
func (c *Committer) DeleteTokens(ctx context.Context, h *holder.Holder) error {
	for _, th := range h.Tokens {
		if err := c.tokens.Delete(th.Id); err != nil {
			return fmt.Errorf("deleting token %s: %w", th.Id, err)
		}
		slog.InfoContext(ctx, "deleted empty pile token", "token", th.Id, "holder", h.Key())
	}
	return nil
}
