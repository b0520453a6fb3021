package piles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pixil98/item-piles/internal/commit"
	"github.com/pixil98/item-piles/internal/holder"
	"github.com/pixil98/item-piles/internal/inventory"
	"github.com/pixil98/item-piles/internal/notify"
	"github.com/pixil98/item-piles/internal/pile"
	"github.com/pixil98/item-piles/internal/profile"
	"github.com/pixil98/item-piles/internal/reconcile"
)

// Publisher delivers pile events to holders.
type Publisher interface {
	Publish(keys []string, data []byte) error
	PublishError(data []byte) error
}

// Change describes what an operation actually moved. It is returned to
// callers and published to every holder involved.
type Change struct {
	Type       string            `json:"type"`
	Holder     holder.Ref        `json:"holder"`
	Target     *holder.Ref       `json:"target,omitempty"`
	Items      []reconcile.Delta `json:"items,omitempty"`
	Attributes map[string]int    `json:"attributes,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// PileManager runs reconciliations against stored holders. Operations on
// the same holder are serialized.
type PileManager struct {
	profile   *profile.Profile
	resolver  *holder.Resolver
	committer *commit.Committer
	formatter *notify.Formatter
	publisher Publisher

	locks keyedMutex
}

// NewPileManager creates a manager. publisher may be nil, in which case
// changes are only returned.
func NewPileManager(p *profile.Profile, r *holder.Resolver, c *commit.Committer, f *notify.Formatter, pub Publisher) *PileManager {
	return &PileManager{
		profile:   p,
		resolver:  r,
		committer: c,
		formatter: f,
		publisher: pub,
	}
}

// state is a locked holder snapshot with its effective rules.
type state struct {
	h     *holder.Holder
	flags pile.Flags
	rules inventory.Rules
}

func (m *PileManager) snapshot(ref holder.Ref) (*state, error) {
	h, err := m.resolver.Resolve(ref)
	if err != nil {
		return nil, err
	}
	flags, err := pile.ReadFlags(h.Actor.ExtensionState)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.Key(), err)
	}
	return &state{h: h, flags: flags, rules: flags.Rules(m.profile)}, nil
}

type computeFunc func(s *state) (reconcile.Batch, []reconcile.Delta, map[string]int, error)

// modify runs one reconciliation against a single holder.
func (m *PileManager) modify(ctx context.Context, ref holder.Ref, kind string, compute computeFunc) (*Change, error) {
	canon, err := m.resolver.Canonical(ref)
	if err != nil {
		return nil, err
	}

	unlock := m.locks.lock(canon.String())
	defer unlock()

	s, err := m.snapshot(canon)
	if err != nil {
		return nil, err
	}

	batch, items, attrs, err := compute(s)
	if err != nil {
		return nil, err
	}

	change := &Change{
		Type:       kind,
		Holder:     canon,
		Items:      items,
		Attributes: moved(attrs),
	}
	if batch.Empty() {
		return change, nil
	}

	if _, err := m.committer.Commit(ctx, s.h, s.rules.QuantityPath, batch); err != nil {
		return nil, err
	}
	if err := m.present(ctx, s); err != nil {
		return nil, err
	}

	m.notify(ctx, change, s, nil)
	return change, nil
}

// AddItems merges incoming items into the holder.
func (m *PileManager) AddItems(ctx context.Context, ref holder.Ref, incoming []reconcile.Incoming) (*Change, error) {
	return m.modify(ctx, ref, notify.ItemsAdded, func(s *state) (reconcile.Batch, []reconcile.Delta, map[string]int, error) {
		res, err := reconcile.ComputeAdd(reconcile.NewRules(s.rules), s.h.Actor.Items, incoming)
		if err != nil {
			return reconcile.Batch{}, nil, nil, err
		}
		return res.Batch(), res.Added, nil, nil
	})
}

// RemoveItems takes quantities of the holder's items away.
func (m *PileManager) RemoveItems(ctx context.Context, ref holder.Ref, requests []reconcile.Removal) (*Change, error) {
	return m.modify(ctx, ref, notify.ItemsRemoved, func(s *state) (reconcile.Batch, []reconcile.Delta, map[string]int, error) {
		res, err := reconcile.ComputeRemove(reconcile.NewRules(s.rules), s.h.Actor.Items, requests)
		if err != nil {
			return reconcile.Batch{}, nil, nil, err
		}
		return res.Batch(), res.Removed, nil, nil
	})
}

// AddAttributes adds amounts to the holder's attributes.
func (m *PileManager) AddAttributes(ctx context.Context, ref holder.Ref, amounts map[string]int) (*Change, error) {
	return m.modify(ctx, ref, notify.AttributesAdded, func(s *state) (reconcile.Batch, []reconcile.Delta, map[string]int, error) {
		res, err := reconcile.ComputeAttributeAdd(s.h.Actor.Attributes, amounts)
		if err != nil {
			return reconcile.Batch{}, nil, nil, err
		}
		return res.Batch(), nil, res.Changed, nil
	})
}

// RemoveAttributes takes amounts from the holder's attributes.
func (m *PileManager) RemoveAttributes(ctx context.Context, ref holder.Ref, amounts map[string]int) (*Change, error) {
	return m.modify(ctx, ref, notify.AttributesRemoved, func(s *state) (reconcile.Batch, []reconcile.Delta, map[string]int, error) {
		res, err := reconcile.ComputeAttributeRemove(s.h.Actor.Attributes, amounts)
		if err != nil {
			return reconcile.Batch{}, nil, nil, err
		}
		return res.Batch(), nil, res.Changed, nil
	})
}

// Refresh re-derives the token display of the holder.
func (m *PileManager) Refresh(ctx context.Context, ref holder.Ref) error {
	canon, err := m.resolver.Canonical(ref)
	if err != nil {
		return err
	}

	unlock := m.locks.lock(canon.String())
	defer unlock()

	s, err := m.snapshot(canon)
	if err != nil {
		return err
	}
	return m.present(ctx, s)
}

// Tick refreshes every holder. Failures are logged and do not stop the
// sweep.
func (m *PileManager) Tick(ctx context.Context) error {
	for _, ref := range m.resolver.Refs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.Refresh(ctx, ref); err != nil {
			slog.WarnContext(ctx, "refreshing pile", "holder", ref.String(), "error", err)
		}
	}
	return nil
}

// present updates the tokens of an enabled pile, or deletes them when the
// pile is empty and asks for it.
func (m *PileManager) present(ctx context.Context, s *state) error {
	if !s.flags.IsValid() {
		return nil
	}

	a := s.h.Actor
	contents := pile.ContentsOf(a.Items, a.Attributes, s.rules)
	if s.flags.DeleteWhenEmpty && s.flags.IsEmpty(contents) {
		return m.committer.DeleteTokens(ctx, s.h)
	}

	base := pile.Display{Img: a.Token.Img, Scale: a.Token.Scale, Name: a.Token.Name}
	return m.committer.UpdateTokens(ctx, s.h, s.flags.Display(base, contents), s.flags)
}

// notify renders the change message and publishes it to every holder
// involved. Delivery failures are logged; the change is already committed.
func (m *PileManager) notify(ctx context.Context, change *Change, src *state, dst *state) {
	n := notify.Notice{
		Kind:    change.Type,
		Holder:  src.h.Actor.Name,
		Entries: entries(change, src.rules),
	}
	keys := holderKeys(src.h)
	if dst != nil {
		n.Target = dst.h.Actor.Name
		keys = append(keys, holderKeys(dst.h)...)
	}

	if m.formatter != nil {
		msg, err := m.formatter.Format(n)
		if err != nil {
			slog.WarnContext(ctx, "formatting notice", "holder", change.Holder.String(), "error", err)
		}
		change.Message = msg
	}

	slog.InfoContext(ctx, "pile changed",
		"type", change.Type,
		"holder", change.Holder.String(),
		"items", len(change.Items),
		"attributes", len(change.Attributes))

	if m.publisher == nil {
		return
	}
	data, err := json.Marshal(change)
	if err != nil {
		slog.WarnContext(ctx, "marshalling change", "error", err)
		return
	}
	if err := m.publisher.Publish(keys, data); err != nil {
		slog.WarnContext(ctx, "publishing change", "holder", change.Holder.String(), "error", err)
	}
}

// holderKeys returns the canonical key of h followed by the keys of its
// tokens.
func holderKeys(h *holder.Holder) []string {
	keys := []string{h.Key()}
	for _, t := range h.Tokens {
		k := holder.TokenRef(t.Id).String()
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// entries lists the items of a change followed by its attributes. Known
// currency attributes come first, in profile order, under their currency
// name.
func entries(change *Change, rules inventory.Rules) []notify.Entry {
	var out []notify.Entry
	for _, d := range change.Items {
		out = append(out, notify.Entry{Name: d.Item.Name(), Quantity: d.Quantity, Img: d.Item.Img()})
	}

	seen := map[string]struct{}{}
	for _, c := range rules.Currencies.Attributes {
		q, ok := change.Attributes[c.Path]
		if !ok {
			continue
		}
		seen[c.Path] = struct{}{}
		out = append(out, notify.Entry{Name: c.Name, Quantity: q, Img: c.Img})
	}

	var rest []string
	for path := range change.Attributes {
		if _, ok := seen[path]; !ok {
			rest = append(rest, path)
		}
	}
	slices.Sort(rest)
	for _, path := range rest {
		out = append(out, notify.Entry{Name: path, Quantity: change.Attributes[path]})
	}
	return out
}

// moved drops attribute entries where nothing moved.
func moved(changed map[string]int) map[string]int {
	var out map[string]int
	for path, q := range changed {
		if q <= 0 {
			continue
		}
		if out == nil {
			out = map[string]int{}
		}
		out[path] = q
	}
	return out
}
