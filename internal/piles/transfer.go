package piles

import (
	"context"
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/item-piles/internal/holder"
	"github.com/pixil98/item-piles/internal/inventory"
	"github.com/pixil98/item-piles/internal/notify"
	"github.com/pixil98/item-piles/internal/reconcile"
	"github.com/pixil98/item-piles/internal/record"
)

// planFunc decides what leaves the source holder.
type planFunc func(src *state) (reconcile.ItemsRemoved, reconcile.AttributesChanged, error)

// Transfer moves items and attribute amounts from source to target. The
// target receives exactly what was taken from the source.
func (m *PileManager) Transfer(ctx context.Context, source, target holder.Ref, items []reconcile.Removal, attributes map[string]int) (*Change, error) {
	return m.transfer(ctx, source, target, func(src *state) (reconcile.ItemsRemoved, reconcile.AttributesChanged, error) {
		removed, err := reconcile.ComputeRemove(reconcile.NewRules(src.rules), src.h.Actor.Items, items)
		if err != nil {
			return reconcile.ItemsRemoved{}, reconcile.AttributesChanged{}, err
		}
		attrs, err := reconcile.ComputeAttributeRemove(src.h.Actor.Attributes, attributes)
		if err != nil {
			return reconcile.ItemsRemoved{}, reconcile.AttributesChanged{}, err
		}
		return removed, attrs, nil
	})
}

// TransferItems moves items from source to target.
func (m *PileManager) TransferItems(ctx context.Context, source, target holder.Ref, items []reconcile.Removal) (*Change, error) {
	return m.Transfer(ctx, source, target, items, nil)
}

// TransferAttributes moves attribute amounts from source to target.
func (m *PileManager) TransferAttributes(ctx context.Context, source, target holder.Ref, attributes map[string]int) (*Change, error) {
	return m.Transfer(ctx, source, target, nil, attributes)
}

// TransferEverything moves every lootable item, every currency item and
// the full balance of every currency attribute from source to target.
func (m *PileManager) TransferEverything(ctx context.Context, source, target holder.Ref) (*Change, error) {
	return m.transfer(ctx, source, target, func(src *state) (reconcile.ItemsRemoved, reconcile.AttributesChanged, error) {
		a := src.h.Actor

		var requests []reconcile.Removal
		take := func(items []record.Record) {
			for _, item := range items {
				requests = append(requests, reconcile.Removal{
					Id:       item.Id(),
					Quantity: max(0, record.GetQuantity(item, src.rules.QuantityPath)),
				})
			}
		}
		take(inventory.LootItems(a.Items, src.rules))
		take(inventory.CurrencyItems(a.Items, src.rules))

		removed, err := reconcile.ComputeRemove(reconcile.NewRules(src.rules), a.Items, requests)
		if err != nil {
			return reconcile.ItemsRemoved{}, reconcile.AttributesChanged{}, err
		}

		paths := make([]string, 0, len(src.rules.Currencies.Attributes))
		for _, c := range src.rules.Currencies.Attributes {
			paths = append(paths, c.Path)
		}
		attrs, err := reconcile.DrainAttributes(a.Attributes, paths)
		if err != nil {
			return reconcile.ItemsRemoved{}, reconcile.AttributesChanged{}, err
		}
		return removed, attrs, nil
	})
}

func (m *PileManager) transfer(ctx context.Context, source, target holder.Ref, plan planFunc) (*Change, error) {
	srcRef, err := m.resolver.Canonical(source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dstRef, err := m.resolver.Canonical(target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if srcRef == dstRef {
		return nil, fmt.Errorf("%w: %s", ErrSameHolder, srcRef)
	}

	unlock := m.locks.lock(srcRef.String(), dstRef.String())
	defer unlock()

	src, err := m.snapshot(srcRef)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dst, err := m.snapshot(dstRef)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	removed, attrs, err := plan(src)
	if err != nil {
		return nil, err
	}

	incoming := make([]reconcile.Incoming, 0, len(removed.Removed))
	for _, d := range removed.Removed {
		q := d.Quantity
		incoming = append(incoming, reconcile.Incoming{Item: d.Item, Quantity: &q})
	}
	added, err := reconcile.ComputeAdd(reconcile.NewRules(dst.rules), dst.h.Actor.Items, incoming)
	if err != nil {
		return nil, err
	}
	gained, err := reconcile.ComputeAttributeAdd(dst.h.Actor.Attributes, moved(attrs.Changed))
	if err != nil {
		return nil, err
	}

	change := &Change{
		Type:       notify.Transferred,
		Holder:     srcRef,
		Target:     &dstRef,
		Items:      removed.Removed,
		Attributes: moved(attrs.Changed),
	}

	srcBatch := removed.Batch().Merge(attrs.Batch())
	dstBatch := added.Batch().Merge(gained.Batch())
	if srcBatch.Empty() && dstBatch.Empty() {
		return change, nil
	}

	prev := src.h.Actor
	if _, err := m.committer.Commit(ctx, src.h, src.rules.QuantityPath, srcBatch); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if _, err := m.committer.Commit(ctx, dst.h, dst.rules.QuantityPath, dstBatch); err != nil {
		err = fmt.Errorf("target: %w", err)
		if rerr := m.committer.Restore(ctx, src.h, prev); rerr != nil {
			el := errors.NewErrorList()
			el.Add(err)
			el.Add(fmt.Errorf("restoring source: %w", rerr))
			return nil, el.Err()
		}
		return nil, err
	}

	el := errors.NewErrorList()
	if err := m.present(ctx, src); err != nil {
		el.Add(fmt.Errorf("source: %w", err))
	}
	if err := m.present(ctx, dst); err != nil {
		el.Add(fmt.Errorf("target: %w", err))
	}

	m.notify(ctx, change, src, dst)
	return change, el.Err()
}
