package reconcile

import (
	"fmt"

	"github.com/pixil98/item-piles/internal/inventory"
	"github.com/pixil98/item-piles/internal/record"
)

// ComputeAdd works out how incoming items merge into a holder's items.
// Incoming items match by similarity keys, never by identifier. Each
// incoming item is matched against the holder's existing items only;
// two incoming items that are similar to each other but to nothing on the
// holder produce two new records. Inputs are never mutated.
func ComputeAdd(rules Rules, items []record.Record, incoming []Incoming) (ItemsAdded, error) {
	var out ItemsAdded

	// running quantities of existing stacks touched by this batch
	running := map[string]int{}
	updateIdx := map[string]int{}

	for i, in := range incoming {
		if in.Item == nil {
			return ItemsAdded{}, fmt.Errorf("incoming item %d: item is required", i)
		}

		qty := record.GetQuantity(in.Item, rules.QuantityPath)
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		if qty < 0 {
			return ItemsAdded{}, fmt.Errorf("incoming item %d (%s): %w", i, in.Item.Name(), ErrNegativeQuantity)
		}
		if qty == 0 {
			continue
		}

		// identifiers belong to the source holder, so only similarity counts
		candidate := in.Item.Clone()
		candidate.Delete(record.IdKey)

		found, ok := inventory.FindSimilarItem(items, candidate, rules.Similarities)
		if !ok {
			created := candidate
			record.SetQuantity(created, rules.QuantityPath, qty)

			out.ToCreate = append(out.ToCreate, created)
			out.Added = append(out.Added, Delta{Item: created.Clone(), Quantity: qty})
			continue
		}

		id := found.Id()
		current, seen := running[id]
		if !seen {
			current = record.GetQuantity(found, rules.QuantityPath)
		}
		total := current + qty
		running[id] = total

		if idx, ok := updateIdx[id]; ok {
			out.ToUpdate[idx].Quantity = total
		} else {
			updateIdx[id] = len(out.ToUpdate)
			out.ToUpdate = append(out.ToUpdate, ItemUpdate{Id: id, Quantity: total})
		}

		added := found.Clone()
		record.SetQuantity(added, rules.QuantityPath, qty)
		out.Added = append(out.Added, Delta{Item: added, Quantity: qty})
	}

	return out, nil
}

// ComputeRemove works out how removal requests reduce a holder's items.
// Requests naming unknown items or a zero quantity are skipped. A removal larger than the
// stack deletes the item and reports the quantity that actually existed.
func ComputeRemove(rules Rules, items []record.Record, requests []Removal) (ItemsRemoved, error) {
	var out ItemsRemoved

	byId := make(map[string]record.Record, len(items))
	for _, item := range items {
		if id := item.Id(); id != "" {
			byId[id] = item
		}
	}

	running := map[string]int{}
	updateIdx := map[string]int{}
	deleted := map[string]struct{}{}

	for _, req := range requests {
		if req.Quantity < 0 {
			return ItemsRemoved{}, fmt.Errorf("removing item %s: %w", req.Id, ErrNegativeQuantity)
		}
		if req.Quantity == 0 {
			continue
		}

		item, ok := byId[req.Id]
		if !ok {
			continue
		}
		if _, gone := deleted[req.Id]; gone {
			continue
		}

		current, seen := running[req.Id]
		if !seen {
			current = record.GetQuantity(item, rules.QuantityPath)
		}
		remaining := max(0, current-req.Quantity)

		removed := item.Clone()
		if remaining >= 1 {
			running[req.Id] = remaining
			if idx, ok := updateIdx[req.Id]; ok {
				out.ToUpdate[idx].Quantity = remaining
			} else {
				updateIdx[req.Id] = len(out.ToUpdate)
				out.ToUpdate = append(out.ToUpdate, ItemUpdate{Id: req.Id, Quantity: remaining})
			}

			record.SetQuantity(removed, rules.QuantityPath, req.Quantity)
			out.Removed = append(out.Removed, Delta{Item: removed, Quantity: req.Quantity})
			continue
		}

		if idx, ok := updateIdx[req.Id]; ok {
			out.ToUpdate = append(out.ToUpdate[:idx], out.ToUpdate[idx+1:]...)
			delete(updateIdx, req.Id)
			for id, j := range updateIdx {
				if j > idx {
					updateIdx[id] = j - 1
				}
			}
		}
		deleted[req.Id] = struct{}{}
		out.ToDelete = append(out.ToDelete, req.Id)

		record.SetQuantity(removed, rules.QuantityPath, current)
		out.Removed = append(out.Removed, Delta{Item: removed, Quantity: current, Deleted: true})
	}

	return out, nil
}
