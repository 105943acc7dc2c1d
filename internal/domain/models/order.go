package models

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

var ErrOrderMismatch = errors.New("order list must contain every sibling exactly once")

// Ordered is the position of one sibling within an ordered collection
// (sections of a page, items under one menu parent).
type Ordered struct {
	ID    uuid.UUID
	Order int
}

// Resequence renumbers items to the dense sequence 1..N following their
// current order (ties keep input order) and returns only the items whose
// position changed.
func Resequence(items []Ordered) []Ordered {
	sorted := make([]Ordered, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	var changed []Ordered
	for i, it := range sorted {
		if it.Order != i+1 {
			changed = append(changed, Ordered{ID: it.ID, Order: i + 1})
		}
	}

	return changed
}

// MoveItem removes the element at from and reinserts it at to.
// Out of range indexes return a copy of ids unchanged.
func MoveItem(ids []uuid.UUID, from, to int) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)

	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) || from == to {
		return out
	}

	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]uuid.UUID{moved}, out[to:]...)...)

	return out
}

// CheckPermutation verifies that proposed holds exactly the ids of current.
func CheckPermutation(current, proposed []uuid.UUID) error {
	if len(current) != len(proposed) {
		return ErrOrderMismatch
	}

	seen := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		seen[id] = false
	}

	for _, id := range proposed {
		used, ok := seen[id]
		if !ok || used {
			return ErrOrderMismatch
		}
		seen[id] = true
	}

	return nil
}
