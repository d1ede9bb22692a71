package domain

import (
	"sort"
	"time"
)

// BatchDeduction is the quantity to take from one batch.
type BatchDeduction struct {
	BatchID  string
	Quantity float64
}

// PlanFEFO spreads qty over batches in ascending expiry order, skipping
// empty batches. Batches without an expiry date are consumed last. The
// returned plan may cover less than qty when batches do not hold enough.
func PlanFEFO(batches []InventoryBatch, qty float64) []BatchDeduction {
	ordered := make([]InventoryBatch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return expiryKey(ordered[i].ExpiryDate).Before(expiryKey(ordered[j].ExpiryDate))
	})

	var plan []BatchDeduction
	remaining := qty
	for _, b := range ordered {
		if remaining <= 0 {
			break
		}
		if b.Quantity <= 0 {
			continue
		}
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		plan = append(plan, BatchDeduction{BatchID: b.ID, Quantity: take})
		remaining -= take
	}
	return plan
}

var noExpiry = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func expiryKey(t *time.Time) time.Time {
	if t == nil {
		return noExpiry
	}
	return *t
}
