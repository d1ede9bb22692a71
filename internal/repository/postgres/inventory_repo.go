package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

type inventoryRepo struct {
	db *sqlx.DB
}

// NewInventoryRepo creates a new PostgreSQL-backed InventoryRepository.
func NewInventoryRepo(db *sqlx.DB) port.InventoryRepository {
	return &inventoryRepo{db: db}
}

// ListStockDrift compares each batch-tracked item's totalStock with the sum
// of its non-expired batch quantities.
func (r *inventoryRepo) ListStockDrift(ctx context.Context) ([]domain.StockDrift, error) {
	var drift []domain.StockDrift
	err := r.db.SelectContext(ctx, &drift, `
		SELECT i.id AS item_id, i.tenant_id, i.name, i.total_stock,
		       COALESCE(SUM(b.quantity) FILTER (WHERE b.expiry_date IS NULL OR b.expiry_date >= NOW()), 0) AS batch_total
		FROM inventory_items i
		JOIN inventory_batches b ON b.item_id = i.id
		GROUP BY i.id, i.tenant_id, i.name, i.total_stock
		HAVING ABS(i.total_stock - COALESCE(SUM(b.quantity) FILTER (WHERE b.expiry_date IS NULL OR b.expiry_date >= NOW()), 0)) > 0.0001
		ORDER BY i.tenant_id, i.name`)
	if err != nil {
		return nil, fmt.Errorf("inventoryRepo.ListStockDrift: %w", err)
	}
	return drift, nil
}
