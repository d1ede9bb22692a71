package port

import (
	"context"

	"vetcare/internal/domain"
)

// SaleRepository persists point-of-sale transactions.
type SaleRepository interface {
	// GetByID looks a sale up across tenants so idempotent retries can be
	// told apart from id collisions.
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	// WithinTx runs fn in one database transaction bound to ctx. fn's error
	// rolls the transaction back and is returned unchanged.
	WithinTx(ctx context.Context, fn func(tx SaleTx) error) error
}

// SaleTx is the set of writes a sale performs inside its transaction.
type SaleTx interface {
	BranchExists(ctx context.Context, tenantID, branchID string) (bool, error)
	// InsertSale returns domain.ErrConflict on a duplicate id.
	InsertSale(ctx context.Context, sale *domain.Sale) error
	// LockItem loads the branch's item with its batches and holds a row lock
	// on the item until the transaction ends. Items of other branches are
	// domain.ErrNotFound.
	LockItem(ctx context.Context, tenantID, branchID, itemID string) (*domain.InventoryItem, error)
	DecrementBatch(ctx context.Context, batchID string, qty float64) error
	DecrementStock(ctx context.Context, itemID string, qty float64) error
}
