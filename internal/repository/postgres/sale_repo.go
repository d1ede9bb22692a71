package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

type saleRepo struct {
	db *sqlx.DB
}

// NewSaleRepo creates a new PostgreSQL-backed SaleRepository.
func NewSaleRepo(db *sqlx.DB) port.SaleRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("saleRepo.GetByID: %w", err)
	}
	return &sale, nil
}

func (r *saleRepo) WithinTx(ctx context.Context, fn func(tx port.SaleTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saleRepo.WithinTx begin: %w", err)
	}
	if err := fn(&saleTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saleRepo.WithinTx commit: %w", err)
	}
	return nil
}

type saleTx struct {
	tx *sqlx.Tx
}

func (t *saleTx) BranchExists(ctx context.Context, tenantID, branchID string) (bool, error) {
	var exists bool
	err := t.tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM branches WHERE id = $1 AND tenant_id = $2)", branchID, tenantID)
	if err != nil {
		return false, fmt.Errorf("saleTx.BranchExists: %w", err)
	}
	return exists, nil
}

func (t *saleTx) InsertSale(ctx context.Context, sale *domain.Sale) error {
	query := `INSERT INTO sales (id, tenant_id, branch_id, client_id, items, subtotal, tax, discount,
		total, payment_method, payment_reference, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := t.tx.QueryRowxContext(ctx, query,
		sale.ID, sale.TenantID, sale.BranchID, sale.ClientID, string(sale.Items),
		sale.Subtotal, sale.Tax, sale.Discount, sale.Total, sale.PaymentMethod,
		sale.PaymentReference, sale.Status, sale.CreatedBy,
	).Scan(&sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saleTx.InsertSale: %w", classify(err))
	}
	return nil
}

func (t *saleTx) LockItem(ctx context.Context, tenantID, branchID, itemID string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := t.tx.GetContext(ctx, &item,
		`SELECT id, tenant_id, branch_id, name, total_stock FROM inventory_items
		 WHERE id = $1 AND tenant_id = $2 AND branch_id = $3 FOR UPDATE`, itemID, tenantID, branchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("saleTx.LockItem: %w", err)
	}

	err = t.tx.SelectContext(ctx, &item.Batches,
		`SELECT id, item_id, quantity, expiry_date FROM inventory_batches
		 WHERE item_id = $1 ORDER BY expiry_date ASC NULLS LAST FOR UPDATE`, itemID)
	if err != nil {
		return nil, fmt.Errorf("saleTx.LockItem batches: %w", err)
	}
	return &item, nil
}

func (t *saleTx) DecrementBatch(ctx context.Context, batchID string, qty float64) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE inventory_batches SET quantity = quantity - $1 WHERE id = $2", qty, batchID)
	if err != nil {
		return fmt.Errorf("saleTx.DecrementBatch: %w", err)
	}
	return nil
}

func (t *saleTx) DecrementStock(ctx context.Context, itemID string, qty float64) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE inventory_items SET total_stock = total_stock - $1, updated_at = NOW() WHERE id = $2",
		qty, itemID)
	if err != nil {
		return fmt.Errorf("saleTx.DecrementStock: %w", err)
	}
	return nil
}
