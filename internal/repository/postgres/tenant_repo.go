package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

type tenantRepo struct {
	db *sqlx.DB
}

// NewTenantRepo creates a new PostgreSQL-backed TenantRepository.
func NewTenantRepo(db *sqlx.DB) port.TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, "SELECT * FROM tenants WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("tenantRepo.GetByID: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepo) Register(ctx context.Context, tenant *domain.Tenant, branch *domain.Branch, admin *domain.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("tenantRepo.Register begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	tenant.CreatedAt, tenant.UpdatedAt = now, now
	_, err = tx.ExecContext(ctx,
		`INSERT INTO tenants (id, name, plan, features, currency, locale, billing_status,
		 subscription_ends_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		tenant.ID, tenant.Name, tenant.Plan, string(tenant.Features), tenant.Currency, tenant.Locale,
		tenant.BillingStatus, tenant.SubscriptionEndsAt, tenant.CreatedAt, tenant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("tenantRepo.Register tenant: %w", classify(err))
	}

	branch.CreatedAt, branch.UpdatedAt = now, now
	_, err = tx.ExecContext(ctx,
		`INSERT INTO branches (id, tenant_id, name, address, phone, is_main, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		branch.ID, branch.TenantID, branch.Name, branch.Address, branch.Phone, branch.IsMain,
		branch.CreatedAt, branch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("tenantRepo.Register branch: %w", classify(err))
	}

	if err := insertUser(ctx, tx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("tenantRepo.Register admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tenantRepo.Register commit: %w", err)
	}
	return nil
}

func (r *tenantRepo) UpdateBilling(ctx context.Context, tenant *domain.Tenant) error {
	tenant.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET plan = $1, features = $2, billing_status = $3,
		 subscription_ends_at = $4, updated_at = $5 WHERE id = $6`,
		tenant.Plan, string(tenant.Features), tenant.BillingStatus, tenant.SubscriptionEndsAt,
		tenant.UpdatedAt, tenant.ID)
	if err != nil {
		return fmt.Errorf("tenantRepo.UpdateBilling: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
