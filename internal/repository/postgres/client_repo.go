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

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

const clientColumns = "id, tenant_id, branch_id, name, email, portal_enabled"

func (r *clientRepo) GetByID(ctx context.Context, tenantID, clientID string) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client,
		"SELECT "+clientColumns+" FROM clients WHERE id = $1 AND tenant_id = $2", clientID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) ListByEmail(ctx context.Context, email string) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.SelectContext(ctx, &clients,
		"SELECT "+clientColumns+" FROM clients WHERE LOWER(email) = LOWER($1) ORDER BY created_at", email)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.ListByEmail: %w", err)
	}
	return clients, nil
}
