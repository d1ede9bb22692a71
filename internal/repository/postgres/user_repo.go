package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

type userRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new PostgreSQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db}
}

const insertUserQuery = `INSERT INTO users (id, tenant_id, branch_id, client_id, name, email,
	password_hash, role, phone, is_active, joined_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func insertUser(ctx context.Context, ext sqlx.ExecerContext, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.JoinedAt = now
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := ext.ExecContext(ctx, insertUserQuery,
		user.ID, user.TenantID, user.BranchID, user.ClientID, user.Name, user.Email,
		user.PasswordHash, user.Role, user.Phone, user.IsActive,
		user.JoinedAt, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		err = classify(err)
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if err := insertUser(ctx, r.db, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, tenantID, userID string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE id = $1 AND tenant_id = $2", userID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE LOWER(email) = LOWER($1)", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}
	return &user, nil
}

func (r *userRepo) SetPasswordResetToken(ctx context.Context, tenantID, userID, tokenID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_token_id = $1, updated_at = NOW()
		 WHERE id = $2 AND tenant_id = $3`,
		tokenID, userID, tenantID)
	if err != nil {
		return fmt.Errorf("userRepo.SetPasswordResetToken: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) ResetPassword(ctx context.Context, tenantID, userID, passwordHash, expectedTokenID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, reset_token_id = NULL, updated_at = NOW()
		 WHERE id = $2 AND tenant_id = $3 AND reset_token_id = $4`,
		passwordHash, userID, tenantID, expectedTokenID)
	if err != nil {
		return fmt.Errorf("userRepo.ResetPassword: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPasswordResetTokenInvalid
	}
	return nil
}
