package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

type analyticsRepo struct {
	db *sqlx.DB
}

// NewAnalyticsRepo creates a new PostgreSQL-backed AnalyticsRepository.
func NewAnalyticsRepo(db *sqlx.DB) port.AnalyticsRepository {
	return &analyticsRepo{db: db}
}

// Every query takes $1 tenant, $2 start, $3 end (exclusive) and $4 branch,
// where an empty branch matches all branches.
func (r *analyticsRepo) Metrics(ctx context.Context, tenantID, branchID string, start, end time.Time) (*domain.Metrics, error) {
	m := &domain.Metrics{Start: start, End: end}
	err := r.db.GetContext(ctx, m, `
		SELECT
		  (SELECT COALESCE(SUM(total), 0) FROM sales
		    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		      AND status = 'COMPLETED' AND ($4::text = '' OR branch_id = $4)) AS sales_revenue,
		  (SELECT COUNT(*) FROM sales
		    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		      AND status = 'COMPLETED' AND ($4::text = '' OR branch_id = $4)) AS sales_count,
		  (SELECT COALESCE(SUM(amount_paid), 0) FROM invoices
		    WHERE tenant_id = $1 AND COALESCE(issued_at, created_at) >= $2 AND COALESCE(issued_at, created_at) < $3
		      AND status IN ('PAID', 'PARTIAL') AND ($4::text = '' OR branch_id = $4)) AS invoice_revenue,
		  (SELECT COALESCE(SUM(amount), 0) FROM expenses
		    WHERE tenant_id = $1 AND COALESCE("date", created_at) >= $2 AND COALESCE("date", created_at) < $3
		      AND ($4::text = '' OR branch_id = $4)) AS expenses,
		  (SELECT COUNT(*) FROM patients
		    WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3
		      AND ($4::text = '' OR branch_id = $4)) AS new_patients,
		  (SELECT COUNT(*) FROM patients
		    WHERE tenant_id = $1 AND ($4::text = '' OR branch_id = $4)) AS total_patients`,
		tenantID, start, end, branchID)
	if err != nil {
		return nil, fmt.Errorf("analyticsRepo.Metrics: %w", err)
	}
	m.TotalRevenue = m.SalesRevenue + m.InvoiceRevenue
	m.NetIncome = m.TotalRevenue - m.Expenses
	return m, nil
}

func (r *analyticsRepo) DailyRevenue(ctx context.Context, tenantID, branchID string, start, end time.Time) ([]domain.DailyRevenue, error) {
	var rows []domain.DailyRevenue
	err := r.db.SelectContext(ctx, &rows, `
		WITH days AS (
		  SELECT generate_series($2::date, ($3::timestamptz - INTERVAL '1 second')::date, INTERVAL '1 day')::date AS day
		)
		SELECT d.day,
		  COALESCE((SELECT SUM(s.total) FROM sales s
		    WHERE s.tenant_id = $1 AND s.status = 'COMPLETED' AND s.created_at::date = d.day
		      AND ($4::text = '' OR s.branch_id = $4)), 0) AS sales,
		  COALESCE((SELECT SUM(e.amount) FROM expenses e
		    WHERE e.tenant_id = $1 AND COALESCE(e."date", e.created_at)::date = d.day
		      AND ($4::text = '' OR e.branch_id = $4)), 0) AS expenses
		FROM days d
		ORDER BY d.day`,
		tenantID, start, end, branchID)
	if err != nil {
		return nil, fmt.Errorf("analyticsRepo.DailyRevenue: %w", err)
	}
	return rows, nil
}
