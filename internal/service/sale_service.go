package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"vetcare/internal/domain"
	"vetcare/internal/metrics"
	"vetcare/internal/port"
)

const saleTimeout = 15 * time.Second

// CreateSaleInput is the DTO for point-of-sale submissions. Numeric fields
// accept numbers or numeric strings; nil means "not supplied".
type CreateSaleInput struct {
	ID               string           `json:"id"`
	BranchID         string           `json:"branchId"`
	ClientID         string           `json:"clientId"`
	Items            []map[string]any `json:"items"`
	Subtotal         any              `json:"subtotal"`
	Tax              any              `json:"tax"`
	Discount         any              `json:"discount"`
	Total            any              `json:"total"`
	PaymentMethod    string           `json:"paymentMethod"`
	PaymentReference string           `json:"paymentReference"`
	Status           string           `json:"status"`
}

// SaleService records sales and draws their stock down.
type SaleService interface {
	// Create stores the sale and decrements inventory in one transaction.
	// created is false when an identical earlier submission is returned.
	Create(ctx context.Context, p domain.Principal, input CreateSaleInput) (sale *domain.Sale, created bool, err error)
}

type saleService struct {
	repo   port.SaleRepository
	audit  *AuditRecorder
	errLog *zap.Logger
	now    func() time.Time
}

// NewSaleService creates a new SaleService. errLog receives unexpected
// failures.
func NewSaleService(repo port.SaleRepository, audit *AuditRecorder, errLog *zap.Logger) SaleService {
	if errLog == nil {
		errLog = zap.NewNop()
	}
	return &saleService{repo: repo, audit: audit, errLog: errLog, now: time.Now}
}

// lineDemand is the quantity of one inventory item requested by a sale.
type lineDemand struct {
	itemID string
	name   string
	qty    float64
}

func (s *saleService) Create(ctx context.Context, p domain.Principal, input CreateSaleInput) (*domain.Sale, bool, error) {
	if strings.TrimSpace(input.ID) == "" {
		input.ID = fmt.Sprintf("sale_%d", s.now().UnixMilli())
	}
	if len(input.Items) == 0 {
		metrics.SalesTotal.WithLabelValues("rejected").Inc()
		return nil, false, fmt.Errorf("%w: a sale needs at least one item", domain.ErrValidation)
	}

	branchID := input.BranchID
	if !p.CrossBranch() && p.BranchID != "" {
		branchID = p.BranchID
	}
	if branchID == "" {
		branchID = p.BranchID
	}
	if branchID == "" {
		metrics.SalesTotal.WithLabelValues("rejected").Inc()
		return nil, false, domain.ErrBranchRequired
	}

	existing, err := s.repo.GetByID(ctx, input.ID)
	if err == nil {
		return s.replay(p, existing)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, s.fail(p, input.ID, err)
	}

	sale, demand, err := s.buildSale(p, branchID, input)
	if err != nil {
		metrics.SalesTotal.WithLabelValues("rejected").Inc()
		return nil, false, err
	}

	txCtx, cancel := context.WithTimeout(ctx, saleTimeout)
	defer cancel()
	err = s.repo.WithinTx(txCtx, func(tx port.SaleTx) error {
		ok, err := tx.BranchExists(txCtx, p.TenantID, branchID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrBranchNotFound
		}
		if err := tx.InsertSale(txCtx, sale); err != nil {
			return err
		}
		return s.drawStock(txCtx, tx, p.TenantID, branchID, demand)
	})

	if errors.Is(err, domain.ErrConflict) {
		// A concurrent submission of the same id won the insert.
		if existing, gerr := s.repo.GetByID(ctx, input.ID); gerr == nil {
			return s.replay(p, existing)
		}
	}
	if err != nil {
		if isBusinessError(err) {
			metrics.SalesTotal.WithLabelValues("rejected").Inc()
			return nil, false, err
		}
		return nil, false, s.fail(p, input.ID, err)
	}

	metrics.SalesTotal.WithLabelValues("created").Inc()
	s.audit.Record(ctx, p, "CREATE_SALES", sale.ID, map[string]any{
		"total": sale.Total,
		"items": len(input.Items),
	})
	return sale, true, nil
}

func (s *saleService) replay(p domain.Principal, existing *domain.Sale) (*domain.Sale, bool, error) {
	if existing.TenantID != p.TenantID {
		metrics.SalesTotal.WithLabelValues("rejected").Inc()
		return nil, false, domain.ErrConflict
	}
	metrics.SalesTotal.WithLabelValues("replayed").Inc()
	return existing, false, nil
}

func (s *saleService) fail(p domain.Principal, saleID string, err error) error {
	metrics.SalesTotal.WithLabelValues("failed").Inc()
	s.errLog.Error("sale failed",
		zap.String("sale_id", saleID),
		zap.String("tenant_id", p.TenantID),
		zap.String("user_id", p.UserID),
		zap.Error(err),
	)
	return fmt.Errorf("sale.Create: %w", err)
}

// buildSale coerces the submitted numbers and fills in defaults.
func (s *saleService) buildSale(p domain.Principal, branchID string, input CreateSaleInput) (*domain.Sale, []lineDemand, error) {
	subtotal := decimal.Zero
	byItem := make(map[string]*lineDemand)
	for i, line := range input.Items {
		qty, err := cast.ToFloat64E(orZero(line["quantity"]))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: items[%d].quantity must be a number", domain.ErrValidation, i)
		}
		lineTotal, err := lineAmount(line, qty)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: items[%d]: %v", domain.ErrValidation, i, err)
		}
		subtotal = subtotal.Add(lineTotal)

		itemID := cast.ToString(line["itemId"])
		if itemID == "" || qty <= 0 {
			continue
		}
		if d, ok := byItem[itemID]; ok {
			d.qty += qty
			continue
		}
		byItem[itemID] = &lineDemand{itemID: itemID, name: cast.ToString(line["name"]), qty: qty}
	}

	demand := make([]lineDemand, 0, len(byItem))
	for _, d := range byItem {
		demand = append(demand, *d)
	}
	// Items are locked in id order so concurrent sales cannot deadlock.
	sort.Slice(demand, func(i, j int) bool { return demand[i].itemID < demand[j].itemID })

	tax, err := optionalAmount("tax", input.Tax, decimal.Zero)
	if err != nil {
		return nil, nil, err
	}
	discount, err := optionalAmount("discount", input.Discount, decimal.Zero)
	if err != nil {
		return nil, nil, err
	}
	sub, err := optionalAmount("subtotal", input.Subtotal, subtotal)
	if err != nil {
		return nil, nil, err
	}
	total, err := optionalAmount("total", input.Total, sub.Add(tax).Sub(discount))
	if err != nil {
		return nil, nil, err
	}

	items, err := json.Marshal(input.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: items: %v", domain.ErrValidation, err)
	}

	method := domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(input.PaymentMethod)))
	if method == "" {
		method = domain.PaymentCash
	}
	status := domain.SaleStatus(strings.ToUpper(strings.TrimSpace(input.Status)))
	if status == "" {
		status = domain.SaleStatusCompleted
	}

	sale := &domain.Sale{
		ID:               input.ID,
		TenantID:         p.TenantID,
		BranchID:         branchID,
		Items:            items,
		Subtotal:         sub.InexactFloat64(),
		Tax:              tax.InexactFloat64(),
		Discount:         discount.InexactFloat64(),
		Total:            total.InexactFloat64(),
		PaymentMethod:    method,
		PaymentReference: input.PaymentReference,
		Status:           status,
		CreatedBy:        p.UserRef(),
	}
	if input.ClientID != "" {
		clientID := input.ClientID
		sale.ClientID = &clientID
	}
	return sale, demand, nil
}

// drawStock decrements every demanded item of the sale's branch, batches
// first-expiry-first.
func (s *saleService) drawStock(ctx context.Context, tx port.SaleTx, tenantID, branchID string, demand []lineDemand) error {
	for _, d := range demand {
		item, err := tx.LockItem(ctx, tenantID, branchID, d.itemID)
		if errors.Is(err, domain.ErrNotFound) {
			zap.L().Warn("sale references unknown inventory item",
				zap.String("item_id", d.itemID),
				zap.String("tenant_id", tenantID),
				zap.String("branch_id", branchID),
			)
			continue
		}
		if err != nil {
			return err
		}
		if item.TotalStock < d.qty {
			name := item.Name
			if name == "" {
				name = d.name
			}
			return &domain.StockError{
				ItemID:    item.ID,
				ItemName:  name,
				Requested: d.qty,
				Available: item.TotalStock,
			}
		}
		for _, step := range domain.PlanFEFO(item.Batches, d.qty) {
			if err := tx.DecrementBatch(ctx, step.BatchID, step.Quantity); err != nil {
				return err
			}
		}
		if err := tx.DecrementStock(ctx, item.ID, d.qty); err != nil {
			return err
		}
	}
	return nil
}

func lineAmount(line map[string]any, qty float64) (decimal.Decimal, error) {
	if v, ok := line["total"]; ok && v != nil {
		t, err := cast.ToFloat64E(v)
		if err != nil {
			return decimal.Zero, errors.New("total must be a number")
		}
		return decimal.NewFromFloat(t), nil
	}
	price := line["unitPrice"]
	if price == nil {
		price = line["price"]
	}
	unit, err := cast.ToFloat64E(orZero(price))
	if err != nil {
		return decimal.Zero, errors.New("unitPrice must be a number")
	}
	return decimal.NewFromFloat(unit).Mul(decimal.NewFromFloat(qty)), nil
}

func optionalAmount(name string, v any, fallback decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return fallback, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, name)
	}
	return decimal.NewFromFloat(f), nil
}

func orZero(v any) any {
	if v == nil {
		return 0
	}
	return v
}

// isBusinessError reports whether err is a client-facing rejection rather
// than an infrastructure failure.
func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrValidation,
		domain.ErrBranchRequired,
		domain.ErrBranchNotFound,
		domain.ErrInsufficientStock,
		domain.ErrInvalidReference,
		domain.ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
