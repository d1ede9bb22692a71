package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"vetcare/internal/domain"
	"vetcare/internal/port"
)

const defaultAnalyticsWindow = 30 * 24 * time.Hour

// AnalyticsRangeInput is the query DTO shared by the analytics endpoints.
// End dates without a time of day are inclusive.
type AnalyticsRangeInput struct {
	Start    string `form:"start"`
	End      string `form:"end"`
	BranchID string `form:"branchId"`
}

// AnalyticsService aggregates revenue and patient figures.
type AnalyticsService interface {
	Metrics(ctx context.Context, p domain.Principal, input AnalyticsRangeInput) (*domain.Metrics, error)
	Report(ctx context.Context, p domain.Principal, input AnalyticsRangeInput) (*domain.AnalyticsReport, error)
}

type analyticsService struct {
	repo port.AnalyticsRepository
	now  func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo port.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo, now: time.Now}
}

func (s *analyticsService) Metrics(ctx context.Context, p domain.Principal, input AnalyticsRangeInput) (*domain.Metrics, error) {
	start, end, err := s.parseRange(input)
	if err != nil {
		return nil, err
	}
	return s.repo.Metrics(ctx, p.TenantID, analyticsBranch(p, input.BranchID), start, end)
}

func (s *analyticsService) Report(ctx context.Context, p domain.Principal, input AnalyticsRangeInput) (*domain.AnalyticsReport, error) {
	start, end, err := s.parseRange(input)
	if err != nil {
		return nil, err
	}
	branchID := analyticsBranch(p, input.BranchID)
	m, err := s.repo.Metrics(ctx, p.TenantID, branchID, start, end)
	if err != nil {
		return nil, err
	}
	daily, err := s.repo.DailyRevenue(ctx, p.TenantID, branchID, start, end)
	if err != nil {
		return nil, err
	}
	return &domain.AnalyticsReport{Metrics: m, Daily: daily}, nil
}

// parseRange returns [start, end). Missing bounds default to the last 30
// days.
func (s *analyticsService) parseRange(input AnalyticsRangeInput) (time.Time, time.Time, error) {
	end := s.now().UTC()
	if strings.TrimSpace(input.End) != "" {
		t, err := dateparse.ParseIn(input.End, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end is not a date", domain.ErrValidation)
		}
		if t.Equal(t.Truncate(24 * time.Hour)) {
			t = t.Add(24 * time.Hour)
		}
		end = t
	}
	start := end.Add(-defaultAnalyticsWindow)
	if strings.TrimSpace(input.Start) != "" {
		t, err := dateparse.ParseIn(input.Start, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start is not a date", domain.ErrValidation)
		}
		start = t
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start must be before end", domain.ErrValidation)
	}
	return start, end, nil
}

// analyticsBranch confines branch-bound staff to their branch. Cross-branch
// roles aggregate everything unless they ask for one branch.
func analyticsBranch(p domain.Principal, requested string) string {
	if p.CrossBranch() {
		return requested
	}
	return p.BranchID
}
