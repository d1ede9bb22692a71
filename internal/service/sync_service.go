package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vetcare/internal/domain"
	"vetcare/internal/port"
	"vetcare/internal/resource"
)

// BootstrapCollections are the keys of the bootstrap payload, in response
// order.
var BootstrapCollections = []string{
	"users", "clients", "patients", "inventory", "sales", "invoices", "services",
	"appointments", "consultations", "labRequests", "expenses", "budgets",
	"branches", "orders", "chats", "staffChats", "logs", "tenants",
}

// SyncService assembles the client-side hydration payloads.
type SyncService interface {
	// Bootstrap returns every collection p may see. Any failed query fails
	// the whole payload.
	Bootstrap(ctx context.Context, p domain.Principal) (map[string][]resource.Record, error)
	Chats(ctx context.Context, p domain.Principal) (map[string][]resource.Record, error)
}

type syncService struct {
	registry *resource.Registry
	repo     port.ResourceRepository
	errLog   *zap.Logger
}

// NewSyncService creates a new SyncService. errLog receives failed
// fan-outs.
func NewSyncService(registry *resource.Registry, repo port.ResourceRepository, errLog *zap.Logger) SyncService {
	if errLog == nil {
		errLog = zap.NewNop()
	}
	return &syncService{registry: registry, repo: repo, errLog: errLog}
}

func (s *syncService) Bootstrap(ctx context.Context, p domain.Principal) (map[string][]resource.Record, error) {
	return s.fanOut(ctx, p, BootstrapCollections)
}

func (s *syncService) Chats(ctx context.Context, p domain.Principal) (map[string][]resource.Record, error) {
	return s.fanOut(ctx, p, []string{"chats", "staffChats"})
}

func (s *syncService) fanOut(ctx context.Context, p domain.Principal, names []string) (map[string][]resource.Record, error) {
	results := make([][]resource.Record, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		spec, err := s.registry.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("sync: %w", err)
		}
		f, visible := s.filterFor(spec, p)
		if !visible {
			results[i] = []resource.Record{}
			continue
		}
		g.Go(func() error {
			rows, err := s.repo.List(gctx, spec, f)
			if err != nil {
				return fmt.Errorf("sync %s: %w", spec.Name, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.errLog.Error("sync failed",
			zap.String("tenant_id", p.TenantID),
			zap.String("user_id", p.UserID),
			zap.String("role", string(p.Role)),
			zap.Error(err),
		)
		return nil, err
	}

	out := make(map[string][]resource.Record, len(names))
	for i, name := range names {
		if results[i] == nil {
			results[i] = []resource.Record{}
		}
		out[name] = results[i]
	}
	return out, nil
}

// filterFor applies the console view for super admins and the regular
// tenant view for everyone else.
func (s *syncService) filterFor(spec *resource.Spec, p domain.Principal) (resource.Filter, bool) {
	if !p.IsSuperAdmin() {
		return scopeFor(spec, p)
	}
	switch spec.Name {
	case "users":
		return resource.Filter{}.With(resource.Eq("role", string(domain.RoleSuperAdmin))), true
	case "tenants":
		return resource.Filter{}, true
	}
	return resource.Filter{}, false
}
