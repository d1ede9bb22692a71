package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vetcare/internal/domain"
	"vetcare/internal/port"
	"vetcare/internal/resource"
)

// ResourceService is the generic tenant-scoped CRUD contract behind
// /api/:collection.
type ResourceService interface {
	List(ctx context.Context, p domain.Principal, collection string) ([]resource.Record, error)
	Get(ctx context.Context, p domain.Principal, collection, id string) (resource.Record, error)
	Create(ctx context.Context, p domain.Principal, collection string, payload map[string]any) (resource.Record, error)
	Update(ctx context.Context, p domain.Principal, collection, id string, payload map[string]any) (resource.Record, error)
	Delete(ctx context.Context, p domain.Principal, collection, id string) error
}

// writePolicy adjusts or rejects a sanitized payload before it is stored.
// nested holds the child rows written with a create; creating is false on
// update.
type writePolicy func(ctx context.Context, p domain.Principal, rec resource.Record, nested map[string][]resource.Record, creating bool) error

type resourceService struct {
	registry   *resource.Registry
	repo       port.ResourceRepository
	clientRepo port.ClientRepository
	audit      *AuditRecorder
	policies   map[string]writePolicy
	now        func() time.Time
}

// NewResourceService creates a new ResourceService implementation.
func NewResourceService(
	registry *resource.Registry,
	repo port.ResourceRepository,
	clientRepo port.ClientRepository,
	audit *AuditRecorder,
) ResourceService {
	s := &resourceService{
		registry:   registry,
		repo:       repo,
		clientRepo: clientRepo,
		audit:      audit,
		now:        time.Now,
	}
	s.policies = map[string]writePolicy{
		"users":     s.userPolicy,
		"invoices":  invoicePolicy,
		"tenants":   tenantPolicy,
		"inventory": s.inventoryPolicy,
	}
	return s
}

func (s *resourceService) List(ctx context.Context, p domain.Principal, collection string) ([]resource.Record, error) {
	spec, err := s.registry.Lookup(collection)
	if err != nil {
		return []resource.Record{}, err
	}
	f, visible := scopeFor(spec, p)
	if !visible {
		return []resource.Record{}, nil
	}
	rows, err := s.repo.List(ctx, spec, f)
	if err != nil {
		return []resource.Record{}, err
	}
	return rows, nil
}

func (s *resourceService) Get(ctx context.Context, p domain.Principal, collection, id string) (resource.Record, error) {
	spec, err := s.registry.Lookup(collection)
	if err != nil {
		return nil, err
	}
	f, visible := scopeFor(spec, p)
	if !visible {
		return nil, domain.ErrNotFound
	}
	return s.repo.Get(ctx, spec, f, id)
}

func (s *resourceService) Create(ctx context.Context, p domain.Principal, collection string, payload map[string]any) (resource.Record, error) {
	spec, err := s.registry.Lookup(collection)
	if err != nil {
		return nil, err
	}
	if !spec.Creatable {
		return nil, domain.ErrInvalidCollection
	}
	if err := s.authorizeWrite(spec, p, true); err != nil {
		return nil, err
	}

	nested := resource.ExtractNested(spec, payload)
	for name, rows := range nested {
		child, _ := spec.Child(name)
		for _, row := range rows {
			resource.CoerceRecord(child.Spec, row)
		}
	}
	rec := resource.Sanitize(spec, payload)
	resource.CoerceRecord(spec, rec)

	if id := cast.ToString(rec["id"]); strings.TrimSpace(id) == "" {
		rec["id"] = uuid.New().String()
	}
	rec["tenantId"] = p.TenantID
	if spec.BranchScoped {
		if !p.CrossBranch() && p.BranchID != "" {
			rec["branchId"] = p.BranchID
		} else if cast.ToString(rec["branchId"]) == "" {
			if p.BranchID != "" {
				rec["branchId"] = p.BranchID
			} else {
				delete(rec, "branchId")
			}
		}
	}
	if p.IsPortal() {
		rec["clientId"] = p.ClientID
	}

	if err := s.checkReferences(ctx, p, spec, rec); err != nil {
		return nil, err
	}
	if policy, ok := s.policies[spec.Name]; ok {
		if err := policy(ctx, p, rec, nested, true); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, spec, rec, nested)
	if err != nil {
		return nil, err
	}

	recordID := cast.ToString(created["id"])
	s.audit.Record(ctx, p, "CREATE_"+spec.AuditName, recordID, map[string]any{"collection": spec.Name})
	zap.L().Debug("record created",
		zap.String("collection", spec.Name),
		zap.String("id", recordID),
		zap.String("tenant_id", p.TenantID),
	)
	return created, nil
}

func (s *resourceService) Update(ctx context.Context, p domain.Principal, collection, id string, payload map[string]any) (resource.Record, error) {
	spec, err := s.registry.Lookup(collection)
	if err != nil {
		return nil, err
	}
	if !spec.Updatable {
		return nil, domain.ErrInvalidCollection
	}
	if err := s.authorizeWrite(spec, p, false); err != nil {
		return nil, err
	}

	changes := resource.Sanitize(spec, payload)
	for _, key := range resource.Immutable {
		delete(changes, key)
	}
	resource.CoerceRecord(spec, changes)

	if policy, ok := s.policies[spec.Name]; ok {
		if err := policy(ctx, p, changes, nil, false); err != nil {
			return nil, err
		}
	}

	f, _ := scopeFor(spec, p)
	updated, err := s.repo.Update(ctx, spec, f, id, changes)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(changes))
	for k := range changes {
		if k == "password" {
			continue
		}
		fields = append(fields, k)
	}
	s.audit.Record(ctx, p, "UPDATE_"+spec.AuditName, id, map[string]any{"collection": spec.Name, "fields": fields})
	return updated, nil
}

func (s *resourceService) Delete(ctx context.Context, p domain.Principal, collection, id string) error {
	spec, err := s.registry.Lookup(collection)
	if err != nil {
		return err
	}
	if !spec.Deletable {
		return domain.ErrInvalidCollection
	}
	if err := s.authorizeWrite(spec, p, false); err != nil {
		return err
	}

	f, _ := scopeFor(spec, p)
	if err := s.repo.Delete(ctx, spec, f, id); err != nil {
		return err
	}
	s.audit.Record(ctx, p, "DELETE_"+spec.AuditName, id, map[string]any{"collection": spec.Name})
	return nil
}

// referenceTargets maps a reference field to the collection it points at.
var referenceTargets = map[string]string{
	"branchId":  "branches",
	"clientId":  "clients",
	"ownerId":   "clients",
	"patientId": "patients",
}

// checkReferences rejects a record pointing at rows outside the caller's
// tenant. Values stamped from the principal are already trusted; a portal
// account's clientId on users is checked by checkPortal.
func (s *resourceService) checkReferences(ctx context.Context, p domain.Principal, spec *resource.Spec, rec resource.Record) error {
	for field, target := range referenceTargets {
		if !spec.HasField(field) || (spec.Name == "users" && field == "clientId") {
			continue
		}
		id := cast.ToString(rec[field])
		if id == "" {
			continue
		}
		if (field == "branchId" && id == p.BranchID) || (field == "clientId" && p.IsPortal()) {
			continue
		}
		_, err := s.repo.Get(ctx, s.registry.MustLookup(target), resource.Filter{TenantID: p.TenantID}, id)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s %q", domain.ErrInvalidReference, field, id)
		}
		if err != nil {
			return fmt.Errorf("resource.checkReferences: %w", err)
		}
	}
	return nil
}

func (s *resourceService) authorizeWrite(spec *resource.Spec, p domain.Principal, creating bool) error {
	if p.IsPortal() {
		if creating && portalWritable[spec.Name] {
			return nil
		}
		return domain.ErrForbidden
	}
	if spec.AdminWrite && !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// userPolicy hashes plaintext passwords, validates the role and gates
// portal accounts on the linked client.
func (s *resourceService) userPolicy(ctx context.Context, p domain.Principal, rec resource.Record, _ map[string][]resource.Record, creating bool) error {
	if raw, ok := rec["password"]; ok {
		hash, err := hashIfPlain(cast.ToString(raw))
		if err != nil {
			return err
		}
		if hash == "" {
			delete(rec, "password")
		} else {
			rec["password"] = hash
		}
	}
	if creating {
		if cast.ToString(rec["email"]) == "" {
			return fmt.Errorf("%w: email is required", domain.ErrValidation)
		}
		if _, ok := rec["password"]; !ok {
			return fmt.Errorf("%w: password is required", domain.ErrValidation)
		}
		rec["email"] = strings.ToLower(strings.TrimSpace(cast.ToString(rec["email"])))
	} else if email, ok := rec["email"]; ok {
		rec["email"] = strings.ToLower(strings.TrimSpace(cast.ToString(email)))
	}

	role, hasRole := rec["role"]
	if !hasRole && creating {
		return fmt.Errorf("%w: role is required", domain.ErrValidation)
	}
	if hasRole {
		r := domain.UserRole(cast.ToString(role))
		if !domain.ValidUserRoles[r] {
			return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, r)
		}
		if !p.Role.CanAssign(r) {
			return domain.ErrInsufficientRole
		}
		if r == domain.RolePetOwner && creating {
			if err := s.checkPortal(ctx, p.TenantID, cast.ToString(rec["clientId"])); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *resourceService) checkPortal(ctx context.Context, tenantID, clientID string) error {
	if clientID == "" {
		return fmt.Errorf("%w: clientId is required for portal accounts", domain.ErrValidation)
	}
	client, err := s.clientRepo.GetByID(ctx, tenantID, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidReference
		}
		return fmt.Errorf("resource.checkPortal: %w", err)
	}
	if !client.PortalEnabled {
		return domain.ErrPortalDisabled
	}
	return nil
}

func invoicePolicy(_ context.Context, _ domain.Principal, rec resource.Record, _ map[string][]resource.Record, _ bool) error {
	status, ok := rec["status"]
	if !ok || status == nil {
		return nil
	}
	if !domain.InvoiceStatuses[cast.ToString(status)] {
		return fmt.Errorf("%w: unknown invoice status %q", domain.ErrValidation, cast.ToString(status))
	}
	return nil
}

// tenantPolicy keeps subscription state under the billing flow's control.
func tenantPolicy(_ context.Context, p domain.Principal, rec resource.Record, _ map[string][]resource.Record, _ bool) error {
	if p.IsSuperAdmin() {
		return nil
	}
	delete(rec, "plan")
	delete(rec, "billingStatus")
	delete(rec, "subscriptionEndsAt")
	return nil
}

// inventoryPolicy derives totalStock from the batches created with the item
// when the caller leaves it out. Expired batches do not count.
func (s *resourceService) inventoryPolicy(_ context.Context, _ domain.Principal, rec resource.Record, nested map[string][]resource.Record, creating bool) error {
	batches, ok := nested["batches"]
	if !creating || !ok {
		return nil
	}
	if v, set := rec["totalStock"]; set && v != nil {
		return nil
	}
	now := s.now()
	total := decimal.Zero
	for i, b := range batches {
		if exp, ok := b["expiryDate"].(time.Time); ok && !exp.After(now) {
			continue
		}
		qty, err := cast.ToFloat64E(orZero(b["quantity"]))
		if err != nil {
			return fmt.Errorf("%w: batches[%d].quantity must be a number", domain.ErrValidation, i)
		}
		if qty > 0 {
			total = total.Add(decimal.NewFromFloat(qty))
		}
	}
	rec["totalStock"] = total.InexactFloat64()
	return nil
}

// hashIfPlain returns a bcrypt hash of pw, or pw itself when it already is
// one. An empty password yields an empty result.
func hashIfPlain(pw string) (string, error) {
	if pw == "" {
		return "", nil
	}
	if _, err := bcrypt.Cost([]byte(pw)); err == nil {
		return pw, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is too long", domain.ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
