package port

import (
	"context"

	"vetcare/internal/resource"
)

// ResourceRepository is the generic persistence contract behind every
// registered collection. Every method applies the filter's tenant and
// branch predicates.
type ResourceRepository interface {
	List(ctx context.Context, spec *resource.Spec, f resource.Filter) ([]resource.Record, error)
	Get(ctx context.Context, spec *resource.Spec, f resource.Filter, id string) (resource.Record, error)
	// Create inserts rec and its nested children in one transaction.
	Create(ctx context.Context, spec *resource.Spec, rec resource.Record, nested map[string][]resource.Record) (resource.Record, error)
	Update(ctx context.Context, spec *resource.Spec, f resource.Filter, id string, changes resource.Record) (resource.Record, error)
	Delete(ctx context.Context, spec *resource.Spec, f resource.Filter, id string) error
}
