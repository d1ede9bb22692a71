package resource

import "vetcare/internal/domain"

// Condition is an extra WHERE fragment using ? placeholders.
type Condition struct {
	Expr string
	Args []any
}

// Eq builds a column equality condition.
func Eq(column string, value any) Condition {
	return Condition{Expr: QuoteIdent(column) + " = ?", Args: []any{value}}
}

// Filter narrows a query to the rows a caller may see. An empty TenantID
// means no tenant predicate; only the global console builds such filters.
type Filter struct {
	TenantID string
	BranchID string
	Where    []Condition
}

// With returns a copy of f with extra conditions appended.
func (f Filter) With(conds ...Condition) Filter {
	out := f
	out.Where = append(append([]Condition{}, f.Where...), conds...)
	return out
}

// ScopeFor returns the tenant and branch filter for p on spec. Branch
// scoping applies to branch-scoped collections unless the role sees every
// branch or the caller has no branch.
func ScopeFor(spec *Spec, p domain.Principal) Filter {
	f := Filter{TenantID: p.TenantID}
	if spec.BranchScoped && !p.CrossBranch() && p.BranchID != "" {
		f.BranchID = p.BranchID
	}
	return f
}

// QuoteIdent quotes a column or table name for use in SQL.
func QuoteIdent(s string) string {
	return `"` + s + `"`
}
