package domain

// Principal is the authenticated caller every scoped operation runs as.
type Principal struct {
	UserID   string
	TenantID string
	BranchID string
	ClientID string
	Role     UserRole
	Email    string
	Name     string
}

// CrossBranch reports whether branch scoping is lifted for this caller.
func (p Principal) CrossBranch() bool { return p.Role.CrossBranch() }

// IsAdmin reports whether the caller may write admin-only collections.
func (p Principal) IsAdmin() bool { return p.Role.Admin() }

// IsPortal reports whether the caller is a client-portal account.
func (p Principal) IsPortal() bool { return p.Role == RolePetOwner }

// IsSuperAdmin reports whether the caller operates the global console.
func (p Principal) IsSuperAdmin() bool { return p.Role == RoleSuperAdmin }

// UserRef returns the caller's user id as a nullable column value.
func (p Principal) UserRef() *string {
	if p.UserID == "" {
		return nil
	}
	id := p.UserID
	return &id
}

// BranchRef returns the caller's branch id as a nullable column value.
func (p Principal) BranchRef() *string {
	if p.BranchID == "" {
		return nil
	}
	id := p.BranchID
	return &id
}
