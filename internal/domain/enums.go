package domain

// FileType represents the allowed file types for patient attachments.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// UserRole is the single role persisted on a user account.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "SUPER_ADMIN"
	RoleParentAdmin UserRole = "PARENT_ADMIN"
	RoleAdmin       UserRole = "ADMIN"
	RoleVet         UserRole = "VET"
	RoleNurse       UserRole = "NURSE"
	RoleReception   UserRole = "RECEPTION"
	RolePetOwner    UserRole = "PET_OWNER"
)

// ValidUserRoles is the set of roles accepted on user writes.
var ValidUserRoles = map[UserRole]bool{
	RoleSuperAdmin:  true,
	RoleParentAdmin: true,
	RoleAdmin:       true,
	RoleVet:         true,
	RoleNurse:       true,
	RoleReception:   true,
	RolePetOwner:    true,
}

// CrossBranch reports whether the role sees every branch of its tenant.
func (r UserRole) CrossBranch() bool {
	return r == RoleSuperAdmin || r == RoleParentAdmin
}

// Admin reports whether the role may write admin-only collections.
func (r UserRole) Admin() bool {
	return r == RoleAdmin || r == RoleParentAdmin || r == RoleSuperAdmin
}

var roleRank = map[UserRole]int{
	RolePetOwner:    1,
	RoleReception:   2,
	RoleNurse:       2,
	RoleVet:         2,
	RoleAdmin:       3,
	RoleParentAdmin: 4,
	RoleSuperAdmin:  5,
}

// CanAssign reports whether a user with role r may grant other. No role
// grants one that outranks it.
func (r UserRole) CanAssign(other UserRole) bool {
	return roleRank[r] >= roleRank[other] && roleRank[other] > 0
}

// SaleStatus is the lifecycle state of a point-of-sale transaction.
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusRefunded  SaleStatus = "REFUNDED"
	SaleStatusVoided    SaleStatus = "VOIDED"
)

// PaymentMethod used at the point of sale.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentMobile PaymentMethod = "MOBILE"
	PaymentCredit PaymentMethod = "CREDIT"
)

// InvoiceStatus values accepted on invoice writes.
var InvoiceStatuses = map[string]bool{
	"DRAFT":    true,
	"PAID":     true,
	"PARTIAL":  true,
	"ADJUSTED": true,
	"REFUNDED": true,
	"VOIDED":   true,
}

// Plan tiers a tenant can subscribe to.
const (
	PlanTrial      = "TRIAL"
	PlanStarter    = "STARTER"
	PlanPro        = "PRO"
	PlanEnterprise = "ENTERPRISE"
)

// ValidPlans lists the plan tiers accepted by billing verification.
var ValidPlans = map[string]bool{
	PlanTrial:      true,
	PlanStarter:    true,
	PlanPro:        true,
	PlanEnterprise: true,
}

// Billing states stored on a tenant.
const (
	BillingTrialing = "TRIALING"
	BillingActive   = "ACTIVE"
	BillingPastDue  = "PAST_DUE"
)
