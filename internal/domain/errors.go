package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrInsufficientRole    = errors.New("insufficient role for this action")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCollection   = errors.New("unknown or unsupported collection")
	ErrConflict            = errors.New("record already exists")
	ErrInvalidReference    = errors.New("referenced record does not exist")
	ErrRecordInUse         = errors.New("record is referenced by other records")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrBranchRequired      = errors.New("branch is required")
	ErrBranchNotFound      = errors.New("branch not found")
	ErrPortalDisabled      = errors.New("client portal is not enabled for this client")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrPaymentNotVerified  = errors.New("payment could not be verified")

	ErrPasswordResetTokenInvalid = errors.New("password reset token is invalid or has already been used")
)

// StockError carries the item that could not cover a sale line.
type StockError struct {
	ItemID    string
	ItemName  string
	Requested float64
	Available float64
}

func (e *StockError) Error() string {
	name := e.ItemName
	if name == "" {
		name = e.ItemID
	}
	return "insufficient stock for " + name
}

// Unwrap lets errors.Is match ErrInsufficientStock.
func (e *StockError) Unwrap() error { return ErrInsufficientStock }
