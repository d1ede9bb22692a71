package domain

import (
	"encoding/json"
	"time"
)

// Tenant is a clinic organization, the top-level isolation boundary.
type Tenant struct {
	ID                 string          `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	Plan               string          `db:"plan" json:"plan"`
	Features           json.RawMessage `db:"features" json:"features"`
	Currency           string          `db:"currency" json:"currency"`
	Locale             string          `db:"locale" json:"locale"`
	BillingStatus      string          `db:"billing_status" json:"billingStatus"`
	SubscriptionEndsAt *time.Time      `db:"subscription_ends_at" json:"subscriptionEndsAt"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// TenantFeatures are the plan-derived feature flags stored on a tenant.
type TenantFeatures struct {
	MaxUsers     int  `json:"maxUsers"`
	AIEnabled    bool `json:"aiEnabled"`
	LogsEnabled  bool `json:"logsEnabled"`
	ClientPortal bool `json:"clientPortal"`
}

// Branch is a physical location of a tenant.
type Branch struct {
	ID        string    `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenantId"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	IsMain    bool      `db:"is_main" json:"isMain"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// User is a staff or client-portal account.
type User struct {
	ID           string    `db:"id" json:"id"`
	TenantID     string    `db:"tenant_id" json:"tenantId"`
	BranchID     *string   `db:"branch_id" json:"branchId"`
	ClientID     *string   `db:"client_id" json:"clientId"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Phone        string    `db:"phone" json:"phone"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	ResetTokenID *string   `db:"reset_token_id" json:"-"`
	JoinedAt     time.Time `db:"joined_at" json:"joinedAt"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Client is a clinic customer owning zero or more patients.
type Client struct {
	ID            string  `db:"id" json:"id"`
	TenantID      string  `db:"tenant_id" json:"tenantId"`
	BranchID      *string `db:"branch_id" json:"branchId"`
	Name          string  `db:"name" json:"name"`
	Email         string  `db:"email" json:"email"`
	PortalEnabled bool    `db:"portal_enabled" json:"portalEnabled"`
}

// InventoryItem is a stocked product with its expiry batches.
type InventoryItem struct {
	ID         string           `db:"id" json:"id"`
	TenantID   string           `db:"tenant_id" json:"tenantId"`
	BranchID   *string          `db:"branch_id" json:"branchId"`
	Name       string           `db:"name" json:"name"`
	TotalStock float64          `db:"total_stock" json:"totalStock"`
	Batches    []InventoryBatch `db:"-" json:"batches"`
}

// InventoryBatch is a received lot of an inventory item.
type InventoryBatch struct {
	ID         string     `db:"id" json:"id"`
	ItemID     string     `db:"item_id" json:"itemId"`
	Quantity   float64    `db:"quantity" json:"quantity"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate"`
}

// Sale is an immutable point-of-sale transaction.
type Sale struct {
	ID               string          `db:"id" json:"id"`
	TenantID         string          `db:"tenant_id" json:"tenantId"`
	BranchID         string          `db:"branch_id" json:"branchId"`
	ClientID         *string         `db:"client_id" json:"clientId"`
	Items            json.RawMessage `db:"items" json:"items"`
	Subtotal         float64         `db:"subtotal" json:"subtotal"`
	Tax              float64         `db:"tax" json:"tax"`
	Discount         float64         `db:"discount" json:"discount"`
	Total            float64         `db:"total" json:"total"`
	PaymentMethod    PaymentMethod   `db:"payment_method" json:"paymentMethod"`
	PaymentReference string          `db:"payment_reference" json:"paymentReference"`
	Status           SaleStatus      `db:"status" json:"status"`
	CreatedBy        *string         `db:"created_by" json:"createdBy"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}

// SaleLineItem is one entry of a sale's items payload.
type SaleLineItem struct {
	ItemID    string  `json:"itemId,omitempty"`
	Name      string  `json:"name,omitempty"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// AuditLog is one append-only record of a mutating API call.
type AuditLog struct {
	ID        string          `db:"id" json:"id"`
	TenantID  string          `db:"tenant_id" json:"tenantId"`
	BranchID  *string         `db:"branch_id" json:"branchId"`
	UserID    *string         `db:"user_id" json:"userId"`
	UserName  string          `db:"user_name" json:"userName"`
	Action    string          `db:"action" json:"action"`
	RecordID  string          `db:"record_id" json:"recordId"`
	Details   json.RawMessage `db:"details" json:"details"`
	Timestamp time.Time       `db:"timestamp" json:"timestamp"`
}

// PatientNote is an append-only entry of a patient's medical history.
type PatientNote struct {
	ID         string    `db:"id" json:"id"`
	PatientID  string    `db:"patient_id" json:"patientId"`
	TenantID   string    `db:"tenant_id" json:"tenantId"`
	AuthorID   *string   `db:"author_id" json:"authorId"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// PatientAttachment is a file stored in object storage for a patient.
type PatientAttachment struct {
	ID          string    `db:"id" json:"id"`
	PatientID   string    `db:"patient_id" json:"patientId"`
	TenantID    string    `db:"tenant_id" json:"tenantId"`
	FileName    string    `db:"file_name" json:"fileName"`
	FileType    FileType  `db:"file_type" json:"fileType"`
	ContentType string    `db:"content_type" json:"contentType"`
	FileSize    int64     `db:"file_size" json:"fileSize"`
	S3Bucket    string    `db:"s3_bucket" json:"-"`
	S3Key       string    `db:"s3_key" json:"-"`
	UploadedBy  *string   `db:"uploaded_by" json:"uploadedBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// DueReminder is an upcoming appointment that still needs a reminder.
type DueReminder struct {
	AppointmentID string    `db:"appointment_id" json:"appointmentId"`
	TenantID      string    `db:"tenant_id" json:"tenantId"`
	BranchID      *string   `db:"branch_id" json:"branchId"`
	ClientID      *string   `db:"client_id" json:"clientId"`
	ClientName    string    `db:"client_name" json:"clientName"`
	ClientEmail   string    `db:"client_email" json:"clientEmail"`
	ClientPhone   string    `db:"client_phone" json:"clientPhone"`
	PatientName   string    `db:"patient_name" json:"patientName"`
	StartTime     time.Time `db:"start_time" json:"startTime"`
	Reason        string    `db:"reason" json:"reason"`
}

// StockDrift reports an item whose totalStock disagrees with its live batches.
type StockDrift struct {
	ItemID     string  `db:"item_id" json:"itemId"`
	TenantID   string  `db:"tenant_id" json:"tenantId"`
	Name       string  `db:"name" json:"name"`
	TotalStock float64 `db:"total_stock" json:"totalStock"`
	BatchTotal float64 `db:"batch_total" json:"batchTotal"`
}

// Metrics aggregates revenue, expenses and patient counts over a date range.
type Metrics struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	SalesRevenue   float64   `db:"sales_revenue" json:"salesRevenue"`
	SalesCount     int       `db:"sales_count" json:"salesCount"`
	InvoiceRevenue float64   `db:"invoice_revenue" json:"invoiceRevenue"`
	TotalRevenue   float64   `json:"totalRevenue"`
	Expenses       float64   `db:"expenses" json:"expenses"`
	NetIncome      float64   `json:"netIncome"`
	NewPatients    int       `db:"new_patients" json:"newPatients"`
	TotalPatients  int       `db:"total_patients" json:"totalPatients"`
}

// DailyRevenue is one row of the analytics export.
type DailyRevenue struct {
	Day      time.Time `db:"day" json:"day"`
	Sales    float64   `db:"sales" json:"sales"`
	Expenses float64   `db:"expenses" json:"expenses"`
}

// AnalyticsReport is the headline metrics with their day-by-day breakdown.
type AnalyticsReport struct {
	Metrics *Metrics       `json:"metrics"`
	Daily   []DailyRevenue `json:"daily"`
}
