package resource

import (
	"sort"
	"strings"

	"vetcare/internal/domain"
)

// Registry resolves collection names to their specs.
type Registry struct {
	specs map[string]*Spec
}

// NewRegistry builds the registry of every served collection.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]*Spec)}
	for _, s := range defaultSpecs() {
		s.index()
		if s.AuditName == "" {
			s.AuditName = strings.ToUpper(s.Name)
		}
		r.specs[s.Name] = s
	}
	return r
}

// Lookup returns the Spec registered under name or domain.ErrInvalidCollection.
func (r *Registry) Lookup(name string) (*Spec, error) {
	s, ok := r.specs[name]
	if !ok {
		return nil, domain.ErrInvalidCollection
	}
	return s, nil
}

// MustLookup is Lookup for names known at compile time.
func (r *Registry) MustLookup(name string) *Spec {
	s, err := r.Lookup(name)
	if err != nil {
		panic("resource: unknown collection " + name)
	}
	return s
}

// Names returns every registered collection name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

const (
	orderCreated   = "created_at DESC"
	orderTimestamp = `"timestamp" DESC`
	orderID        = "id DESC"
	orderJoined    = "joined_at DESC"
)

func text(name string) Field   { return Field{Name: name, Column: toSnake(name), Kind: KindText} }
func number(name string) Field { return Field{Name: name, Column: toSnake(name), Kind: KindNumber} }
func integer(name string) Field {
	return Field{Name: name, Column: toSnake(name), Kind: KindInt}
}
func boolean(name string) Field { return Field{Name: name, Column: toSnake(name), Kind: KindBool} }
func timestamp(name string) Field {
	return Field{Name: name, Column: toSnake(name), Kind: KindTime}
}
func jsonb(name string) Field { return Field{Name: name, Column: toSnake(name), Kind: KindJSON} }

// scoped returns the id, tenant and optional branch columns plus timestamps.
func scoped(branch bool, fields ...Field) []Field {
	out := []Field{text("id"), text("tenantId")}
	if branch {
		out = append(out, text("branchId"))
	}
	out = append(out, fields...)
	return append(out, timestamp("createdAt"), timestamp("updatedAt"))
}

// event returns the columns of append-only, timestamp-ordered rows.
func event(fields ...Field) []Field {
	out := []Field{text("id"), text("tenantId"), text("branchId")}
	out = append(out, fields...)
	return append(out, timestamp("timestamp"))
}

func defaultSpecs() []*Spec {
	batches := &Spec{
		Name:  "batches",
		Table: "inventory_batches",
		Fields: []Field{
			text("id"), text("itemId"), text("batchNumber"), number("quantity"),
			timestamp("expiryDate"), number("purchasePrice"), number("unitPrice"),
			timestamp("createdAt"),
		},
		OrderBy: "expiry_date ASC NULLS LAST",
	}
	patientNotes := &Spec{
		Name:  "notes",
		Table: "patient_notes",
		Fields: []Field{
			text("id"), text("patientId"), text("tenantId"), text("authorId"),
			text("authorName"), text("content"), timestamp("createdAt"),
		},
		OrderBy: orderCreated,
	}
	patientAttachments := &Spec{
		Name:  "attachments",
		Table: "patient_attachments",
		Fields: []Field{
			text("id"), text("patientId"), text("tenantId"), text("fileName"),
			text("fileType"), text("contentType"), integer("fileSize"),
			text("uploadedBy"), timestamp("createdAt"),
		},
		OrderBy: orderCreated,
	}
	patientReminders := &Spec{
		Name:  "reminders",
		Table: "patient_reminders",
		Fields: []Field{
			text("id"), text("patientId"), text("title"), timestamp("dueDate"),
			boolean("completed"), timestamp("createdAt"),
		},
		OrderBy: "due_date ASC",
	}

	return []*Spec{
		{
			Name:  "clients",
			Table: "clients",
			Fields: scoped(true,
				text("name"), text("email"), text("phone"), text("address"),
				number("balance"), boolean("portalEnabled"), text("status"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:  "patients",
			Table: "patients",
			Fields: scoped(true,
				text("ownerId"), text("name"), text("species"), text("breed"), text("sex"),
				timestamp("dateOfBirth"), number("weight"), text("color"), text("microchip"),
				text("status"), boolean("isHerd"), integer("herdSize"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
			Children: []Child{
				{Name: "notes", Spec: patientNotes, ForeignKey: "patient_id"},
				{Name: "attachments", Spec: patientAttachments, ForeignKey: "patient_id"},
				{Name: "reminders", Spec: patientReminders, ForeignKey: "patient_id", Nested: true},
			},
		},
		{
			Name:      "inventory",
			Table:     "inventory_items",
			AuditName: "INVENTORY",
			Fields: scoped(true,
				text("name"), text("sku"), text("category"), text("unit"), text("supplier"),
				number("totalStock"), number("reorderLevel"), number("unitPrice"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
			Children: []Child{
				{Name: "batches", Spec: batches, ForeignKey: "item_id", OnList: true, Nested: true},
			},
		},
		{
			Name:  "sales",
			Table: "sales",
			Fields: scoped(true,
				text("clientId"), jsonb("items"), number("subtotal"), number("tax"),
				number("discount"), number("total"), text("paymentMethod"),
				text("paymentReference"), text("status"), text("createdBy"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			OrderBy: orderID,
		},
		{
			Name:  "invoices",
			Table: "invoices",
			Fields: scoped(true,
				text("clientId"), text("patientId"), text("invoiceNumber"), jsonb("items"),
				number("subtotal"), number("tax"), number("discount"), number("total"),
				number("amountPaid"), text("status"), timestamp("dueDate"), timestamp("issuedAt"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderID,
		},
		{
			Name:  "services",
			Table: "services",
			Fields: scoped(false,
				text("name"), text("category"), text("description"), number("price"),
				integer("durationMinutes"), boolean("active"),
			),
			TenantColumn: "tenant_id", AdminWrite: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:  "appointments",
			Table: "appointments",
			Fields: scoped(true,
				text("clientId"), text("patientId"), text("vetId"), timestamp("startTime"),
				timestamp("endTime"), text("reason"), text("status"), boolean("reminderSent"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:  "consultations",
			Table: "consultations",
			Fields: scoped(true,
				text("patientId"), text("clientId"), text("vetId"), timestamp("date"),
				text("subjective"), text("objective"), text("assessment"), text("plan"),
				text("diagnosis"), text("treatment"), jsonb("vitals"), text("status"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:      "labRequests",
			Table:     "lab_requests",
			AuditName: "LAB_REQUESTS",
			Fields: scoped(true,
				text("patientId"), text("testName"), text("labName"), text("requestedBy"),
				text("status"), text("results"), timestamp("requestedAt"), timestamp("completedAt"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:  "expenses",
			Table: "expenses",
			Fields: scoped(true,
				text("category"), text("description"), number("amount"), timestamp("date"),
				text("paymentMethod"), text("vendor"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:  "budgets",
			Table: "budgets",
			Fields: scoped(true,
				text("category"), text("period"), number("amount"),
				timestamp("startDate"), timestamp("endDate"),
			),
			TenantColumn: "tenant_id", BranchScoped: true, AdminWrite: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:  "branches",
			Table: "branches",
			Fields: scoped(false,
				text("name"), text("address"), text("phone"), boolean("isMain"),
			),
			TenantColumn: "tenant_id", AdminWrite: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:  "orders",
			Table: "orders",
			Fields: scoped(true,
				text("supplier"), jsonb("items"), number("total"), text("status"),
				timestamp("orderedAt"), timestamp("receivedAt"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderCreated,
		},
		{
			Name:  "chats",
			Table: "chat_messages",
			Fields: event(
				text("clientId"), text("senderId"), text("senderName"), text("senderRole"),
				text("content"), boolean("read"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderTimestamp,
		},
		{
			Name:      "staffChats",
			Table:     "staff_chat_messages",
			AuditName: "STAFF_CHATS",
			Fields: event(
				text("senderId"), text("senderName"), text("recipientId"), text("channel"),
				text("content"), boolean("read"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			Creatable: true, Updatable: true, Deletable: true,
			OrderBy: orderTimestamp,
		},
		{
			Name:  "users",
			Table: "users",
			Fields: []Field{
				text("id"), text("tenantId"), text("branchId"), text("clientId"),
				text("name"), text("email"),
				{Name: "password", Column: "password_hash", Kind: KindText, Hidden: true},
				text("role"), text("phone"), boolean("isActive"),
				timestamp("joinedAt"), timestamp("createdAt"), timestamp("updatedAt"),
			},
			TenantColumn: "tenant_id", BranchScoped: true, AdminWrite: true,
			Creatable: true, Updatable: true,
			OrderBy: orderJoined,
		},
		{
			Name:  "logs",
			Table: "audit_logs",
			Fields: event(
				text("userId"), text("userName"), text("action"), text("recordId"), jsonb("details"),
			),
			TenantColumn: "tenant_id", BranchScoped: true,
			OrderBy: orderTimestamp,
		},
		{
			Name:  "tenants",
			Table: "tenants",
			Fields: []Field{
				text("id"), text("name"), text("plan"), jsonb("features"), text("currency"),
				text("locale"), text("billingStatus"), timestamp("subscriptionEndsAt"),
				timestamp("createdAt"), timestamp("updatedAt"),
			},
			TenantColumn: "id", AdminWrite: true,
			Updatable: true,
			OrderBy:   orderCreated,
		},
	}
}

// toSnake converts a camelCase JSON name to its snake_case column.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
