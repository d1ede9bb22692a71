package service

import (
	"vetcare/internal/domain"
	"vetcare/internal/resource"
)

// portalHidden are the collections a client-portal account never sees.
var portalHidden = map[string]bool{
	"sales":         true,
	"expenses":      true,
	"logs":          true,
	"consultations": true,
	"budgets":       true,
	"staffChats":    true,
}

// portalWritable are the collections a client-portal account may create
// rows in. The row is always bound to the caller's client.
var portalWritable = map[string]bool{
	"chats":        true,
	"appointments": true,
}

// scopeFor returns the filter p reads spec through. visible is false when
// the collection is withheld from p entirely.
func scopeFor(spec *resource.Spec, p domain.Principal) (f resource.Filter, visible bool) {
	f = resource.ScopeFor(spec, p)
	if !p.IsPortal() {
		return f, true
	}
	if portalHidden[spec.Name] {
		return f, false
	}
	switch spec.Name {
	case "users":
		return f.With(resource.Condition{
			Expr: `"id" = ? OR "client_id" IS NULL`,
			Args: []any{p.UserID},
		}), true
	case "clients":
		return f.With(resource.Eq("id", p.ClientID)), true
	case "patients":
		return f.With(resource.Eq("owner_id", p.ClientID)), true
	case "invoices", "appointments", "chats":
		return f.With(resource.Eq("client_id", p.ClientID)), true
	case "labRequests":
		return f.With(resource.Condition{
			Expr: `"patient_id" IN (SELECT id FROM patients WHERE owner_id = ?)`,
			Args: []any{p.ClientID},
		}), true
	}
	return f, true
}
