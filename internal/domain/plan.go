package domain

import "time"

// TrialPeriod is the length of a new tenant's trial.
const TrialPeriod = 14 * 24 * time.Hour

// PlanFeatures are the feature flags granted by each plan tier.
var PlanFeatures = map[string]TenantFeatures{
	PlanTrial:      {MaxUsers: 5, AIEnabled: true, LogsEnabled: true, ClientPortal: true},
	PlanStarter:    {MaxUsers: 5},
	PlanPro:        {MaxUsers: 25, AIEnabled: true, LogsEnabled: true, ClientPortal: true},
	PlanEnterprise: {MaxUsers: 1000, AIEnabled: true, LogsEnabled: true, ClientPortal: true},
}
