// Package directory holds the read-only registry of tenants and the lookup
// contract used to resolve an access code to a workspace owner.
package directory

import "errors"

// ErrNotFound is returned when no tenant matches a code or id. Callers must
// treat it as an authentication failure, never as a fatal condition.
var ErrNotFound = errors.New("tenant not found")

// Plan names mirror the commercial tiers of the pilot roster.
const (
	PlanBasic      = "Basic"
	PlanPro        = "Pro"
	PlanEnterprise = "Enterprise"
)

// Tenant is one isolated customer workspace. Records are immutable at the
// directory level; per-tenant mutable state (reviews, identity, usage) lives
// in the session workspace aggregate instead.
type Tenant struct {
	ID          string
	Name        string
	AccessCode  string
	PlanName    string
	PlanLimit   int
	Location    string
	CuisineType string
}

// BrandIdentity is the free-text voice of a tenant, written by the owner and
// consumed only as extra context by the reply generator.
type BrandIdentity struct {
	Vision  string `json:"vision"`
	Values  string `json:"values"`
	History string `json:"history"`
}

// Directory is the read-only tenant repository. Implementations must make
// lookup by code unambiguous: access codes are unique across the registry.
type Directory interface {
	FindByCode(code string) (Tenant, error)
	FindByID(id string) (Tenant, error)
}
