package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the tenant lifecycle state. Tenants are never hard-deleted;
// they transition between statuses instead.
type Status string

const (
	StatusActive    Status = "active"
	StatusTrial     Status = "trial"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Limits holds per-plan resource ceilings enforced by business operations.
type Limits struct {
	MaxStaff     int `json:"max_staff"`
	MaxCustomers int `json:"max_customers"`
	MaxVehicles  int `json:"max_vehicles"`
}

// Tenant is an isolated customer organization, the unit of data
// partitioning. Every tenant-scoped row carries its ID.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Plan      string    `json:"plan"`
	Limits    Limits    `json:"limits"`
	CreatedAt time.Time `json:"created_at"`
}

// IsActive reports whether the tenant may serve requests. Only Active
// tenants resolve; Trial, Suspended, Cancelled and Expired are all treated
// as unresolvable by the middleware.
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// Provider loads tenant records from a data source.
type Provider interface {
	// GetByID retrieves a tenant by primary key.
	// Returns ErrTenantNotFound if no tenant matches.
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// GetBySlug retrieves a tenant by its unique slug.
	// Returns ErrTenantNotFound if no tenant matches.
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}

// Lookup resolves an identifier to a tenant record. Identifiers that parse
// as a UUID are looked up by id, anything else by slug.
func Lookup(ctx context.Context, p Provider, identifier string) (*Tenant, error) {
	if identifier == "" {
		return nil, ErrInvalidIdentifier
	}
	if id, err := uuid.Parse(identifier); err == nil {
		return p.GetByID(ctx, id)
	}
	return p.GetBySlug(ctx, identifier)
}
