package scoped

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/motorlane/shopcore/pkg/tenant"
)

var (
	// ErrNoTenant is returned when a tenant-scoped operation runs without
	// an ambient tenant. Stores translate it into empty reads and
	// rejected writes rather than ever touching another tenant's rows.
	ErrNoTenant = errors.New("scoped: no ambient tenant")

	// ErrNotFound is returned when a row does not exist within the
	// ambient tenant. A row that exists under a different tenant reports
	// the same error, indistinguishably.
	ErrNotFound = errors.New("scoped: not found")
)

// TenantID returns the ambient tenant id or ErrNoTenant. It is the single
// gate every store read and write passes through, which makes the
// fail-closed contract a structural property instead of a per-query
// discipline.
func TenantID(ctx context.Context) (uuid.UUID, error) {
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return uuid.UUID{}, ErrNoTenant
	}
	return id, nil
}

// Pin returns the tenant id every write must carry: always the ambient one.
// A caller-supplied tenant id is returned to the caller solely so it can be
// compared or logged; it never influences the result. This is what makes
// cross-tenant writes impossible through gateway-guarded paths.
func Pin(ctx context.Context, submitted uuid.UUID) (uuid.UUID, error) {
	ambient, err := TenantID(ctx)
	if err != nil {
		return uuid.UUID{}, err
	}
	_ = submitted // the ambient tenant always wins over the payload value
	return ambient, nil
}

// Owns reports whether the row's tenant id matches the ambient tenant.
// Memory stores use it as their row predicate.
func Owns(ctx context.Context, rowTenantID uuid.UUID) bool {
	ambient, err := TenantID(ctx)
	if err != nil {
		return false
	}
	return ambient == rowTenantID
}
