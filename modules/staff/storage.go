package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrStaffNotFound is returned when no staff row exists within the ambient
// tenant. A staff id valid in a different tenant reports the same error.
var ErrStaffNotFound = errors.New("staff: not found in tenant")

// Storage loads staff rows, always scoped to the ambient tenant taken from
// the context. Implementations must never return a row belonging to a
// different tenant, regardless of the identifier's validity elsewhere.
type Storage interface {
	// GetByID loads a staff member by primary key within the ambient tenant.
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)

	// GetByUserID loads a staff member by their authentication account id
	// within the ambient tenant.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Staff, error)

	// Create inserts a staff row pinned to the ambient tenant.
	Create(ctx context.Context, s *Staff) error
}
