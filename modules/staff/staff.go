package staff

import (
	"time"

	"github.com/google/uuid"
)

// Role is a staff member's function within their tenant's shop.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleDispatcher Role = "dispatcher"
	RoleTechnician Role = "technician"
	RoleAdvisor    Role = "advisor"
)

// Status is the staff employment state. Only Active staff pass the guard.
type Status string

const (
	StatusActive     Status = "active"
	StatusOnLeave    Status = "on_leave"
	StatusSuspended  Status = "suspended"
	StatusTerminated Status = "terminated"
)

// Staff is a person working for one tenant. The row only grants access
// within its own tenant; the same user in another tenant needs a separate
// Staff row there.
type Staff struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	UserID    uuid.UUID `json:"user_id"` // link to the authentication account
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the staff member may act.
func (s *Staff) IsActive() bool {
	return s.Status == StatusActive
}

// HasRole reports whether the staff member's role is in the set. An empty
// set means any role qualifies.
func (s *Staff) HasRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
