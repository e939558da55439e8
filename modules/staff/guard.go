package staff

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/motorlane/shopcore/core"
	"github.com/motorlane/shopcore/pkg/tenant"
)

// Principal is the authenticated identity extracted from access token
// claims. StaffID is set when the token carries a direct staff claim;
// otherwise the guard falls back to a UserID lookup within the tenant.
type Principal struct {
	UserID  uuid.UUID
	StaffID uuid.UUID
}

// PrincipalSource reads the authenticated principal from the request
// context. ok is false for unauthenticated requests.
type PrincipalSource func(ctx context.Context) (Principal, bool)

// RequireRole is the authorization gate for staff-only routes. An empty
// role set admits any active staff member of the ambient tenant.
//
// The gate checks, in order: ambient tenant present, principal
// authenticated, staff row exists within that tenant, staff active, role in
// the required set. It performs no writes; on success the staff record is
// attached to the context for downstream handlers.
func RequireRole(source PrincipalSource, storage Storage, roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if _, ok := tenant.FromContext(ctx); !ok {
				core.JSONError(w, core.NewHTTPError(http.StatusUnauthorized, "Tenant context is required"))
				return
			}

			principal, ok := source(ctx)
			if !ok {
				core.JSONError(w, core.ErrUnauthorized)
				return
			}

			member, err := lookupStaff(ctx, storage, principal)
			if err != nil {
				if errors.Is(err, ErrStaffNotFound) {
					// Same response for "no such staff" and "staff of a
					// different tenant" to prevent tenant enumeration.
					core.JSONError(w, core.NewHTTPError(http.StatusUnauthorized, "Staff member not found in this tenant"))
					return
				}
				core.JSONError(w, err)
				return
			}

			if !member.IsActive() {
				core.JSONError(w, core.NewHTTPError(http.StatusForbidden, "Staff member is not active"))
				return
			}

			if !member.HasRole(roles...) {
				core.JSONError(w, core.NewHTTPError(http.StatusForbidden, "Insufficient role").WithExtra(map[string]any{
					"requiredRoles": roles,
					"userRole":      member.Role,
				}))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStaff(ctx, member)))
		})
	}
}

func lookupStaff(ctx context.Context, storage Storage, principal Principal) (*Staff, error) {
	if principal.StaffID != uuid.Nil {
		return storage.GetByID(ctx, principal.StaffID)
	}
	if principal.UserID != uuid.Nil {
		return storage.GetByUserID(ctx, principal.UserID)
	}
	return nil, ErrStaffNotFound
}
