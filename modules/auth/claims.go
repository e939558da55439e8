package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/motorlane/shopcore/modules/staff"
	"github.com/motorlane/shopcore/pkg/jwt"
)

// AccessClaims is the payload of an access token. The staff and tenant
// claims are present only when the user is linked to a staff row; they let
// downstream middleware resolve the tenant and authorize the principal
// without extra lookups.
type AccessClaims struct {
	jwt.StandardClaims

	Email       string `json:"email,omitempty"`
	StaffID     string `json:"staff_id,omitempty"`
	StaffRole   string `json:"staff_role,omitempty"`
	StaffStatus string `json:"staff_status,omitempty"`
	TenantID    string `json:"tenant_id,omitempty"`
	TenantSlug  string `json:"tenant_slug,omitempty"`
}

// ClaimsFromContext returns the parsed access claims set by Authenticate.
func ClaimsFromContext(ctx context.Context) (AccessClaims, bool) {
	return jwt.GetClaims[AccessClaims](ctx)
}

// TenantClaimSource adapts access claims to the tenant resolver's claim
// strategy: the signed tenant_id claim ranks first, tenant_slug second.
func TenantClaimSource() func(ctx context.Context) (string, string, bool) {
	return func(ctx context.Context) (string, string, bool) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return "", "", false
		}
		return claims.TenantID, claims.TenantSlug, true
	}
}

// StaffPrincipalSource adapts access claims to the staff guard: the direct
// staff_id claim is preferred, with the token subject as fallback for the
// tenant-scoped user lookup.
func StaffPrincipalSource() staff.PrincipalSource {
	return func(ctx context.Context) (staff.Principal, bool) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return staff.Principal{}, false
		}

		var p staff.Principal
		if id, err := uuid.Parse(claims.StaffID); err == nil {
			p.StaffID = id
		}
		if id, err := uuid.Parse(claims.Subject); err == nil {
			p.UserID = id
		}
		if p.StaffID == uuid.Nil && p.UserID == uuid.Nil {
			return staff.Principal{}, false
		}
		return p, true
	}
}
