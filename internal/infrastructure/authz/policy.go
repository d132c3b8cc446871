package authz

import (
	"github.com/google/uuid"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
)

// Action is a capability a caller may exercise. Tenant isolation is checked
// separately; actions only express role capability.
type Action string

const (
	ActionReadRecords   Action = "records:read"
	ActionWriteRecords  Action = "records:write"
	ActionDeleteRecords Action = "records:delete"
	ActionManageStaff   Action = "staff:manage"
	ActionManageShops   Action = "shops:manage"
	ActionViewStats     Action = "stats:view"
)

// roleCapabilities maps each role to what it may do inside its own shop.
// SUPER_ADMIN is handled before this table is consulted.
var roleCapabilities = map[identity.Role]map[Action]bool{
	identity.RoleAdmin: {
		ActionReadRecords:   true,
		ActionWriteRecords:  true,
		ActionDeleteRecords: true,
		ActionManageStaff:   true,
		ActionViewStats:     true,
	},
	identity.RoleManager: {
		ActionReadRecords:   true,
		ActionWriteRecords:  true,
		ActionDeleteRecords: true,
		ActionViewStats:     true,
	},
	identity.RoleStaff: {
		ActionReadRecords:  true,
		ActionWriteRecords: true,
	},
}

// Policy is the single authorization decision point. Handlers and services
// never compare roles or shop IDs themselves; they ask the policy.
type Policy struct{}

// NewPolicy creates the authorization policy
func NewPolicy() *Policy {
	return &Policy{}
}

// Authorize decides whether a caller with the given role, scoped to
// callerShop, may perform action on a resource owned by resourceShop.
// An unscoped SUPER_ADMIN (callerShop uuid.Nil) passes every check; a
// SUPER_ADMIN viewing as a specific shop is held to that shop, so an
// override never widens access beyond the selected tenant. For everyone
// else the resource must belong to the caller's own shop and the role must
// carry the capability.
func (p *Policy) Authorize(role identity.Role, action Action, resourceShop, callerShop uuid.UUID) error {
	if role == identity.RoleSuperAdmin {
		if callerShop != uuid.Nil && resourceShop != callerShop {
			return shared.ErrForbidden
		}
		return nil
	}
	if callerShop == uuid.Nil || resourceShop != callerShop {
		return shared.ErrForbidden
	}
	caps, ok := roleCapabilities[role]
	if !ok || !caps[action] {
		return shared.ErrForbidden
	}
	return nil
}

// CanManageShops reports whether the role may administer shops and
// cross-tenant users. Only SUPER_ADMIN can.
func (p *Policy) CanManageShops(role identity.Role) bool {
	return role == identity.RoleSuperAdmin
}

// Actor is the authenticated caller as services see it: the user, their
// role, and the effective shop scope resolved by the tenant middleware.
// ShopID is uuid.Nil only for an unscoped SUPER_ADMIN.
type Actor struct {
	UserID uuid.UUID
	Role   identity.Role
	ShopID uuid.UUID
}

// TenantScope is the effective shop a request operates on, resolved from
// the caller's credential and, for SUPER_ADMIN reads, an optional override.
type TenantScope struct {
	ShopID     uuid.UUID
	IsOverride bool
}

// ResolveEffectiveTenant determines the shop a request is scoped to.
//
// Regular users are always scoped to their credential's shop; any override
// they pass is ignored rather than rejected. SUPER_ADMIN has no shop of
// their own: an override selects the shop to view, and without one the
// scope is empty (uuid.Nil), which read paths treat as "all shops".
//
// Write paths must not honor overrides; callers pass forWrite=true and
// SUPER_ADMIN overrides are rejected there.
func (p *Policy) ResolveEffectiveTenant(role identity.Role, credentialShop uuid.UUID, override string, forWrite bool) (TenantScope, error) {
	if role != identity.RoleSuperAdmin {
		if credentialShop == uuid.Nil {
			return TenantScope{}, shared.ErrForbidden
		}
		return TenantScope{ShopID: credentialShop}, nil
	}

	if override == "" {
		return TenantScope{}, nil
	}
	if forWrite {
		return TenantScope{}, shared.NewDomainError("OVERRIDE_NOT_ALLOWED", "Shop override is read-only")
	}
	shopID, err := uuid.Parse(override)
	if err != nil || shopID == uuid.Nil {
		return TenantScope{}, shared.NewDomainError("INVALID_SHOP_ID", "Invalid shop id override")
	}
	return TenantScope{ShopID: shopID, IsOverride: true}, nil
}
