package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
)

func TestAuthorize_SuperAdminBypassesTenantCheck(t *testing.T) {
	p := NewPolicy()
	err := p.Authorize(identity.RoleSuperAdmin, ActionDeleteRecords, uuid.New(), uuid.Nil)
	assert.NoError(t, err)
}

func TestAuthorize_ScopedSuperAdminHeldToOverride(t *testing.T) {
	p := NewPolicy()
	viewed, other := uuid.New(), uuid.New()

	assert.NoError(t, p.Authorize(identity.RoleSuperAdmin, ActionReadRecords, viewed, viewed))
	assert.ErrorIs(t, p.Authorize(identity.RoleSuperAdmin, ActionReadRecords, other, viewed), shared.ErrForbidden)
}

func TestAuthorize_CrossShopIsForbidden(t *testing.T) {
	p := NewPolicy()
	shopA, shopB := uuid.New(), uuid.New()

	err := p.Authorize(identity.RoleAdmin, ActionReadRecords, shopA, shopB)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestAuthorize_SameShopByCapability(t *testing.T) {
	p := NewPolicy()
	shop := uuid.New()

	assert.NoError(t, p.Authorize(identity.RoleStaff, ActionWriteRecords, shop, shop))
	assert.ErrorIs(t, p.Authorize(identity.RoleStaff, ActionDeleteRecords, shop, shop), shared.ErrForbidden)
	assert.NoError(t, p.Authorize(identity.RoleManager, ActionDeleteRecords, shop, shop))
	assert.ErrorIs(t, p.Authorize(identity.RoleManager, ActionManageStaff, shop, shop), shared.ErrForbidden)
	assert.NoError(t, p.Authorize(identity.RoleAdmin, ActionManageStaff, shop, shop))
}

func TestAuthorize_UnboundCallerIsForbidden(t *testing.T) {
	p := NewPolicy()
	err := p.Authorize(identity.RoleAdmin, ActionReadRecords, uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestResolveEffectiveTenant_RegularUserIgnoresOverride(t *testing.T) {
	p := NewPolicy()
	own := uuid.New()
	other := uuid.New()

	scope, err := p.ResolveEffectiveTenant(identity.RoleStaff, own, other.String(), false)
	require.NoError(t, err)
	assert.Equal(t, own, scope.ShopID, "override from a regular user is ignored, not honored")
	assert.False(t, scope.IsOverride)
}

func TestResolveEffectiveTenant_SuperAdminOverrideForReads(t *testing.T) {
	p := NewPolicy()
	target := uuid.New()

	scope, err := p.ResolveEffectiveTenant(identity.RoleSuperAdmin, uuid.Nil, target.String(), false)
	require.NoError(t, err)
	assert.Equal(t, target, scope.ShopID)
	assert.True(t, scope.IsOverride)
}

func TestResolveEffectiveTenant_SuperAdminWithoutOverrideSeesAll(t *testing.T) {
	p := NewPolicy()
	scope, err := p.ResolveEffectiveTenant(identity.RoleSuperAdmin, uuid.Nil, "", false)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, scope.ShopID)
}

func TestResolveEffectiveTenant_OverrideRejectedOnWrites(t *testing.T) {
	p := NewPolicy()
	_, err := p.ResolveEffectiveTenant(identity.RoleSuperAdmin, uuid.Nil, uuid.New().String(), true)
	assert.Error(t, err)
}

func TestResolveEffectiveTenant_InvalidOverride(t *testing.T) {
	p := NewPolicy()
	_, err := p.ResolveEffectiveTenant(identity.RoleSuperAdmin, uuid.Nil, "not-a-uuid", false)
	assert.Error(t, err)
}
