package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadOfficeRoles(t *testing.T) {
	assert.True(t, PolicyFor(RoleAdmin).HeadOffice())
	assert.True(t, PolicyFor(RoleManager).HeadOffice())
	assert.False(t, PolicyFor(RoleStoreManager).HeadOffice())
	assert.False(t, PolicyFor(RoleStaff).HeadOffice())
	assert.False(t, PolicyFor(RoleUser).HeadOffice())
}

func TestLocationBoundRoles(t *testing.T) {
	assert.True(t, PolicyFor(RoleStoreManager).LocationBound())
	assert.True(t, PolicyFor(RoleStaff).LocationBound())
	assert.True(t, PolicyFor(RoleCashier).LocationBound())
	assert.False(t, PolicyFor(RoleAdmin).LocationBound())
	assert.False(t, PolicyFor(RoleUser).LocationBound())
}

func TestOrderCapabilities(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleStoreManager, RoleStaff, RoleCashier} {
		assert.True(t, PolicyFor(role).CanManageOrders(), "role %s", role)
	}
	assert.False(t, PolicyFor(RoleUser).CanManageOrders())

	assert.True(t, PolicyFor(RoleStoreManager).CanApproveOrderRequests())
	assert.False(t, PolicyFor(RoleStaff).CanApproveOrderRequests())

	assert.True(t, PolicyFor(RoleManager).CanDeleteOrders())
	assert.False(t, PolicyFor(RoleStoreManager).CanDeleteOrders())
}

func TestStockCapabilities(t *testing.T) {
	assert.True(t, PolicyFor(RoleStoreManager).CanCreateStockRequests())
	assert.False(t, PolicyFor(RoleStaff).CanCreateStockRequests())

	assert.True(t, PolicyFor(RoleManager).CanResolveStockRequests())
	assert.False(t, PolicyFor(RoleStoreManager).CanResolveStockRequests())

	assert.True(t, PolicyFor(RoleStoreManager).CanSubmitDailyCounts())
	assert.False(t, PolicyFor(RoleCashier).CanSubmitDailyCounts())

	assert.True(t, PolicyFor(RoleAdmin).CanOverrideDailyLock())
	assert.False(t, PolicyFor(RoleStoreManager).CanOverrideDailyLock())
}

func TestAdminOnlyCapabilities(t *testing.T) {
	assert.True(t, PolicyFor(RoleAdmin).CanManageUsers())
	assert.False(t, PolicyFor(RoleManager).CanManageUsers())

	assert.True(t, PolicyFor(RoleAdmin).CanDeleteLocations())
	assert.False(t, PolicyFor(RoleManager).CanDeleteLocations())

	assert.True(t, PolicyFor(RoleManager).CanCreateStaffAccounts())
	assert.False(t, PolicyFor(RoleStoreManager).CanCreateStaffAccounts())
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	p := PolicyFor("intern")
	assert.False(t, p.HeadOffice())
	assert.False(t, p.CanManageOrders())
	assert.False(t, p.CanViewDashboard())
	assert.False(t, p.CanManageCatalog())
}
