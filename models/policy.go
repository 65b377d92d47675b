package models

// Policy exposes named capability predicates for a role. Handlers and route
// guards ask the policy instead of comparing role strings inline, so the
// role-to-capability mapping lives in exactly one place.
type Policy struct {
	role string
}

func PolicyFor(role string) Policy {
	return Policy{role: role}
}

// HeadOffice roles see every location unless they narrow the filter themselves.
func (p Policy) HeadOffice() bool {
	return p.role == RoleAdmin || p.role == RoleManager
}

// LocationBound roles are always pinned to their assigned location.
func (p Policy) LocationBound() bool {
	return p.role == RoleStoreManager || p.role == RoleStaff || p.role == RoleCashier
}

func (p Policy) CanManageCatalog() bool {
	return p.role == RoleAdmin || p.role == RoleManager
}

func (p Policy) CanManageLocations() bool {
	return p.role == RoleAdmin || p.role == RoleManager
}

func (p Policy) CanDeleteLocations() bool {
	return p.role == RoleAdmin
}

func (p Policy) CanManageUsers() bool {
	return p.role == RoleAdmin
}

func (p Policy) CanCreateStaffAccounts() bool {
	return p.role == RoleAdmin || p.role == RoleManager
}

// CanManageOrders covers the order management screens: list, edit, status
// escape hatch and line-item mutation.
func (p Policy) CanManageOrders() bool {
	switch p.role {
	case RoleAdmin, RoleManager, RoleStoreManager, RoleStaff, RoleCashier:
		return true
	}
	return false
}

func (p Policy) CanDeleteOrders() bool {
	return p.role == RoleAdmin || p.role == RoleManager
}

// CanApproveOrderRequests guards approve/reject of customer cancel and refund
// requests.
func (p Policy) CanApproveOrderRequests() bool {
	return p.role == RoleAdmin || p.role == RoleManager || p.role == RoleStoreManager
}

func (p Policy) CanCreateStockRequests() bool {
	return p.role == RoleAdmin || p.role == RoleManager || p.role == RoleStoreManager
}

func (p Policy) CanResolveStockRequests() bool {
	return p.role == RoleAdmin || p.role == RoleManager
}

func (p Policy) CanManageStockItems() bool {
	return p.role == RoleAdmin || p.role == RoleManager || p.role == RoleStoreManager
}

func (p Policy) CanSubmitDailyCounts() bool {
	return p.role == RoleAdmin || p.role == RoleManager || p.role == RoleStoreManager
}

// CanOverrideDailyLock allows editing any daily count regardless of owner or
// elapsed time, and toggling the explicit unlock flag.
func (p Policy) CanOverrideDailyLock() bool {
	return p.role == RoleAdmin || p.role == RoleManager
}

func (p Policy) CanViewDashboard() bool {
	return p.role == RoleAdmin || p.role == RoleManager || p.role == RoleStoreManager
}
