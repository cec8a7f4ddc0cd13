package policy

import (
	"voyage-backend/internal/models"

	"gorm.io/gorm"
)

// Scope is a composable row filter, applied with db.Scopes(...). A denied
// scope yields an empty result set, never an error, so listing and
// pagination code behaves the same for every role.
type Scope func(*gorm.DB) *gorm.DB

func denyAll(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

func passAll(db *gorm.DB) *gorm.DB {
	return db
}

// ScopeBookings restricts a booking query to the rows the user may see.
func ScopeBookings(user *models.User) Scope {
	p := ProfileFor(EffectiveRole(user))

	switch p.Bookings {
	case ScopeOwn:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("created_by_user_id = ?", user.ID)
		}
	case ScopeDepartment:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("created_by_department_id = ? AND created_at_site_id = ?",
				user.DepartmentID, user.SiteID())
		}
	case ScopeSite:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("created_at_site_id = ?", user.SiteID())
		}
	case ScopeAll:
		return passAll
	}
	return denyAll
}

// ScopeClients restricts a client query to the user's visible registrations.
func ScopeClients(user *models.User) Scope {
	p := ProfileFor(EffectiveRole(user))

	switch p.Clients {
	case ScopeSite:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("registered_at_site_id = ?", user.SiteID())
		}
	case ScopeAll:
		return passAll
	}
	return denyAll
}

// ScopePayments restricts a payment query. Department managers only see
// payments when their department is Finance.
func ScopePayments(user *models.User) Scope {
	p := ProfileFor(EffectiveRole(user))

	if p.PaymentsNeedFinance && !user.InFinance() {
		return denyAll
	}

	switch p.Payments {
	case ScopeSite:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("processed_at_site_id = ?", user.SiteID())
		}
	case ScopeAll:
		return passAll
	}
	return denyAll
}

// ScopeFor dispatches on a resource-type name. Used by the dashboard and the
// temporal middleware, which take the resource as data.
func ScopeFor(user *models.User, resourceType string) Scope {
	switch resourceType {
	case models.ResourceBookings:
		return ScopeBookings(user)
	case models.ResourceClients:
		return ScopeClients(user)
	case models.ResourcePayments:
		return ScopePayments(user)
	}
	return denyAll
}
