package policy

import (
	"time"

	"voyage-backend/internal/models"
)

// ScopeLevel describes how far a role can see into a resource.
type ScopeLevel int

const (
	ScopeNone       ScopeLevel = iota
	ScopeOwn                   // rows the user created itself
	ScopeDepartment            // rows created by the user's department (same site)
	ScopeSite                  // rows created at the user's site
	ScopeAll
)

// Profile is the capability set of one role. All scoping, gating and
// dashboard decisions read from this single table; role codes are matched
// nowhere else.
type Profile struct {
	Bookings ScopeLevel
	Clients  ScopeLevel
	Payments ScopeLevel
	// MANAGER_DEPT only sees payments when its department is Finance.
	PaymentsNeedFinance bool

	CreateBooking bool

	UpdateScope ScopeLevel
	// Zero means no time limit on updates.
	UpdateWindow      time.Duration
	UpdateWindowLabel string

	DeleteBooking     bool
	DeleteOwnSiteOnly bool

	CreatePayment            bool
	CreatePaymentNeedFinance bool

	RefundPayment bool

	SensitivePayments    bool
	SensitiveNeedFinance bool

	// Metadata-only visibility: read surfaces strip monetary amounts.
	RedactAmounts bool

	AnonymizeClient bool
}

var profiles = map[string]Profile{
	models.RoleEmployee: {
		Bookings:          ScopeOwn,
		Clients:           ScopeSite,
		Payments:          ScopeNone,
		CreateBooking:     true,
		UpdateScope:       ScopeOwn,
		UpdateWindow:      48 * time.Hour,
		UpdateWindowLabel: "48 hours",
	},
	models.RoleManagerDept: {
		Bookings:                 ScopeDepartment,
		Clients:                  ScopeSite,
		Payments:                 ScopeSite,
		PaymentsNeedFinance:      true,
		CreateBooking:            true,
		UpdateScope:              ScopeDepartment,
		UpdateWindow:             7 * 24 * time.Hour,
		UpdateWindowLabel:        "7 days",
		CreatePayment:            true,
		CreatePaymentNeedFinance: true,
		SensitivePayments:        true,
		SensitiveNeedFinance:     true,
	},
	models.RoleManagerMultiDept: {
		Bookings:          ScopeSite,
		Clients:           ScopeSite,
		Payments:          ScopeSite,
		CreateBooking:     true,
		UpdateScope:       ScopeSite,
		UpdateWindow:      7 * 24 * time.Hour,
		UpdateWindowLabel: "7 days",
		CreatePayment:     true,
	},
	models.RoleDirectorSite: {
		Bookings:          ScopeSite,
		Clients:           ScopeSite,
		Payments:          ScopeSite,
		CreateBooking:     true,
		UpdateScope:       ScopeSite,
		UpdateWindow:      30 * 24 * time.Hour,
		UpdateWindowLabel: "30 days",
		DeleteBooking:     true,
		DeleteOwnSiteOnly: true,
		CreatePayment:     true,
		RefundPayment:     true,
		SensitivePayments: true,
		AnonymizeClient:   true,
	},
	models.RoleDPO: {
		// Full visibility for oversight; amounts are redacted on the read
		// surfaces since the DPO holds no sensitive-payment capability.
		Bookings:        ScopeAll,
		Clients:         ScopeAll,
		Payments:        ScopeAll,
		RedactAmounts:   true,
		AnonymizeClient: true,
	},
	models.RoleGeneralDirector: {
		Bookings:          ScopeAll,
		Clients:           ScopeAll,
		Payments:          ScopeAll,
		CreateBooking:     true,
		UpdateScope:       ScopeAll,
		UpdateWindow:      90 * 24 * time.Hour,
		UpdateWindowLabel: "90 days",
		DeleteBooking:     true,
		CreatePayment:     true,
		RefundPayment:     true,
		SensitivePayments: true,
		AnonymizeClient:   true,
	},
	models.RoleAdminIT: {
		// Emergency override: no update window, full scope.
		Bookings:          ScopeAll,
		Clients:           ScopeAll,
		Payments:          ScopeAll,
		CreateBooking:     true,
		UpdateScope:       ScopeAll,
		DeleteBooking:     true,
		CreatePayment:     true,
		RefundPayment:     true,
		SensitivePayments: true,
		AnonymizeClient:   true,
	},
}

// unknownProfile is the restrictive default for a role code that is not in
// the table: own bookings, own-site clients, no payments.
var unknownProfile = Profile{
	Bookings: ScopeOwn,
	Clients:  ScopeSite,
	Payments: ScopeNone,
}

// ProfileFor returns the capability set for a role. A nil role (user with no
// assignments) has no capabilities at all.
func ProfileFor(role *models.Role) Profile {
	if role == nil {
		return Profile{}
	}
	if p, ok := profiles[role.Code]; ok {
		return p
	}
	return unknownProfile
}

// EffectiveRole picks the single role used for every authorization decision:
// the assigned role with the highest hierarchy level. Configured data is
// expected to use unique levels; if two roles tie, the lower role ID wins so
// the result stays deterministic. Returns nil when no role is assigned.
func EffectiveRole(u *models.User) *models.Role {
	var best *models.Role
	for i := range u.Roles {
		r := &u.Roles[i]
		switch {
		case best == nil:
			best = r
		case r.HierarchyLevel > best.HierarchyLevel:
			best = r
		case r.HierarchyLevel == best.HierarchyLevel && r.ID < best.ID:
			best = r
		}
	}
	return best
}
