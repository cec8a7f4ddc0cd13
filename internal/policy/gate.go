package policy

import (
	"fmt"

	"voyage-backend/internal/models"
)

// Denial reasons are user-facing: callers surface them verbatim, so they
// distinguish "no permission" from "out of scope" from "expired window".
const (
	reasonNoRole       = "no role assigned"
	reasonNoPermission = "you do not have permission to modify bookings"
	reasonOwnOnly      = "you can only modify your own bookings"
	reasonDeptOnly     = "you can only modify bookings from your own department"
	reasonOtherSite    = "booking belongs to another site"
	reasonDeleteDenied = "only directors can delete bookings"
	reasonDeleteSite   = "you can only delete bookings from your own site"
)

// CanCreateBooking: every operational role may create; the DPO and roleless
// users may not.
func CanCreateBooking(user *models.User) bool {
	return ProfileFor(EffectiveRole(user)).CreateBooking
}

// CanUpdateBooking applies the role's scope requirement first, then its
// modification window against the booking's age. Scope mismatch denies
// before the age check.
func (a *Authorizer) CanUpdateBooking(user *models.User, b *models.Booking) (bool, string) {
	role := EffectiveRole(user)
	if role == nil {
		return false, reasonNoRole
	}
	p := ProfileFor(role)

	switch p.UpdateScope {
	case ScopeOwn:
		if b.CreatedByUserID != user.ID {
			return false, reasonOwnOnly
		}
	case ScopeDepartment:
		if b.CreatedByDepartmentID != user.DepartmentID {
			return false, reasonDeptOnly
		}
		if b.CreatedAtSiteID != user.SiteID() {
			return false, reasonOtherSite
		}
	case ScopeSite:
		if b.CreatedAtSiteID != user.SiteID() {
			return false, reasonOtherSite
		}
	case ScopeAll:
		// no scope requirement
	default:
		return false, reasonNoPermission
	}

	if p.UpdateWindow > 0 {
		if a.now().Sub(b.CreatedAt) > p.UpdateWindow {
			return false, fmt.Sprintf("modification window expired (max %s)", p.UpdateWindowLabel)
		}
	}
	return true, ""
}

// CanDeleteBooking is restricted to site directors (own site only), the
// general director and IT admins.
func CanDeleteBooking(user *models.User, b *models.Booking) (bool, string) {
	role := EffectiveRole(user)
	if role == nil {
		return false, reasonNoRole
	}
	p := ProfileFor(role)

	if !p.DeleteBooking {
		return false, reasonDeleteDenied
	}
	if p.DeleteOwnSiteOnly && b.CreatedAtSiteID != user.SiteID() {
		return false, reasonDeleteSite
	}
	return true, ""
}

// CanCreatePayment gates payment processing. Department managers must be in
// a Finance department.
func CanCreatePayment(user *models.User) (bool, string) {
	role := EffectiveRole(user)
	if role == nil {
		return false, reasonNoRole
	}
	p := ProfileFor(role)

	if !p.CreatePayment {
		return false, "you do not have permission to create payments"
	}
	if p.CreatePaymentNeedFinance && !user.InFinance() {
		return false, "only the Finance department can create payments"
	}
	return true, ""
}

// CanRefundPayment: reversing money is reserved to directors and IT admins.
func CanRefundPayment(user *models.User) (bool, string) {
	role := EffectiveRole(user)
	if role == nil {
		return false, reasonNoRole
	}
	if !ProfileFor(role).RefundPayment {
		return false, "only a director can refund a payment"
	}
	return true, ""
}

// CanViewSensitivePaymentData: card fragments and raw amounts. Department
// managers qualify only from a Finance department.
func CanViewSensitivePaymentData(user *models.User) bool {
	p := ProfileFor(EffectiveRole(user))
	if !p.SensitivePayments {
		return false
	}
	if p.SensitiveNeedFinance && !user.InFinance() {
		return false
	}
	return true
}

// CanAnonymizeClient: right-to-erasure is reserved to the DPO, directors and
// IT admins.
func CanAnonymizeClient(user *models.User) bool {
	return ProfileFor(EffectiveRole(user)).AnonymizeClient
}
