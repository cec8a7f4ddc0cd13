package rules

import (
	"fmt"
	"time"

	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"
)

// Booking business constants, in integer DZD.
const (
	MinBookingAmount         int64 = 5000
	MaxAmountEmployee        int64 = 500000
	MinAdvanceDays                 = 3
	MinTravelers                   = 1
	MaxTravelers                   = 50
	CancellationDeadlineDays       = 7
	ConfirmedFreezeWindow          = 48 * time.Hour
)

// CancellationFeePercent of the total amount, charged on late cancellation.
const CancellationFeePercent = 0.5

type BookingInput struct {
	ClientID    uint
	TotalAmount int64
	TravelDate  *time.Time
	Travelers   int
}

// ValidateBookingCreate checks the field constraints on a new booking.
// Invalid input is an expected outcome: every violation is collected and
// returned, nothing is thrown. The client must already carry data-processing
// consent before it can be attached to a booking.
func ValidateBookingCreate(in BookingInput, client *models.Client, creator *models.User, now time.Time) (bool, []string) {
	var errs []string

	if in.TotalAmount < MinBookingAmount {
		errs = append(errs, fmt.Sprintf("minimum booking amount is %d DZD", MinBookingAmount))
	}

	role := policy.EffectiveRole(creator)
	if role != nil && role.Code == models.RoleEmployee && in.TotalAmount > MaxAmountEmployee {
		errs = append(errs, fmt.Sprintf(
			"as an employee you cannot create a booking over %d DZD, contact your manager", MaxAmountEmployee))
	}

	if in.TravelDate != nil {
		travel := dateOf(*in.TravelDate)
		today := dateOf(now)
		if !travel.After(today) {
			errs = append(errs, "travel date must be in the future")
		}
		if travel.Before(today.AddDate(0, 0, MinAdvanceDays)) {
			errs = append(errs, fmt.Sprintf("bookings must be made at least %d days in advance", MinAdvanceDays))
		}
	}

	if in.Travelers < MinTravelers || in.Travelers > MaxTravelers {
		errs = append(errs, fmt.Sprintf("number of travelers must be between %d and %d", MinTravelers, MaxTravelers))
	}

	if client != nil && !client.Consent {
		errs = append(errs, "client has not consented to personal data processing")
	}

	return len(errs) == 0, errs
}

// CanModifyBooking is the business freeze on top of the authorization gate:
// a CONFIRMED booking cannot change once travel is less than 48 hours away,
// regardless of who asks.
func CanModifyBooking(b *models.Booking, now time.Time) (bool, string) {
	if b.Status == models.BookingConfirmed && b.TravelDate != nil {
		if b.TravelDate.Sub(now) < ConfirmedFreezeWindow {
			return false, "cannot modify a confirmed booking less than 48 hours before travel"
		}
	}
	return true, ""
}

// CancellationFee quotes the penalty for cancelling now. Advisory only: it
// informs the caller, it moves no money. No travel date means no fee; within
// the deadline the fee is half the total amount.
func CancellationFee(b *models.Booking, now time.Time) int64 {
	if b.TravelDate == nil {
		return 0
	}
	daysUntil := int(dateOf(*b.TravelDate).Sub(dateOf(now)).Hours() / 24)
	if daysUntil < CancellationDeadlineDays {
		return int64(float64(b.TotalAmount) * CancellationFeePercent)
	}
	return 0
}

// dateOf truncates a timestamp to its calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
