package rules

import (
	"fmt"

	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"
)

// MaxAmountFinanceManager is the per-payment ceiling for a Finance
// department manager, in DZD. Anything above escalates to a director.
const MaxAmountFinanceManager int64 = 100000

type PaymentInput struct {
	BookingID uint
	Amount    int64
	Method    string
}

// ValidatePaymentCreate checks a payment against its booking and the
// processor's role. hasCompletedPayment is the caller-supplied fact of
// whether a COMPLETED payment already exists for the booking; passing it in
// keeps validation side-effect free, and the caller must re-verify it at
// commit time under the store's isolation guarantee.
func ValidatePaymentCreate(in PaymentInput, booking *models.Booking, processor *models.User, hasCompletedPayment bool) (bool, []string) {
	var errs []string

	if in.Amount != booking.TotalAmount {
		errs = append(errs, fmt.Sprintf(
			"payment amount (%d DZD) must match the booking amount (%d DZD)",
			in.Amount, booking.TotalAmount))
	}

	role := policy.EffectiveRole(processor)
	if role != nil && role.Code == models.RoleManagerDept && processor.InFinance() {
		if in.Amount > MaxAmountFinanceManager {
			errs = append(errs, fmt.Sprintf(
				"as a Finance manager you cannot process a payment over %d DZD, contact the director",
				MaxAmountFinanceManager))
		}
	}

	if hasCompletedPayment {
		errs = append(errs, "this booking has already been paid")
	}

	return len(errs) == 0, errs
}
