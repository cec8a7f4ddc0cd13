package dashboard

import (
	"time"

	"voyage-backend/internal/auth"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BookingStats struct {
	Total     int64  `json:"total"`
	ThisMonth int64  `json:"this_month"`
	Pending   int64  `json:"pending"`
	Confirmed int64  `json:"confirmed"`
	Amount    *int64 `json:"total_amount,omitempty"`
}

type PaymentStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
	Amount    int64 `json:"total_amount"`
}

// Handler serves the role-scoped dashboard: every figure is computed inside
// the caller's row scope, so an employee sees its own numbers and a director
// its site's.
func Handler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		role := policy.EffectiveRole(user)
		roleCode := ""
		if role != nil {
			roleCode = role.Code
		}
		profile := policy.ProfileFor(role)

		now := az.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		scoped := func() *gorm.DB {
			return database.DB.Model(&models.Booking{}).Scopes(policy.ScopeBookings(user))
		}

		var stats BookingStats
		scoped().Count(&stats.Total)
		scoped().Where("created_at >= ?", monthStart).Count(&stats.ThisMonth)
		scoped().Where("status = ?", models.BookingPending).Count(&stats.Pending)
		scoped().Where("status = ?", models.BookingConfirmed).Count(&stats.Confirmed)

		if !profile.RedactAmounts {
			var amount int64
			scoped().Select("COALESCE(SUM(total_amount), 0)").Scan(&amount)
			stats.Amount = &amount
		}

		response := fiber.Map{
			"role":     roleCode,
			"bookings": stats,
		}

		// Payment figures only for callers whose scope reaches payments.
		if !(profile.Payments == policy.ScopeNone ||
			(profile.PaymentsNeedFinance && !user.InFinance())) {
			payScoped := func() *gorm.DB {
				return database.DB.Model(&models.Payment{}).Scopes(policy.ScopePayments(user))
			}
			var pay PaymentStats
			payScoped().Count(&pay.Total)
			payScoped().Where("status = ?", models.PaymentCompleted).Count(&pay.Completed)
			payScoped().Where("status = ?", models.PaymentPending).Count(&pay.Pending)
			payScoped().Select("COALESCE(SUM(amount), 0)").Scan(&pay.Amount)
			response["payments"] = pay
		}

		return c.JSON(response)
	}
}
