package payment

import (
	"errors"
	"strings"

	"voyage-backend/internal/auth"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"
	"voyage-backend/internal/rules"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatePaymentRequest struct {
	BookingID uint   `json:"booking_id"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

// PaymentResponse hides amount and method from callers without the
// sensitive-payment capability.
type PaymentResponse struct {
	ID             uint                 `json:"id"`
	BookingID      uint                 `json:"booking_id"`
	TransactionRef string               `json:"transaction_ref"`
	Amount         *int64               `json:"amount,omitempty"`
	Method         string               `json:"method,omitempty"`
	Status         models.PaymentStatus `json:"status"`
	ProcessedBy    uint                 `json:"processed_by_user_id"`
	Site           uint                 `json:"processed_at_site_id"`
	CreatedAt      string               `json:"created_at"`
}

func toResponse(p *models.Payment, sensitive bool) PaymentResponse {
	res := PaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		TransactionRef: p.TransactionRef,
		Status:         p.Status,
		ProcessedBy:    p.ProcessedByUserID,
		Site:           p.ProcessedAtSiteID,
		CreatedAt:      p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if sensitive {
		amount := p.Amount
		res.Amount = &amount
		res.Method = p.Method
	}
	return res
}

func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		perPage := 50

		scoped := database.DB.Model(&models.Payment{}).Scopes(policy.ScopePayments(user))

		stats := fiber.Map{}
		var total int64
		scoped.Session(&gorm.Session{}).Count(&total)
		stats["total"] = total
		for _, status := range []models.PaymentStatus{
			models.PaymentPending, models.PaymentCompleted,
			models.PaymentFailed, models.PaymentRefunded,
		} {
			var n int64
			scoped.Session(&gorm.Session{}).Where("status = ?", status).Count(&n)
			stats[string(status)] = n
		}

		var payments []models.Payment
		err = scoped.Session(&gorm.Session{}).
			Order("created_at DESC").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&payments).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list payments")
		}

		sensitive := policy.CanViewSensitivePaymentData(user)
		res := make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			res = append(res, toResponse(&payments[i], sensitive))
		}

		return c.JSON(fiber.Map{
			"payments": res,
			"stats":    stats,
			"page":     page,
			"per_page": perPage,
		})
	}
}

func DetailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment id")
		}

		var p models.Payment
		err = database.DB.
			Scopes(policy.ScopePayments(user)).
			First(&p, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "payment not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load payment")
		}

		return c.JSON(toResponse(&p, policy.CanViewSensitivePaymentData(user)))
	}
}

// RefundHandler moves a COMPLETED payment to REFUNDED and cancels its
// booking in the same transaction. Directors only reach payments inside
// their site scope; money itself moves outside this system.
func RefundHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment id")
		}

		if allowed, reason := policy.CanRefundPayment(user); !allowed {
			return fiber.NewError(fiber.StatusForbidden, reason)
		}

		var p models.Payment
		err = database.DB.
			Scopes(policy.ScopePayments(user)).
			First(&p, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "payment not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not load payment")
		}

		if p.Status != models.PaymentCompleted {
			return fiber.NewError(fiber.StatusConflict, "only completed payments can be refunded")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&p).Update("status", models.PaymentRefunded).Error; err != nil {
				return err
			}

			var b models.Booking
			if err := tx.First(&b, p.BookingID).Error; err != nil {
				return err
			}
			if models.CanTransitionBooking(b.Status, models.BookingCancelled) {
				return tx.Model(&b).Update("status", models.BookingCancelled).Error
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not refund payment")
		}
		p.Status = models.PaymentRefunded

		return c.JSON(toResponse(&p, policy.CanViewSensitivePaymentData(user)))
	}
}

func CreateHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if allowed, reason := policy.CanCreatePayment(user); !allowed {
			return fiber.NewError(fiber.StatusForbidden, reason)
		}

		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Method = strings.TrimSpace(body.Method)
		if body.Method == "" {
			return fiber.NewError(fiber.StatusBadRequest, "payment method is required")
		}

		var b models.Booking
		err = database.DB.
			Scopes(policy.ScopeBookings(user)).
			First(&b, body.BookingID).Error
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown booking")
		}

		var completed int64
		database.DB.Model(&models.Payment{}).
			Where("booking_id = ? AND status = ?", b.ID, models.PaymentCompleted).
			Count(&completed)

		input := rules.PaymentInput{
			BookingID: b.ID,
			Amount:    body.Amount,
			Method:    body.Method,
		}
		if ok, violations := rules.ValidatePaymentCreate(input, &b, user, completed > 0); !ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": violations})
		}

		p := models.Payment{
			BookingID:         b.ID,
			TransactionRef:    "TRX-" + strings.ToUpper(uuid.NewString()[:13]),
			Amount:            body.Amount,
			Method:            body.Method,
			Status:            models.PaymentCompleted,
			ProcessedByUserID: user.ID,
			ProcessedAtSiteID: user.SiteID(),
		}

		// The pre-check above can race with a concurrent processor, so the
		// partial unique index is the authority: a duplicate COMPLETED
		// payment surfaces here as a conflict.
		if err := database.DB.Create(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "this booking has already been paid")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create payment")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&p, policy.CanViewSensitivePaymentData(user)))
	}
}
