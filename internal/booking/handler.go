package booking

import (
	"errors"
	"time"

	"voyage-backend/internal/auth"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"
	"voyage-backend/internal/rules"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateBookingRequest struct {
	ClientID    uint   `json:"client_id"`
	TotalAmount int64  `json:"total_amount"`
	TravelDate  string `json:"travel_date"` // YYYY-MM-DD
	Travelers   int    `json:"travelers"`
}

type UpdateBookingRequest struct {
	TotalAmount *int64  `json:"total_amount"`
	TravelDate  *string `json:"travel_date"`
	Travelers   *int    `json:"travelers"`
	Status      *string `json:"status"`
}

type BookingResponse struct {
	ID          uint                 `json:"id"`
	Reference   string               `json:"reference"`
	ClientID    uint                 `json:"client_id"`
	TotalAmount *int64               `json:"total_amount,omitempty"`
	Status      models.BookingStatus `json:"status"`
	TravelDate  *string              `json:"travel_date,omitempty"`
	Travelers   int                  `json:"travelers"`
	CreatedBy   uint                 `json:"created_by_user_id"`
	Department  uint                 `json:"created_by_department_id"`
	Site        uint                 `json:"created_at_site_id"`
	CreatedAt   string               `json:"created_at"`
}

func toResponse(b *models.Booking, includeAmount bool) BookingResponse {
	res := BookingResponse{
		ID:         b.ID,
		Reference:  b.Reference,
		ClientID:   b.ClientID,
		Status:     b.Status,
		Travelers:  b.Travelers,
		CreatedBy:  b.CreatedByUserID,
		Department: b.CreatedByDepartmentID,
		Site:       b.CreatedAtSiteID,
		CreatedAt:  b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if includeAmount {
		amount := b.TotalAmount
		res.TotalAmount = &amount
	}
	if b.TravelDate != nil {
		d := b.TravelDate.Format("2006-01-02")
		res.TravelDate = &d
	}
	return res
}

func includeAmounts(user *models.User) bool {
	return !policy.ProfileFor(policy.EffectiveRole(user)).RedactAmounts
}

// scopedBooking loads one booking only if the caller's row scope covers it.
func scopedBooking(user *models.User, id int) (*models.Booking, error) {
	var b models.Booking
	err := database.DB.
		Scopes(policy.ScopeBookings(user)).
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "could not load booking")
	}
	return &b, nil
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

		scoped := database.DB.Model(&models.Booking{}).Scopes(policy.ScopeBookings(user))

		stats := fiber.Map{}
		var total int64
		if err := scoped.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count bookings")
		}
		stats["total"] = total
		for _, status := range []models.BookingStatus{
			models.BookingPending, models.BookingConfirmed,
			models.BookingCancelled, models.BookingCompleted,
		} {
			var n int64
			scoped.Session(&gorm.Session{}).Where("status = ?", status).Count(&n)
			stats[string(status)] = n
		}

		var bookings []models.Booking
		err = scoped.Session(&gorm.Session{}).
			Order("created_at DESC").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&bookings).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list bookings")
		}

		withAmounts := includeAmounts(user)
		res := make([]BookingResponse, 0, len(bookings))
		for i := range bookings {
			res = append(res, toResponse(&bookings[i], withAmounts))
		}

		return c.JSON(fiber.Map{
			"bookings":   res,
			"stats":      stats,
			"page":       page,
			"per_page":   perPage,
			"can_create": policy.CanCreateBooking(user),
		})
	}
}

func DetailHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid booking id")
		}

		b, err := scopedBooking(user, id)
		if err != nil {
			return err
		}

		canUpdate, updateReason := az.CanUpdateBooking(user, b)
		canDelete, deleteReason := policy.CanDeleteBooking(user, b)

		return c.JSON(fiber.Map{
			"booking":       toResponse(b, includeAmounts(user)),
			"can_update":    canUpdate,
			"update_reason": updateReason,
			"can_delete":    canDelete,
			"delete_reason": deleteReason,
		})
	}
}

func CreateHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if !policy.CanCreateBooking(user) {
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to create bookings")
		}

		var body CreateBookingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Travelers == 0 {
			body.Travelers = 1
		}

		var travelDate *time.Time
		if body.TravelDate != "" {
			d, err := time.Parse("2006-01-02", body.TravelDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "travel_date must be YYYY-MM-DD")
			}
			travelDate = &d
		}

		var client models.Client
		err = database.DB.
			Scopes(policy.ScopeClients(user)).
			First(&client, body.ClientID).Error
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown client")
		}

		input := rules.BookingInput{
			ClientID:    client.ID,
			TotalAmount: body.TotalAmount,
			TravelDate:  travelDate,
			Travelers:   body.Travelers,
		}
		if ok, violations := rules.ValidateBookingCreate(input, &client, user, az.Now()); !ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": violations})
		}

		b := models.Booking{
			ClientID:    client.ID,
			TotalAmount: body.TotalAmount,
			Status:      models.BookingPending,
			TravelDate:  travelDate,
			Travelers:   body.Travelers,
			// Provenance is fixed here and never recomputed.
			CreatedByUserID:       user.ID,
			CreatedByDepartmentID: user.DepartmentID,
			CreatedAtSiteID:       user.SiteID(),
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
			b.Reference = models.MakeBookingReference(b.ID)
			return tx.Model(&b).Update("reference", b.Reference).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create booking")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&b, true))
	}
}

func UpdateHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid booking id")
		}

		var b models.Booking
		if err := database.DB.First(&b, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}

		if allowed, reason := az.CanUpdateBooking(user, &b); !allowed {
			return fiber.NewError(fiber.StatusForbidden, reason)
		}
		if allowed, reason := rules.CanModifyBooking(&b, az.Now()); !allowed {
			return fiber.NewError(fiber.StatusForbidden, reason)
		}

		var body UpdateBookingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		updates := map[string]interface{}{}

		if body.TotalAmount != nil {
			b.TotalAmount = *body.TotalAmount
			updates["total_amount"] = *body.TotalAmount
		}
		if body.Travelers != nil {
			b.Travelers = *body.Travelers
			updates["travelers"] = *body.Travelers
		}
		if body.TravelDate != nil {
			d, err := time.Parse("2006-01-02", *body.TravelDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "travel_date must be YYYY-MM-DD")
			}
			b.TravelDate = &d
			updates["travel_date"] = d
		}
		if body.Status != nil {
			status, ok := models.NormalizeBookingStatus(*body.Status)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "unknown booking status")
			}
			if status != b.Status {
				if !models.CanTransitionBooking(b.Status, status) {
					return fiber.NewError(fiber.StatusConflict, "invalid status transition")
				}
				b.Status = status
				updates["status"] = status
			}
		}

		if len(updates) == 0 {
			return c.JSON(toResponse(&b, includeAmounts(user)))
		}

		var cl models.Client
		if err := database.DB.First(&cl, b.ClientID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load client")
		}

		input := rules.BookingInput{
			ClientID:    b.ClientID,
			TotalAmount: b.TotalAmount,
			TravelDate:  b.TravelDate,
			Travelers:   b.Travelers,
		}
		if ok, violations := rules.ValidateBookingCreate(input, &cl, user, az.Now()); !ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": violations})
		}

		if err := database.DB.Model(&b).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update booking")
		}

		return c.JSON(toResponse(&b, includeAmounts(user)))
	}
}

// CancelHandler transitions a booking to CANCELLED and quotes the
// cancellation fee. The fee is advisory, no money moves here.
func CancelHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid booking id")
		}

		var b models.Booking
		if err := database.DB.First(&b, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}

		if allowed, reason := az.CanUpdateBooking(user, &b); !allowed {
			return fiber.NewError(fiber.StatusForbidden, reason)
		}
		if !models.CanTransitionBooking(b.Status, models.BookingCancelled) {
			return fiber.NewError(fiber.StatusConflict, "booking cannot be cancelled from its current status")
		}

		fee := rules.CancellationFee(&b, az.Now())

		if err := database.DB.Model(&b).Update("status", models.BookingCancelled).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not cancel booking")
		}
		b.Status = models.BookingCancelled

		return c.JSON(fiber.Map{
			"booking":          toResponse(&b, includeAmounts(user)),
			"cancellation_fee": fee,
		})
	}
}

// DeleteHandler removes a booking from circulation. The row itself is never
// destroyed: delete is a gated transition to CANCELLED, so references,
// payments and the consent trail stay intact.
func DeleteHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid booking id")
		}

		var b models.Booking
		if err := database.DB.First(&b, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}

		if allowed, reason := policy.CanDeleteBooking(user, &b); !allowed {
			return fiber.NewError(fiber.StatusForbidden, reason)
		}
		if !models.CanTransitionBooking(b.Status, models.BookingCancelled) {
			return fiber.NewError(fiber.StatusConflict, "booking cannot be cancelled from its current status")
		}

		fee := rules.CancellationFee(&b, az.Now())

		if err := database.DB.Model(&b).Update("status", models.BookingCancelled).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete booking")
		}
		b.Status = models.BookingCancelled

		return c.JSON(fiber.Map{
			"booking":          toResponse(&b, includeAmounts(user)),
			"cancellation_fee": fee,
		})
	}
}
