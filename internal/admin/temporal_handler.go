package admin

import (
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTemporalConstraintRequest struct {
	UserID       uint   `json:"user_id"`
	ResourceType string `json:"resource_type"`
	DaysOfWeek   string `json:"days_of_week"` // e.g. "0,1,2,3,4" (Mon..Fri)
	StartTime    string `json:"start_time"`   // "HH:MM"
	EndTime      string `json:"end_time"`     // "HH:MM", window is [start, end)
}

func validResourceType(rt string) bool {
	switch rt {
	case models.ResourceBookings, models.ResourceClients, models.ResourcePayments:
		return true
	}
	return false
}

func CreateTemporalConstraintHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTemporalConstraintRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if !validResourceType(body.ResourceType) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown resource type")
		}

		var user models.User
		if err := database.DB.First(&user, body.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown user")
		}

		start, okStart := models.ParseClock(body.StartTime)
		end, okEnd := models.ParseClock(body.EndTime)
		if !okStart || !okEnd || start >= end {
			return fiber.NewError(fiber.StatusBadRequest, "start and end must be HH:MM with start before end")
		}

		tc := models.TemporalConstraint{
			UserID:       user.ID,
			ResourceType: body.ResourceType,
			DaysOfWeek:   body.DaysOfWeek,
			StartTime:    body.StartTime,
			EndTime:      body.EndTime,
			IsActive:     true,
		}
		if len(tc.Days()) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "days_of_week must list weekday indices 0-6")
		}

		if err := database.DB.Create(&tc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create constraint")
		}
		return c.Status(fiber.StatusCreated).JSON(tc)
	}
}

func ListTemporalConstraintsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.TemporalConstraint{})
		if userID := c.QueryInt("user_id", 0); userID > 0 {
			query = query.Where("user_id = ?", userID)
		}

		var constraints []models.TemporalConstraint
		if err := query.Find(&constraints).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list constraints")
		}
		return c.JSON(constraints)
	}
}

func DeactivateTemporalConstraintHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid constraint id")
		}

		var tc models.TemporalConstraint
		if err := database.DB.First(&tc, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "constraint not found")
		}

		if err := database.DB.Model(&tc).Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not deactivate constraint")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
