package consent

import (
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListLogsHandler returns the compliance trail, newest first. Route access
// is restricted to DPO, GENERAL_DIRECTOR and ADMIN_IT by the router.
func ListLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		perPage := 50

		query := database.DB.Model(&models.ConsentLog{})

		if clientID := c.QueryInt("client_id", 0); clientID > 0 {
			query = query.Where("client_id = ?", clientID)
		}
		if action := c.Query("action"); action != "" {
			query = query.Where("action = ?", action)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count consent logs")
		}

		var logs []models.ConsentLog
		err := query.
			Order("created_at DESC").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&logs).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list consent logs")
		}

		return c.JSON(fiber.Map{
			"logs":     logs,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	}
}
