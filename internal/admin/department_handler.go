package admin

import (
	"strings"

	"voyage-backend/internal/database"
	"voyage-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDepartmentRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	SiteID    uint   `json:"site_id"`
	IsFinance bool   `json:"is_finance"`
}

type UpdateDepartmentRequest struct {
	Name      *string `json:"name"`
	IsFinance *bool   `json:"is_finance"`
}

func CreateDepartmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDepartmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
		if body.Name == "" || body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "department name and code are required")
		}

		var site models.Site
		if err := database.DB.First(&site, body.SiteID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown site")
		}

		dept := models.Department{
			Name:      body.Name,
			Code:      body.Code,
			SiteID:    site.ID,
			IsFinance: body.IsFinance,
		}
		if err := database.DB.Create(&dept).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create department")
		}
		return c.Status(fiber.StatusCreated).JSON(dept)
	}
}

func ListDepartmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Site")
		if siteID := c.QueryInt("site_id", 0); siteID > 0 {
			query = query.Where("site_id = ?", siteID)
		}

		var departments []models.Department
		if err := query.Order("code").Find(&departments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list departments")
		}
		return c.JSON(departments)
	}
}

func UpdateDepartmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid department id")
		}

		var dept models.Department
		if err := database.DB.First(&dept, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "department not found")
		}

		var body UpdateDepartmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		updates := map[string]interface{}{}
		if body.Name != nil {
			updates["name"] = strings.TrimSpace(*body.Name)
		}
		if body.IsFinance != nil {
			updates["is_finance"] = *body.IsFinance
		}
		if len(updates) > 0 {
			if err := database.DB.Model(&dept).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not update department")
			}
		}
		return c.JSON(dept)
	}
}
