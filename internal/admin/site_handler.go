package admin

import (
	"errors"
	"strings"

	"voyage-backend/internal/database"
	"voyage-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSiteRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type UpdateSiteRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
}

func CreateSiteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSiteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
		if body.Name == "" || body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "site name and code are required")
		}

		site := models.Site{
			Name:    body.Name,
			Code:    body.Code,
			Address: body.Address,
			City:    body.City,
		}
		if err := database.DB.Create(&site).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "a site with this code already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create site")
		}

		return c.Status(fiber.StatusCreated).JSON(site)
	}
}

func ListSitesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sites []models.Site
		if err := database.DB.Order("code").Find(&sites).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list sites")
		}
		return c.JSON(sites)
	}
}

func UpdateSiteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid site id")
		}

		var site models.Site
		if err := database.DB.First(&site, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "site not found")
		}

		var body UpdateSiteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		updates := map[string]interface{}{}
		if body.Name != nil {
			updates["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Address != nil {
			updates["address"] = *body.Address
		}
		if body.City != nil {
			updates["city"] = *body.City
		}
		if len(updates) > 0 {
			if err := database.DB.Model(&site).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not update site")
			}
		}
		return c.JSON(site)
	}
}
