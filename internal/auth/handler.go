package auth

import (
	"strings"

	"voyage-backend/internal/config"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterAdminRequest struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DepartmentID uint   `json:"department_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterAdminHandler bootstraps the first IT administrator. Refuses to
// create a second one; further users are created through the admin API.
func RegisterAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" || body.FullName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "full name, email and password are required")
		}

		var adminRole models.Role
		if err := database.DB.Where("code = ?", models.RoleAdminIT).First(&adminRole).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "role data not seeded")
		}

		var count int64
		database.DB.Model(&models.UserRole{}).
			Where("role_id = ?", adminRole.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "an IT administrator already exists")
		}

		var dept models.Department
		if err := database.DB.First(&dept, body.DepartmentID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown department")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		user := models.User{
			FullName:     body.FullName,
			Email:        body.Email,
			PasswordHash: string(hash),
			DepartmentID: dept.ID,
			IsActive:     true,
			Roles:        []models.Role{adminRole},
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  models.RoleAdminIT,
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		err := database.DB.
			Preload("Roles").
			Preload("Department.Site").
			Where("email = ?", body.Email).
			First(&user).Error
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		if !user.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "account is deactivated")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not generate token")
		}

		roleCode := ""
		if role := policy.EffectiveRole(&user); role != nil {
			roleCode = role.Code
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":            user.ID,
				"full_name":     user.FullName,
				"email":         user.Email,
				"role":          roleCode,
				"site_id":       user.SiteID(),
				"department_id": user.DepartmentID,
			},
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}

		roleCode := ""
		if role := policy.EffectiveRole(user); role != nil {
			roleCode = role.Code
		}

		response := fiber.Map{
			"user_id":        user.ID,
			"full_name":      user.FullName,
			"email":          user.Email,
			"effective_role": roleCode,
			"roles":          user.Roles,
			"department_id":  user.DepartmentID,
			"site_id":        user.SiteID(),
		}
		if user.Department != nil && user.Department.Site != nil {
			response["site"] = fiber.Map{
				"id":   user.Department.Site.ID,
				"name": user.Department.Site.Name,
				"code": user.Department.Site.Code,
			}
		}
		return c.JSON(response)
	}
}
