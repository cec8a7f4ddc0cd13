package admin

import (
	"errors"
	"strings"

	"voyage-backend/internal/database"
	"voyage-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Password     string   `json:"password"`
	DepartmentID uint     `json:"department_id"`
	RoleCodes    []string `json:"role_codes"`
}

type AssignRoleRequest struct {
	RoleCode string `json:"role_code"`
}

type UserResponse struct {
	ID           uint     `json:"id"`
	FullName     string   `json:"full_name"`
	Email        string   `json:"email"`
	DepartmentID uint     `json:"department_id"`
	IsActive     bool     `json:"is_active"`
	Roles        []string `json:"roles"`
}

func toUserResponse(u *models.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Code)
	}
	return UserResponse{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
		Roles:        roles,
	}
}

func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.FullName = strings.TrimSpace(body.FullName)
		if body.FullName == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "full name, email and password are required")
		}

		var dept models.Department
		if err := database.DB.First(&dept, body.DepartmentID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown department")
		}

		var roles []models.Role
		if len(body.RoleCodes) > 0 {
			if err := database.DB.Where("code IN ?", body.RoleCodes).Find(&roles).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not load roles")
			}
			if len(roles) != len(body.RoleCodes) {
				return fiber.NewError(fiber.StatusBadRequest, "unknown role code")
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		user := models.User{
			FullName:     body.FullName,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			DepartmentID: dept.ID,
			IsActive:     true,
			Roles:        roles,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "a user with this email already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(&user))
	}
}

func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Preload("Roles")
		if deptID := c.QueryInt("department_id", 0); deptID > 0 {
			query = query.Where("department_id = ?", deptID)
		}

		var users []models.User
		if err := query.Order("full_name").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list users")
		}

		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, toUserResponse(&users[i]))
		}
		return c.JSON(res)
	}
}

func AssignRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		var body AssignRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var user models.User
		if err := database.DB.Preload("Roles").First(&user, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		var role models.Role
		if err := database.DB.Where("code = ?", body.RoleCode).First(&role).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown role code")
		}

		if user.HasRole(role.Code) {
			return c.JSON(toUserResponse(&user))
		}

		if err := database.DB.Model(&user).Association("Roles").Append(&role); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not assign role")
		}
		user.Roles = append(user.Roles, role)

		return c.JSON(toUserResponse(&user))
	}
}

func RevokeRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}
		code := c.Params("code")

		var user models.User
		if err := database.DB.Preload("Roles").First(&user, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		var role models.Role
		if err := database.DB.Where("code = ?", code).First(&role).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown role code")
		}

		if err := database.DB.Model(&user).Association("Roles").Delete(&role); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not revoke role")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func DeactivateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}

		var user models.User
		if err := database.DB.First(&user, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		if err := database.DB.Model(&user).Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not deactivate user")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
