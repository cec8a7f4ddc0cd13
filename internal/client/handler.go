package client

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"voyage-backend/internal/auth"
	"voyage-backend/internal/consent"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"
	"voyage-backend/internal/rules"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateClientRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD, optional
	Consent     bool   `json:"consent"`
}

type UpdateClientRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
}

func scopedClient(user *models.User, id int) (*models.Client, error) {
	var cl models.Client
	err := database.DB.
		Scopes(policy.ScopeClients(user)).
		First(&cl, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "could not load client")
	}
	return &cl, nil
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

		scoped := database.DB.Model(&models.Client{}).Scopes(policy.ScopeClients(user))

		var total, consented int64
		scoped.Session(&gorm.Session{}).Count(&total)
		scoped.Session(&gorm.Session{}).Where("consent = ?", true).Count(&consented)

		var clients []models.Client
		err = scoped.Session(&gorm.Session{}).
			Order("created_at DESC").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&clients).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list clients")
		}

		return c.JSON(fiber.Map{
			"clients": clients,
			"stats": fiber.Map{
				"total":         total,
				"consented":     consented,
				"not_consented": total - consented,
			},
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
			return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
		}

		cl, err := scopedClient(user, id)
		if err != nil {
			return err
		}
		return c.JSON(cl)
	}
}

func CreateHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var dob *time.Time
		if body.DateOfBirth != "" {
			d, err := time.Parse("2006-01-02", body.DateOfBirth)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
			}
			dob = &d
		}

		input := rules.ClientInput{
			FullName:    body.FullName,
			Email:       body.Email,
			Phone:       body.Phone,
			City:        body.City,
			DateOfBirth: dob,
			Consent:     body.Consent,
		}
		if ok, violations := rules.ValidateClientCreate(input, az.Now()); !ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": violations})
		}

		now := az.Now()
		cl := models.Client{
			FullName:           strings.TrimSpace(body.FullName),
			Email:              body.Email,
			Phone:              body.Phone,
			City:               body.City,
			DateOfBirth:        dob,
			Consent:            body.Consent,
			ConsentDate:        &now,
			RegisteredAtSiteID: user.SiteID(),
		}
		if err := database.DB.Create(&cl).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "a client with this email already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create client")
		}

		if err := consent.WriteLog(consent.LogOptions{
			UserID:       user.ID,
			UserName:     user.FullName,
			ClientID:     cl.ID,
			Action:       models.ConsentActionGiven,
			ResourceType: "client",
			ResourceID:   cl.ID,
			Details:      "client consented to data processing at registration",
		}); err != nil {
			// The client row exists; the trail gap is logged, not fatal.
			log.Println("consent log write failed:", err)
		}

		return c.Status(fiber.StatusCreated).JSON(cl)
	}
}

func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
		}

		cl, err := scopedClient(user, id)
		if err != nil {
			return err
		}
		if cl.IsAnonymized {
			return fiber.NewError(fiber.StatusConflict, "client is anonymized and can no longer be modified")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		updates := map[string]interface{}{}
		if body.FullName != nil {
			updates["full_name"] = strings.TrimSpace(*body.FullName)
		}
		if body.Email != nil {
			updates["email"] = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			if *body.Phone != "" && !strings.HasPrefix(*body.Phone, rules.PhonePrefix) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "phone number must start with "+rules.PhonePrefix)
			}
			updates["phone"] = *body.Phone
		}
		if body.City != nil {
			updates["city"] = *body.City
		}
		if len(updates) == 0 {
			return c.JSON(cl)
		}

		if err := database.DB.Model(cl).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "a client with this email already exists")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not update client")
		}

		if err := consent.WriteLog(consent.LogOptions{
			UserID:       user.ID,
			UserName:     user.FullName,
			ClientID:     cl.ID,
			Action:       models.ConsentActionModified,
			ResourceType: "client",
			ResourceID:   cl.ID,
			Details:      fmt.Sprintf("client profile modified by %s", user.FullName),
		}); err != nil {
			log.Println("consent log write failed:", err)
		}

		return c.JSON(cl)
	}
}

// AnonymizeHandler implements the right to erasure. Identifying fields are
// overwritten with sentinels and consent is revoked; the transition is
// one-way.
func AnonymizeHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		if !policy.CanAnonymizeClient(user) {
			return fiber.NewError(fiber.StatusForbidden, "you do not have permission to anonymize clients")
		}

		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
		}

		cl, err := scopedClient(user, id)
		if err != nil {
			return err
		}
		if cl.IsAnonymized {
			return fiber.NewError(fiber.StatusConflict, "client is already anonymized")
		}

		now := az.Now()
		updates := map[string]interface{}{
			"full_name":     models.AnonymizedName,
			"email":         fmt.Sprintf("anonymized_%d@deleted.local", cl.ID),
			"phone":         models.AnonymizedPhone,
			"city":          "",
			"date_of_birth": nil,
			"consent":       false,
			"consent_date":  nil,
			"is_anonymized": true,
			"anonymized_at": now,
			"anonymized_by": user.ID,
		}
		if err := database.DB.Model(cl).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not anonymize client")
		}

		if err := consent.WriteLog(consent.LogOptions{
			UserID:       user.ID,
			UserName:     user.FullName,
			ClientID:     cl.ID,
			Action:       models.ConsentActionAnonymized,
			ResourceType: "client",
			ResourceID:   cl.ID,
			Details:      fmt.Sprintf("client anonymized by %s (law 18-07)", user.FullName),
		}); err != nil {
			log.Println("consent log write failed:", err)
		}

		return c.JSON(fiber.Map{"id": cl.ID, "anonymized": true})
	}
}
