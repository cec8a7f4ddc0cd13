package booking_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"voyage-backend/internal/auth"
	"voyage-backend/internal/booking"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Site{},
		&models.Department{},
		&models.Role{},
		&models.User{},
		&models.UserRole{},
		&models.Client{},
		&models.Booking{},
		&models.Payment{},
		&models.TemporalConstraint{},
		&models.ConsentLog{},
	))

	database.DB = db
	return db
}

func testAuthorizer() *policy.Authorizer {
	return policy.NewAuthorizer(database.DB, time.UTC, func() time.Time { return testNow })
}

func userWithRole(id uint, code string, level int, deptID, siteID uint) *models.User {
	return &models.User{
		ID:           id,
		FullName:     fmt.Sprintf("user-%d", id),
		DepartmentID: deptID,
		Department:   &models.Department{ID: deptID, SiteID: siteID},
		IsActive:     true,
		Roles:        []models.Role{{ID: id, Code: code, HierarchyLevel: level}},
	}
}

// newApp mounts the booking routes behind a stub that injects the caller,
// standing in for the JWT middleware.
func newApp(user *models.User) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserKey, user)
		return c.Next()
	})

	az := testAuthorizer()
	app.Put("/bookings/:id", booking.UpdateHandler(az))
	app.Delete("/bookings/:id", booking.DeleteHandler(az))
	return app
}

func seedBooking(t *testing.T, db *gorm.DB, b models.Booking) models.Booking {
	t.Helper()
	require.NoError(t, db.Create(&b).Error)
	return b
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestDeleteTransitionsBookingInsteadOfRemovingIt(t *testing.T) {
	db := setupDB(t)
	director := userWithRole(1, models.RoleDirectorSite, 40, 1, 1)

	travel := testNow.AddDate(0, 0, 3)
	seedBooking(t, db, models.Booking{
		ID: 1, Reference: "BK000001", ClientID: 1,
		TotalAmount: 40000, Status: models.BookingPending,
		TravelDate: &travel, Travelers: 2,
		CreatedByUserID: 2, CreatedByDepartmentID: 1, CreatedAtSiteID: 1,
		CreatedAt: testNow.Add(-time.Hour),
	})

	app := newApp(director)
	resp, err := app.Test(httptest.NewRequest("DELETE", "/bookings/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	// Three days before travel the advisory fee is half the total.
	assert.Equal(t, float64(20000), body["cancellation_fee"])

	// The row survives, only its status changed.
	var remaining int64
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", 1).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	var b models.Booking
	require.NoError(t, db.First(&b, 1).Error)
	assert.Equal(t, models.BookingCancelled, b.Status)
}

func TestDeleteCancelledBookingConflicts(t *testing.T) {
	db := setupDB(t)
	director := userWithRole(1, models.RoleDirectorSite, 40, 1, 1)

	seedBooking(t, db, models.Booking{
		ID: 1, Reference: "BK000001", ClientID: 1,
		TotalAmount: 40000, Status: models.BookingCancelled, Travelers: 2,
		CreatedByUserID: 2, CreatedByDepartmentID: 1, CreatedAtSiteID: 1,
		CreatedAt: testNow.Add(-time.Hour),
	})

	app := newApp(director)
	resp, err := app.Test(httptest.NewRequest("DELETE", "/bookings/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDeleteDeniedForEmployeeLeavesBookingUntouched(t *testing.T) {
	db := setupDB(t)
	employee := userWithRole(1, models.RoleEmployee, 10, 1, 1)

	seedBooking(t, db, models.Booking{
		ID: 1, Reference: "BK000001", ClientID: 1,
		TotalAmount: 40000, Status: models.BookingPending, Travelers: 2,
		CreatedByUserID: 1, CreatedByDepartmentID: 1, CreatedAtSiteID: 1,
		CreatedAt: testNow.Add(-time.Hour),
	})

	app := newApp(employee)
	resp, err := app.Test(httptest.NewRequest("DELETE", "/bookings/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var b models.Booking
	require.NoError(t, db.First(&b, 1).Error)
	assert.Equal(t, models.BookingPending, b.Status)
}

func TestUpdateRejectsClientWithoutConsent(t *testing.T) {
	db := setupDB(t)
	director := userWithRole(1, models.RoleDirectorSite, 40, 1, 1)

	require.NoError(t, db.Create(&models.Client{
		ID: 1, FullName: "Amine Benali", Email: "amine@example.dz",
		Consent: false, RegisteredAtSiteID: 1,
	}).Error)

	travel := testNow.AddDate(0, 0, 30)
	seedBooking(t, db, models.Booking{
		ID: 1, Reference: "BK000001", ClientID: 1,
		TotalAmount: 20000, Status: models.BookingPending,
		TravelDate: &travel, Travelers: 2,
		CreatedByUserID: 2, CreatedByDepartmentID: 1, CreatedAtSiteID: 1,
		CreatedAt: testNow.Add(-time.Hour),
	})

	payload, err := json.Marshal(fiber.Map{"total_amount": 30000})
	require.NoError(t, err)
	req := httptest.NewRequest("PUT", "/bookings/1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	app := newApp(director)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Contains(t, body["errors"], "client has not consented to personal data processing")

	var b models.Booking
	require.NoError(t, db.First(&b, 1).Error)
	assert.Equal(t, int64(20000), b.TotalAmount)
}
