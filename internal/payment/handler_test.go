package payment_test

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"voyage-backend/internal/auth"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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
	app.Post("/payments/:id/refund", payment.RefundHandler())
	return app
}

func seedPaidBooking(t *testing.T, db *gorm.DB, siteID uint, bookingStatus models.BookingStatus, paymentStatus models.PaymentStatus) {
	t.Helper()
	require.NoError(t, db.Create(&models.Booking{
		ID: 1, Reference: "BK000001", ClientID: 1,
		TotalAmount: 50000, Status: bookingStatus, Travelers: 2,
		CreatedByUserID: 2, CreatedByDepartmentID: 1, CreatedAtSiteID: siteID,
	}).Error)
	require.NoError(t, db.Create(&models.Payment{
		ID: 1, BookingID: 1, TransactionRef: "TRX-TEST0001",
		Amount: 50000, Method: "CARD", Status: paymentStatus,
		ProcessedByUserID: 2, ProcessedAtSiteID: siteID,
	}).Error)
}

func TestRefundMovesPaymentToRefundedAndCancelsBooking(t *testing.T) {
	db := setupDB(t)
	director := userWithRole(1, models.RoleDirectorSite, 40, 1, 1)
	seedPaidBooking(t, db, 1, models.BookingConfirmed, models.PaymentCompleted)

	app := newApp(director)
	resp, err := app.Test(httptest.NewRequest("POST", "/payments/1/refund", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var p models.Payment
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, models.PaymentRefunded, p.Status)

	var b models.Booking
	require.NoError(t, db.First(&b, 1).Error)
	assert.Equal(t, models.BookingCancelled, b.Status)
}

func TestRefundLeavesCompletedBookingStatusAlone(t *testing.T) {
	db := setupDB(t)
	director := userWithRole(1, models.RoleDirectorSite, 40, 1, 1)
	seedPaidBooking(t, db, 1, models.BookingCompleted, models.PaymentCompleted)

	app := newApp(director)
	resp, err := app.Test(httptest.NewRequest("POST", "/payments/1/refund", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var p models.Payment
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, models.PaymentRefunded, p.Status)

	// COMPLETED is terminal for bookings; the refund does not rewind it.
	var b models.Booking
	require.NoError(t, db.First(&b, 1).Error)
	assert.Equal(t, models.BookingCompleted, b.Status)
}

func TestRefundDeniedForNonDirectors(t *testing.T) {
	db := setupDB(t)
	seedPaidBooking(t, db, 1, models.BookingConfirmed, models.PaymentCompleted)

	for _, tt := range []struct {
		name string
		user *models.User
	}{
		{"employee", userWithRole(1, models.RoleEmployee, 10, 1, 1)},
		{"dept manager", userWithRole(1, models.RoleManagerDept, 20, 1, 1)},
		{"dpo", userWithRole(1, models.RoleDPO, 50, 1, 1)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(tt.user)
			resp, err := app.Test(httptest.NewRequest("POST", "/payments/1/refund", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		})
	}

	var p models.Payment
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, models.PaymentCompleted, p.Status)
}

func TestRefundRejectsNonCompletedPayment(t *testing.T) {
	db := setupDB(t)
	director := userWithRole(1, models.RoleDirectorSite, 40, 1, 1)
	seedPaidBooking(t, db, 1, models.BookingPending, models.PaymentPending)

	app := newApp(director)
	resp, err := app.Test(httptest.NewRequest("POST", "/payments/1/refund", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var p models.Payment
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, models.PaymentPending, p.Status)
}

func TestRefundOutOfSiteScopeIsNotFound(t *testing.T) {
	db := setupDB(t)
	oranDirector := userWithRole(1, models.RoleDirectorSite, 40, 3, 2)
	seedPaidBooking(t, db, 1, models.BookingConfirmed, models.PaymentCompleted)

	app := newApp(oranDirector)
	resp, err := app.Test(httptest.NewRequest("POST", "/payments/1/refund", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var p models.Payment
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, models.PaymentCompleted, p.Status)
}
