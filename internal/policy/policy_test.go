package policy_test

import (
	"fmt"
	"testing"

	"voyage-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the domain schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
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
	)
	require.NoError(t, err)

	return db
}

// makeUser builds a fully resolved caller identity without touching the
// database; scoping and gating work from the loaded struct alone.
func makeUser(id uint, roleCode string, level int, deptID, siteID uint, finance bool) *models.User {
	u := &models.User{
		ID:           id,
		FullName:     fmt.Sprintf("user-%d", id),
		DepartmentID: deptID,
		Department: &models.Department{
			ID:        deptID,
			SiteID:    siteID,
			IsFinance: finance,
		},
		IsActive: true,
	}
	if roleCode != "" {
		u.Roles = []models.Role{{ID: id, Code: roleCode, HierarchyLevel: level}}
	}
	return u
}
