package database

import (
	"log"

	"voyage-backend/internal/config"
	"voyage-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError lets handlers detect unique violations as
	// gorm.ErrDuplicatedKey, which the payment path maps to "already paid".
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("could not connect to the database: %v", err)
	}

	err = DB.AutoMigrate(
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
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	if err := EnsureIntegrityIndexes(DB); err != nil {
		log.Fatalf("could not create integrity indexes: %v", err)
	}

	if err := SeedRoles(DB); err != nil {
		log.Fatalf("could not seed roles: %v", err)
	}

	log.Println("database connection established, migration complete")
}

// EnsureIntegrityIndexes adds constraints AutoMigrate cannot express. The
// partial unique index re-verifies "at most one COMPLETED payment per
// booking" at commit time, closing the check-then-write race between two
// processors paying the same booking.
func EnsureIntegrityIndexes(db *gorm.DB) error {
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_booking_completed
		 ON payments (booking_id) WHERE status = 'COMPLETED'`,
	).Error
}

// SeedRoles inserts the canonical role set. Hierarchy levels are unique on
// purpose: effective-role resolution should never have to break a tie.
func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{Name: "Employee", Code: models.RoleEmployee, HierarchyLevel: 10},
		{Name: "Department Manager", Code: models.RoleManagerDept, HierarchyLevel: 20},
		{Name: "Multi-Department Manager", Code: models.RoleManagerMultiDept, HierarchyLevel: 30},
		{Name: "Site Director", Code: models.RoleDirectorSite, HierarchyLevel: 40},
		{Name: "Data Protection Officer", Code: models.RoleDPO, HierarchyLevel: 50},
		{Name: "General Director", Code: models.RoleGeneralDirector, HierarchyLevel: 60},
		{Name: "IT Administrator", Code: models.RoleAdminIT, HierarchyLevel: 70},
	}
	for _, role := range roles {
		if err := db.Where(models.Role{Code: role.Code}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
