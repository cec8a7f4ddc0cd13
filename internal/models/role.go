package models

// Canonical role codes. Roles are immutable reference data seeded at boot;
// HierarchyLevel drives effective-role resolution (higher = more authority).
const (
	RoleEmployee         = "EMPLOYEE"
	RoleManagerDept      = "MANAGER_DEPT"
	RoleManagerMultiDept = "MANAGER_MULTI_DEPT"
	RoleDirectorSite     = "DIRECTOR_SITE"
	RoleDPO              = "DPO"
	RoleGeneralDirector  = "GENERAL_DIRECTOR"
	RoleAdminIT          = "ADMIN_IT"
)

type Role struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Code           string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	HierarchyLevel int    `gorm:"not null" json:"hierarchy_level"`
}

// UserRole is the user/role assignment table. A user may hold zero, one or
// several roles at once.
type UserRole struct {
	UserID uint `gorm:"primaryKey" json:"user_id"`
	RoleID uint `gorm:"primaryKey" json:"role_id"`
}
