package models

import "time"

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	FullName     string      `gorm:"size:255;not null" json:"full_name"`
	Email        string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string      `gorm:"size:50" json:"phone"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Department   *Department `json:"department,omitempty"`
	IsActive     bool        `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// SiteID resolves the user's site through its department. Every user belongs
// to exactly one department and therefore exactly one site.
func (u *User) SiteID() uint {
	if u.Department == nil {
		return 0
	}
	return u.Department.SiteID
}

// InFinance reports whether the user's department handles payments.
func (u *User) InFinance() bool {
	return u.Department != nil && u.Department.IsFinance
}

func (u *User) HasRole(code string) bool {
	for _, r := range u.Roles {
		if r.Code == code {
			return true
		}
	}
	return false
}
