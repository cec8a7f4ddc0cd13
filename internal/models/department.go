package models

import "time"

type Department struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	Code   string `gorm:"size:10;not null" json:"code"`
	SiteID uint   `gorm:"not null;index" json:"site_id"`
	Site   *Site  `json:"site,omitempty"`

	// Explicit flag instead of inferring from the department code.
	// Payment visibility and payment ceilings key off this.
	IsFinance bool `gorm:"not null;default:false" json:"is_finance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Users []User `json:"-"`
}
