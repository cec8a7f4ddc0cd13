package models

import "time"

// Sentinel values written by the one-way anonymization (right to erasure,
// law 18-07). An anonymized client keeps its row for referential integrity
// but carries no identifying data.
const (
	AnonymizedName  = "ANONYMIZED"
	AnonymizedPhone = "+213000000000"
)

type Client struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:255;not null" json:"full_name"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
	City     string `gorm:"size:100" json:"city"`

	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`

	// Consent to personal-data processing is mandatory before the client can
	// be attached to a booking or payment.
	Consent     bool       `gorm:"not null;default:false" json:"consent"`
	ConsentDate *time.Time `json:"consent_date,omitempty"`

	RegisteredAtSiteID uint `gorm:"not null;index" json:"registered_at_site_id"`

	IsAnonymized bool       `gorm:"not null;default:false" json:"is_anonymized"`
	AnonymizedAt *time.Time `json:"anonymized_at,omitempty"`
	AnonymizedBy *uint      `json:"anonymized_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Bookings []Booking `json:"-"`
}
