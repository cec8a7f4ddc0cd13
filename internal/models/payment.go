package models

import (
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

func NormalizePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentPending:
		return PaymentPending, true
	case PaymentCompleted:
		return PaymentCompleted, true
	case PaymentFailed:
		return PaymentFailed, true
	case PaymentRefunded:
		return PaymentRefunded, true
	}
	return "", false
}

type Payment struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	BookingID      uint     `gorm:"not null;index" json:"booking_id"`
	Booking        *Booking `json:"booking,omitempty"`
	TransactionRef string   `gorm:"size:50;uniqueIndex" json:"transaction_ref"`

	Amount int64         `gorm:"not null" json:"amount"`
	Method string        `gorm:"size:50;not null" json:"method"`
	Status PaymentStatus `gorm:"size:20;not null" json:"status"`

	ProcessedByUserID uint `gorm:"not null;index" json:"processed_by_user_id"`
	ProcessedAtSiteID uint `gorm:"not null;index" json:"processed_at_site_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
