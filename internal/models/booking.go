package models

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// NormalizeBookingStatus canonicalizes a status string case-insensitively.
// Returns false for anything outside the four known statuses.
func NormalizeBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case BookingPending:
		return BookingPending, true
	case BookingConfirmed:
		return BookingConfirmed, true
	case BookingCancelled:
		return BookingCancelled, true
	case BookingCompleted:
		return BookingCompleted, true
	}
	return "", false
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransitionBooking reports whether a booking may move from one status to
// another. CANCELLED and COMPLETED are terminal.
func CanTransitionBooking(from, to BookingStatus) bool {
	for _, s := range bookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Reference string  `gorm:"size:20;uniqueIndex" json:"reference"`
	ClientID  uint    `gorm:"not null;index" json:"client_id"`
	Client    *Client `json:"client,omitempty"`

	// Amounts are integer DZD.
	TotalAmount int64         `gorm:"not null" json:"total_amount"`
	Status      BookingStatus `gorm:"size:20;not null;default:PENDING" json:"status"`
	TravelDate  *time.Time    `json:"travel_date,omitempty"`
	Travelers   int           `gorm:"not null;default:1" json:"travelers"`

	// Provenance, set once at creation and never recomputed.
	CreatedByUserID       uint `gorm:"not null;index" json:"created_by_user_id"`
	CreatedByDepartmentID uint `gorm:"not null;index" json:"created_by_department_id"`
	CreatedAtSiteID       uint `gorm:"not null;index" json:"created_at_site_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Payments []Payment `json:"-"`
}

// MakeBookingReference formats the human-readable reference for a booking id.
func MakeBookingReference(id uint) string {
	return fmt.Sprintf("BK%06d", id)
}
