package models

import (
	"strconv"
	"strings"
	"time"
)

// Resource types a temporal constraint can cover.
const (
	ResourceBookings = "bookings"
	ResourceClients  = "clients"
	ResourcePayments = "payments"
)

// TemporalConstraint restricts when a user may touch a resource type.
// DaysOfWeek is a comma-separated list of weekday indices, Monday = 0.
// Start/End are "HH:MM" clock times; the allowed interval is [Start, End).
type TemporalConstraint struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	ResourceType string `gorm:"size:50;not null;index" json:"resource_type"`
	DaysOfWeek   string `gorm:"size:20;not null" json:"days_of_week"`
	StartTime    string `gorm:"size:5;not null" json:"start_time"`
	EndTime      string `gorm:"size:5;not null" json:"end_time"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Days parses DaysOfWeek into weekday indices; malformed entries are skipped.
func (tc *TemporalConstraint) Days() []int {
	var days []int
	for _, part := range strings.Split(tc.DaysOfWeek, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			continue
		}
		days = append(days, d)
	}
	return days
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
