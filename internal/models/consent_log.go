package models

import "time"

type ConsentAction string

const (
	ConsentActionGiven      ConsentAction = "CONSENT_GIVEN"
	ConsentActionAccessed   ConsentAction = "DATA_ACCESSED"
	ConsentActionModified   ConsentAction = "DATA_MODIFIED"
	ConsentActionAnonymized ConsentAction = "DATA_ANONYMIZED"
)

// ConsentLog is an append-only record of personal-data processing events,
// kept for compliance reporting. Rows are never updated or deleted.
type ConsentLog struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	UserName      string        `gorm:"size:255" json:"user_name"`
	ClientID      uint          `gorm:"not null;index" json:"client_id"`
	Action        ConsentAction `gorm:"size:30;not null;index" json:"action"`
	ResourceType  string        `gorm:"size:50" json:"resource_type"`
	ResourceID    uint          `json:"resource_id"`
	Details       string        `gorm:"size:255" json:"details"`
	CorrelationID string        `gorm:"size:36" json:"correlation_id"`
	CreatedAt     time.Time     `json:"created_at"`
}
