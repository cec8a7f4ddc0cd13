package consent

import (
	"fmt"

	"voyage-backend/internal/database"
	"voyage-backend/internal/models"

	"github.com/google/uuid"
)

type LogOptions struct {
	UserID       uint
	UserName     string
	ClientID     uint
	Action       models.ConsentAction
	ResourceType string
	ResourceID   uint
	Details      string
}

// WriteLog appends one data-processing event. The log is append-only: there
// is no update or delete path anywhere in the package.
func WriteLog(opts LogOptions) error {
	entry := models.ConsentLog{
		UserID:        opts.UserID,
		UserName:      opts.UserName,
		ClientID:      opts.ClientID,
		Action:        opts.Action,
		ResourceType:  opts.ResourceType,
		ResourceID:    opts.ResourceID,
		Details:       opts.Details,
		CorrelationID: uuid.NewString(),
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("could not write consent log: %w", err)
	}
	return nil
}
