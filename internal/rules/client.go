package rules

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinClientAge      = 18
	MinFullNameLength = 3
	// National dialing prefix every supplied phone number must carry.
	PhonePrefix = "+213"
)

type ClientInput struct {
	FullName    string
	Email       string
	Phone       string
	City        string
	DateOfBirth *time.Time
	Consent     bool
}

// ValidateClientCreate checks a new client record. Consent is a hard legal
// requirement (law 18-07), not a warning.
func ValidateClientCreate(in ClientInput, now time.Time) (bool, []string) {
	var errs []string

	if !in.Consent {
		errs = append(errs, "the client must consent to the processing of personal data (law 18-07)")
	}

	if len(strings.TrimSpace(in.FullName)) < MinFullNameLength {
		errs = append(errs, fmt.Sprintf("full name must be at least %d characters", MinFullNameLength))
	}

	if in.Email == "" || !strings.Contains(in.Email, "@") {
		errs = append(errs, "a valid email address is required")
	}

	if in.Phone != "" && !strings.HasPrefix(in.Phone, PhonePrefix) {
		errs = append(errs, fmt.Sprintf("phone number must start with %s", PhonePrefix))
	}

	if in.DateOfBirth != nil {
		age := int(dateOf(now).Sub(dateOf(*in.DateOfBirth)).Hours() / 24 / 365)
		if age < MinClientAge {
			errs = append(errs, fmt.Sprintf("the client must be at least %d years old", MinClientAge))
		}
	}

	return len(errs) == 0, errs
}
