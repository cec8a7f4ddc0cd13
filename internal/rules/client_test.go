package rules_test

import (
	"testing"
	"time"

	"voyage-backend/internal/rules"

	"github.com/stretchr/testify/assert"
)

func validClientInput() rules.ClientInput {
	return rules.ClientInput{
		FullName:    "Amine Benali",
		Email:       "amine.benali@example.dz",
		Phone:       "+213550123456",
		City:        "Alger",
		DateOfBirth: datePtr(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)),
		Consent:     true,
	}
}

func TestValidateClientCreate(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*rules.ClientInput)
		wantOK   bool
		wantErrs []string
	}{
		{
			name:   "valid client passes",
			mutate: func(in *rules.ClientInput) {},
			wantOK: true,
		},
		{
			name:     "missing consent",
			mutate:   func(in *rules.ClientInput) { in.Consent = false },
			wantOK:   false,
			wantErrs: []string{"the client must consent to the processing of personal data (law 18-07)"},
		},
		{
			name:     "name too short",
			mutate:   func(in *rules.ClientInput) { in.FullName = "Al" },
			wantOK:   false,
			wantErrs: []string{"full name must be at least 3 characters"},
		},
		{
			name:     "whitespace name rejected",
			mutate:   func(in *rules.ClientInput) { in.FullName = "   " },
			wantOK:   false,
			wantErrs: []string{"full name must be at least 3 characters"},
		},
		{
			name:     "empty email",
			mutate:   func(in *rules.ClientInput) { in.Email = "" },
			wantOK:   false,
			wantErrs: []string{"a valid email address is required"},
		},
		{
			name:     "email without at-sign",
			mutate:   func(in *rules.ClientInput) { in.Email = "amine.example.dz" },
			wantOK:   false,
			wantErrs: []string{"a valid email address is required"},
		},
		{
			name:     "foreign phone prefix",
			mutate:   func(in *rules.ClientInput) { in.Phone = "+33612345678" },
			wantOK:   false,
			wantErrs: []string{"phone number must start with +213"},
		},
		{
			name:   "empty phone is allowed",
			mutate: func(in *rules.ClientInput) { in.Phone = "" },
			wantOK: true,
		},
		{
			name:     "underage client",
			mutate:   func(in *rules.ClientInput) { in.DateOfBirth = datePtr(now.AddDate(-17, 0, 0)) },
			wantOK:   false,
			wantErrs: []string{"the client must be at least 18 years old"},
		},
		{
			name:   "missing date of birth is allowed",
			mutate: func(in *rules.ClientInput) { in.DateOfBirth = nil },
			wantOK: true,
		},
		{
			name: "violations accumulate",
			mutate: func(in *rules.ClientInput) {
				in.Consent = false
				in.FullName = "X"
				in.Email = "nope"
			},
			wantOK: false,
			wantErrs: []string{
				"the client must consent to the processing of personal data (law 18-07)",
				"full name must be at least 3 characters",
				"a valid email address is required",
			},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			in := validClientInput()
			tt.mutate(&in)
			ok, errs := rules.ValidateClientCreate(in, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantErrs, errs)
		})
	}
}
