package policy

import (
	"time"

	"gorm.io/gorm"
)

// Clock supplies "now" so every date and time-window check is deterministic
// under test.
type Clock func() time.Time

// Authorizer bundles the decision surface that needs a database handle or a
// clock: the operation gate and the temporal access gate. Row scoping and
// role resolution are pure and live as package functions.
type Authorizer struct {
	db  *gorm.DB
	loc *time.Location
	now Clock
}

func NewAuthorizer(db *gorm.DB, loc *time.Location, now Clock) *Authorizer {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Authorizer{db: db, loc: loc, now: now}
}

func (a *Authorizer) Now() time.Time {
	return a.now()
}
