package policy_test

import (
	"testing"

	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveRoleNoAssignments(t *testing.T) {
	u := &models.User{ID: 1}
	assert.Nil(t, policy.EffectiveRole(u))
}

func TestEffectiveRoleHighestLevelWins(t *testing.T) {
	u := &models.User{
		ID: 1,
		Roles: []models.Role{
			{ID: 1, Code: models.RoleEmployee, HierarchyLevel: 10},
			{ID: 4, Code: models.RoleDirectorSite, HierarchyLevel: 40},
			{ID: 2, Code: models.RoleManagerDept, HierarchyLevel: 20},
		},
	}

	role := policy.EffectiveRole(u)
	require.NotNil(t, role)
	assert.Equal(t, models.RoleDirectorSite, role.Code)
}

func TestEffectiveRoleTieBreaksOnLowerID(t *testing.T) {
	// Configured data should never tie, but resolution must stay
	// deterministic when it does.
	u := &models.User{
		ID: 1,
		Roles: []models.Role{
			{ID: 7, Code: "CUSTOM_B", HierarchyLevel: 20},
			{ID: 3, Code: "CUSTOM_A", HierarchyLevel: 20},
		},
	}

	role := policy.EffectiveRole(u)
	require.NotNil(t, role)
	assert.Equal(t, "CUSTOM_A", role.Code)
}

func TestEffectiveRoleIdempotent(t *testing.T) {
	u := &models.User{
		ID: 1,
		Roles: []models.Role{
			{ID: 1, Code: models.RoleEmployee, HierarchyLevel: 10},
			{ID: 6, Code: models.RoleGeneralDirector, HierarchyLevel: 60},
		},
	}

	first := policy.EffectiveRole(u)
	second := policy.EffectiveRole(u)
	require.NotNil(t, first)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.ID, second.ID)
}

func TestProfileForNilRoleHasNoCapabilities(t *testing.T) {
	p := policy.ProfileFor(nil)
	assert.Equal(t, policy.ScopeNone, p.Bookings)
	assert.Equal(t, policy.ScopeNone, p.Clients)
	assert.Equal(t, policy.ScopeNone, p.Payments)
	assert.False(t, p.CreateBooking)
	assert.False(t, p.DeleteBooking)
	assert.False(t, p.SensitivePayments)
}

func TestProfileForUnknownRoleIsRestrictive(t *testing.T) {
	p := policy.ProfileFor(&models.Role{ID: 99, Code: "INTERN", HierarchyLevel: 5})
	assert.Equal(t, policy.ScopeOwn, p.Bookings)
	assert.Equal(t, policy.ScopeSite, p.Clients)
	assert.Equal(t, policy.ScopeNone, p.Payments)
	assert.False(t, p.CreateBooking)
}
