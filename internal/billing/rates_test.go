package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/framehq/frame/internal/org"
)

func TestResolveBillRateUserOverrideWins(t *testing.T) {
	rates := RateBook{
		UserOverrides: map[UserRateKey]int64{
			{ProjectID: "p1", UserID: "u1"}: 20000,
		},
		RoleOverrides: map[RoleRateKey]int64{
			{ProjectID: "p1", Role: org.RoleManager}: 17500,
		},
		ProjectDefaults: map[string]int64{"p1": 15000},
	}

	// User override wins regardless of role override and default presence.
	assert.Equal(t, int64(20000), rates.ResolveBillRate("p1", "u1", org.RoleManager))
}

func TestResolveBillRateRoleOverrideFallback(t *testing.T) {
	rates := RateBook{
		RoleOverrides: map[RoleRateKey]int64{
			{ProjectID: "p1", Role: org.RoleManager}: 17500,
		},
		ProjectDefaults: map[string]int64{"p1": 15000},
	}

	assert.Equal(t, int64(17500), rates.ResolveBillRate("p1", "u2", org.RoleManager))
	// A different role falls through to the project default.
	assert.Equal(t, int64(15000), rates.ResolveBillRate("p1", "u2", org.RoleMember))
}

func TestResolveBillRateProjectDefaultFallback(t *testing.T) {
	rates := RateBook{
		ProjectDefaults: map[string]int64{"p1": 15000},
	}

	assert.Equal(t, int64(15000), rates.ResolveBillRate("p1", "u1", org.RoleMember))
}

func TestResolveBillRateZeroWhenNothingConfigured(t *testing.T) {
	var rates RateBook
	assert.Equal(t, int64(0), rates.ResolveBillRate("p1", "u1", org.RoleOwner))
}
