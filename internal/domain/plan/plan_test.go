package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanCreateTeam(t *testing.T) {
	tests := []struct {
		name      string
		plan      Plan
		status    SubscriptionStatus
		current   int
		targetErr error
	}{
		{name: "2_teams under limit", plan: PlanTwoTeams, status: StatusActive, current: 1},
		{name: "2_teams at limit", plan: PlanTwoTeams, status: StatusActive, current: 2, targetErr: ErrTeamLimitReached},
		{name: "2_teams over limit", plan: PlanTwoTeams, status: StatusActive, current: 3, targetErr: ErrTeamLimitReached},
		{name: "3_teams at limit", plan: PlanThreeTeams, status: StatusActive, current: 3, targetErr: ErrTeamLimitReached},
		{name: "5_teams under limit", plan: PlanFiveTeams, status: StatusActive, current: 4},
		{name: "expired fails regardless of count", plan: PlanFiveTeams, status: StatusExpired, current: 0, targetErr: ErrSubscriptionInactive},
		{name: "suspended fails regardless of count", plan: PlanTwoTeams, status: StatusSuspended, current: 0, targetErr: ErrSubscriptionInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanCreateTeam(tt.plan, tt.status, tt.current)
			if tt.targetErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.targetErr), "expected %v, got %v", tt.targetErr, err)
		})
	}
}

func TestCanCreateTeam_LimitMessage(t *testing.T) {
	err := CanCreateTeam(PlanTwoTeams, StatusActive, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permite máximo 2 equipos")
}

func TestPlanMaxTeams(t *testing.T) {
	assert.Equal(t, 2, PlanTwoTeams.MaxTeams())
	assert.Equal(t, 3, PlanThreeTeams.MaxTeams())
	assert.Equal(t, 5, PlanFiveTeams.MaxTeams())
	assert.False(t, Plan("10_teams").Known())
}
