package plan

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionInactive = errors.New("subscription is not active")
	ErrTeamLimitReached     = errors.New("plan team limit reached")
)

// Plan is a subscription tier capping how many teams a coach may own.
type Plan string

const (
	PlanTwoTeams   Plan = "2_teams"
	PlanThreeTeams Plan = "3_teams"
	PlanFiveTeams  Plan = "5_teams"
)

// MaxPlayersPerTeam is fixed across every tier.
const MaxPlayersPerTeam = 20

var maxTeamsByPlan = map[Plan]int{
	PlanTwoTeams:   2,
	PlanThreeTeams: 3,
	PlanFiveTeams:  5,
}

func (p Plan) Known() bool {
	_, ok := maxTeamsByPlan[p]
	return ok
}

func (p Plan) MaxTeams() int {
	return maxTeamsByPlan[p]
}

// SubscriptionStatus gates every plan check: any non-active status fails
// regardless of team count.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusSuspended SubscriptionStatus = "suspended"
)

// CanCreateTeam decides whether a coach on the given plan may create another
// team, given how many active teams they already own.
func CanCreateTeam(p Plan, status SubscriptionStatus, currentTeamCount int) error {
	if status != StatusActive {
		return fmt.Errorf("%w: estado=%s", ErrSubscriptionInactive, status)
	}
	if !p.Known() {
		return fmt.Errorf("unknown plan: %s", p)
	}
	if currentTeamCount >= p.MaxTeams() {
		return fmt.Errorf("%w: tu plan permite máximo %d equipos", ErrTeamLimitReached, p.MaxTeams())
	}

	return nil
}
