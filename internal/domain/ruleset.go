package domain

// Named trust-affecting actions. Deltas for these are configured in the
// trust action table; an unconfigured action applies a delta of 0.
const (
	TrustActionClaimFoundWrong  = "claim_found_wrong"
	TrustActionDisputeSucceeded = "dispute_succeeded"
	TrustActionDisputeFailed    = "dispute_failed"
)

// DefaultBaseWeight is applied when a role tier has no configured base
// weight, so that adding a new tier never breaks consensus.
const DefaultBaseWeight = 1.0

// TrustModifier maps a trust-score range to a weight multiplier. A nil bound
// is open-ended.
type TrustModifier struct {
	MinTrust *int64
	MaxTrust *int64
	Modifier float64
}

// Matches reports whether the trust score falls inside this range.
func (m TrustModifier) Matches(trust int64) bool {
	if m.MinTrust != nil && trust < *m.MinTrust {
		return false
	}
	if m.MaxTrust != nil && trust > *m.MaxTrust {
		return false
	}
	return true
}

// Ruleset is an immutable snapshot of the administrator-editable tables that
// drive vote weighting and trust accounting. Engines hold a snapshot for the
// duration of one operation; a new snapshot is installed only by an explicit
// reload.
type Ruleset struct {
	Version        int64
	RoleWeights    map[RoleTier]float64
	TrustModifiers []TrustModifier
	TrustActions   map[string]int64
}

// VoteWeight computes the voting weight for a role tier and trust score.
// base * modifier, never negative. A result of 0 is legal: the vote is still
// recorded but contributes nothing to aggregates.
func (r Ruleset) VoteWeight(tier RoleTier, trust int64) float64 {
	base, ok := r.RoleWeights[tier]
	if !ok {
		base = DefaultBaseWeight
	}
	modifier := 1.0
	for _, m := range r.TrustModifiers {
		if m.Matches(trust) {
			modifier = m.Modifier
			break
		}
	}
	w := base * modifier
	if w < 0 {
		return 0
	}
	return w
}

// ActionDelta returns the configured trust delta for a named action, 0 when
// the action is unconfigured.
func (r Ruleset) ActionDelta(action string) int64 {
	return r.TrustActions[action]
}

func i64(v int64) *int64 { return &v }

// DefaultRuleset is the seed configuration installed when the rule tables
// are empty.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Version: 1,
		RoleWeights: map[RoleTier]float64{
			RoleAnonymous:    1,
			RoleVerified:     2,
			RoleExpert:       5,
			RoleDoctorate:    6,
			RoleOrganization: 4,
			RoleModerator:    3,
		},
		TrustModifiers: []TrustModifier{
			{MinTrust: i64(100), Modifier: 1.5},
			{MinTrust: i64(50), MaxTrust: i64(99), Modifier: 1.2},
			{MinTrust: i64(0), MaxTrust: i64(49), Modifier: 1.0},
			{MinTrust: i64(-25), MaxTrust: i64(-1), Modifier: 0.5},
			{MinTrust: i64(-50), MaxTrust: i64(-26), Modifier: 0.25},
			{MaxTrust: i64(-51), Modifier: 0},
		},
		TrustActions: map[string]int64{
			TrustActionClaimFoundWrong:  -15,
			TrustActionDisputeSucceeded: 10,
			TrustActionDisputeFailed:    -5,
		},
	}
}
