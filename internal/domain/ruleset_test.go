package domain

import "testing"

func TestVoteWeightLiterals(t *testing.T) {
	rules := DefaultRuleset()

	// expert base 5, trust 100 -> 1.5x
	if got := rules.VoteWeight(RoleExpert, 100); got != 7.5 {
		t.Fatalf("expert at trust 100: expected 7.5 got %v", got)
	}

	// verified base 2, trust -30 -> 0.25x
	if got := rules.VoteWeight(RoleVerified, -30); got != 0.5 {
		t.Fatalf("verified at trust -30: expected 0.5 got %v", got)
	}
}

func TestVoteWeightUnknownTierFallsBack(t *testing.T) {
	rules := DefaultRuleset()

	if got := rules.VoteWeight(RoleTier("CELEBRITY"), 0); got != 1.0 {
		t.Fatalf("unknown tier should use base weight 1, got %v", got)
	}
}

func TestVoteWeightDeepNegativeTrustIsZero(t *testing.T) {
	rules := DefaultRuleset()

	if got := rules.VoteWeight(RoleExpert, -100); got != 0 {
		t.Fatalf("trust below -50 should zero the weight, got %v", got)
	}
}

func TestVoteWeightNonNegativeAndMonotonic(t *testing.T) {
	rules := DefaultRuleset()
	tiers := []RoleTier{RoleAnonymous, RoleVerified, RoleExpert, RoleDoctorate, RoleOrganization, RoleModerator}

	for _, tier := range tiers {
		prev := -1.0
		for trust := int64(-120); trust <= 150; trust++ {
			w := rules.VoteWeight(tier, trust)
			if w < 0 {
				t.Fatalf("%s at trust %d: negative weight %v", tier, trust, w)
			}
			if w < prev {
				t.Fatalf("%s at trust %d: weight decreased from %v to %v", tier, trust, prev, w)
			}
			prev = w
		}
	}
}

func TestActionDeltaUnconfiguredIsZero(t *testing.T) {
	rules := DefaultRuleset()

	if got := rules.ActionDelta("no_such_action"); got != 0 {
		t.Fatalf("unconfigured action should be a no-op, got %d", got)
	}
	if got := rules.ActionDelta(TrustActionClaimFoundWrong); got >= 0 {
		t.Fatalf("claim_found_wrong should be negative, got %d", got)
	}
	if got := rules.ActionDelta(TrustActionDisputeSucceeded); got <= 0 {
		t.Fatalf("dispute_succeeded should be positive, got %d", got)
	}
}
