package domain

import "time"

// Tally accumulates weighted votes for one claim or dispute.
type Tally struct {
	Count int
	Up    float64
	Down  float64
}

// Add records one vote in the tally.
func (t *Tally) Add(d Direction, weight float64) {
	t.Count++
	if d == DirectionUp {
		t.Up += weight
	} else {
		t.Down += weight
	}
}

// TallyClaimVotes folds a consistent snapshot of claim votes into a Tally.
func TallyClaimVotes(votes []ClaimVote) Tally {
	var t Tally
	for _, v := range votes {
		t.Add(v.Direction, v.Weight)
	}
	return t
}

// TallyDisputeVotes folds a consistent snapshot of dispute votes into a Tally.
func TallyDisputeVotes(votes []DisputeVote) Tally {
	var t Tally
	for _, v := range votes {
		t.Add(v.Direction, v.Weight)
	}
	return t
}

// WeightedScore is weightedUp - weightedDown.
func (t Tally) WeightedScore() float64 {
	return t.Up - t.Down
}

// PositivePercent is the weighted share of positive votes in percent.
// With zero weighted mass it is 50, a neutral default.
func (t Tally) PositivePercent() float64 {
	total := t.Up + t.Down
	if total == 0 {
		return 50
	}
	return t.Up / total * 100
}

// Score exposes the tally in the public summary shape.
func (t Tally) Score() Score {
	return Score{
		Total:           t.Count,
		WeightedUp:      t.Up,
		WeightedDown:    t.Down,
		WeightedScore:   t.WeightedScore(),
		PositivePercent: t.PositivePercent(),
	}
}

// Thresholds are the environment-level consensus tunables.
type Thresholds struct {
	MinVotesClaim      int
	ProvenThreshold    float64
	DisprovenThreshold float64
	MinVotesDispute    int
	ApprovalThreshold  float64
	DebounceInterval   time.Duration
}

// DefaultThresholds returns the platform defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinVotesClaim:      20,
		ProvenThreshold:    75,
		DisprovenThreshold: 25,
		MinVotesDispute:    10,
		ApprovalThreshold:  60,
		DebounceInterval:   time.Second,
	}
}

// NextClaimStatus evaluates the claim status machine against a tally.
// Re-evaluation requires the minimum vote count (by count, not weight) and
// never happens while the claim is under dispute review. The second return
// is false when no re-evaluation took place; a true return with an unchanged
// status is possible and means the verdict was re-confirmed.
func NextClaimStatus(current ClaimStatus, t Tally, th Thresholds) (ClaimStatus, bool) {
	if current == ClaimUnderDisputeReview {
		return current, false
	}
	if t.Count < th.MinVotesClaim {
		return current, false
	}
	pct := t.PositivePercent()
	switch {
	case pct >= th.ProvenThreshold:
		return ClaimProven, true
	case pct <= th.DisprovenThreshold:
		return ClaimDisproven, true
	default:
		return ClaimControversial, true
	}
}

// ResolveDisputeStatus evaluates the dispute resolution check. The threshold
// is symmetric: a supermajority either way resolves the dispute, anything in
// between stays pending. The second return is false while unresolved.
func ResolveDisputeStatus(t Tally, th Thresholds) (DisputeStatus, bool) {
	if t.Count < th.MinVotesDispute {
		return DisputePending, false
	}
	pct := t.PositivePercent()
	switch {
	case pct >= th.ApprovalThreshold:
		return DisputeApproved, true
	case pct <= 100-th.ApprovalThreshold:
		return DisputeRejected, true
	default:
		return DisputePending, false
	}
}
