package domain

import "time"

// ClaimStatus is the public verdict on a claim. It is mutated only by the
// consensus and dispute engines.
type ClaimStatus string

const (
	ClaimSubmitted          ClaimStatus = "SUBMITTED"
	ClaimProven             ClaimStatus = "PROVEN"
	ClaimDisproven          ClaimStatus = "DISPROVEN"
	ClaimControversial      ClaimStatus = "CONTROVERSIAL"
	ClaimUnderDisputeReview ClaimStatus = "UNDER_DISPUTE_REVIEW"
)

// Direction is a vote direction, +1 or -1.
type Direction int

const (
	DirectionUp   Direction = 1
	DirectionDown Direction = -1
)

// Valid reports whether d is one of the two legal directions.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// Claim is a user-submitted factual assertion subject to community
// verification.
type Claim struct {
	ID        string      `json:"id"`
	AuthorID  string      `json:"authorId"`
	Title     string      `json:"title"`
	Body      string      `json:"body,omitempty"`
	Status    ClaimStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ClaimVote is one user's vote on a claim. Weight is a snapshot taken at
// vote time and is never recomputed retroactively; a revote stores a fresh
// snapshot.
type ClaimVote struct {
	ClaimID   string    `json:"claimId"`
	UserID    string    `json:"userId"`
	Direction Direction `json:"direction"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// Score summarises the weighted vote aggregate of a claim or dispute.
type Score struct {
	Total           int     `json:"total"`
	WeightedUp      float64 `json:"weightedUp"`
	WeightedDown    float64 `json:"weightedDown"`
	WeightedScore   float64 `json:"weightedScore"`
	PositivePercent float64 `json:"positivePercent"`
}

// PlatformStats are the aggregate counters exposed by the trust stats API.
type PlatformStats struct {
	TotalClaims   int64                 `json:"totalClaims"`
	ByStatus      map[ClaimStatus]int64 `json:"byStatus"`
	TotalVotes    int64                 `json:"totalVotes"`
	TotalDisputes int64                 `json:"totalDisputes"`
}
