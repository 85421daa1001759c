package domain

import "time"

// DisputeStatus is the lifecycle state of a veto against a proven claim.
// A dispute is resolved exactly once and never reopened.
type DisputeStatus string

const (
	DisputePending  DisputeStatus = "PENDING"
	DisputeApproved DisputeStatus = "APPROVED"
	DisputeRejected DisputeStatus = "REJECTED"
)

// Dispute is a formal challenge against a currently-PROVEN claim. While a
// dispute is pending the claim is frozen in UNDER_DISPUTE_REVIEW.
type Dispute struct {
	ID          string          `json:"id"`
	ClaimID     string          `json:"claimId"`
	SubmitterID string          `json:"submitterId"`
	Reason      string          `json:"reason"`
	Status      DisputeStatus   `json:"status"`
	Sources     []DisputeSource `json:"sources,omitempty"`
	ResolvedAt  *time.Time      `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DisputeSource is a cited reference supporting a dispute. URL is required.
type DisputeSource struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// DisputeVote is one user's vote on a dispute, same shape as ClaimVote.
type DisputeVote struct {
	DisputeID string    `json:"disputeId"`
	UserID    string    `json:"userId"`
	Direction Direction `json:"direction"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}
