package domain

import "time"

// Event kinds published on the signal channel and delivered to realtime
// subscribers.
const (
	EventClaimVoted         = "claim.voted"
	EventClaimStatusChanged = "claim.status_changed"
	EventDisputeSubmitted   = "dispute.submitted"
	EventDisputeResolved    = "dispute.resolved"
)

// Event is a fire-and-forget notification emitted after a committed
// consensus or dispute mutation. It is never awaited by the transaction that
// produced it. UserID names the user the event concerns: the claim author
// for claim events, the dispute submitter for a resolution.
type Event struct {
	Kind      string    `json:"kind"`
	ClaimID   string    `json:"claimId,omitempty"`
	DisputeID string    `json:"disputeId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
