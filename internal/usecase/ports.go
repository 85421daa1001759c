package usecase

import (
	"context"
	"time"

	"github.com/purfacted/purfacted/internal/domain"
)

// Store is the persistence boundary of the consensus core. Transact runs fn
// against a transaction-bound Store; every mutation made through that Store
// commits or rolls back as a unit. Aggregate reads inside a transaction see
// a consistent snapshot.
type Store interface {
	Transact(ctx context.Context, fn func(Store) error) error

	GetUser(ctx context.Context, id string) (domain.User, error)
	// AddTrust applies a signed delta to the user's trust score with an
	// atomic increment and returns the new score.
	AddTrust(ctx context.Context, userID string, delta int64) (int64, error)

	CreateClaim(ctx context.Context, claim domain.Claim) error
	GetClaim(ctx context.Context, id string) (domain.Claim, error)
	UpdateClaimStatus(ctx context.Context, id string, status domain.ClaimStatus) error
	UpsertClaimVote(ctx context.Context, vote domain.ClaimVote) error
	DeleteClaimVote(ctx context.Context, claimID, userID string) error
	ListClaimVotes(ctx context.Context, claimID string) ([]domain.ClaimVote, error)

	CreateDispute(ctx context.Context, dispute domain.Dispute) error
	GetDispute(ctx context.Context, id string) (domain.Dispute, error)
	HasPendingDispute(ctx context.Context, claimID, submitterID string) (bool, error)
	ResolveDispute(ctx context.Context, id string, status domain.DisputeStatus, resolvedAt time.Time) error
	UpsertDisputeVote(ctx context.Context, vote domain.DisputeVote) error
	ListDisputeVotes(ctx context.Context, disputeID string) ([]domain.DisputeVote, error)

	Stats(ctx context.Context) (domain.PlatformStats, error)
}

// DebounceGuard is a best-effort duplicate-submission guard. Reserve returns
// false when the key was reserved within the TTL window. The guard is not
// authoritative: implementations return true when their backing store is
// unavailable, trading strictness for availability.
type DebounceGuard interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) bool
}

// EscalationGateway is the external moderation queue. The core pushes
// escalation events into it and does not manage their lifecycle.
type EscalationGateway interface {
	Enqueue(ctx context.Context, kind string, targetID string, priority int) error
}

// Escalation priorities.
const (
	EscalationPriorityNormal = 1
	EscalationPriorityHigh   = 2
)

// Notifier publishes fire-and-forget events after a committed mutation. Each
// event names the user it concerns, so a delivery layer can address the user
// without looking the claim back up.
type Notifier interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Rules yields the current ruleset snapshot. Snapshots are immutable; a new
// one appears only through an explicit reload.
type Rules interface {
	Current() domain.Ruleset
}
