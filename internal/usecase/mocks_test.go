package usecase

import (
	"context"
	"time"

	"github.com/purfacted/purfacted/internal/domain"
)

// memStore is an in-memory Store for unit tests. Transact runs the callback
// against the same store; rollback behaviour is not simulated.
type memStore struct {
	users        map[string]domain.User
	claims       map[string]domain.Claim
	claimVotes   map[string]map[string]domain.ClaimVote
	disputes     map[string]domain.Dispute
	disputeVotes map[string]map[string]domain.DisputeVote
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]domain.User{},
		claims:       map[string]domain.Claim{},
		claimVotes:   map[string]map[string]domain.ClaimVote{},
		disputes:     map[string]domain.Dispute{},
		disputeVotes: map[string]map[string]domain.DisputeVote{},
	}
}

func (m *memStore) Transact(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return user, nil
}

func (m *memStore) AddTrust(ctx context.Context, userID string, delta int64) (int64, error) {
	user, ok := m.users[userID]
	if !ok {
		return 0, domain.NotFoundError{Resource: "user"}
	}
	user.TrustScore += delta
	m.users[userID] = user
	return user.TrustScore, nil
}

func (m *memStore) CreateClaim(ctx context.Context, claim domain.Claim) error {
	m.claims[claim.ID] = claim
	return nil
}

func (m *memStore) GetClaim(ctx context.Context, id string) (domain.Claim, error) {
	claim, ok := m.claims[id]
	if !ok {
		return domain.Claim{}, domain.NotFoundError{Resource: "claim"}
	}
	return claim, nil
}

func (m *memStore) UpdateClaimStatus(ctx context.Context, id string, status domain.ClaimStatus) error {
	claim, ok := m.claims[id]
	if !ok {
		return domain.NotFoundError{Resource: "claim"}
	}
	claim.Status = status
	claim.UpdatedAt = time.Now()
	m.claims[id] = claim
	return nil
}

func (m *memStore) UpsertClaimVote(ctx context.Context, vote domain.ClaimVote) error {
	if m.claimVotes[vote.ClaimID] == nil {
		m.claimVotes[vote.ClaimID] = map[string]domain.ClaimVote{}
	}
	m.claimVotes[vote.ClaimID][vote.UserID] = vote
	return nil
}

func (m *memStore) DeleteClaimVote(ctx context.Context, claimID, userID string) error {
	votes := m.claimVotes[claimID]
	if _, ok := votes[userID]; !ok {
		return domain.NotFoundError{Resource: "vote"}
	}
	delete(votes, userID)
	return nil
}

func (m *memStore) ListClaimVotes(ctx context.Context, claimID string) ([]domain.ClaimVote, error) {
	var votes []domain.ClaimVote
	for _, v := range m.claimVotes[claimID] {
		votes = append(votes, v)
	}
	return votes, nil
}

func (m *memStore) CreateDispute(ctx context.Context, dispute domain.Dispute) error {
	m.disputes[dispute.ID] = dispute
	return nil
}

func (m *memStore) GetDispute(ctx context.Context, id string) (domain.Dispute, error) {
	dispute, ok := m.disputes[id]
	if !ok {
		return domain.Dispute{}, domain.NotFoundError{Resource: "dispute"}
	}
	return dispute, nil
}

func (m *memStore) HasPendingDispute(ctx context.Context, claimID, submitterID string) (bool, error) {
	for _, d := range m.disputes {
		if d.ClaimID == claimID && d.SubmitterID == submitterID && d.Status == domain.DisputePending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ResolveDispute(ctx context.Context, id string, status domain.DisputeStatus, resolvedAt time.Time) error {
	dispute, ok := m.disputes[id]
	if !ok || dispute.Status != domain.DisputePending {
		return domain.NotFoundError{Resource: "pending dispute"}
	}
	dispute.Status = status
	dispute.ResolvedAt = &resolvedAt
	m.disputes[id] = dispute
	return nil
}

func (m *memStore) UpsertDisputeVote(ctx context.Context, vote domain.DisputeVote) error {
	if m.disputeVotes[vote.DisputeID] == nil {
		m.disputeVotes[vote.DisputeID] = map[string]domain.DisputeVote{}
	}
	m.disputeVotes[vote.DisputeID][vote.UserID] = vote
	return nil
}

func (m *memStore) ListDisputeVotes(ctx context.Context, disputeID string) ([]domain.DisputeVote, error) {
	var votes []domain.DisputeVote
	for _, v := range m.disputeVotes[disputeID] {
		votes = append(votes, v)
	}
	return votes, nil
}

func (m *memStore) Stats(ctx context.Context) (domain.PlatformStats, error) {
	stats := domain.PlatformStats{ByStatus: map[domain.ClaimStatus]int64{}}
	for _, c := range m.claims {
		stats.TotalClaims++
		stats.ByStatus[c.Status]++
	}
	for _, votes := range m.claimVotes {
		stats.TotalVotes += int64(len(votes))
	}
	stats.TotalDisputes = int64(len(m.disputes))
	return stats, nil
}

// allowGuard always reserves.
type allowGuard struct{}

func (allowGuard) Reserve(ctx context.Context, key string, ttl time.Duration) bool { return true }

// denyGuard never reserves, simulating a hit inside the debounce window.
type denyGuard struct{}

func (denyGuard) Reserve(ctx context.Context, key string, ttl time.Duration) bool { return false }

// fixedRules serves a constant ruleset snapshot.
type fixedRules struct {
	ruleset domain.Ruleset
}

func (r fixedRules) Current() domain.Ruleset { return r.ruleset }

// recordingNotifier captures published events.
type recordingNotifier struct {
	events []domain.Event
}

func (n *recordingNotifier) Publish(ctx context.Context, event domain.Event) error {
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) kinds() []string {
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Kind)
	}
	return out
}

// recordingEscalation captures enqueued moderation tickets.
type recordingEscalation struct {
	tickets []string
}

func (g *recordingEscalation) Enqueue(ctx context.Context, kind, targetID string, priority int) error {
	g.tickets = append(g.tickets, kind+":"+targetID)
	return nil
}
