package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/purfacted/purfacted/internal/domain"
)

var tracer = otel.Tracer("usecase")

// ConsensusUsecase records claim votes, recomputes weighted aggregates and
// drives the claim status machine.
type ConsensusUsecase struct {
	store      Store
	guard      DebounceGuard
	rules      Rules
	notifier   Notifier
	escalation EscalationGateway
	thresholds domain.Thresholds
}

func NewConsensusUsecase(
	store Store,
	guard DebounceGuard,
	rules Rules,
	notifier Notifier,
	escalation EscalationGateway,
	thresholds domain.Thresholds,
) *ConsensusUsecase {
	return &ConsensusUsecase{
		store:      store,
		guard:      guard,
		rules:      rules,
		notifier:   notifier,
		escalation: escalation,
		thresholds: thresholds,
	}
}

// CreateClaim registers a new claim in SUBMITTED status on behalf of an
// author. Authorship checks beyond existence belong to the identity layer.
func (uc *ConsensusUsecase) CreateClaim(ctx context.Context, authorID, title, body string) (domain.Claim, error) {
	ctx, span := tracer.Start(ctx, "Consensus.CreateClaim")
	defer span.End()

	if _, err := uc.store.GetUser(ctx, authorID); err != nil {
		return domain.Claim{}, err
	}

	now := time.Now()
	claim := domain.Claim{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		Status:    domain.ClaimSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.store.CreateClaim(ctx, claim); err != nil {
		return domain.Claim{}, errors.Wrap(err, "create claim")
	}

	return claim, nil
}

// GetClaim returns a claim together with its current weighted score.
func (uc *ConsensusUsecase) GetClaim(ctx context.Context, claimID string) (domain.Claim, domain.Score, error) {
	claim, err := uc.store.GetClaim(ctx, claimID)
	if err != nil {
		return domain.Claim{}, domain.Score{}, err
	}
	score, err := uc.CalculateScore(ctx, claimID)
	if err != nil {
		return domain.Claim{}, domain.Score{}, err
	}
	return claim, score, nil
}

// VoteOnClaim upserts the user's vote on a claim with a weight snapshot
// taken from the current user record, then re-evaluates the claim status.
// The upsert, the aggregate recompute and any status change commit in one
// transaction.
func (uc *ConsensusUsecase) VoteOnClaim(ctx context.Context, userID, claimID string, direction domain.Direction) (domain.Score, error) {
	ctx, span := tracer.Start(ctx, "Consensus.VoteOnClaim")
	defer span.End()

	if !direction.Valid() {
		return domain.Score{}, domain.ErrInvalidDirection
	}

	user, err := uc.store.GetUser(ctx, userID)
	if err != nil {
		return domain.Score{}, err
	}
	if !user.EmailVerified {
		return domain.Score{}, domain.ErrEmailNotVerified
	}
	if user.Banned(time.Now()) {
		return domain.Score{}, domain.ErrUserBanned
	}

	claim, err := uc.store.GetClaim(ctx, claimID)
	if err != nil {
		return domain.Score{}, err
	}
	if claim.AuthorID == userID {
		return domain.Score{}, domain.ErrSelfVote
	}

	if !uc.guard.Reserve(ctx, debounceKey(claimID, userID), uc.thresholds.DebounceInterval) {
		return domain.Score{}, domain.ErrVoteDebounced
	}

	weight := uc.rules.Current().VoteWeight(user.Role, user.TrustScore)

	var score domain.Score
	var oldStatus, newStatus domain.ClaimStatus
	err = uc.store.Transact(ctx, func(s Store) error {
		current, err := s.GetClaim(ctx, claimID)
		if err != nil {
			return err
		}
		oldStatus, newStatus = current.Status, current.Status

		vote := domain.ClaimVote{
			ClaimID:   claimID,
			UserID:    userID,
			Direction: direction,
			Weight:    weight,
			CreatedAt: time.Now(),
		}
		if err := s.UpsertClaimVote(ctx, vote); err != nil {
			return errors.Wrap(err, "upsert claim vote")
		}

		votes, err := s.ListClaimVotes(ctx, claimID)
		if err != nil {
			return errors.Wrap(err, "list claim votes")
		}
		tally := domain.TallyClaimVotes(votes)
		score = tally.Score()

		next, ok := domain.NextClaimStatus(current.Status, tally, uc.thresholds)
		if ok && next != current.Status {
			if err := s.UpdateClaimStatus(ctx, claimID, next); err != nil {
				return errors.Wrap(err, "update claim status")
			}
			newStatus = next
		}
		return nil
	})
	if err != nil {
		return domain.Score{}, err
	}

	uc.publish(ctx, domain.Event{
		Kind:      domain.EventClaimVoted,
		ClaimID:   claimID,
		UserID:    claim.AuthorID,
		Timestamp: time.Now(),
	})
	uc.announceStatusChange(ctx, claimID, claim.AuthorID, oldStatus, newStatus)

	return score, nil
}

// RemoveVote deletes the user's vote on a claim and re-evaluates the status
// as if the vote had never been cast.
func (uc *ConsensusUsecase) RemoveVote(ctx context.Context, userID, claimID string) (domain.Score, error) {
	ctx, span := tracer.Start(ctx, "Consensus.RemoveVote")
	defer span.End()

	var score domain.Score
	var authorID string
	var oldStatus, newStatus domain.ClaimStatus
	err := uc.store.Transact(ctx, func(s Store) error {
		current, err := s.GetClaim(ctx, claimID)
		if err != nil {
			return err
		}
		authorID = current.AuthorID
		oldStatus, newStatus = current.Status, current.Status

		if err := s.DeleteClaimVote(ctx, claimID, userID); err != nil {
			return err
		}

		votes, err := s.ListClaimVotes(ctx, claimID)
		if err != nil {
			return errors.Wrap(err, "list claim votes")
		}
		tally := domain.TallyClaimVotes(votes)
		score = tally.Score()

		next, ok := domain.NextClaimStatus(current.Status, tally, uc.thresholds)
		if ok && next != current.Status {
			if err := s.UpdateClaimStatus(ctx, claimID, next); err != nil {
				return errors.Wrap(err, "update claim status")
			}
			newStatus = next
		}
		return nil
	})
	if err != nil {
		return domain.Score{}, err
	}

	uc.announceStatusChange(ctx, claimID, authorID, oldStatus, newStatus)

	return score, nil
}

// CalculateScore reads all votes for a claim and returns the weighted
// aggregate.
func (uc *ConsensusUsecase) CalculateScore(ctx context.Context, claimID string) (domain.Score, error) {
	votes, err := uc.store.ListClaimVotes(ctx, claimID)
	if err != nil {
		return domain.Score{}, errors.Wrap(err, "list claim votes")
	}
	return domain.TallyClaimVotes(votes).Score(), nil
}

// TrustMetrics is the public trust summary for one claim.
type TrustMetrics struct {
	ClaimID string             `json:"claimId"`
	Status  domain.ClaimStatus `json:"status"`
	Votes   domain.Score       `json:"votes"`
}

// Metrics returns the trust metrics for a claim.
func (uc *ConsensusUsecase) Metrics(ctx context.Context, claimID string) (TrustMetrics, error) {
	claim, err := uc.store.GetClaim(ctx, claimID)
	if err != nil {
		return TrustMetrics{}, err
	}
	score, err := uc.CalculateScore(ctx, claimID)
	if err != nil {
		return TrustMetrics{}, err
	}
	return TrustMetrics{ClaimID: claim.ID, Status: claim.Status, Votes: score}, nil
}

// BatchMetrics returns trust metrics for up to limit claims. Unknown IDs are
// skipped rather than failing the batch.
func (uc *ConsensusUsecase) BatchMetrics(ctx context.Context, claimIDs []string) ([]TrustMetrics, error) {
	out := make([]TrustMetrics, 0, len(claimIDs))
	for _, id := range claimIDs {
		m, err := uc.Metrics(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Stats returns platform-wide counters.
func (uc *ConsensusUsecase) Stats(ctx context.Context) (domain.PlatformStats, error) {
	return uc.store.Stats(ctx)
}

func (uc *ConsensusUsecase) announceStatusChange(ctx context.Context, claimID, authorID string, old, next domain.ClaimStatus) {
	if next == old {
		return
	}
	uc.publish(ctx, domain.Event{
		Kind:      domain.EventClaimStatusChanged,
		ClaimID:   claimID,
		UserID:    authorID,
		Status:    string(next),
		Timestamp: time.Now(),
	})
	if next == domain.ClaimControversial {
		if err := uc.escalation.Enqueue(ctx, "claim", claimID, EscalationPriorityNormal); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue escalation",
				slog.String("error", err.Error()),
				slog.String("claim", claimID),
			)
		}
	}
}

func (uc *ConsensusUsecase) publish(ctx context.Context, event domain.Event) {
	if err := uc.notifier.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish event",
			slog.String("error", err.Error()),
			slog.String("kind", event.Kind),
		)
	}
}

func debounceKey(claimID, userID string) string {
	return fmt.Sprintf("debounce:vote:%s:%s", claimID, userID)
}
