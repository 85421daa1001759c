package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/purfacted/purfacted/internal/domain"
)

// DisputeUsecase manages submission, voting and threshold-based resolution
// of vetoes against proven claims.
type DisputeUsecase struct {
	store      Store
	rules      Rules
	trust      *TrustUsecase
	notifier   Notifier
	escalation EscalationGateway
	thresholds domain.Thresholds
}

func NewDisputeUsecase(
	store Store,
	rules Rules,
	trust *TrustUsecase,
	notifier Notifier,
	escalation EscalationGateway,
	thresholds domain.Thresholds,
) *DisputeUsecase {
	return &DisputeUsecase{
		store:      store,
		rules:      rules,
		trust:      trust,
		notifier:   notifier,
		escalation: escalation,
		thresholds: thresholds,
	}
}

// SubmitDispute opens a PENDING dispute against a PROVEN claim and freezes
// the claim in UNDER_DISPUTE_REVIEW. The dispute, its sources and the status
// change commit in one transaction; no side effect is applied when any
// precondition fails.
func (uc *DisputeUsecase) SubmitDispute(ctx context.Context, userID, claimID, reason string, sources []domain.DisputeSource) (domain.Dispute, error) {
	ctx, span := tracer.Start(ctx, "Dispute.Submit")
	defer span.End()

	if len(sources) == 0 {
		return domain.Dispute{}, domain.ErrEmptySources
	}
	for _, src := range sources {
		if !wellFormedSourceURL(src.URL) {
			return domain.Dispute{}, domain.ErrMalformedSourceURL
		}
	}

	user, err := uc.store.GetUser(ctx, userID)
	if err != nil {
		return domain.Dispute{}, err
	}
	if !user.EmailVerified {
		return domain.Dispute{}, domain.ErrEmailNotVerified
	}
	if user.Banned(time.Now()) {
		return domain.Dispute{}, domain.ErrUserBanned
	}

	dispute := domain.Dispute{
		ID:          uuid.New().String(),
		ClaimID:     claimID,
		SubmitterID: userID,
		Reason:      reason,
		Status:      domain.DisputePending,
		Sources:     sources,
		CreatedAt:   time.Now(),
	}

	var authorID string
	err = uc.store.Transact(ctx, func(s Store) error {
		claim, err := s.GetClaim(ctx, claimID)
		if err != nil {
			return err
		}
		if claim.Status != domain.ClaimProven {
			return domain.ErrClaimNotProven
		}
		authorID = claim.AuthorID

		pending, err := s.HasPendingDispute(ctx, claimID, userID)
		if err != nil {
			return errors.Wrap(err, "check pending dispute")
		}
		if pending {
			return domain.ErrDuplicatePendingDispute
		}

		if err := s.CreateDispute(ctx, dispute); err != nil {
			return errors.Wrap(err, "create dispute")
		}
		if err := s.UpdateClaimStatus(ctx, claimID, domain.ClaimUnderDisputeReview); err != nil {
			return errors.Wrap(err, "freeze claim")
		}
		return nil
	})
	if err != nil {
		return domain.Dispute{}, err
	}

	uc.publish(ctx, domain.Event{
		Kind:      domain.EventDisputeSubmitted,
		ClaimID:   claimID,
		DisputeID: dispute.ID,
		UserID:    authorID,
		Timestamp: time.Now(),
	})
	if err := uc.escalation.Enqueue(ctx, "dispute", dispute.ID, EscalationPriorityHigh); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue escalation",
			slog.String("error", err.Error()),
			slog.String("dispute", dispute.ID),
		)
	}

	return dispute, nil
}

// GetDispute returns a dispute together with its current weighted tally.
func (uc *DisputeUsecase) GetDispute(ctx context.Context, disputeID string) (domain.Dispute, domain.Score, error) {
	dispute, err := uc.store.GetDispute(ctx, disputeID)
	if err != nil {
		return domain.Dispute{}, domain.Score{}, err
	}
	votes, err := uc.store.ListDisputeVotes(ctx, disputeID)
	if err != nil {
		return domain.Dispute{}, domain.Score{}, errors.Wrap(err, "list dispute votes")
	}
	return dispute, domain.TallyDisputeVotes(votes).Score(), nil
}

// VoteOnDispute upserts the user's vote on a pending dispute and runs the
// resolution check. When the vote tips the dispute over a threshold, the
// resolution, the claim status transition and the trust mutations commit in
// the same transaction as the vote.
func (uc *DisputeUsecase) VoteOnDispute(ctx context.Context, userID, disputeID string, direction domain.Direction) (domain.Score, error) {
	ctx, span := tracer.Start(ctx, "Dispute.Vote")
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

	weight := uc.rules.Current().VoteWeight(user.Role, user.TrustScore)

	var score domain.Score
	var resolved domain.DisputeStatus
	var resolvedClaim domain.Claim
	var resolvedSubmitterID string
	err = uc.store.Transact(ctx, func(s Store) error {
		dispute, err := s.GetDispute(ctx, disputeID)
		if err != nil {
			return err
		}
		if dispute.Status != domain.DisputePending {
			return domain.ErrDisputeNotPending
		}

		vote := domain.DisputeVote{
			DisputeID: disputeID,
			UserID:    userID,
			Direction: direction,
			Weight:    weight,
			CreatedAt: time.Now(),
		}
		if err := s.UpsertDisputeVote(ctx, vote); err != nil {
			return errors.Wrap(err, "upsert dispute vote")
		}

		votes, err := s.ListDisputeVotes(ctx, disputeID)
		if err != nil {
			return errors.Wrap(err, "list dispute votes")
		}
		tally := domain.TallyDisputeVotes(votes)
		score = tally.Score()

		outcome, ok := domain.ResolveDisputeStatus(tally, uc.thresholds)
		if !ok {
			return nil
		}

		claim, err := uc.resolve(ctx, s, dispute, outcome)
		if err != nil {
			return err
		}
		resolved = outcome
		resolvedClaim = claim
		resolvedSubmitterID = dispute.SubmitterID
		return nil
	})
	if err != nil {
		return domain.Score{}, err
	}

	if resolved != "" {
		uc.announceResolution(ctx, disputeID, resolvedSubmitterID, resolvedClaim, resolved)
	}

	return score, nil
}

// resolve applies the resolution side effects inside the caller's
// transaction: dispute status, claim status and the trust deltas for the
// claim author and the dispute submitter.
func (uc *DisputeUsecase) resolve(ctx context.Context, s Store, dispute domain.Dispute, outcome domain.DisputeStatus) (domain.Claim, error) {
	now := time.Now()
	if err := s.ResolveDispute(ctx, dispute.ID, outcome, now); err != nil {
		return domain.Claim{}, errors.Wrap(err, "resolve dispute")
	}

	claim, err := s.GetClaim(ctx, dispute.ClaimID)
	if err != nil {
		return domain.Claim{}, err
	}

	switch outcome {
	case domain.DisputeApproved:
		if err := s.UpdateClaimStatus(ctx, claim.ID, domain.ClaimDisproven); err != nil {
			return domain.Claim{}, errors.Wrap(err, "mark claim disproven")
		}
		if _, err := uc.trust.ApplyActionWith(ctx, s, claim.AuthorID, domain.TrustActionClaimFoundWrong, "dispute "+dispute.ID+" approved"); err != nil {
			return domain.Claim{}, err
		}
		if _, err := uc.trust.ApplyActionWith(ctx, s, dispute.SubmitterID, domain.TrustActionDisputeSucceeded, "dispute "+dispute.ID+" approved"); err != nil {
			return domain.Claim{}, err
		}
	case domain.DisputeRejected:
		if err := s.UpdateClaimStatus(ctx, claim.ID, domain.ClaimProven); err != nil {
			return domain.Claim{}, errors.Wrap(err, "restore claim")
		}
		if _, err := uc.trust.ApplyActionWith(ctx, s, dispute.SubmitterID, domain.TrustActionDisputeFailed, "dispute "+dispute.ID+" rejected"); err != nil {
			return domain.Claim{}, err
		}
	}
	return claim, nil
}

func (uc *DisputeUsecase) announceResolution(ctx context.Context, disputeID, submitterID string, claim domain.Claim, outcome domain.DisputeStatus) {
	uc.publish(ctx, domain.Event{
		Kind:      domain.EventDisputeResolved,
		ClaimID:   claim.ID,
		DisputeID: disputeID,
		UserID:    submitterID,
		Status:    string(outcome),
		Timestamp: time.Now(),
	})

	claimStatus := domain.ClaimProven
	if outcome == domain.DisputeApproved {
		claimStatus = domain.ClaimDisproven
	}
	uc.publish(ctx, domain.Event{
		Kind:      domain.EventClaimStatusChanged,
		ClaimID:   claim.ID,
		UserID:    claim.AuthorID,
		Status:    string(claimStatus),
		Timestamp: time.Now(),
	})
}

func (uc *DisputeUsecase) publish(ctx context.Context, event domain.Event) {
	if err := uc.notifier.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish event",
			slog.String("error", err.Error()),
			slog.String("kind", event.Kind),
		)
	}
}

func wellFormedSourceURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
