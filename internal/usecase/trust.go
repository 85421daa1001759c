package usecase

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

// TrustUsecase is the trust ledger: it applies configured point deltas to a
// user's trust score for named actions.
type TrustUsecase struct {
	store Store
	rules Rules
}

func NewTrustUsecase(store Store, rules Rules) *TrustUsecase {
	return &TrustUsecase{store: store, rules: rules}
}

// ApplyAction applies the configured delta for a named action to the user's
// trust score in its own transaction and returns the new score. An
// unconfigured action has a delta of 0 and is a safe no-op.
func (uc *TrustUsecase) ApplyAction(ctx context.Context, userID, action, reason string) (int64, error) {
	return uc.ApplyActionWith(ctx, uc.store, userID, action, reason)
}

// ApplyActionWith applies the action through the given store. Callers that
// need the trust mutation inside a larger transaction pass the
// transaction-bound store, so that a status change and its trust side effect
// commit together.
func (uc *TrustUsecase) ApplyActionWith(ctx context.Context, s Store, userID, action, reason string) (int64, error) {
	delta := uc.rules.Current().ActionDelta(action)

	score, err := s.AddTrust(ctx, userID, delta)
	if err != nil {
		return 0, errors.Wrapf(err, "apply trust action %s", action)
	}

	slog.InfoContext(ctx, "trust action applied",
		slog.String("user", userID),
		slog.String("action", action),
		slog.Int64("delta", delta),
		slog.Int64("score", score),
		slog.String("reason", reason),
	)

	return score, nil
}
