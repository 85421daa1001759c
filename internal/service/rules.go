package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/purfacted/purfacted/internal/domain"
)

var tracer = otel.Tracer("service")

// RuleSource loads the configuration tables that make up a ruleset.
type RuleSource interface {
	Load(ctx context.Context) (domain.Ruleset, error)
}

// RulesService holds the current ruleset as an immutable versioned snapshot.
// Engines read the snapshot; a new one is installed only through Reload, so
// there is never ambiguity about which configuration a vote was evaluated
// under.
type RulesService struct {
	source  RuleSource
	current atomic.Pointer[domain.Ruleset]
	version atomic.Int64
}

func NewRulesService(source RuleSource) *RulesService {
	s := &RulesService{source: source}
	initial := domain.DefaultRuleset()
	s.current.Store(&initial)
	return s
}

// Current returns the active ruleset snapshot.
func (s *RulesService) Current() domain.Ruleset {
	return *s.current.Load()
}

// Reload loads a fresh ruleset from the source and atomically installs it
// with a bumped version. On failure the previous snapshot stays active.
func (s *RulesService) Reload(ctx context.Context) (domain.Ruleset, error) {
	ctx, span := tracer.Start(ctx, "Rules.Reload")
	defer span.End()

	ruleset, err := s.source.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Ruleset{}, errors.Wrap(err, "load ruleset")
	}

	ruleset.Version = s.version.Add(1)
	s.current.Store(&ruleset)

	slog.InfoContext(ctx, "ruleset reloaded",
		slog.Int64("version", ruleset.Version),
		slog.Int("roles", len(ruleset.RoleWeights)),
		slog.Int("modifiers", len(ruleset.TrustModifiers)),
		slog.Int("actions", len(ruleset.TrustActions)),
	)

	return ruleset, nil
}
