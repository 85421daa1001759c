package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/purfacted/purfacted/internal/domain"
	"github.com/purfacted/purfacted/internal/present/rest/presenter"
	"github.com/purfacted/purfacted/internal/service"
	"github.com/purfacted/purfacted/internal/usecase"
)

// userIDHeader carries the authenticated caller's ID. Authentication itself
// is handled upstream; this core only threads the identity through.
const userIDHeader = "X-User-ID"

// EventSource feeds the realtime endpoint. The filter channel replaces the
// subscribed kind set; the loop ends with the context.
type EventSource interface {
	Realtime(ctx context.Context, filters <-chan []string, output chan<- domain.Event)
}

type Handler struct {
	consensus *usecase.ConsensusUsecase
	dispute   *usecase.DisputeUsecase
	trust     *usecase.TrustUsecase
	rules     *service.RulesService
	signal    EventSource
}

func NewHandler(
	consensus *usecase.ConsensusUsecase,
	dispute *usecase.DisputeUsecase,
	trust *usecase.TrustUsecase,
	rules *service.RulesService,
	signal EventSource,
) *Handler {
	return &Handler{
		consensus: consensus,
		dispute:   dispute,
		trust:     trust,
		rules:     rules,
		signal:    signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/claims", h.handleCreateClaim)
	e.GET("/api/v1/claims/:id", h.handleGetClaim)
	e.PUT("/api/v1/claims/:id/vote", h.handleVoteOnClaim)
	e.DELETE("/api/v1/claims/:id/vote", h.handleRemoveVote)
	e.POST("/api/v1/claims/:id/disputes", h.handleSubmitDispute)
	e.GET("/api/v1/disputes/:id", h.handleGetDispute)
	e.POST("/api/v1/disputes/:id/vote", h.handleVoteOnDispute)
	e.GET("/api/v1/trust/:id", h.handleTrustMetrics)
	e.POST("/api/v1/trust/batch", h.handleTrustBatch)
	e.GET("/api/v1/trust/stats", h.handleTrustStats)
	e.POST("/api/v1/admin/rules/reload", h.handleRulesReload)
	e.GET("/realtime", h.handleRealtime)
}

func requesterID(c echo.Context) (string, bool) {
	id := c.Request().Header.Get(userIDHeader)
	return id, id != ""
}

type createClaimRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) handleCreateClaim(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := requesterID(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "MISSING_USER", "X-User-ID header is required")
	}

	var req createClaimRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Title == "" {
		return presenter.Fail(c, http.StatusBadRequest, "MISSING_TITLE", "claim title is required")
	}

	claim, err := h.consensus.CreateClaim(ctx, userID, req.Title, req.Body)
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.Created(c, claim)
}

type claimResponse struct {
	Claim domain.Claim `json:"claim"`
	Votes domain.Score `json:"votes"`
}

func (h *Handler) handleGetClaim(c echo.Context) error {
	ctx := c.Request().Context()

	claim, score, err := h.consensus.GetClaim(ctx, c.Param("id"))
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, claimResponse{Claim: claim, Votes: score})
}

type voteRequest struct {
	Direction int `json:"direction"`
}

func (h *Handler) handleVoteOnClaim(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := requesterID(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "MISSING_USER", "X-User-ID header is required")
	}

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	score, err := h.consensus.VoteOnClaim(ctx, userID, c.Param("id"), domain.Direction(req.Direction))
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, score)
}

func (h *Handler) handleRemoveVote(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := requesterID(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "MISSING_USER", "X-User-ID header is required")
	}

	score, err := h.consensus.RemoveVote(ctx, userID, c.Param("id"))
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, score)
}

type submitDisputeRequest struct {
	Reason  string                 `json:"reason"`
	Sources []domain.DisputeSource `json:"sources"`
}

func (h *Handler) handleSubmitDispute(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := requesterID(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "MISSING_USER", "X-User-ID header is required")
	}

	var req submitDisputeRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	dispute, err := h.dispute.SubmitDispute(ctx, userID, c.Param("id"), req.Reason, req.Sources)
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.Created(c, dispute)
}

type disputeResponse struct {
	Dispute domain.Dispute `json:"dispute"`
	Votes   domain.Score   `json:"votes"`
}

func (h *Handler) handleGetDispute(c echo.Context) error {
	ctx := c.Request().Context()

	dispute, score, err := h.dispute.GetDispute(ctx, c.Param("id"))
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, disputeResponse{Dispute: dispute, Votes: score})
}

func (h *Handler) handleVoteOnDispute(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := requesterID(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "MISSING_USER", "X-User-ID header is required")
	}

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	score, err := h.dispute.VoteOnDispute(ctx, userID, c.Param("id"), domain.Direction(req.Direction))
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, score)
}

func (h *Handler) handleTrustMetrics(c echo.Context) error {
	ctx := c.Request().Context()

	metrics, err := h.consensus.Metrics(ctx, c.Param("id"))
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, metrics)
}

type trustBatchRequest struct {
	ClaimIDs []string `json:"claimIds"`
}

const trustBatchLimit = 100

func (h *Handler) handleTrustBatch(c echo.Context) error {
	ctx := c.Request().Context()

	var req trustBatchRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if len(req.ClaimIDs) == 0 {
		return presenter.Fail(c, http.StatusBadRequest, "EMPTY_BATCH", "claimIds is required")
	}
	if len(req.ClaimIDs) > trustBatchLimit {
		return presenter.Fail(c, http.StatusBadRequest, "BATCH_TOO_LARGE", "at most 100 claims per batch")
	}

	metrics, err := h.consensus.BatchMetrics(ctx, req.ClaimIDs)
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, metrics)
}

func (h *Handler) handleTrustStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.consensus.Stats(ctx)
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, stats)
}

func (h *Handler) handleRulesReload(c echo.Context) error {
	ctx := c.Request().Context()

	ruleset, err := h.rules.Reload(ctx)
	if err != nil {
		return presenter.FromError(c, err)
	}

	return presenter.OK(c, echo.Map{"version": ruleset.Version})
}
