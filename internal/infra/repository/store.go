package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/purfacted/purfacted/internal/domain"
	"github.com/purfacted/purfacted/internal/infra/database/models"
	"github.com/purfacted/purfacted/internal/usecase"
)

// Store is the GORM-backed implementation of usecase.Store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transact runs fn against a transaction-bound Store. Nested calls reuse the
// surrounding transaction through GORM's savepoint support.
func (s *Store) Transact(ctx context.Context, fn func(usecase.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}
	return domain.User{
		ID:            user.ID,
		Role:          domain.RoleTier(user.RoleTier),
		TrustScore:    user.TrustScore,
		EmailVerified: user.EmailVerified,
		BanLevel:      user.BanLevel,
		BannedUntil:   user.BannedUntil,
	}, nil
}

// AddTrust increments the trust score in SQL so that concurrent writers from
// different claims and disputes never lose an update.
func (s *Store) AddTrust(ctx context.Context, userID string, delta int64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("trust_score", gorm.Expr("trust_score + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domain.NotFoundError{Resource: "user"}
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		return 0, err
	}
	return user.TrustScore, nil
}

func (s *Store) CreateClaim(ctx context.Context, claim domain.Claim) error {
	return s.db.WithContext(ctx).Create(&models.Claim{
		ID:        claim.ID,
		AuthorID:  claim.AuthorID,
		Title:     claim.Title,
		Body:      claim.Body,
		Status:    string(claim.Status),
		CreatedAt: claim.CreatedAt,
		UpdatedAt: claim.UpdatedAt,
	}).Error
}

func (s *Store) GetClaim(ctx context.Context, id string) (domain.Claim, error) {
	var claim models.Claim
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&claim).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Claim{}, domain.NotFoundError{Resource: "claim"}
		}
		return domain.Claim{}, err
	}
	return domain.Claim{
		ID:        claim.ID,
		AuthorID:  claim.AuthorID,
		Title:     claim.Title,
		Body:      claim.Body,
		Status:    domain.ClaimStatus(claim.Status),
		CreatedAt: claim.CreatedAt,
		UpdatedAt: claim.UpdatedAt,
	}, nil
}

func (s *Store) UpdateClaimStatus(ctx context.Context, id string, status domain.ClaimStatus) error {
	result := s.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "claim"}
	}
	return nil
}

// UpsertClaimVote overwrites direction and weight on revote. The stored
// weight is the snapshot taken at vote time.
func (s *Store) UpsertClaimVote(ctx context.Context, vote domain.ClaimVote) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "claim_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"direction":  int(vote.Direction),
			"weight":     vote.Weight,
			"created_at": vote.CreatedAt,
		}),
	}).Create(&models.ClaimVote{
		ClaimID:   vote.ClaimID,
		UserID:    vote.UserID,
		Direction: int(vote.Direction),
		Weight:    vote.Weight,
		CreatedAt: vote.CreatedAt,
	}).Error
}

func (s *Store) DeleteClaimVote(ctx context.Context, claimID, userID string) error {
	result := s.db.WithContext(ctx).
		Where("claim_id = ? AND user_id = ?", claimID, userID).
		Delete(&models.ClaimVote{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "vote"}
	}
	return nil
}

func (s *Store) ListClaimVotes(ctx context.Context, claimID string) ([]domain.ClaimVote, error) {
	var rows []models.ClaimVote
	err := s.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	votes := make([]domain.ClaimVote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, domain.ClaimVote{
			ClaimID:   row.ClaimID,
			UserID:    row.UserID,
			Direction: domain.Direction(row.Direction),
			Weight:    row.Weight,
			CreatedAt: row.CreatedAt,
		})
	}
	return votes, nil
}

func (s *Store) CreateDispute(ctx context.Context, dispute domain.Dispute) error {
	row := models.Dispute{
		ID:          dispute.ID,
		ClaimID:     dispute.ClaimID,
		SubmitterID: dispute.SubmitterID,
		Reason:      dispute.Reason,
		Status:      string(dispute.Status),
		CreatedAt:   dispute.CreatedAt,
	}
	for _, src := range dispute.Sources {
		row.Sources = append(row.Sources, models.DisputeSource{
			URL:   src.URL,
			Title: src.Title,
			Type:  src.Type,
		})
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) GetDispute(ctx context.Context, id string) (domain.Dispute, error) {
	var row models.Dispute
	err := s.db.WithContext(ctx).Preload("Sources").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Dispute{}, domain.NotFoundError{Resource: "dispute"}
		}
		return domain.Dispute{}, err
	}

	dispute := domain.Dispute{
		ID:          row.ID,
		ClaimID:     row.ClaimID,
		SubmitterID: row.SubmitterID,
		Reason:      row.Reason,
		Status:      domain.DisputeStatus(row.Status),
		ResolvedAt:  row.ResolvedAt,
		CreatedAt:   row.CreatedAt,
	}
	for _, src := range row.Sources {
		dispute.Sources = append(dispute.Sources, domain.DisputeSource{
			URL:   src.URL,
			Title: src.Title,
			Type:  src.Type,
		})
	}
	return dispute, nil
}

func (s *Store) HasPendingDispute(ctx context.Context, claimID, submitterID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Dispute{}).
		Where("claim_id = ? AND submitter_id = ? AND status = ?", claimID, submitterID, string(domain.DisputePending)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ResolveDispute(ctx context.Context, id string, status domain.DisputeStatus, resolvedAt time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.Dispute{}).
		Where("id = ? AND status = ?", id, string(domain.DisputePending)).
		Updates(map[string]any{
			"status":      string(status),
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "pending dispute"}
	}
	return nil
}

func (s *Store) UpsertDisputeVote(ctx context.Context, vote domain.DisputeVote) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "dispute_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"direction":  int(vote.Direction),
			"weight":     vote.Weight,
			"created_at": vote.CreatedAt,
		}),
	}).Create(&models.DisputeVote{
		DisputeID: vote.DisputeID,
		UserID:    vote.UserID,
		Direction: int(vote.Direction),
		Weight:    vote.Weight,
		CreatedAt: vote.CreatedAt,
	}).Error
}

func (s *Store) ListDisputeVotes(ctx context.Context, disputeID string) ([]domain.DisputeVote, error) {
	var rows []models.DisputeVote
	err := s.db.WithContext(ctx).
		Where("dispute_id = ?", disputeID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	votes := make([]domain.DisputeVote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, domain.DisputeVote{
			DisputeID: row.DisputeID,
			UserID:    row.UserID,
			Direction: domain.Direction(row.Direction),
			Weight:    row.Weight,
			CreatedAt: row.CreatedAt,
		})
	}
	return votes, nil
}

func (s *Store) Stats(ctx context.Context) (domain.PlatformStats, error) {
	stats := domain.PlatformStats{
		ByStatus: map[domain.ClaimStatus]int64{},
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.WithContext(ctx).
		Model(&models.Claim{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&counts).Error
	if err != nil {
		return domain.PlatformStats{}, err
	}
	for _, c := range counts {
		stats.ByStatus[domain.ClaimStatus(c.Status)] = c.Count
		stats.TotalClaims += c.Count
	}

	if err := s.db.WithContext(ctx).Model(&models.ClaimVote{}).Count(&stats.TotalVotes).Error; err != nil {
		return domain.PlatformStats{}, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Dispute{}).Count(&stats.TotalDisputes).Error; err != nil {
		return domain.PlatformStats{}, err
	}

	return stats, nil
}
