package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/purfacted/purfacted/internal/domain"
	"github.com/purfacted/purfacted/internal/infra/database/models"
)

// RuleRepository loads the administrator-editable weight and trust tables.
type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// Load reads the three config tables into a Ruleset. The modifier table is
// returned in descending floor order so that range matching is
// deterministic.
func (r *RuleRepository) Load(ctx context.Context) (domain.Ruleset, error) {
	ruleset := domain.Ruleset{
		RoleWeights:  map[domain.RoleTier]float64{},
		TrustActions: map[string]int64{},
	}

	var roles []models.RoleWeightConfig
	if err := r.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return domain.Ruleset{}, err
	}
	for _, row := range roles {
		ruleset.RoleWeights[domain.RoleTier(row.RoleTier)] = row.BaseWeight
	}

	var modifiers []models.TrustModifierConfig
	err := r.db.WithContext(ctx).
		Order("min_trust DESC NULLS LAST").
		Find(&modifiers).Error
	if err != nil {
		return domain.Ruleset{}, err
	}
	for _, row := range modifiers {
		ruleset.TrustModifiers = append(ruleset.TrustModifiers, domain.TrustModifier{
			MinTrust: row.MinTrust,
			MaxTrust: row.MaxTrust,
			Modifier: row.Modifier,
		})
	}

	var actions []models.TrustActionConfig
	if err := r.db.WithContext(ctx).Find(&actions).Error; err != nil {
		return domain.Ruleset{}, err
	}
	for _, row := range actions {
		ruleset.TrustActions[row.ActionName] = row.Points
	}

	return ruleset, nil
}

// SeedDefaults installs the default ruleset into any config table that is
// still empty. Existing rows are never touched.
func (r *RuleRepository) SeedDefaults(ctx context.Context) error {
	defaults := domain.DefaultRuleset()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RoleWeightConfig{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for tier, weight := range defaults.RoleWeights {
				row := models.RoleWeightConfig{RoleTier: string(tier), BaseWeight: weight}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&models.TrustModifierConfig{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for _, m := range defaults.TrustModifiers {
				row := models.TrustModifierConfig{MinTrust: m.MinTrust, MaxTrust: m.MaxTrust, Modifier: m.Modifier}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&models.TrustActionConfig{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for action, points := range defaults.TrustActions {
				row := models.TrustActionConfig{ActionName: action, Points: points}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}
