package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
	"github.com/funsideofwine/guardian-grc/scoring"
	"github.com/funsideofwine/guardian-grc/store"
	"github.com/funsideofwine/guardian-grc/validation"
)

type RiskRepository struct {
	risks store.RiskStore
	audit *audit.Emitter
}

func NewRiskRepository(risks store.RiskStore, emitter *audit.Emitter) *RiskRepository {
	return &RiskRepository{risks: risks, audit: emitter}
}

func (r *RiskRepository) List(ctx context.Context, actor audit.Actor, p query.Params) ([]models.Risk, query.Pagination, error) {
	risks, total, err := r.risks.List(ctx, p)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	r.audit.Record(ctx, actor, "VIEW_RISKS",
		fmt.Sprintf("Viewed risks page %d with filters: %s", p.Page, p.Describe()))
	return risks, query.NewPagination(p, total), nil
}

func (r *RiskRepository) Get(ctx context.Context, actor audit.Actor, id primitive.ObjectID) (*models.Risk, error) {
	risk, err := r.risks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "VIEW_RISK",
		fmt.Sprintf("Viewed risk: %s (ID: %s)", risk.Title, id.Hex()))
	return risk, nil
}

func (r *RiskRepository) Create(ctx context.Context, actor audit.Actor, risk *models.Risk) (*models.Risk, error) {
	now := time.Now().UTC()
	if risk.Owner.IsZero() {
		risk.Owner = actor.Ref()
	}
	if risk.Status == "" {
		risk.Status = "Identified"
	}
	if risk.Priority == "" {
		risk.Priority = "Medium"
	}
	if risk.RiskAppetite == "" {
		risk.RiskAppetite = "Mitigate"
	}
	if risk.Confidentiality == "" {
		risk.Confidentiality = "Internal"
	}
	if risk.IdentifiedDate == nil {
		risk.IdentifiedDate = &now
	}
	if err := validation.Struct(risk); err != nil {
		return nil, err
	}

	deriveRisk(risk)
	stampRiskEmbedded(risk, now)
	risk.ID = primitive.NewObjectID()
	risk.CreatedAt = now
	risk.UpdatedAt = now
	risk.ChangeHistory = append(risk.ChangeHistory, models.ChangeEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    "created",
		Date:      now,
	})

	if err := r.risks.Insert(ctx, risk); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "CREATE_RISK",
		fmt.Sprintf("Created risk: %s (ID: %s)", risk.Title, risk.ID.Hex()))
	return risk, nil
}

func (r *RiskRepository) Update(ctx context.Context, actor audit.Actor, id primitive.ObjectID, patch map[string]interface{}) (*models.Risk, error) {
	existing, err := r.risks.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &models.Risk{}
	if err := mergePatch(existing, patch, updated); err != nil {
		return nil, badPatch(err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := validation.Struct(updated); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deriveRisk(updated)
	stampRiskEmbedded(updated, now)
	updated.UpdatedAt = now
	updated.ChangeHistory = append(updated.ChangeHistory, models.ChangeEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    "updated",
		Date:      now,
		Details:   "Fields: " + patchKeys(patch),
	})

	if err := r.risks.Replace(ctx, updated); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "UPDATE_RISK",
		fmt.Sprintf("Updated risk: %s (ID: %s)", updated.Title, updated.ID.Hex()))
	return updated, nil
}

func (r *RiskRepository) Delete(ctx context.Context, actor audit.Actor, id primitive.ObjectID) error {
	existing, err := r.risks.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.risks.Delete(ctx, id); err != nil {
		return err
	}
	r.audit.Record(ctx, actor, "DELETE_RISK",
		fmt.Sprintf("Deleted risk: %s (ID: %s)", existing.Title, id.Hex()))
	return nil
}

// deriveRisk recomputes the score and level from the current assessment. A
// risk without an assessment carries no score.
func deriveRisk(risk *models.Risk) {
	if risk.CurrentAssessment != nil {
		risk.CurrentAssessment.Score = scoring.RiskScore(
			risk.CurrentAssessment.Likelihood, risk.CurrentAssessment.Impact)
		risk.RiskScore = risk.CurrentAssessment.Score
		risk.RiskLevel = scoring.RiskLevel(risk.RiskScore)
	} else {
		risk.RiskScore = 0
		risk.RiskLevel = ""
	}
	if risk.ResidualRisk != nil {
		risk.ResidualRisk.Score = scoring.RiskScore(
			risk.ResidualRisk.Likelihood, risk.ResidualRisk.Impact)
	}
}

func stampRiskEmbedded(risk *models.Risk, now time.Time) {
	for i := range risk.MitigationActions {
		a := &risk.MitigationActions[i]
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		if a.Status == "" {
			a.Status = "Not Started"
		}
	}
	for i := range risk.Comments {
		c := &risk.Comments[i]
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		if c.Date.IsZero() {
			c.Date = now
		}
	}
}
