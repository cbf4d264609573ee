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

type ComplianceRepository struct {
	frameworks store.ComplianceStore
	audit      *audit.Emitter
}

func NewComplianceRepository(frameworks store.ComplianceStore, emitter *audit.Emitter) *ComplianceRepository {
	return &ComplianceRepository{frameworks: frameworks, audit: emitter}
}

func (r *ComplianceRepository) List(ctx context.Context, actor audit.Actor, p query.Params) ([]models.Compliance, query.Pagination, error) {
	frameworks, total, err := r.frameworks.List(ctx, p)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	r.audit.Record(ctx, actor, "VIEW_COMPLIANCE",
		fmt.Sprintf("Viewed compliance frameworks page %d with filters: %s", p.Page, p.Describe()))
	return frameworks, query.NewPagination(p, total), nil
}

func (r *ComplianceRepository) Get(ctx context.Context, actor audit.Actor, id primitive.ObjectID) (*models.Compliance, error) {
	framework, err := r.frameworks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "VIEW_COMPLIANCE_DETAIL",
		fmt.Sprintf("Viewed compliance framework: %s (ID: %s)", framework.Name, id.Hex()))
	return framework, nil
}

func (r *ComplianceRepository) Create(ctx context.Context, actor audit.Actor, framework *models.Compliance) (*models.Compliance, error) {
	now := time.Now().UTC()
	if framework.Owner.IsZero() {
		framework.Owner = actor.Ref()
	}
	if framework.Status == "" {
		framework.Status = "Active"
	}
	if framework.ReviewFrequency == "" {
		framework.ReviewFrequency = "Annually"
	}
	if framework.Confidentiality == "" {
		framework.Confidentiality = "Internal"
	}
	if err := validation.Struct(framework); err != nil {
		return nil, err
	}

	deriveCompliance(framework)
	stampComplianceEmbedded(framework, now)
	framework.ID = primitive.NewObjectID()
	framework.CreatedAt = now
	framework.UpdatedAt = now
	framework.ChangeHistory = append(framework.ChangeHistory, models.ChangeEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    "created",
		Date:      now,
	})

	if err := r.frameworks.Insert(ctx, framework); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "CREATE_COMPLIANCE",
		fmt.Sprintf("Created compliance framework: %s (ID: %s)", framework.Name, framework.ID.Hex()))
	return framework, nil
}

func (r *ComplianceRepository) Update(ctx context.Context, actor audit.Actor, id primitive.ObjectID, patch map[string]interface{}) (*models.Compliance, error) {
	existing, err := r.frameworks.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &models.Compliance{}
	if err := mergePatch(existing, patch, updated); err != nil {
		return nil, badPatch(err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := validation.Struct(updated); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deriveCompliance(updated)
	stampComplianceEmbedded(updated, now)
	updated.UpdatedAt = now
	updated.ChangeHistory = append(updated.ChangeHistory, models.ChangeEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    "updated",
		Date:      now,
		Details:   "Fields: " + patchKeys(patch),
	})

	if err := r.frameworks.Replace(ctx, updated); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "UPDATE_COMPLIANCE",
		fmt.Sprintf("Updated compliance framework: %s (ID: %s)", updated.Name, updated.ID.Hex()))
	return updated, nil
}

func (r *ComplianceRepository) Delete(ctx context.Context, actor audit.Actor, id primitive.ObjectID) error {
	existing, err := r.frameworks.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.frameworks.Delete(ctx, id); err != nil {
		return err
	}
	r.audit.Record(ctx, actor, "DELETE_COMPLIANCE",
		fmt.Sprintf("Deleted compliance framework: %s (ID: %s)", existing.Name, id.Hex()))
	return nil
}

// deriveCompliance recomputes the score, level, and embedded-array counters.
// A framework with no evaluated requirements reads "Under Assessment" even
// though its numeric score is zero.
func deriveCompliance(framework *models.Compliance) {
	framework.ComplianceScore = scoring.ComplianceScore(framework.Requirements)
	framework.ComplianceLevel = scoring.ComplianceLevel(
		framework.ComplianceScore, scoring.Assessed(framework.Requirements))
	framework.OpenGapsCount = scoring.OpenGaps(framework.Gaps)
	framework.CriticalFindingsCount = scoring.CriticalOpenFindings(framework.AuditFindings)
}

func stampComplianceEmbedded(framework *models.Compliance, now time.Time) {
	for i := range framework.Requirements {
		req := &framework.Requirements[i]
		if req.ID.IsZero() {
			req.ID = primitive.NewObjectID()
		}
		if req.Status == "" {
			req.Status = "Under Review"
		}
		if req.Priority == "" {
			req.Priority = "Medium"
		}
	}
	for i := range framework.Gaps {
		gap := &framework.Gaps[i]
		if gap.ID.IsZero() {
			gap.ID = primitive.NewObjectID()
		}
		if gap.Status == "" {
			gap.Status = "Open"
		}
	}
	for i := range framework.AuditFindings {
		finding := &framework.AuditFindings[i]
		if finding.ID.IsZero() {
			finding.ID = primitive.NewObjectID()
		}
		if finding.Status == "" {
			finding.Status = "Open"
		}
	}
	for i := range framework.Comments {
		c := &framework.Comments[i]
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		if c.Date.IsZero() {
			c.Date = now
		}
	}
}
