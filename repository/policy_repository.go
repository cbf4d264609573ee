package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
	"github.com/funsideofwine/guardian-grc/store"
	"github.com/funsideofwine/guardian-grc/validation"
)

type PolicyRepository struct {
	policies store.PolicyStore
	audit    *audit.Emitter
}

func NewPolicyRepository(policies store.PolicyStore, emitter *audit.Emitter) *PolicyRepository {
	return &PolicyRepository{policies: policies, audit: emitter}
}

func (r *PolicyRepository) List(ctx context.Context, actor audit.Actor, p query.Params) ([]models.Policy, query.Pagination, error) {
	policies, total, err := r.policies.List(ctx, p)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	r.audit.Record(ctx, actor, "VIEW_POLICIES",
		fmt.Sprintf("Viewed policies page %d with filters: %s", p.Page, p.Describe()))
	return policies, query.NewPagination(p, total), nil
}

func (r *PolicyRepository) Get(ctx context.Context, actor audit.Actor, id primitive.ObjectID) (*models.Policy, error) {
	policy, err := r.policies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "VIEW_POLICY",
		fmt.Sprintf("Viewed policy: %s (ID: %s)", policy.Name, id.Hex()))
	return policy, nil
}

func (r *PolicyRepository) Create(ctx context.Context, actor audit.Actor, policy *models.Policy) (*models.Policy, error) {
	now := time.Now().UTC()
	if policy.Owner.IsZero() {
		policy.Owner = actor.Ref()
	}
	// New policies always start their lifecycle in Draft.
	policy.State = "Draft"
	if policy.Version == "" {
		policy.Version = "1.0"
	}
	if err := validation.Struct(policy); err != nil {
		return nil, err
	}

	stampPolicyComments(policy, now)
	policy.ID = primitive.NewObjectID()
	policy.CreatedAt = now
	policy.UpdatedAt = now
	policy.ChangeHistory = append(policy.ChangeHistory, models.ChangeEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    "created",
		Date:      now,
	})

	if err := r.policies.Insert(ctx, policy); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "CREATE_POLICY",
		fmt.Sprintf("Created policy: %s (ID: %s)", policy.Name, policy.ID.Hex()))
	return policy, nil
}

func (r *PolicyRepository) Update(ctx context.Context, actor audit.Actor, id primitive.ObjectID, patch map[string]interface{}) (*models.Policy, error) {
	existing, err := r.policies.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &models.Policy{}
	if err := mergePatch(existing, patch, updated); err != nil {
		return nil, badPatch(err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := validation.Struct(updated); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stampPolicyComments(updated, now)
	updated.UpdatedAt = now
	updated.ChangeHistory = append(updated.ChangeHistory, models.ChangeEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    "updated",
		Date:      now,
		Details:   "Fields: " + patchKeys(patch),
	})

	if err := r.policies.Replace(ctx, updated); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "UPDATE_POLICY",
		fmt.Sprintf("Updated policy: %s (ID: %s)", updated.Name, updated.ID.Hex()))
	return updated, nil
}

func (r *PolicyRepository) Delete(ctx context.Context, actor audit.Actor, id primitive.ObjectID) error {
	existing, err := r.policies.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.policies.Delete(ctx, id); err != nil {
		return err
	}
	r.audit.Record(ctx, actor, "DELETE_POLICY",
		fmt.Sprintf("Deleted policy: %s (ID: %s)", existing.Name, id.Hex()))
	return nil
}

// AddComment appends a comment attributed to the actor and returns the updated
// policy.
func (r *PolicyRepository) AddComment(ctx context.Context, actor audit.Actor, id primitive.ObjectID, text string) (*models.Policy, error) {
	if text == "" {
		verr := &validation.ValidationError{}
		verr.Add("comment", "is required")
		return nil, verr
	}
	policy, err := r.policies.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	policy.Comments = append(policy.Comments, models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      text,
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Date:      now,
	})
	policy.UpdatedAt = now

	if err := r.policies.Replace(ctx, policy); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "UPDATE_POLICY",
		fmt.Sprintf("Commented on policy: %s (ID: %s)", policy.Name, id.Hex()))
	return policy, nil
}

// EditComment rewrites the text of an existing comment. A comment id that does
// not exist on the policy is a not-found, same as a missing policy.
func (r *PolicyRepository) EditComment(ctx context.Context, actor audit.Actor, id, commentID primitive.ObjectID, text string) (*models.Policy, error) {
	if text == "" {
		verr := &validation.ValidationError{}
		verr.Add("comment", "is required")
		return nil, verr
	}
	policy, err := r.policies.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range policy.Comments {
		if policy.Comments[i].ID == commentID {
			policy.Comments[i].Text = text
			found = true
			break
		}
	}
	if !found {
		return nil, store.ErrNotFound
	}
	policy.UpdatedAt = time.Now().UTC()

	if err := r.policies.Replace(ctx, policy); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "UPDATE_POLICY",
		fmt.Sprintf("Edited comment on policy: %s (ID: %s)", policy.Name, id.Hex()))
	return policy, nil
}

// DeleteComment removes a comment and returns the updated policy.
func (r *PolicyRepository) DeleteComment(ctx context.Context, actor audit.Actor, id, commentID primitive.ObjectID) (*models.Policy, error) {
	policy, err := r.policies.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Fresh slice: filtering in place would scramble the backing array shared
	// with the stored copy if the replace below fails.
	kept := make([]models.Comment, 0, len(policy.Comments))
	found := false
	for _, c := range policy.Comments {
		if c.ID == commentID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return nil, store.ErrNotFound
	}
	policy.Comments = kept
	policy.UpdatedAt = time.Now().UTC()

	if err := r.policies.Replace(ctx, policy); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "UPDATE_POLICY",
		fmt.Sprintf("Deleted comment on policy: %s (ID: %s)", policy.Name, id.Hex()))
	return policy, nil
}

func stampPolicyComments(policy *models.Policy, now time.Time) {
	for i := range policy.Comments {
		c := &policy.Comments[i]
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		if c.Date.IsZero() {
			c.Date = now
		}
	}
}
