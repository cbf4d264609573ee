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

type IncidentRepository struct {
	incidents store.IncidentStore
	counter   store.IncidentCounter
	audit     *audit.Emitter
}

func NewIncidentRepository(incidents store.IncidentStore, counter store.IncidentCounter, emitter *audit.Emitter) *IncidentRepository {
	return &IncidentRepository{incidents: incidents, counter: counter, audit: emitter}
}

func (r *IncidentRepository) List(ctx context.Context, actor audit.Actor, p query.Params) ([]models.Incident, query.Pagination, error) {
	incidents, total, err := r.incidents.List(ctx, p)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	r.audit.Record(ctx, actor, "VIEW_INCIDENTS",
		fmt.Sprintf("Viewed incidents page %d with filters: %s", p.Page, p.Describe()))
	return incidents, query.NewPagination(p, total), nil
}

func (r *IncidentRepository) Get(ctx context.Context, actor audit.Actor, id primitive.ObjectID) (*models.Incident, error) {
	incident, err := r.incidents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "VIEW_INCIDENT",
		fmt.Sprintf("Viewed incident: %s (%s)", incident.Title, incident.IncidentNumber))
	return incident, nil
}

func (r *IncidentRepository) Create(ctx context.Context, actor audit.Actor, incident *models.Incident) (*models.Incident, error) {
	now := time.Now().UTC()
	if incident.Reporter.IsZero() {
		incident.Reporter = actor.Ref()
	}
	if incident.Owner.IsZero() {
		incident.Owner = actor.Ref()
	}
	if incident.Status == "" {
		incident.Status = "Open"
	}
	if incident.Stage == "" {
		incident.Stage = "Detection"
	}
	if incident.Priority == "" {
		incident.Priority = "Medium"
	}
	if incident.Confidentiality == "" {
		incident.Confidentiality = "Internal"
	}
	if incident.DetectedAt.IsZero() {
		incident.DetectedAt = now
	}
	if incident.ReportedAt.IsZero() {
		incident.ReportedAt = now
	}
	if err := validation.Struct(incident); err != nil {
		return nil, err
	}

	// The number is drawn from the per-year sequence exactly once; concurrent
	// creates in the same year never collide.
	seq, err := r.counter.Next(ctx, now.Year())
	if err != nil {
		return nil, err
	}
	incident.IncidentNumber = scoring.IncidentNumber(now.Year(), seq)

	deriveIncident(incident, now)
	stampIncidentEmbedded(incident, now)
	incident.ID = primitive.NewObjectID()
	incident.CreatedAt = now
	incident.UpdatedAt = now
	incident.ChangeHistory = append(incident.ChangeHistory, models.ChangeEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    "created",
		Date:      now,
	})

	if err := r.incidents.Insert(ctx, incident); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "CREATE_INCIDENT",
		fmt.Sprintf("Created incident: %s (%s)", incident.Title, incident.IncidentNumber))
	return incident, nil
}

func (r *IncidentRepository) Update(ctx context.Context, actor audit.Actor, id primitive.ObjectID, patch map[string]interface{}) (*models.Incident, error) {
	existing, err := r.incidents.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &models.Incident{}
	if err := mergePatch(existing, patch, updated); err != nil {
		return nil, badPatch(err)
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.IncidentNumber = existing.IncidentNumber

	if err := validation.Struct(updated); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deriveIncident(updated, now)
	stampIncidentEmbedded(updated, now)
	updated.UpdatedAt = now
	updated.ChangeHistory = append(updated.ChangeHistory, models.ChangeEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    "updated",
		Date:      now,
		Details:   "Fields: " + patchKeys(patch),
	})

	if err := r.incidents.Replace(ctx, updated); err != nil {
		return nil, err
	}
	r.audit.Record(ctx, actor, "UPDATE_INCIDENT",
		fmt.Sprintf("Updated incident: %s (%s)", updated.Title, updated.IncidentNumber))
	return updated, nil
}

func (r *IncidentRepository) Delete(ctx context.Context, actor audit.Actor, id primitive.ObjectID) error {
	existing, err := r.incidents.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.incidents.Delete(ctx, id); err != nil {
		return err
	}
	r.audit.Record(ctx, actor, "DELETE_INCIDENT",
		fmt.Sprintf("Deleted incident: %s (%s)", existing.Title, existing.IncidentNumber))
	return nil
}

// deriveIncident recomputes the SLA breach flag against the current clock and
// status. Resolved and Closed incidents are never breached.
func deriveIncident(incident *models.Incident, now time.Time) {
	incident.SLABreached = scoring.SLABreached(incident.SLATarget, incident.Status, now)
}

func stampIncidentEmbedded(incident *models.Incident, now time.Time) {
	for i := range incident.Updates {
		u := &incident.Updates[i]
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		if u.Timestamp.IsZero() {
			u.Timestamp = now
		}
	}
	for i := range incident.Actions {
		a := &incident.Actions[i]
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		if a.Status == "" {
			a.Status = "Pending"
		}
	}
	for i := range incident.Evidence {
		ev := &incident.Evidence[i]
		if ev.ID.IsZero() {
			ev.ID = primitive.NewObjectID()
		}
		if ev.UploadedAt.IsZero() {
			ev.UploadedAt = now
		}
		for j := range ev.ChainOfCustody {
			if ev.ChainOfCustody[j].Timestamp.IsZero() {
				ev.ChainOfCustody[j].Timestamp = now
			}
		}
	}
}
