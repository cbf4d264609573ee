// Package store is the persistence boundary. Interfaces here are dumb CRUD
// over the record collections; all derived-field computation happens in the
// repositories before a document reaches a store.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
)

// ErrNotFound is returned when an id does not resolve to a document.
var ErrNotFound = errors.New("not found")

// Search fields per record kind, combined with tags by query.Params.Filter.
var (
	RiskSearchFields       = []string{"title", "description"}
	ComplianceSearchFields = []string{"name", "description", "authority"}
	IncidentSearchFields   = []string{"incidentNumber", "title", "description"}
	PolicySearchFields     = []string{"name", "description"}
)

type RiskStore interface {
	List(ctx context.Context, p query.Params) ([]models.Risk, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Risk, error)
	Insert(ctx context.Context, r *models.Risk) error
	Replace(ctx context.Context, r *models.Risk) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ComplianceStore interface {
	List(ctx context.Context, p query.Params) ([]models.Compliance, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Compliance, error)
	Insert(ctx context.Context, c *models.Compliance) error
	Replace(ctx context.Context, c *models.Compliance) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type IncidentStore interface {
	List(ctx context.Context, p query.Params) ([]models.Incident, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Incident, error)
	Insert(ctx context.Context, i *models.Incident) error
	Replace(ctx context.Context, i *models.Incident) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PolicyStore interface {
	List(ctx context.Context, p query.Params) ([]models.Policy, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Policy, error)
	Insert(ctx context.Context, pol *models.Policy) error
	Replace(ctx context.Context, pol *models.Policy) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditLogEntry) error
	List(ctx context.Context, p query.Params) ([]models.AuditLogEntry, int64, error)
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
}

// IncidentCounter hands out the per-year incident sequence. Next must be
// atomic against concurrent creates in the same year.
type IncidentCounter interface {
	Next(ctx context.Context, year int) (int, error)
}
