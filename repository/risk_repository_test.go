package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/query"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/store"
	"github.com/funsideofwine/guardian-grc/validation"
)

var testActor = audit.Actor{UserID: "u1", UserEmail: "analyst@example.com"}

func newRiskRepo() (*repository.RiskRepository, *store.MemoryAuditStore) {
	auditStore := store.NewMemoryAuditStore()
	return repository.NewRiskRepository(store.NewMemoryRiskStore(), audit.NewEmitter(auditStore)), auditStore
}

func lastAudit(t *testing.T, s *store.MemoryAuditStore) models.AuditLogEntry {
	t.Helper()
	entries := s.Entries()
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}

func countAudit(s *store.MemoryAuditStore, action string) int {
	n := 0
	for _, e := range s.Entries() {
		if e.Action == action {
			n++
		}
	}
	return n
}

func TestCreateRiskDerivesScoreAndDefaults(t *testing.T) {
	repo, auditStore := newRiskRepo()

	created, err := repo.Create(context.Background(), testActor, &models.Risk{
		Title:       "Unpatched VPN gateway",
		Description: "Edge appliance two releases behind",
		Category:    "Cybersecurity",
		CurrentAssessment: &models.RiskAssessment{
			Likelihood: "High",
			Impact:     "High",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 16, created.RiskScore)
	assert.Equal(t, "Critical", created.RiskLevel)
	assert.Equal(t, 16, created.CurrentAssessment.Score)
	assert.Equal(t, "Identified", created.Status)
	assert.Equal(t, "Medium", created.Priority)
	assert.Equal(t, "Internal", created.Confidentiality)
	assert.Equal(t, testActor.UserID, created.Owner.UserID)
	assert.False(t, created.ID.IsZero())
	assert.NotNil(t, created.IdentifiedDate)
	require.Len(t, created.ChangeHistory, 1)
	assert.Equal(t, "created", created.ChangeHistory[0].Action)

	entry := lastAudit(t, auditStore)
	assert.Equal(t, "CREATE_RISK", entry.Action)
	assert.Contains(t, entry.Details, "Unpatched VPN gateway")
}

func TestCreateRiskWithoutAssessmentHasNoScore(t *testing.T) {
	repo, _ := newRiskRepo()

	created, err := repo.Create(context.Background(), testActor, &models.Risk{
		Title:       "Vendor concentration",
		Description: "Single supplier for core component",
		Category:    "Supply Chain",
	})
	require.NoError(t, err)
	assert.Zero(t, created.RiskScore)
	assert.Empty(t, created.RiskLevel)
}

func TestCreateRiskCollectsAllViolations(t *testing.T) {
	repo, auditStore := newRiskRepo()

	_, err := repo.Create(context.Background(), testActor, &models.Risk{
		Description: "no title",
		Category:    "Not A Category",
		Status:      "Bogus",
	})
	require.Error(t, err)

	verr, ok := err.(*validation.ValidationError)
	require.True(t, ok, "expected a validation error, got %T", err)
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["category"])
	assert.True(t, fields["status"])

	// Nothing persisted, nothing audited.
	assert.Empty(t, auditStore.Entries())
}

func TestGetRiskRoundTrip(t *testing.T) {
	repo, auditStore := newRiskRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, &models.Risk{
		Title:       "Key person dependency",
		Description: "One engineer holds all deploy keys",
		Category:    "Operational",
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, testActor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "VIEW_RISK", lastAudit(t, auditStore).Action)
}

func TestGetRiskNotFound(t *testing.T) {
	repo, auditStore := newRiskRepo()

	_, err := repo.Get(context.Background(), testActor, primitive.NewObjectID())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, auditStore.Entries())
}

func TestUpdateRiskRecomputesDerivedFields(t *testing.T) {
	repo, auditStore := newRiskRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, &models.Risk{
		Title:       "Legacy auth service",
		Description: "MD5 password hashes in the oldest tenant DB",
		Category:    "Technology",
		CurrentAssessment: &models.RiskAssessment{
			Likelihood: "Medium",
			Impact:     "Medium",
		},
	})
	require.NoError(t, err)
	require.Equal(t, 9, created.RiskScore)
	require.Equal(t, "High", created.RiskLevel)

	updated, err := repo.Update(ctx, testActor, created.ID, map[string]interface{}{
		"currentAssessment": map[string]interface{}{
			"likelihood": "Very High",
			"impact":     "Very High",
		},
		"createdAt": "2000-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, 25, updated.RiskScore)
	assert.Equal(t, "Critical", updated.RiskLevel)
	// Protected field survives the patch untouched.
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt) || updated.UpdatedAt.Equal(created.CreatedAt))
	require.Len(t, updated.ChangeHistory, 2)
	assert.Equal(t, "updated", updated.ChangeHistory[1].Action)
	assert.Equal(t, "UPDATE_RISK", lastAudit(t, auditStore).Action)
}

func TestUpdateRiskRejectsInvalidValues(t *testing.T) {
	repo, _ := newRiskRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, &models.Risk{
		Title:       "Untested failover",
		Description: "DR site never exercised",
		Category:    "Operational",
	})
	require.NoError(t, err)

	_, err = repo.Update(ctx, testActor, created.ID, map[string]interface{}{
		"status": "Bogus",
	})
	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)

	// The stored document is unchanged after the rejected patch.
	got, err := repo.Get(ctx, testActor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Identified", got.Status)
}

func TestUpdateRiskNotFoundFailsFast(t *testing.T) {
	repo, auditStore := newRiskRepo()

	_, err := repo.Update(context.Background(), testActor, primitive.NewObjectID(), map[string]interface{}{
		"title": "x",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, auditStore.Entries())
}

func TestDeleteRiskIsNotIdempotentButAuditsOnce(t *testing.T) {
	repo, auditStore := newRiskRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, &models.Risk{
		Title:       "Stale firewall rules",
		Description: "Allow-any rules from a 2019 migration",
		Category:    "Cybersecurity",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, testActor, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, testActor, created.ID), store.ErrNotFound)
	assert.Equal(t, 1, countAudit(auditStore, "DELETE_RISK"))
}

func TestListRisksPagination(t *testing.T) {
	repo, auditStore := newRiskRepo()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := repo.Create(ctx, testActor, &models.Risk{
			Title:       fmt.Sprintf("Risk %02d", i),
			Description: "filler",
			Category:    "Operational",
		})
		require.NoError(t, err)
	}

	page1, pg, err := repo.List(ctx, testActor, query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page1, 10)
	assert.Equal(t, int64(25), pg.Total)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNextPage)
	assert.False(t, pg.HasPrevPage)

	page3, pg, err := repo.List(ctx, testActor, query.Params{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page3, 5)
	assert.False(t, pg.HasNextPage)
	assert.True(t, pg.HasPrevPage)

	assert.Equal(t, 2, countAudit(auditStore, "VIEW_RISKS"))
}

func TestListRisksFilterAndSearchCompose(t *testing.T) {
	repo, _ := newRiskRepo()
	ctx := context.Background()

	seed := []struct {
		title  string
		status string
	}{
		{"Data breach response gap", "Identified"},
		{"Data breach tabletop overdue", "Closed"},
		{"Server room cooling", "Identified"},
	}
	for _, s := range seed {
		_, err := repo.Create(ctx, testActor, &models.Risk{
			Title:       s.title,
			Description: "filler",
			Category:    "Operational",
			Status:      s.status,
		})
		require.NoError(t, err)
	}

	risks, pg, err := repo.List(ctx, testActor, query.Params{
		Status: "Identified",
		Search: "breach",
		Page:   1,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "Data breach response gap", risks[0].Title)
	assert.Equal(t, int64(1), pg.Total)
}
