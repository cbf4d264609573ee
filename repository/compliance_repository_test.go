package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/store"
)

func newComplianceRepo() (*repository.ComplianceRepository, *store.MemoryAuditStore) {
	auditStore := store.NewMemoryAuditStore()
	return repository.NewComplianceRepository(store.NewMemoryComplianceStore(), audit.NewEmitter(auditStore)), auditStore
}

func TestCreateComplianceUnderAssessment(t *testing.T) {
	repo, auditStore := newComplianceRepo()

	created, err := repo.Create(context.Background(), testActor, &models.Compliance{
		Name:     "GDPR",
		Type:     "Regulation",
		Category: "Data Protection",
		Requirements: []models.Requirement{
			{Title: "Records of processing"},
			{Title: "Breach notification", Status: "Under Review"},
		},
	})
	require.NoError(t, err)

	// No requirement has been evaluated yet: zero score but a distinct level.
	assert.Equal(t, 0, created.ComplianceScore)
	assert.Equal(t, "Under Assessment", created.ComplianceLevel)
	assert.Equal(t, "Active", created.Status)
	assert.Equal(t, "Annually", created.ReviewFrequency)
	for _, req := range created.Requirements {
		assert.False(t, req.ID.IsZero())
		assert.Equal(t, "Under Review", req.Status)
	}
	assert.Equal(t, "CREATE_COMPLIANCE", lastAudit(t, auditStore).Action)
}

func TestComplianceScoreRecomputedOnUpdate(t *testing.T) {
	repo, _ := newComplianceRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, &models.Compliance{
		Name:     "ISO 27001",
		Type:     "Standard",
		Category: "Information Security",
		Requirements: []models.Requirement{
			{Title: "A.5", Status: "Compliant"},
			{Title: "A.6", Status: "Compliant"},
			{Title: "A.7", Status: "Partially Compliant"},
			{Title: "A.8", Status: "Non-Compliant"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 63, created.ComplianceScore)
	assert.Equal(t, "Non-Compliant", created.ComplianceLevel)

	updated, err := repo.Update(ctx, testActor, created.ID, map[string]interface{}{
		"requirements": []interface{}{
			map[string]interface{}{"title": "A.5", "status": "Compliant"},
			map[string]interface{}{"title": "A.6", "status": "Compliant"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.ComplianceScore)
	assert.Equal(t, "Compliant", updated.ComplianceLevel)
}

func TestComplianceDerivedCounters(t *testing.T) {
	repo, _ := newComplianceRepo()

	created, err := repo.Create(context.Background(), testActor, &models.Compliance{
		Name:     "SOC 2",
		Type:     "Framework",
		Category: "Information Security",
		Gaps: []models.Gap{
			{Title: "No access reviews", Description: "x", Severity: "High"},
			{Title: "Logging gap", Description: "x", Severity: "Medium", Status: "In Progress"},
			{Title: "Fixed already", Description: "x", Severity: "Low", Status: "Closed"},
		},
		AuditFindings: []models.AuditFinding{
			{Title: "Shared root account", Description: "x", Severity: "Critical"},
			{Title: "Old critical finding", Description: "x", Severity: "Critical", Status: "Closed"},
			{Title: "Patching cadence", Description: "x", Severity: "High"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, created.OpenGapsCount)
	assert.Equal(t, 1, created.CriticalFindingsCount)
	for _, gap := range created.Gaps[:2] {
		assert.False(t, gap.ID.IsZero())
	}
}

func TestGetComplianceAuditsDetailView(t *testing.T) {
	repo, auditStore := newComplianceRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, &models.Compliance{
		Name:     "PCI DSS",
		Type:     "Standard",
		Category: "Financial",
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, testActor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "PCI DSS", got.Name)

	entry := lastAudit(t, auditStore)
	assert.Equal(t, "VIEW_COMPLIANCE_DETAIL", entry.Action)
	assert.Contains(t, entry.Details, "PCI DSS")
}

func TestDeleteComplianceAuditsOnce(t *testing.T) {
	repo, auditStore := newComplianceRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, &models.Compliance{
		Name:     "HIPAA",
		Type:     "Regulation",
		Category: "Data Protection",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, testActor, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, testActor, created.ID), store.ErrNotFound)
	assert.Equal(t, 1, countAudit(auditStore, "DELETE_COMPLIANCE"))
}
