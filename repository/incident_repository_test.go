package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funsideofwine/guardian-grc/audit"
	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/repository"
	"github.com/funsideofwine/guardian-grc/store"
)

func newIncidentRepo() (*repository.IncidentRepository, *store.MemoryAuditStore) {
	auditStore := store.NewMemoryAuditStore()
	return repository.NewIncidentRepository(
		store.NewMemoryIncidentStore(),
		store.NewMemoryIncidentCounter(),
		audit.NewEmitter(auditStore),
	), auditStore
}

func minimalIncident(title string) *models.Incident {
	return &models.Incident{
		Title:       title,
		Description: "filler",
		Category:    "Security Incident",
		Severity:    "High",
	}
}

func TestCreateIncidentAssignsSequentialNumbers(t *testing.T) {
	repo, auditStore := newIncidentRepo()
	ctx := context.Background()
	year := time.Now().UTC().Year()

	for i := 1; i <= 3; i++ {
		created, err := repo.Create(ctx, testActor, minimalIncident(fmt.Sprintf("Incident %d", i)))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INC-%d-%04d", year, i), created.IncidentNumber)
	}
	assert.Equal(t, 3, countAudit(auditStore, "CREATE_INCIDENT"))
}

func TestCreateIncidentDefaults(t *testing.T) {
	repo, _ := newIncidentRepo()

	created, err := repo.Create(context.Background(), testActor, minimalIncident("Phishing report"))
	require.NoError(t, err)

	assert.Equal(t, "Open", created.Status)
	assert.Equal(t, "Detection", created.Stage)
	assert.Equal(t, "Medium", created.Priority)
	assert.Equal(t, testActor.UserID, created.Reporter.UserID)
	assert.Equal(t, testActor.UserID, created.Owner.UserID)
	assert.False(t, created.DetectedAt.IsZero())
	assert.False(t, created.ReportedAt.IsZero())
}

func TestIncidentNumberSurvivesUpdate(t *testing.T) {
	repo, _ := newIncidentRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, minimalIncident("Laptop theft"))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, testActor, created.ID, map[string]interface{}{
		"incidentNumber": "INC-1999-9999",
		"title":          "Laptop theft, updated",
	})
	require.NoError(t, err)
	assert.Equal(t, created.IncidentNumber, updated.IncidentNumber)
	assert.Equal(t, "Laptop theft, updated", updated.Title)
}

func TestSLABreachRecomputedOnSave(t *testing.T) {
	repo, _ := newIncidentRepo()
	ctx := context.Background()

	past := time.Now().UTC().Add(-2 * time.Hour)
	incident := minimalIncident("DB outage")
	incident.SLATarget = &past

	created, err := repo.Create(ctx, testActor, incident)
	require.NoError(t, err)
	assert.True(t, created.SLABreached)

	// Resolving clears the breach flag even though the target is in the past.
	updated, err := repo.Update(ctx, testActor, created.ID, map[string]interface{}{
		"status": "Resolved",
	})
	require.NoError(t, err)
	assert.False(t, updated.SLABreached)
}

func TestIncidentEmbeddedEntriesStamped(t *testing.T) {
	repo, _ := newIncidentRepo()

	incident := minimalIncident("Malware on workstation")
	incident.Updates = []models.IncidentUpdate{{Update: "AV quarantined the binary", Type: "Investigation"}}
	incident.Actions = []models.IncidentAction{{Action: "Reimage host"}}
	incident.Evidence = []models.IncidentEvidence{{Title: "AV log export", Type: "Log File"}}

	created, err := repo.Create(context.Background(), testActor, incident)
	require.NoError(t, err)

	require.Len(t, created.Updates, 1)
	assert.False(t, created.Updates[0].ID.IsZero())
	assert.False(t, created.Updates[0].Timestamp.IsZero())
	require.Len(t, created.Actions, 1)
	assert.Equal(t, "Pending", created.Actions[0].Status)
	require.Len(t, created.Evidence, 1)
	assert.False(t, created.Evidence[0].UploadedAt.IsZero())
}

func TestCreateIncidentRejectsBadVocabulary(t *testing.T) {
	repo, auditStore := newIncidentRepo()

	incident := minimalIncident("Bad input")
	incident.Category = "Alien Invasion"
	incident.Severity = "Catastrophic"

	_, err := repo.Create(context.Background(), testActor, incident)
	require.Error(t, err)
	assert.Empty(t, auditStore.Entries())
}

func TestGetIncidentAuditsView(t *testing.T) {
	repo, auditStore := newIncidentRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, testActor, minimalIncident("Tailgating report"))
	require.NoError(t, err)

	got, err := repo.Get(ctx, testActor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.IncidentNumber, got.IncidentNumber)

	entry := lastAudit(t, auditStore)
	assert.Equal(t, "VIEW_INCIDENT", entry.Action)
	assert.Contains(t, entry.Details, created.IncidentNumber)
}
