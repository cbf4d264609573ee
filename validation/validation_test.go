package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/validation"
)

func TestStructPassesValidRisk(t *testing.T) {
	err := validation.Struct(&models.Risk{
		Title:       "Vendor lock-in",
		Description: "Single cloud provider for all workloads",
		Category:    "Strategic",
		Status:      "Identified",
	})
	assert.NoError(t, err)
}

func TestStructCollectsEveryViolation(t *testing.T) {
	err := validation.Struct(&models.Risk{
		Category: "Not A Category",
		Status:   "Bogus",
		Priority: "Extreme",
	})
	require.Error(t, err)

	verr, ok := err.(*validation.ValidationError)
	require.True(t, ok)

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "priority")
	assert.Equal(t, "is required", fields["title"])
	assert.Contains(t, fields["status"], "must be one of")
}

func TestStructReportsNestedJSONPaths(t *testing.T) {
	err := validation.Struct(&models.Risk{
		Title:       "t",
		Description: "d",
		Category:    "Operational",
		CurrentAssessment: &models.RiskAssessment{
			Likelihood: "Certain",
		},
		MitigationActions: []models.MitigationAction{
			{Description: "patch it", Progress: 150},
		},
	})
	require.Error(t, err)

	verr := err.(*validation.ValidationError)
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["currentAssessment.likelihood"])
	assert.True(t, fields["mitigationActions[0].progress"])
}

func TestStructEmptyEnumIsNotAViolation(t *testing.T) {
	// Optional enum fields left empty pass; required-ness is separate.
	err := validation.Struct(&models.Policy{Name: "Data Retention"})
	assert.NoError(t, err)
}

func TestStructRejectsBadIncidentVocabulary(t *testing.T) {
	err := validation.Struct(&models.Incident{
		Title:       "t",
		Description: "d",
		Category:    "Alien Invasion",
		Severity:    "Catastrophic",
		Stage:       "Panic",
	})
	require.Error(t, err)

	verr := err.(*validation.ValidationError)
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["category"])
	assert.True(t, fields["severity"])
	assert.True(t, fields["stage"])
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &validation.ValidationError{}
	verr.Add("title", "is required")
	verr.Add("status", "must be one of: Open, Closed")
	assert.Equal(t, "validation failed: title is required; status must be one of: Open, Closed", verr.Error())
}

func TestOrNil(t *testing.T) {
	var verr *validation.ValidationError
	assert.NoError(t, verr.OrNil())

	verr = &validation.ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("x", "is required")
	assert.Error(t, verr.OrNil())
}
