// Package validation checks records against their required-field sets and enum
// vocabularies before anything is persisted. Every violation is collected so a
// caller can report all problems at once.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/funsideofwine/guardian-grc/models"
)

// FieldError is one violated constraint on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every violated field of a record.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no violations were recorded, so callers can write
// `return validation.Struct(v).OrNil()` style checks.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Enum vocabulary tags registered with the validator. Tag -> allowed values.
var vocabularies = map[string][]string{
	"assessment_level":     models.AssessmentLevels,
	"priority":             models.Priorities,
	"severity":             models.Severities,
	"confidentiality":      models.Confidentialities,
	"risk_status":          models.RiskStatuses,
	"risk_category":        models.RiskCategories,
	"risk_appetite":        models.RiskAppetites,
	"mitigation_status":    models.MitigationStatuses,
	"compliance_type":      models.ComplianceTypes,
	"compliance_category":  models.ComplianceCategories,
	"compliance_status":    models.ComplianceStatuses,
	"requirement_status":   models.RequirementStatuses,
	"gap_status":           models.GapStatuses,
	"review_frequency":     models.ReviewFrequencies,
	"incident_category":    models.IncidentCategories,
	"incident_status":      models.IncidentStatuses,
	"incident_stage":       models.IncidentStages,
	"incident_action_stat": models.IncidentActionStatuses,
	"incident_update_type": models.IncidentUpdateTypes,
	"evidence_type":        models.EvidenceTypes,
	"policy_state":         models.PolicyStates,
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their json names so violations line up with payloads.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	for tag, allowed := range vocabularies {
		allowed := allowed
		_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return models.ValidEnum(fl.Field().String(), allowed)
		})
	}
}

// Struct validates any tagged struct and returns a *ValidationError listing
// every violated field, or nil.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: programming error, not caller input
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath strips the root struct name from the namespace, leaving the json
// path of the offending field ("currentAssessment.likelihood").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	if allowed, ok := vocabularies[fe.Tag()]; ok {
		return fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
