// Package scoring computes the derived fields of GRC records: risk scores and
// levels from the 5x5 likelihood/impact matrix, compliance scores from
// requirement statuses, SLA breach flags, and incident numbers. All functions
// are pure; repositories call them before persisting.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/funsideofwine/guardian-grc/models"
)

var levelScores = map[string]int{
	"Very Low":  1,
	"Low":       2,
	"Medium":    3,
	"High":      4,
	"Very High": 5,
}

// LikelihoodScore maps an assessment level to 1..5. Unknown or missing values
// fall back to Medium (3); the fallback is intentional, not an error.
func LikelihoodScore(level string) int {
	if s, ok := levelScores[level]; ok {
		return s
	}
	return 3
}

// ImpactScore maps an impact level to 1..5 with the same Medium fallback.
func ImpactScore(level string) int {
	return LikelihoodScore(level)
}

// RiskScore is likelihood x impact, always within [1,25].
func RiskScore(likelihood, impact string) int {
	return LikelihoodScore(likelihood) * ImpactScore(impact)
}

// RiskLevel bands a score: <=4 Low, <=8 Medium, <=15 High, else Critical.
func RiskLevel(score int) string {
	switch {
	case score <= 4:
		return "Low"
	case score <= 8:
		return "Medium"
	case score <= 15:
		return "High"
	default:
		return "Critical"
	}
}

// ComplianceScore is round((compliant + 0.5*partial) / total * 100), or 0 when
// there are no requirements.
func ComplianceScore(requirements []models.Requirement) int {
	if len(requirements) == 0 {
		return 0
	}
	var compliant, partial int
	for _, req := range requirements {
		switch req.Status {
		case "Compliant":
			compliant++
		case "Partially Compliant":
			partial++
		}
	}
	score := (float64(compliant) + 0.5*float64(partial)) / float64(len(requirements)) * 100
	return int(math.Round(score))
}

// Assessed reports whether any requirement has been evaluated, i.e. moved past
// "Under Review". A framework with no evaluated requirements stays
// "Under Assessment" regardless of its zero score.
func Assessed(requirements []models.Requirement) bool {
	for _, req := range requirements {
		if req.Status != "" && req.Status != "Under Review" {
			return true
		}
	}
	return false
}

// ComplianceLevel bands a compliance score: >=90 Compliant, >=70 Partially
// Compliant, else Non-Compliant. Unassessed frameworks are "Under Assessment".
func ComplianceLevel(score int, assessed bool) string {
	if !assessed {
		return "Under Assessment"
	}
	switch {
	case score >= 90:
		return "Compliant"
	case score >= 70:
		return "Partially Compliant"
	default:
		return "Non-Compliant"
	}
}

// SLABreached is true iff a target exists, now is past it, and the incident is
// neither Resolved nor Closed.
func SLABreached(slaTarget *time.Time, status string, now time.Time) bool {
	if slaTarget == nil {
		return false
	}
	if status == "Resolved" || status == "Closed" {
		return false
	}
	return now.After(*slaTarget)
}

// SLAStatus summarizes an incident's SLA position for dashboards.
func SLAStatus(slaTarget, resolvedAt *time.Time, now time.Time) string {
	if slaTarget == nil {
		return "No SLA"
	}
	if resolvedAt != nil && !resolvedAt.After(*slaTarget) {
		return "Met"
	}
	if now.After(*slaTarget) {
		return "Breached"
	}
	return "In Progress"
}

// IncidentNumber formats the yearly sequence as INC-{year}-{0001}.
func IncidentNumber(year, seq int) string {
	return fmt.Sprintf("INC-%d-%04d", year, seq)
}

// IncidentDuration is the whole number of days from detection to resolution,
// closure, or now, whichever comes first.
func IncidentDuration(detectedAt time.Time, resolvedAt, closedAt *time.Time, now time.Time) int {
	end := now
	if resolvedAt != nil {
		end = *resolvedAt
	} else if closedAt != nil {
		end = *closedAt
	}
	return int(end.Sub(detectedAt).Hours() / 24)
}

// OpenActions counts incident actions not yet completed.
func OpenActions(actions []models.IncidentAction) int {
	n := 0
	for _, a := range actions {
		if a.Status != "Completed" {
			n++
		}
	}
	return n
}

// CriticalOpenActions counts critical-priority actions not yet completed.
func CriticalOpenActions(actions []models.IncidentAction) int {
	n := 0
	for _, a := range actions {
		if a.Priority == "Critical" && a.Status != "Completed" {
			n++
		}
	}
	return n
}

// OpenGaps counts compliance gaps that are not closed.
func OpenGaps(gaps []models.Gap) int {
	n := 0
	for _, g := range gaps {
		if g.Status != "Closed" {
			n++
		}
	}
	return n
}

// CriticalOpenFindings counts critical audit findings that are not closed.
func CriticalOpenFindings(findings []models.AuditFinding) int {
	n := 0
	for _, f := range findings {
		if f.Severity == "Critical" && f.Status != "Closed" {
			n++
		}
	}
	return n
}
