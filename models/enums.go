package models

// Enum vocabularies shared by validation and the HTTP layer. Values are stored
// verbatim; invalid values are rejected at the validation boundary, never coerced.

// Likelihood / impact levels, also the 1..5 axis of the risk matrix.
var AssessmentLevels = []string{"Very Low", "Low", "Medium", "High", "Very High"}

var Priorities = []string{"Low", "Medium", "High", "Critical"}

var Severities = []string{"Low", "Medium", "High", "Critical"}

var Confidentialities = []string{"Public", "Internal", "Confidential", "Restricted"}

var RiskStatuses = []string{"Identified", "Assessed", "Mitigated", "Monitored", "Closed", "Escalated"}

var RiskCategories = []string{
	"Strategic", "Operational", "Financial", "Compliance", "Technology",
	"Cybersecurity", "Legal", "Reputational", "Environmental", "Health & Safety",
	"Supply Chain", "Market", "Credit", "Liquidity", "Other",
}

var RiskAppetites = []string{"Accept", "Transfer", "Mitigate", "Avoid"}

var MitigationStatuses = []string{"Not Started", "In Progress", "Completed", "Overdue"}

var ComplianceTypes = []string{"Regulation", "Standard", "Framework", "Policy"}

var ComplianceCategories = []string{
	"Data Protection", "Cybersecurity", "Financial", "Environmental",
	"Health & Safety", "Quality Management", "Information Security",
	"Business Continuity", "Risk Management", "Other",
}

var ComplianceStatuses = []string{"Active", "Inactive", "Superseded", "Under Review"}

var ComplianceLevels = []string{"Compliant", "Non-Compliant", "Partially Compliant", "Under Assessment"}

var RequirementStatuses = []string{"Compliant", "Non-Compliant", "Partially Compliant", "Under Review"}

var GapStatuses = []string{"Open", "In Progress", "Resolved", "Closed"}

var ReviewFrequencies = []string{"Monthly", "Quarterly", "Annually", "Biennially"}

var IncidentCategories = []string{
	"Security Incident", "Data Breach", "System Outage", "Compliance Violation",
	"Physical Security", "Human Error", "Malware", "Phishing", "Unauthorized Access",
	"Data Loss", "Network Attack", "Application Failure", "Infrastructure Issue",
	"Third Party Incident", "Natural Disaster", "Other",
}

var IncidentStatuses = []string{"Open", "Investigating", "Contained", "Resolved", "Closed", "Escalated"}

var IncidentStages = []string{"Detection", "Analysis", "Containment", "Eradication", "Recovery", "Lessons Learned"}

var IncidentActionStatuses = []string{"Pending", "In Progress", "Completed", "Overdue"}

var IncidentUpdateTypes = []string{"Status Change", "Investigation", "Resolution", "Escalation", "Communication"}

var EvidenceTypes = []string{"Document", "Screenshot", "Log File", "Video", "Audio", "Physical", "Other"}

var PolicyStates = []string{"Draft", "Review", "Approved", "Rejected"}

// ValidEnum reports whether value is one of allowed. Empty values are treated
// as "not provided" and pass; required-ness is a separate check.
func ValidEnum(value string, allowed []string) bool {
	if value == "" {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
