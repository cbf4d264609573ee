package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Evidence struct {
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	URL         string     `bson:"url,omitempty" json:"url,omitempty"`
	UploadedBy  UserRef    `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	UploadedAt  time.Time  `bson:"uploadedAt,omitempty" json:"uploadedAt,omitempty"`
	ReviewedBy  UserRef    `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	Status      string     `bson:"status,omitempty" json:"status,omitempty"` // Pending, Approved, Rejected
}

type Requirement struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title" validate:"required"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Reference      string             `bson:"reference,omitempty" json:"reference,omitempty"` // regulatory reference number
	Category       string             `bson:"category,omitempty" json:"category,omitempty"`
	Priority       string             `bson:"priority,omitempty" json:"priority,omitempty" validate:"omitempty,priority"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty" validate:"omitempty,requirement_status"`
	Evidence       []Evidence         `bson:"evidence,omitempty" json:"evidence,omitempty"`
	Controls       []string           `bson:"controls,omitempty" json:"controls,omitempty"`
	LastReviewDate *time.Time         `bson:"lastReviewDate,omitempty" json:"lastReviewDate,omitempty"`
	NextReviewDate *time.Time         `bson:"nextReviewDate,omitempty" json:"nextReviewDate,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

type Gap struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title" validate:"required"`
	Description     string             `bson:"description" json:"description" validate:"required"`
	RequirementID   primitive.ObjectID `bson:"requirementId,omitempty" json:"requirementId,omitempty"`
	Severity        string             `bson:"severity" json:"severity" validate:"required,severity"`
	Impact          string             `bson:"impact,omitempty" json:"impact,omitempty"`
	RemediationPlan string             `bson:"remediationPlan,omitempty" json:"remediationPlan,omitempty"`
	AssignedTo      UserRef            `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	DueDate         *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Status          string             `bson:"status,omitempty" json:"status,omitempty" validate:"omitempty,gap_status"`
	Progress        int                `bson:"progress" json:"progress" validate:"min=0,max=100"` // 0-100
	Cost            float64            `bson:"cost,omitempty" json:"cost,omitempty"`
	CompletedDate   *time.Time         `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

type AuditFinding struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title" validate:"required"`
	Description     string             `bson:"description" json:"description" validate:"required"`
	Severity        string             `bson:"severity" json:"severity" validate:"required,severity"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	RequirementID   primitive.ObjectID `bson:"requirementId,omitempty" json:"requirementId,omitempty"`
	Evidence        []Evidence         `bson:"evidence,omitempty" json:"evidence,omitempty"`
	RemediationPlan string             `bson:"remediationPlan,omitempty" json:"remediationPlan,omitempty"`
	AssignedTo      UserRef            `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	DueDate         *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Status          string             `bson:"status,omitempty" json:"status,omitempty" validate:"omitempty,gap_status"`
	Progress        int                `bson:"progress" json:"progress" validate:"min=0,max=100"`
	CompletedDate   *time.Time         `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

type ComplianceDocument struct {
	Title      string    `bson:"title,omitempty" json:"title,omitempty"`
	URL        string    `bson:"url,omitempty" json:"url,omitempty"`
	Type       string    `bson:"type,omitempty" json:"type,omitempty"` // Policy, Procedure, Evidence, Report, Other
	UploadedBy UserRef   `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	UploadedAt time.Time `bson:"uploadedAt,omitempty" json:"uploadedAt,omitempty"`
}

type ComplianceCost struct {
	Annual   float64 `bson:"annual,omitempty" json:"annual,omitempty"`
	OneTime  float64 `bson:"oneTime,omitempty" json:"oneTime,omitempty"`
	Currency string  `bson:"currency,omitempty" json:"currency,omitempty"`
}

type Compliance struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Type        string             `bson:"type" json:"type" validate:"required,compliance_type"`
	Category    string             `bson:"category" json:"category" validate:"required,compliance_category"`

	Jurisdiction    string     `bson:"jurisdiction,omitempty" json:"jurisdiction,omitempty"` // e.g. "EU", "US", "Global"
	Authority       string     `bson:"authority,omitempty" json:"authority,omitempty"`       // e.g. "GDPR", "ISO", "NIST"
	Version         string     `bson:"version,omitempty" json:"version,omitempty"`
	EffectiveDate   *time.Time `bson:"effectiveDate,omitempty" json:"effectiveDate,omitempty"`
	ReviewFrequency string     `bson:"reviewFrequency,omitempty" json:"reviewFrequency,omitempty" validate:"omitempty,review_frequency"`

	Status string `bson:"status" json:"status" validate:"omitempty,compliance_status"`

	// Derived from requirements; recomputed on every save.
	ComplianceScore int    `bson:"complianceScore" json:"complianceScore"`
	ComplianceLevel string `bson:"complianceLevel" json:"complianceLevel"`

	Owner        UserRef       `bson:"owner" json:"owner"`
	Stakeholders []Stakeholder `bson:"stakeholders,omitempty" json:"stakeholders,omitempty"`

	Requirements  []Requirement  `bson:"requirements,omitempty" json:"requirements,omitempty" validate:"omitempty,dive"`
	Gaps          []Gap          `bson:"gaps,omitempty" json:"gaps,omitempty" validate:"omitempty,dive"`
	AuditFindings []AuditFinding `bson:"auditFindings,omitempty" json:"auditFindings,omitempty" validate:"omitempty,dive"`

	// Derived counters over the embedded arrays.
	OpenGapsCount         int `bson:"openGapsCount" json:"openGapsCount"`
	CriticalFindingsCount int `bson:"criticalFindingsCount" json:"criticalFindingsCount"`

	LastAssessmentDate *time.Time `bson:"lastAssessmentDate,omitempty" json:"lastAssessmentDate,omitempty"`
	NextAssessmentDate *time.Time `bson:"nextAssessmentDate,omitempty" json:"nextAssessmentDate,omitempty"`
	LastAuditDate      *time.Time `bson:"lastAuditDate,omitempty" json:"lastAuditDate,omitempty"`
	NextAuditDate      *time.Time `bson:"nextAuditDate,omitempty" json:"nextAuditDate,omitempty"`

	Documents      []ComplianceDocument `bson:"documents,omitempty" json:"documents,omitempty"`
	ComplianceCost *ComplianceCost      `bson:"complianceCost,omitempty" json:"complianceCost,omitempty"`

	RiskLevel string `bson:"riskLevel,omitempty" json:"riskLevel,omitempty"`
	RiskScore int    `bson:"riskScore,omitempty" json:"riskScore,omitempty"`

	LinkedRisks    []primitive.ObjectID `bson:"linkedRisks,omitempty" json:"linkedRisks,omitempty"`
	LinkedControls []string             `bson:"linkedControls,omitempty" json:"linkedControls,omitempty"`
	LinkedPolicies []primitive.ObjectID `bson:"linkedPolicies,omitempty" json:"linkedPolicies,omitempty"`

	Comments      []Comment     `bson:"comments,omitempty" json:"comments,omitempty"`
	ChangeHistory []ChangeEntry `bson:"changeHistory,omitempty" json:"changeHistory,omitempty"`

	Tags            []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Confidentiality string   `bson:"confidentiality,omitempty" json:"confidentiality,omitempty" validate:"omitempty,confidentiality"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
