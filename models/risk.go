package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RiskAssessment struct {
	Likelihood     string     `bson:"likelihood,omitempty" json:"likelihood,omitempty" validate:"omitempty,assessment_level"`
	Impact         string     `bson:"impact,omitempty" json:"impact,omitempty" validate:"omitempty,assessment_level"`
	Score          int        `bson:"score,omitempty" json:"score,omitempty"` // likelihood x impact, 1..25
	AssessedBy     UserRef    `bson:"assessedBy,omitempty" json:"assessedBy,omitempty"`
	AssessmentDate *time.Time `bson:"assessmentDate,omitempty" json:"assessmentDate,omitempty"`
	Rationale      string     `bson:"rationale,omitempty" json:"rationale,omitempty"`
	Evidence       string     `bson:"evidence,omitempty" json:"evidence,omitempty"`
}

type MitigationAction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Description   string             `bson:"description" json:"description" validate:"required"`
	AssignedTo    UserRef            `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	DueDate       *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty" validate:"omitempty,mitigation_status"`
	Progress      int                `bson:"progress" json:"progress" validate:"min=0,max=100"` // 0-100
	Cost          float64            `bson:"cost,omitempty" json:"cost,omitempty"`
	Effectiveness int                `bson:"effectiveness,omitempty" json:"effectiveness,omitempty" validate:"omitempty,min=1,max=5"` // 1-5
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CompletedDate *time.Time         `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
}

type FinancialImpact struct {
	Min      float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max      float64 `bson:"max,omitempty" json:"max,omitempty"`
	Currency string  `bson:"currency,omitempty" json:"currency,omitempty"`
}

type Risk struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Category    string             `bson:"category" json:"category" validate:"required,risk_category"`
	Subcategory string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`

	Owner        UserRef       `bson:"owner" json:"owner"`
	Stakeholders []Stakeholder `bson:"stakeholders,omitempty" json:"stakeholders,omitempty"`

	CurrentAssessment     *RiskAssessment  `bson:"currentAssessment,omitempty" json:"currentAssessment,omitempty"`
	HistoricalAssessments []RiskAssessment `bson:"historicalAssessments,omitempty" json:"historicalAssessments,omitempty"`
	ResidualRisk          *RiskAssessment  `bson:"residualRisk,omitempty" json:"residualRisk,omitempty"`

	Status   string `bson:"status" json:"status" validate:"omitempty,risk_status"`
	Priority string `bson:"priority" json:"priority" validate:"omitempty,priority"`

	// Derived from the current assessment; recomputed on every save.
	RiskScore int    `bson:"riskScore,omitempty" json:"riskScore,omitempty"`
	RiskLevel string `bson:"riskLevel,omitempty" json:"riskLevel,omitempty"`

	MitigationActions []MitigationAction `bson:"mitigationActions,omitempty" json:"mitigationActions,omitempty" validate:"omitempty,dive"`
	RiskAppetite      string             `bson:"riskAppetite,omitempty" json:"riskAppetite,omitempty" validate:"omitempty,risk_appetite"`

	BusinessUnit     string   `bson:"businessUnit,omitempty" json:"businessUnit,omitempty"`
	Project          string   `bson:"project,omitempty" json:"project,omitempty"`
	Location         string   `bson:"location,omitempty" json:"location,omitempty"`
	RegulatoryImpact []string `bson:"regulatoryImpact,omitempty" json:"regulatoryImpact,omitempty"`

	FinancialImpact *FinancialImpact `bson:"financialImpact,omitempty" json:"financialImpact,omitempty"`

	IdentifiedDate       *time.Time `bson:"identifiedDate,omitempty" json:"identifiedDate,omitempty"`
	TargetResolutionDate *time.Time `bson:"targetResolutionDate,omitempty" json:"targetResolutionDate,omitempty"`
	NextReviewDate       *time.Time `bson:"nextReviewDate,omitempty" json:"nextReviewDate,omitempty"`

	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Comments    []Comment    `bson:"comments,omitempty" json:"comments,omitempty"`

	ChangeHistory []ChangeEntry `bson:"changeHistory,omitempty" json:"changeHistory,omitempty"`

	Tags            []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Confidentiality string   `bson:"confidentiality,omitempty" json:"confidentiality,omitempty" validate:"omitempty,confidentiality"`

	LinkedRisks     []primitive.ObjectID `bson:"linkedRisks,omitempty" json:"linkedRisks,omitempty"`
	LinkedControls  []string             `bson:"linkedControls,omitempty" json:"linkedControls,omitempty"`
	LinkedIncidents []string             `bson:"linkedIncidents,omitempty" json:"linkedIncidents,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
