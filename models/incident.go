package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentUpdate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Update      string             `bson:"update" json:"update" validate:"required"`
	UserID      string             `bson:"userId" json:"userId"`
	UserEmail   string             `bson:"userEmail" json:"userEmail"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	Type        string             `bson:"type,omitempty" json:"type,omitempty" validate:"omitempty,incident_update_type"` // Status Change, Investigation, ...
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
}

type IncidentAction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action        string             `bson:"action" json:"action" validate:"required"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	AssignedTo    UserRef            `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	DueDate       *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CompletedDate *time.Time         `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty" validate:"omitempty,incident_action_stat"`
	Priority      string             `bson:"priority,omitempty" json:"priority,omitempty" validate:"omitempty,priority"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Attachments   []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
}

// CustodyEntry is one link in an evidence item's chain of custody.
type CustodyEntry struct {
	UserID    string    `bson:"userId,omitempty" json:"userId,omitempty"`
	UserEmail string    `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	Action    string    `bson:"action,omitempty" json:"action,omitempty"` // e.g. "Received", "Transferred", "Analyzed"
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

type IncidentEvidence struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title" validate:"required"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Type           string             `bson:"type" json:"type" validate:"required,evidence_type"`
	URL            string             `bson:"url,omitempty" json:"url,omitempty"`
	UploadedBy     UserRef            `bson:"uploadedBy" json:"uploadedBy"`
	UploadedAt     time.Time          `bson:"uploadedAt" json:"uploadedAt"`
	ChainOfCustody []CustodyEntry     `bson:"chainOfCustody,omitempty" json:"chainOfCustody,omitempty"`
	Tags           []string           `bson:"tags,omitempty" json:"tags,omitempty"`
}

type IncidentImpact struct {
	Business     string `bson:"business,omitempty" json:"business,omitempty"`
	Financial    string `bson:"financial,omitempty" json:"financial,omitempty"`
	Operational  string `bson:"operational,omitempty" json:"operational,omitempty"`
	Reputational string `bson:"reputational,omitempty" json:"reputational,omitempty"`
	Regulatory   string `bson:"regulatory,omitempty" json:"regulatory,omitempty"`
}

type CommunicationEntry struct {
	Audience   string    `bson:"audience,omitempty" json:"audience,omitempty"`
	Message    string    `bson:"message,omitempty" json:"message,omitempty"`
	SentAt     time.Time `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	SentBy     UserRef   `bson:"sentBy,omitempty" json:"sentBy,omitempty"`
	ApprovedBy UserRef   `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
}

type RegulatoryReporting struct {
	Required     bool       `bson:"required" json:"required"`
	Reported     bool       `bson:"reported" json:"reported"`
	ReportDate   *time.Time `bson:"reportDate,omitempty" json:"reportDate,omitempty"`
	Authority    string     `bson:"authority,omitempty" json:"authority,omitempty"`
	ReportNumber string     `bson:"reportNumber,omitempty" json:"reportNumber,omitempty"`
	Deadline     *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
}

type LegalInvolvement struct {
	Required      bool    `bson:"required" json:"required"`
	LawFirm       string  `bson:"lawFirm,omitempty" json:"lawFirm,omitempty"`
	CaseNumber    string  `bson:"caseNumber,omitempty" json:"caseNumber,omitempty"`
	EstimatedCost float64 `bson:"estimatedCost,omitempty" json:"estimatedCost,omitempty"`
}

type Incident struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Assigned once at creation from the yearly sequence, never reassigned.
	IncidentNumber string `bson:"incidentNumber,omitempty" json:"incidentNumber,omitempty"`

	Title       string `bson:"title" json:"title" validate:"required"`
	Description string `bson:"description" json:"description" validate:"required"`
	Summary     string `bson:"summary,omitempty" json:"summary,omitempty"`

	Category    string `bson:"category" json:"category" validate:"required,incident_category"`
	Subcategory string `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Severity    string `bson:"severity" json:"severity" validate:"required,severity"`
	Priority    string `bson:"priority" json:"priority" validate:"omitempty,priority"`

	Status string `bson:"status" json:"status" validate:"omitempty,incident_status"`
	Stage  string `bson:"stage" json:"stage" validate:"omitempty,incident_stage"`

	DetectedAt  time.Time  `bson:"detectedAt" json:"detectedAt"`
	ReportedAt  time.Time  `bson:"reportedAt" json:"reportedAt"`
	ContainedAt *time.Time `bson:"containedAt,omitempty" json:"containedAt,omitempty"`
	ResolvedAt  *time.Time `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	ClosedAt    *time.Time `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	SLATarget   *time.Time `bson:"slaTarget,omitempty" json:"slaTarget,omitempty"`
	SLABreached bool       `bson:"slaBreached" json:"slaBreached"`

	Impact          *IncidentImpact `bson:"impact,omitempty" json:"impact,omitempty"`
	AffectedSystems []string        `bson:"affectedSystems,omitempty" json:"affectedSystems,omitempty"`
	AffectedUsers   int             `bson:"affectedUsers,omitempty" json:"affectedUsers,omitempty"`
	AffectedData    string          `bson:"affectedData,omitempty" json:"affectedData,omitempty"`
	EstimatedCost   float64         `bson:"estimatedCost,omitempty" json:"estimatedCost,omitempty"`
	ActualCost      float64         `bson:"actualCost,omitempty" json:"actualCost,omitempty"`

	Reporter     UserRef       `bson:"reporter" json:"reporter"`
	Owner        UserRef       `bson:"owner" json:"owner"`
	Assignee     UserRef       `bson:"assignee,omitempty" json:"assignee,omitempty"`
	Stakeholders []Stakeholder `bson:"stakeholders,omitempty" json:"stakeholders,omitempty"`

	Updates  []IncidentUpdate   `bson:"updates,omitempty" json:"updates,omitempty" validate:"omitempty,dive"`
	Actions  []IncidentAction   `bson:"actions,omitempty" json:"actions,omitempty" validate:"omitempty,dive"`
	Evidence []IncidentEvidence `bson:"evidence,omitempty" json:"evidence,omitempty" validate:"omitempty,dive"`

	RootCause           string   `bson:"rootCause,omitempty" json:"rootCause,omitempty"`
	ContributingFactors []string `bson:"contributingFactors,omitempty" json:"contributingFactors,omitempty"`
	LessonsLearned      string   `bson:"lessonsLearned,omitempty" json:"lessonsLearned,omitempty"`

	InternalCommunications []CommunicationEntry `bson:"internalCommunications,omitempty" json:"internalCommunications,omitempty"`
	ExternalCommunications []CommunicationEntry `bson:"externalCommunications,omitempty" json:"externalCommunications,omitempty"`

	RegulatoryReporting *RegulatoryReporting `bson:"regulatoryReporting,omitempty" json:"regulatoryReporting,omitempty"`
	LegalInvolvement    *LegalInvolvement    `bson:"legalInvolvement,omitempty" json:"legalInvolvement,omitempty"`

	LinkedIncidents  []primitive.ObjectID `bson:"linkedIncidents,omitempty" json:"linkedIncidents,omitempty"`
	LinkedRisks      []primitive.ObjectID `bson:"linkedRisks,omitempty" json:"linkedRisks,omitempty"`
	LinkedCompliance []primitive.ObjectID `bson:"linkedCompliance,omitempty" json:"linkedCompliance,omitempty"`
	LinkedPolicies   []primitive.ObjectID `bson:"linkedPolicies,omitempty" json:"linkedPolicies,omitempty"`

	Tags            []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Confidentiality string   `bson:"confidentiality,omitempty" json:"confidentiality,omitempty" validate:"omitempty,confidentiality"`

	ChangeHistory []ChangeEntry `bson:"changeHistory,omitempty" json:"changeHistory,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
