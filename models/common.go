package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRef identifies a user attached to a record (owner, reporter, assignee).
type UserRef struct {
	UserID    string `bson:"userId,omitempty" json:"userId,omitempty"`
	UserEmail string `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
}

func (u UserRef) IsZero() bool {
	return u.UserID == "" && u.UserEmail == ""
}

// Stakeholder is a non-owning advisory party on a record.
type Stakeholder struct {
	UserID    string `bson:"userId,omitempty" json:"userId,omitempty"`
	UserEmail string `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	Role      string `bson:"role,omitempty" json:"role,omitempty"` // e.g. "Reviewer", "Approver", "Implementer"
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	UserID    string             `bson:"userId,omitempty" json:"userId,omitempty"`
	UserEmail string             `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	Date      time.Time          `bson:"date" json:"date"`
}

type Attachment struct {
	URL        string    `bson:"url,omitempty" json:"url,omitempty"`
	Name       string    `bson:"name,omitempty" json:"name,omitempty"`
	UploadedBy UserRef   `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	UploadedAt time.Time `bson:"uploadedAt,omitempty" json:"uploadedAt,omitempty"`
}

// ChangeEntry is an embedded who-changed-what record on the parent document.
type ChangeEntry struct {
	UserID        string      `bson:"userId,omitempty" json:"userId,omitempty"`
	UserEmail     string      `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	Action        string      `bson:"action,omitempty" json:"action,omitempty"`
	Date          time.Time   `bson:"date" json:"date"`
	Details       string      `bson:"details,omitempty" json:"details,omitempty"`
	PreviousValue interface{} `bson:"previousValue,omitempty" json:"previousValue,omitempty"`
	NewValue      interface{} `bson:"newValue,omitempty" json:"newValue,omitempty"`
}
