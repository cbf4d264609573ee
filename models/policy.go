package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Policy struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name" validate:"required"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Owner         UserRef            `bson:"owner,omitempty" json:"owner,omitempty"`
	EffectiveDate *time.Time         `bson:"effectiveDate,omitempty" json:"effectiveDate,omitempty"`
	ReviewDate    *time.Time         `bson:"reviewDate,omitempty" json:"reviewDate,omitempty"`
	Version       string             `bson:"version,omitempty" json:"version,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Attachments   []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	State         string             `bson:"state" json:"state" validate:"omitempty,policy_state"` // Draft, Review, Approved, Rejected
	// No omitempty: clients must see an emptied list after a comment delete.
	Comments      []Comment          `bson:"comments,omitempty" json:"comments"`
	ChangeHistory []ChangeEntry      `bson:"changeHistory,omitempty" json:"changeHistory,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
