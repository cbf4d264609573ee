// models/audit_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogEntry is an immutable who-did-what-when record. Entries are only
// ever appended; nothing in the system updates or deletes them.
type AuditLogEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	Action    string             `bson:"action" json:"action"` // e.g. "CREATE_RISK", "VIEW_INCIDENTS"
	Details   string             `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
