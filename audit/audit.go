// Package audit appends immutable who-did-what-when entries to the audit log.
// Every record mutation or view produces exactly one entry. An append failure
// is logged for operator visibility but never fails the primary operation:
// the operation's result stays the source of truth.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/funsideofwine/guardian-grc/models"
	"github.com/funsideofwine/guardian-grc/store"
)

// Actor is the authenticated identity an entry is attributed to.
type Actor struct {
	UserID    string
	UserEmail string
}

// Ref returns the actor as an owner/reporter reference for stamping records.
func (a Actor) Ref() models.UserRef {
	return models.UserRef{UserID: a.UserID, UserEmail: a.UserEmail}
}

// Broadcaster pushes committed entries to live activity-feed subscribers.
type Broadcaster interface {
	BroadcastAudit(entry *models.AuditLogEntry)
}

type Emitter struct {
	store store.AuditStore
	hub   Broadcaster
}

func NewEmitter(s store.AuditStore) *Emitter {
	return &Emitter{store: s}
}

// AttachHub wires a live broadcaster; entries are pushed after a successful
// append.
func (e *Emitter) AttachHub(hub Broadcaster) {
	e.hub = hub
}

// Record appends one entry. Action names follow the {VERB}_{KIND} convention,
// e.g. CREATE_RISK, VIEW_INCIDENTS, DELETE_POLICY.
func (e *Emitter) Record(ctx context.Context, actor Actor, action, details string) {
	entry := &models.AuditLogEntry{
		UserID:    actor.UserID,
		UserEmail: actor.UserEmail,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	if err := e.store.Insert(ctx, entry); err != nil {
		// Silent audit loss is a compliance defect; make it loud for operators.
		log.Printf("AUDIT APPEND FAILED action=%s user=%s: %v", action, actor.UserEmail, err)
		return
	}
	if e.hub != nil {
		e.hub.BroadcastAudit(entry)
	}
}
