// Package audit appends immutable trail entries for every mutation against
// the portal's records. Entries are write-once: nothing in this package
// updates or deletes them.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/store"
)

type Action string

const (
	ActionRiskCreated    Action = "RISK_CREATED"
	ActionRiskUpdated    Action = "RISK_UPDATED"
	ActionRiskDeleted    Action = "RISK_DELETED"
	ActionControlCreated Action = "CONTROL_CREATED"
	ActionControlUpdated Action = "CONTROL_UPDATED"
	ActionControlDeleted Action = "CONTROL_DELETED"
	ActionPolicyCreated  Action = "POLICY_CREATED"
	ActionPolicyUpdated  Action = "POLICY_UPDATED"
	ActionPolicyDeleted  Action = "POLICY_DELETED"
)

// Event describes one mutation. Exactly one of RiskID/ControlID/PolicyID is
// set. Before is nil for creates, After is nil for deletes.
type Event struct {
	Action      Action
	Description string
	Actor       models.Actor

	RiskID    string
	ControlID string
	PolicyID  string

	Before store.Document
	After  store.Document
}

// Entry is the stored trail record as surfaced to the audit viewer.
type Entry struct {
	ID          string  `json:"id"`
	Action      Action  `json:"action"`
	Description string  `json:"description"`
	RiskID      string  `json:"riskId,omitempty"`
	ControlID   string  `json:"controlId,omitempty"`
	PolicyID    string  `json:"policyId,omitempty"`
	UserID      string  `json:"userId"`
	UserEmail   *string `json:"userEmail"`

	Before any `json:"before,omitempty"`
	After  any `json:"after,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

type Recorder struct {
	store store.Store
}

func NewRecorder(s store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record appends one entry. The timestamp is assigned by the store at write
// time, never from the caller's clock.
func (r *Recorder) Record(ctx context.Context, e Event) error {
	if e.Actor.UserID == "" {
		return errors.New("audit: actor is required")
	}

	var email any
	if e.Actor.Email != "" {
		email = e.Actor.Email
	}

	doc := store.Document{
		"action":      string(e.Action),
		"description": e.Description,
		"userId":      e.Actor.UserID,
		"userEmail":   email,
		"timestamp":   store.ServerTimestamp,
	}
	if e.RiskID != "" {
		doc["riskId"] = e.RiskID
	}
	if e.ControlID != "" {
		doc["controlId"] = e.ControlID
	}
	if e.PolicyID != "" {
		doc["policyId"] = e.PolicyID
	}
	if e.Before != nil {
		doc["before"] = e.Before
	}
	if e.After != nil {
		doc["after"] = e.After
	}

	if _, err := r.store.Add(ctx, store.CollectionAuditLogs, doc); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// List returns the newest entries first, at most limit of them.
func (r *Recorder) List(ctx context.Context, limit int) ([]Entry, error) {
	snaps, err := r.store.List(ctx, store.CollectionAuditLogs, "timestamp", true)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}

	out := make([]Entry, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, entryFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

func entryFromDoc(id string, data store.Document) Entry {
	e := Entry{
		ID:          id,
		Action:      Action(docString(data["action"])),
		Description: docString(data["description"]),
		RiskID:      docString(data["riskId"]),
		ControlID:   docString(data["controlId"]),
		PolicyID:    docString(data["policyId"]),
		UserID:      docString(data["userId"]),
		Before:      data["before"],
		After:       data["after"],
	}
	if s := docString(data["userEmail"]); s != "" {
		e.UserEmail = &s
	}
	if s := docString(data["timestamp"]); s != "" {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			e.Timestamp = t
		}
	}
	return e
}

func docString(v any) string {
	s, _ := v.(string)
	return s
}
