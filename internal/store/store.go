// Package store provides the opaque document store the portal persists into:
// schemaless documents keyed by collection name and string id.
package store

import (
	"context"
	"errors"
	"time"
)

// Collection names as persisted.
const (
	CollectionRisks     = "risks"
	CollectionControls  = "controls"
	CollectionPolicies  = "policies"
	CollectionAuditLogs = "auditLogs"
)

var ErrNotFound = errors.New("document not found")

// Document is a raw stored record. Values round-trip through JSON, so numbers
// come back as float64 and timestamps as RFC3339 strings.
type Document map[string]any

// Snapshot pairs a document with its store-assigned id.
type Snapshot struct {
	ID   string
	Data Document
}

type serverTimestamp struct{}

// ServerTimestamp is a sentinel value replaced with the write-time clock by
// the store implementation, so ordering stays consistent across clients.
var ServerTimestamp = serverTimestamp{}

// Store is the document store contract. Get returns ErrNotFound for a missing
// id. Update merges the patch over the existing document field by field and
// returns ErrNotFound if the document does not exist. Delete of a missing id
// is a no-op. List with an empty orderBy orders by document id ascending.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection, orderBy string, desc bool) ([]Snapshot, error)
	Add(ctx context.Context, collection string, doc Document) (string, error)
	Update(ctx context.Context, collection, id string, patch Document) error
	Delete(ctx context.Context, collection, id string) error
}

// timeWireFormat is fixed-width RFC3339 so text ordering on the stored value
// is chronological.
const timeWireFormat = "2006-01-02T15:04:05.000000000Z"

// resolveTimestamps copies doc, replacing ServerTimestamp sentinels with now
// and encoding time values in the wire format.
func resolveTimestamps(doc Document, now time.Time) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		switch t := v.(type) {
		case serverTimestamp:
			out[k] = now.UTC().Format(timeWireFormat)
		case time.Time:
			out[k] = t.UTC().Format(timeWireFormat)
		default:
			out[k] = v
		}
	}
	return out
}
