// Package remote is the Remote Store Client: namespaced document CRUD
// and change subscriptions over the cross-device authoritative store.
// All failures are returned as values; nothing panics across this
// boundary.
package remote

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// ChangeType classifies a change-stream notification.
type ChangeType int

const (
	// Added means the document appeared (initial snapshot or insert).
	Added ChangeType = iota + 1
	// Modified means an existing document was replaced or updated.
	Modified
	// Removed means the document was deleted remotely.
	Removed
)

func (t ChangeType) String() string {
	switch t {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// ChangeEvent is one remote change notification. Doc is nil for Removed.
type ChangeEvent struct {
	Type ChangeType
	Path Path
	Doc  bson.M
}

// Subscription is a live change feed. Events delivers an initial full
// snapshot as Added events, then incremental changes, until the
// subscribing context is cancelled or the feed fails; the channel is
// closed either way and Err reports any abnormal cause.
type Subscription interface {
	Events() <-chan ChangeEvent
	Err() error
}

// Client is the document-store abstraction the sync coordinator talks
// to. Operations are network-bound and may fail transiently; such
// failures wrap ErrRemoteUnavailable.
type Client interface {
	Create(ctx context.Context, coll CollectionPath, doc bson.M) (string, error)
	Set(ctx context.Context, path Path, doc bson.M) error
	Update(ctx context.Context, path Path, fields bson.M) error
	Delete(ctx context.Context, path Path) error
	Get(ctx context.Context, path Path) (bson.M, error)
	Query(ctx context.Context, coll CollectionPath, filters bson.M, orderBy string, descending bool, limit int64) ([]bson.M, error)
	Subscribe(ctx context.Context, coll CollectionPath) (Subscription, error)
}
