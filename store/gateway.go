package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNoDocument is returned when a requested document does not exist.
var ErrNoDocument = errors.New("document not found")

// Doc is a single document read from the store.
type Doc struct {
	ID  string
	raw bson.Raw
}

// Decode unmarshals the document body into v.
func (d Doc) Decode(v interface{}) error {
	return bson.Unmarshal(d.raw, v)
}

// Collection is a named set of documents addressed by string ids. A document
// may own nested sub-collections reachable through Sub.
type Collection interface {
	Get(ctx context.Context, id string) (Doc, error)
	Set(ctx context.Context, id string, data interface{}) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Stream(ctx context.Context) ([]Doc, error)
	Sub(id, name string) Collection

	// Increment atomically adds delta to a numeric field of the document,
	// creating the document when absent, and returns the new value.
	Increment(ctx context.Context, id, field string, delta int64) (int64, error)
}

// Gateway is the document-store access point shared by all services.
type Gateway interface {
	Collection(name string) Collection
}
