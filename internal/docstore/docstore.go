package docstore

import (
  "context"
)

// DocStore is a schema-less document collection keyed by (collection, id).
// Profile, prediction and chat session payloads all live here so a single
// write path owns their serialization. Concurrent writers to the same
// document follow last-write-wins.
type DocStore interface {
  Get(ctx context.Context, collection, id string) (map[string]any, bool, error)
  Set(ctx context.Context, collection, id string, data map[string]any) error
  Delete(ctx context.Context, collection, id string) error
  // Scan returns every document in the collection whose top-level field
  // equals value. A nil value matches all documents in the collection.
  Scan(ctx context.Context, collection, field string, value any) ([]map[string]any, error)
}
