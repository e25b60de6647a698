package docstore

import (
  "context"
  "encoding/json"
  "sort"
  "sync"
  "time"
)

type memoryDoc struct {
  data      map[string]any
  updatedAt time.Time
}

type memoryStore struct {
  mu   sync.RWMutex
  docs map[string]map[string]memoryDoc
}

// NewMemoryStore returns a process-local DocStore. Used by tests and as
// a degraded mode when postgres is unavailable.
func NewMemoryStore() DocStore {
  return &memoryStore{docs: make(map[string]map[string]memoryDoc)}
}

func cloneDoc(data map[string]any) map[string]any {
  raw, err := json.Marshal(data)
  if err != nil {
    return map[string]any{}
  }
  var out map[string]any
  if err := json.Unmarshal(raw, &out); err != nil {
    return map[string]any{}
  }
  return out
}

func (ms *memoryStore) Get(ctx context.Context, collection, id string) (map[string]any, bool, error) {
  ms.mu.RLock()
  defer ms.mu.RUnlock()

  coll, ok := ms.docs[collection]
  if !ok {
    return nil, false, nil
  }
  doc, ok := coll[id]
  if !ok {
    return nil, false, nil
  }
  return cloneDoc(doc.data), true, nil
}

func (ms *memoryStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
  ms.mu.Lock()
  defer ms.mu.Unlock()

  coll, ok := ms.docs[collection]
  if !ok {
    coll = make(map[string]memoryDoc)
    ms.docs[collection] = coll
  }
  coll[id] = memoryDoc{data: cloneDoc(data), updatedAt: time.Now()}
  return nil
}

func (ms *memoryStore) Delete(ctx context.Context, collection, id string) error {
  ms.mu.Lock()
  defer ms.mu.Unlock()

  if coll, ok := ms.docs[collection]; ok {
    delete(coll, id)
  }
  return nil
}

func (ms *memoryStore) Scan(ctx context.Context, collection, field string, value any) ([]map[string]any, error) {
  ms.mu.RLock()
  defer ms.mu.RUnlock()

  coll, ok := ms.docs[collection]
  if !ok {
    return []map[string]any{}, nil
  }

  matched := make([]memoryDoc, 0, len(coll))
  for _, doc := range coll {
    if value != nil && doc.data[field] != value {
      continue
    }
    matched = append(matched, doc)
  }
  sort.Slice(matched, func(i, j int) bool {
    return matched[i].updatedAt.After(matched[j].updatedAt)
  })

  results := make([]map[string]any, 0, len(matched))
  for _, doc := range matched {
    results = append(results, cloneDoc(doc.data))
  }
  return results, nil
}
