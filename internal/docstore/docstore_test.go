package docstore

import (
  "context"
  "testing"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/types"
)

func newTestGormStore(t *testing.T) DocStore {
  t.Helper()

  gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  if err := gdb.AutoMigrate(&types.Document{}); err != nil {
    t.Fatalf("migrate: %v", err)
  }
  log, err := logger.New("dev")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  return NewGormStore(gdb, log)
}

func runStoreTests(t *testing.T, store DocStore) {
  ctx := context.Background()

  t.Run("get missing", func(t *testing.T) {
    _, found, err := store.Get(ctx, "profiles", "nope")
    if err != nil {
      t.Fatalf("unexpected error: %v", err)
    }
    if found {
      t.Fatalf("expected not found")
    }
  })

  t.Run("set then get", func(t *testing.T) {
    doc := map[string]any{"name": "Asha", "farm_size": 2.5}
    if err := store.Set(ctx, "profiles", "u1", doc); err != nil {
      t.Fatalf("set: %v", err)
    }
    got, found, err := store.Get(ctx, "profiles", "u1")
    if err != nil {
      t.Fatalf("get: %v", err)
    }
    if !found {
      t.Fatalf("expected found")
    }
    if got["name"] != "Asha" {
      t.Fatalf("expected name Asha, got %v", got["name"])
    }
  })

  t.Run("set overwrites", func(t *testing.T) {
    if err := store.Set(ctx, "profiles", "u1", map[string]any{"name": "Ravi"}); err != nil {
      t.Fatalf("set: %v", err)
    }
    got, _, err := store.Get(ctx, "profiles", "u1")
    if err != nil {
      t.Fatalf("get: %v", err)
    }
    if got["name"] != "Ravi" {
      t.Fatalf("expected name Ravi, got %v", got["name"])
    }
    if _, ok := got["farm_size"]; ok {
      t.Fatalf("expected old fields gone after overwrite")
    }
  })

  t.Run("scan by field", func(t *testing.T) {
    if err := store.Set(ctx, "sessions", "s1", map[string]any{"user_id": "u1", "title": "First"}); err != nil {
      t.Fatalf("set: %v", err)
    }
    if err := store.Set(ctx, "sessions", "s2", map[string]any{"user_id": "u2", "title": "Other"}); err != nil {
      t.Fatalf("set: %v", err)
    }
    if err := store.Set(ctx, "sessions", "s3", map[string]any{"user_id": "u1", "title": "Second"}); err != nil {
      t.Fatalf("set: %v", err)
    }

    results, err := store.Scan(ctx, "sessions", "user_id", "u1")
    if err != nil {
      t.Fatalf("scan: %v", err)
    }
    if len(results) != 2 {
      t.Fatalf("expected 2 sessions for u1, got %d", len(results))
    }
    for _, doc := range results {
      if doc["user_id"] != "u1" {
        t.Fatalf("scan returned wrong user: %v", doc["user_id"])
      }
    }
  })

  t.Run("delete", func(t *testing.T) {
    if err := store.Delete(ctx, "profiles", "u1"); err != nil {
      t.Fatalf("delete: %v", err)
    }
    _, found, err := store.Get(ctx, "profiles", "u1")
    if err != nil {
      t.Fatalf("get: %v", err)
    }
    if found {
      t.Fatalf("expected document deleted")
    }
  })
}

func TestMemoryStore(t *testing.T) {
  runStoreTests(t, NewMemoryStore())
}

func TestGormStore(t *testing.T) {
  runStoreTests(t, newTestGormStore(t))
}

func TestMemoryStoreIsolation(t *testing.T) {
  ctx := context.Background()
  store := NewMemoryStore()

  doc := map[string]any{"crop": "rice"}
  if err := store.Set(ctx, "predictions", "p1", doc); err != nil {
    t.Fatalf("set: %v", err)
  }
  doc["crop"] = "wheat"

  got, _, err := store.Get(ctx, "predictions", "p1")
  if err != nil {
    t.Fatalf("get: %v", err)
  }
  if got["crop"] != "rice" {
    t.Fatalf("store aliased caller map, got %v", got["crop"])
  }
}
