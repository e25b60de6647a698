package docstore

import (
  "context"
  "errors"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/types"
)

type gormStore struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGormStore(db *gorm.DB, baseLog *logger.Logger) DocStore {
  storeLog := baseLog.With("component", "DocStore")
  return &gormStore{db: db, log: storeLog}
}

func (gs *gormStore) Get(ctx context.Context, collection, id string) (map[string]any, bool, error) {
  var row types.Document

  err := gs.db.WithContext(ctx).
    Where("collection = ? AND doc_id = ?", collection, id).
    First(&row).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, false, nil
    }
    return nil, false, err
  }
  return map[string]any(row.Data), true, nil
}

func (gs *gormStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
  row := types.Document{
    Collection: collection,
    DocID:      id,
    Data:       datatypes.JSONMap(data),
  }

  if err := gs.db.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
      DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
    }).
    Create(&row).Error; err != nil {
    return err
  }
  return nil
}

func (gs *gormStore) Delete(ctx context.Context, collection, id string) error {
  if err := gs.db.WithContext(ctx).
    Where("collection = ? AND doc_id = ?", collection, id).
    Delete(&types.Document{}).Error; err != nil {
    return err
  }
  return nil
}

func (gs *gormStore) Scan(ctx context.Context, collection, field string, value any) ([]map[string]any, error) {
  var rows []types.Document

  query := gs.db.WithContext(ctx).
    Where("collection = ?", collection).
    Order("updated_at DESC")
  if value != nil {
    query = query.Where(datatypes.JSONQuery("data").Equals(value, field))
  }

  if err := query.Find(&rows).Error; err != nil {
    return nil, err
  }

  results := make([]map[string]any, 0, len(rows))
  for _, row := range rows {
    results = append(results, map[string]any(row.Data))
  }
  return results, nil
}
