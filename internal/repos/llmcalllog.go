package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/types"
)

type LLMCallLogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.LLMCallLog) ([]*types.LLMCallLog, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.LLMCallLog, error)
  GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string) ([]*types.LLMCallLog, error)
}

type llmCallLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLLMCallLogRepo(db *gorm.DB, baseLog *logger.Logger) LLMCallLogRepo {
  repoLog := baseLog.With("repo", "LLMCallLogRepo")
  return &llmCallLogRepo{db: db, log: repoLog}
}

func (lr *llmCallLogRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.LLMCallLog) ([]*types.LLMCallLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = lr.db
  }

  if len(entries) == 0 {
    return []*types.LLMCallLog{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, err
  }
  return entries, nil
}

func (lr *llmCallLogRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.LLMCallLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = lr.db
  }

  var results []*types.LLMCallLog

  query := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC")
  if limit > 0 {
    query = query.Limit(limit)
  }

  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (lr *llmCallLogRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string) ([]*types.LLMCallLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = lr.db
  }

  var results []*types.LLMCallLog

  if err := transaction.WithContext(ctx).
    Where("session_id = ?", sessionID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
