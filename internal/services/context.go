package services

import (
  "context"

  "github.com/krishihq/cropadvisor-backend/internal/aicontext"
  "github.com/krishihq/cropadvisor-backend/internal/clients/redis"
  "github.com/krishihq/cropadvisor-backend/internal/docstore"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
)

type ContextService interface {
  // GetAIContext returns the flattened personalization fact sheet for
  // a user, plus the quality score and the active flag. Always
  // succeeds with a possibly sparse context; only a dead profile
  // store is an error.
  GetAIContext(ctx context.Context, userID string) (map[string]any, error)
}

type contextService struct {
  log       *logger.Logger
  store     docstore.DocStore
  cache     redis.ContextCache
  threshold int
}

func NewContextService(log *logger.Logger, store docstore.DocStore, cache redis.ContextCache, threshold int) ContextService {
  serviceLog := log.With("service", "ContextService")
  return &contextService{log: serviceLog, store: store, cache: cache, threshold: threshold}
}

func (cs *contextService) GetAIContext(ctx context.Context, userID string) (map[string]any, error) {
  if cs.cache != nil {
    if cached, ok := cs.cache.Get(ctx, userID); ok {
      return cached, nil
    }
  }

  profile, found, err := cs.store.Get(ctx, profileCollection, userID)
  if err != nil {
    return nil, err
  }
  if !found {
    profile = map[string]any{}
  }

  result := cs.buildContext(profile)
  if cs.cache != nil {
    cs.cache.Set(ctx, userID, result)
  }
  return result, nil
}

func (cs *contextService) buildContext(profile map[string]any) map[string]any {
  assembled := aicontext.Assemble(profile)
  score := aicontext.Score(assembled)

  result := map[string]any{
    "context_quality_score":  score,
    "personalization_active": aicontext.Active(score, cs.threshold),
  }
  if assembled.Name != "" {
    result["name"] = assembled.Name
  }
  if assembled.Location != "" {
    result["location"] = assembled.Location
  }
  if assembled.HasFarmSize {
    result["farm_size"] = assembled.FarmSize
  }
  if assembled.SoilType != "" {
    result["soil_type"] = assembled.SoilType
  }
  if assembled.IrrigationType != "" {
    result["irrigation_type"] = assembled.IrrigationType
  }
  if assembled.ExperienceLevel != "" {
    result["experience_level"] = assembled.ExperienceLevel
  }
  if len(assembled.PrimaryCrops) > 0 {
    crops := make([]any, 0, len(assembled.PrimaryCrops))
    for _, crop := range assembled.PrimaryCrops {
      crops = append(crops, crop)
    }
    result["primary_crops"] = crops
  }
  return result
}
