package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"

  "github.com/krishihq/cropadvisor-backend/internal/docstore"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/prediction"
)

const predictionCollection = "predictions"

// Growing seasons by crop, used to enrich recommendations.
var growingSeasons = map[string]string{
  "rice":      "kharif (june-november)",
  "wheat":     "rabi (november-april)",
  "maize":     "kharif (june-october)",
  "cotton":    "kharif (may-november)",
  "sugarcane": "year-round (12-18 month cycle)",
  "millet":    "kharif (june-october)",
  "chickpea":  "rabi (october-march)",
  "banana":    "year-round",
  "mango":     "perennial (harvest march-july)",
  "groundnut": "kharif (june-october)",
  "soybean":   "kharif (june-october)",
  "potato":    "rabi (october-february)",
}

// Recommendation is one enriched entry returned to the client.
type Recommendation struct {
  CropName        string  `json:"crop_name"`
  ConfidenceScore float64 `json:"confidence_score"`
  GrowingSeason   string  `json:"growing_season,omitempty"`
  Reason          string  `json:"reason,omitempty"`
}

// DashboardStats is the aggregate view for the landing screen.
type DashboardStats struct {
  TotalPredictions  int                    `json:"total_predictions"`
  TopCrop           string                 `json:"top_crop,omitempty"`
  RecentUniqueCrops []string               `json:"recent_unique_crops"`
  LastPrediction    *prediction.Normalized `json:"last_prediction,omitempty"`
  TotalSessions     int                    `json:"total_sessions"`
  ProfileCompletion *CompletionStatus      `json:"profile_completion,omitempty"`
}

type PredictionService interface {
  Recommend(ctx context.Context, userID string, features CropFeatures) ([]Recommendation, error)
  Predict(ctx context.Context, userID string, features CropFeatures) (*prediction.Normalized, error)
  GetHistory(ctx context.Context, userID string, limit int) ([]prediction.Normalized, error)
  GetRawHistory(ctx context.Context, userID string, limit int) ([]map[string]any, error)
  GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error)
}

type predictionService struct {
  log        *logger.Logger
  store      docstore.DocStore
  classifier ClassifierService
  profiles   ProfileService
}

func NewPredictionService(log *logger.Logger, store docstore.DocStore, classifier ClassifierService, profiles ProfileService) PredictionService {
  serviceLog := log.With("service", "PredictionService")
  return &predictionService{
    log:        serviceLog,
    store:      store,
    classifier: classifier,
    profiles:   profiles,
  }
}

func (ps *predictionService) Recommend(ctx context.Context, userID string, features CropFeatures) ([]Recommendation, error) {
  scores := ps.classifier.Recommend(features, 3)

  results := make([]Recommendation, 0, len(scores))
  stored := make([]any, 0, len(scores))
  for _, score := range scores {
    rec := Recommendation{
      CropName:        score.CropName,
      ConfidenceScore: score.ConfidenceScore,
      GrowingSeason:   growingSeasons[score.CropName],
      Reason:          suitabilityReason(score),
    }
    results = append(results, rec)
    stored = append(stored, map[string]any{
      "crop_name":        rec.CropName,
      "confidence_score": rec.ConfidenceScore,
      "growing_season":   rec.GrowingSeason,
      "reason":           rec.Reason,
    })
  }

  record := map[string]any{
    "user_id":         userID,
    "created_at":      time.Now().UTC().Format(time.RFC3339),
    "recommendations": stored,
    "input_data":      featuresAsDoc(features),
  }
  if err := ps.store.Set(ctx, predictionCollection, uuid.New().String(), record); err != nil {
    return nil, fmt.Errorf("Failed to save recommendation record: %w", err)
  }
  return results, nil
}

func (ps *predictionService) Predict(ctx context.Context, userID string, features CropFeatures) (*prediction.Normalized, error) {
  best := ps.classifier.Predict(features)

  record := map[string]any{
    "user_id":    userID,
    "created_at": time.Now().UTC().Format(time.RFC3339),
    "prediction": map[string]any{
      "prediction":  best.CropName,
      "probability": best.ConfidenceScore,
    },
    "input_data": featuresAsDoc(features),
  }
  if err := ps.store.Set(ctx, predictionCollection, uuid.New().String(), record); err != nil {
    return nil, fmt.Errorf("Failed to save prediction record: %w", err)
  }

  normalized := prediction.Normalize(record)
  return &normalized, nil
}

func (ps *predictionService) GetRawHistory(ctx context.Context, userID string, limit int) ([]map[string]any, error) {
  records, err := ps.store.Scan(ctx, predictionCollection, "user_id", userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load prediction history: %w", err)
  }
  if limit > 0 && len(records) > limit {
    records = records[:limit]
  }
  return records, nil
}

func (ps *predictionService) GetHistory(ctx context.Context, userID string, limit int) ([]prediction.Normalized, error) {
  records, err := ps.GetRawHistory(ctx, userID, limit)
  if err != nil {
    return nil, err
  }
  results := make([]prediction.Normalized, 0, len(records))
  for _, record := range records {
    results = append(results, prediction.Normalize(record))
  }
  return results, nil
}

// GetDashboardStats fans out the history aggregation and the profile
// completion lookup. A failed completion lookup degrades to a partial
// dashboard rather than failing the request.
func (ps *predictionService) GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error) {
  var summary prediction.Summary
  var completion *CompletionStatus
  var sessionCount int

  group, groupCtx := errgroup.WithContext(ctx)
  group.Go(func() error {
    records, err := ps.GetRawHistory(groupCtx, userID, 0)
    if err != nil {
      return err
    }
    summary = prediction.Aggregate(records)
    return nil
  })
  group.Go(func() error {
    status, err := ps.profiles.GetCompletionStatus(groupCtx, userID)
    if err != nil {
      ps.log.Warn("Dashboard completion lookup failed, omitting", "user_id", userID, "error", err)
      return nil
    }
    completion = status
    return nil
  })
  group.Go(func() error {
    sessions, err := ps.store.Scan(groupCtx, sessionCollection, "user_id", userID)
    if err != nil {
      ps.log.Warn("Dashboard session count failed, omitting", "user_id", userID, "error", err)
      return nil
    }
    sessionCount = len(sessions)
    return nil
  })
  if err := group.Wait(); err != nil {
    return nil, err
  }

  return &DashboardStats{
    TotalPredictions:  summary.TotalCount,
    TopCrop:           summary.TopCrop,
    RecentUniqueCrops: summary.RecentUniqueCrops,
    LastPrediction:    summary.LastPrediction,
    TotalSessions:     sessionCount,
    ProfileCompletion: completion,
  }, nil
}

func featuresAsDoc(features CropFeatures) map[string]any {
  return map[string]any{
    "nitrogen":    features.Nitrogen,
    "phosphorus":  features.Phosphorus,
    "potassium":   features.Potassium,
    "temperature": features.Temperature,
    "humidity":    features.Humidity,
    "ph":          features.PH,
    "rainfall":    features.Rainfall,
  }
}

func suitabilityReason(score CropScore) string {
  switch {
  case score.ConfidenceScore >= 85:
    return fmt.Sprintf("Field conditions closely match the ideal profile for %s", score.CropName)
  case score.ConfidenceScore >= 60:
    return fmt.Sprintf("Conditions are broadly suitable for %s with minor adjustments", score.CropName)
  default:
    return fmt.Sprintf("%s is possible but conditions deviate from its ideal range", score.CropName)
  }
}
