package services

import (
  "context"
  "testing"

  "github.com/krishihq/cropadvisor-backend/internal/docstore"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
)

func newPredictionFixture(t *testing.T) (PredictionService, docstore.DocStore) {
  t.Helper()
  log, err := logger.New("dev")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  store := docstore.NewMemoryStore()
  classifier := NewClassifierService(log)
  profiles := NewProfileService(log, store, nil)
  return NewPredictionService(log, store, classifier, profiles), store
}

func riceFeatures() CropFeatures {
  return CropFeatures{
    Nitrogen:    80,
    Phosphorus:  47,
    Potassium:   40,
    Temperature: 27,
    Humidity:    82,
    PH:          6.4,
    Rainfall:    235,
  }
}

func TestRecommendReturnsRankedTopThree(t *testing.T) {
  svc, _ := newPredictionFixture(t)

  recs, err := svc.Recommend(context.Background(), "u1", riceFeatures())
  if err != nil {
    t.Fatalf("Recommend: %v", err)
  }
  if len(recs) != 3 {
    t.Fatalf("recommendation count = %d, want 3", len(recs))
  }
  if recs[0].CropName != "rice" {
    t.Fatalf("top crop = %q, want rice for ideal rice conditions", recs[0].CropName)
  }
  for i := 1; i < len(recs); i++ {
    if recs[i].ConfidenceScore > recs[i-1].ConfidenceScore {
      t.Fatalf("recommendations not sorted: %v", recs)
    }
  }
  for _, rec := range recs {
    if rec.ConfidenceScore < 0 || rec.ConfidenceScore > 100 {
      t.Fatalf("confidence score %v outside [0, 100]", rec.ConfidenceScore)
    }
    if rec.Reason == "" {
      t.Fatalf("missing suitability reason for %s", rec.CropName)
    }
  }
}

func TestPredictStoresNormalizableRecord(t *testing.T) {
  svc, _ := newPredictionFixture(t)

  result, err := svc.Predict(context.Background(), "u1", riceFeatures())
  if err != nil {
    t.Fatalf("Predict: %v", err)
  }
  if result.CropName != "rice" {
    t.Fatalf("predicted crop = %q, want rice", result.CropName)
  }
  if result.Confidence < 0 || result.Confidence > 1 {
    t.Fatalf("confidence %v outside [0, 1]", result.Confidence)
  }

  history, err := svc.GetHistory(context.Background(), "u1", 0)
  if err != nil {
    t.Fatalf("GetHistory: %v", err)
  }
  if len(history) != 1 {
    t.Fatalf("history length = %d, want 1", len(history))
  }
  if history[0].CropName != "rice" {
    t.Fatalf("normalized history crop = %q, want rice", history[0].CropName)
  }
}

func TestHistoryScopedToUser(t *testing.T) {
  svc, _ := newPredictionFixture(t)
  ctx := context.Background()

  if _, err := svc.Predict(ctx, "u1", riceFeatures()); err != nil {
    t.Fatalf("Predict: %v", err)
  }
  if _, err := svc.Predict(ctx, "u2", riceFeatures()); err != nil {
    t.Fatalf("Predict: %v", err)
  }

  history, err := svc.GetHistory(ctx, "u1", 0)
  if err != nil {
    t.Fatalf("GetHistory: %v", err)
  }
  if len(history) != 1 {
    t.Fatalf("history length = %d, want 1", len(history))
  }
}

func TestDashboardStatsAggregatesMixedShapes(t *testing.T) {
  svc, store := newPredictionFixture(t)
  ctx := context.Background()

  // One record from each write path, plus a legacy shape seeded
  // directly into the store.
  if _, err := svc.Recommend(ctx, "u1", riceFeatures()); err != nil {
    t.Fatalf("Recommend: %v", err)
  }
  if _, err := svc.Predict(ctx, "u1", riceFeatures()); err != nil {
    t.Fatalf("Predict: %v", err)
  }
  if err := store.Set(ctx, predictionCollection, "legacy-1", map[string]any{
    "user_id":   "u1",
    "crop_name": "wheat",
  }); err != nil {
    t.Fatalf("seed legacy record: %v", err)
  }

  stats, err := svc.GetDashboardStats(ctx, "u1")
  if err != nil {
    t.Fatalf("GetDashboardStats: %v", err)
  }
  if stats.TotalPredictions != 3 {
    t.Fatalf("total = %d, want 3", stats.TotalPredictions)
  }
  if stats.TopCrop != "rice" {
    t.Fatalf("top crop = %q, want rice", stats.TopCrop)
  }
  if len(stats.RecentUniqueCrops) > 3 {
    t.Fatalf("recent unique crops = %v", stats.RecentUniqueCrops)
  }
  if stats.LastPrediction == nil {
    t.Fatalf("expected a last prediction")
  }
  if stats.ProfileCompletion == nil {
    t.Fatalf("expected profile completion section")
  }
  if stats.ProfileCompletion.Personalization {
    t.Fatalf("empty profile should not activate personalization")
  }
}
