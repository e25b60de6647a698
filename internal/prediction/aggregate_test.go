package prediction

import (
  "fmt"
  "testing"
)

func predictionRecord(crop string) map[string]any {
  return map[string]any{"prediction": map[string]any{"prediction": crop}}
}

func TestAggregateEmpty(t *testing.T) {
  summary := Aggregate(nil)
  if summary.TotalCount != 0 {
    t.Fatalf("total = %d, want 0", summary.TotalCount)
  }
  if summary.TopCrop != "" {
    t.Fatalf("top_crop = %q, want empty", summary.TopCrop)
  }
  if len(summary.RecentUniqueCrops) != 0 {
    t.Fatalf("recent_unique_crops = %v, want empty", summary.RecentUniqueCrops)
  }
  if summary.LastPrediction != nil {
    t.Fatalf("last_prediction = %+v, want nil", summary.LastPrediction)
  }
}

func TestAggregateTopCropMode(t *testing.T) {
  history := []map[string]any{
    predictionRecord("rice"),
    predictionRecord("rice"),
    predictionRecord("wheat"),
  }

  summary := Aggregate(history)
  if summary.TopCrop != "rice" {
    t.Fatalf("top_crop = %q, want rice", summary.TopCrop)
  }
  if summary.TotalCount != 3 {
    t.Fatalf("total = %d, want 3", summary.TotalCount)
  }
  if summary.LastPrediction == nil || summary.LastPrediction.CropName != "rice" {
    t.Fatalf("last_prediction = %+v, want rice", summary.LastPrediction)
  }
}

func TestAggregateTieBreaksFirstSeen(t *testing.T) {
  history := []map[string]any{
    predictionRecord("wheat"),
    predictionRecord("rice"),
    predictionRecord("rice"),
    predictionRecord("wheat"),
  }

  summary := Aggregate(history)
  if summary.TopCrop != "wheat" {
    t.Fatalf("top_crop = %q, want wheat (first seen wins ties)", summary.TopCrop)
  }
}

func TestAggregateRecentUniqueCrops(t *testing.T) {
  history := []map[string]any{
    predictionRecord("rice"),
    predictionRecord("wheat"),
    predictionRecord("rice"),
    predictionRecord("maize"),
    predictionRecord("cotton"),
    predictionRecord("barley"),
  }

  summary := Aggregate(history)
  want := []string{"rice", "wheat", "maize"}
  if len(summary.RecentUniqueCrops) != len(want) {
    t.Fatalf("recent_unique_crops = %v, want %v", summary.RecentUniqueCrops, want)
  }
  for i, crop := range want {
    if summary.RecentUniqueCrops[i] != crop {
      t.Fatalf("recent_unique_crops = %v, want %v", summary.RecentUniqueCrops, want)
    }
  }
}

func TestAggregateRecentUniqueLimitHolds(t *testing.T) {
  for _, size := range []int{0, 1, 3, 4, 10, 50} {
    history := make([]map[string]any, 0, size)
    for i := 0; i < size; i++ {
      history = append(history, predictionRecord(fmt.Sprintf("crop-%d", i%7)))
    }

    summary := Aggregate(history)
    if len(summary.RecentUniqueCrops) > 3 {
      t.Fatalf("size %d: recent_unique_crops length %d exceeds 3", size, len(summary.RecentUniqueCrops))
    }
    seen := make(map[string]bool)
    for _, crop := range summary.RecentUniqueCrops {
      if seen[crop] {
        t.Fatalf("size %d: duplicate crop %q", size, crop)
      }
      seen[crop] = true
    }
    if summary.TotalCount != size {
      t.Fatalf("size %d: total = %d", size, summary.TotalCount)
    }
  }
}

func TestAggregateSkipsUnknownForTopCrop(t *testing.T) {
  history := []map[string]any{
    {},
    {},
    {},
    predictionRecord("wheat"),
  }

  summary := Aggregate(history)
  if summary.TopCrop != "wheat" {
    t.Fatalf("top_crop = %q, want wheat", summary.TopCrop)
  }
  if summary.TotalCount != 4 {
    t.Fatalf("total = %d, want 4 (malformed records still count)", summary.TotalCount)
  }
  if summary.LastPrediction == nil || summary.LastPrediction.CropName != UnknownCrop {
    t.Fatalf("last_prediction = %+v, want Unknown", summary.LastPrediction)
  }
  for _, crop := range summary.RecentUniqueCrops {
    if crop == UnknownCrop {
      t.Fatalf("recent_unique_crops contains Unknown: %v", summary.RecentUniqueCrops)
    }
  }
}
