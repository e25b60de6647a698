package prediction

const recentUniqueLimit = 3

// Summary is the dashboard aggregate over a user's prediction history.
type Summary struct {
  TotalCount        int         `json:"total_predictions"`
  TopCrop           string      `json:"top_crop,omitempty"`
  RecentUniqueCrops []string    `json:"recent_unique_crops"`
  LastPrediction    *Normalized `json:"last_prediction,omitempty"`
}

// Aggregate computes the history summary from raw records already
// sorted most recent first. Malformed records normalize to "Unknown"
// and still count toward the total; they never abort aggregation.
func Aggregate(records []map[string]any) Summary {
  summary := Summary{
    TotalCount:        len(records),
    RecentUniqueCrops: []string{},
  }
  if len(records) == 0 {
    return summary
  }

  counts := make(map[string]int)
  order := make([]string, 0, len(records))
  seen := make(map[string]bool)

  for i, record := range records {
    normalized := Normalize(record)
    if i == 0 {
      last := normalized
      summary.LastPrediction = &last
    }
    if normalized.CropName == UnknownCrop {
      continue
    }

    if counts[normalized.CropName] == 0 {
      order = append(order, normalized.CropName)
    }
    counts[normalized.CropName]++

    if len(summary.RecentUniqueCrops) < recentUniqueLimit && !seen[normalized.CropName] {
      seen[normalized.CropName] = true
      summary.RecentUniqueCrops = append(summary.RecentUniqueCrops, normalized.CropName)
    }
  }

  // Mode over non-Unknown names. Ties go to the name seen first in the
  // reverse-chronological input.
  best := 0
  for _, name := range order {
    if counts[name] > best {
      best = counts[name]
      summary.TopCrop = name
    }
  }
  return summary
}
