package services

import (
  "math"
  "sort"

  "github.com/krishihq/cropadvisor-backend/internal/logger"
)

// CropFeatures are the agronomic inputs to the classifier.
type CropFeatures struct {
  Nitrogen    float64 `json:"nitrogen" binding:"required"`
  Phosphorus  float64 `json:"phosphorus" binding:"required"`
  Potassium   float64 `json:"potassium" binding:"required"`
  Temperature float64 `json:"temperature" binding:"required"`
  Humidity    float64 `json:"humidity" binding:"required"`
  PH          float64 `json:"ph" binding:"required"`
  Rainfall    float64 `json:"rainfall" binding:"required"`
}

// CropScore is one ranked recommendation. ConfidenceScore is a 0-100
// percentage, matching how recommendation records are stored at rest.
type CropScore struct {
  CropName        string  `json:"crop_name"`
  ConfidenceScore float64 `json:"confidence_score"`
}

// ClassifierService ranks candidate crops for a set of field
// conditions. The model itself is a stand-in profile-distance
// heuristic; callers only see labels and probabilities.
type ClassifierService interface {
  Recommend(features CropFeatures, limit int) []CropScore
  Predict(features CropFeatures) CropScore
}

type cropProfile struct {
  name     string
  nitrogen float64
  phosph   float64
  potass   float64
  temp     float64
  humidity float64
  ph       float64
  rainfall float64
}

// Ideal growing conditions per crop, roughly following common Indian
// agronomy tables.
var cropProfiles = []cropProfile{
  {"rice", 80, 47, 40, 27, 82, 6.4, 235},
  {"wheat", 60, 55, 45, 18, 60, 6.8, 90},
  {"maize", 78, 48, 20, 23, 65, 6.2, 85},
  {"cotton", 118, 46, 20, 24, 80, 6.9, 80},
  {"sugarcane", 110, 50, 60, 27, 75, 6.5, 180},
  {"millet", 40, 30, 20, 28, 50, 6.0, 60},
  {"chickpea", 40, 67, 79, 19, 17, 7.3, 80},
  {"banana", 100, 82, 50, 27, 80, 6.0, 105},
  {"mango", 20, 27, 30, 31, 50, 5.8, 95},
  {"groundnut", 25, 45, 35, 27, 70, 6.3, 110},
  {"soybean", 30, 60, 40, 26, 65, 6.5, 100},
  {"potato", 90, 70, 90, 18, 80, 5.5, 75},
}

type classifierService struct {
  log *logger.Logger
}

func NewClassifierService(log *logger.Logger) ClassifierService {
  serviceLog := log.With("service", "ClassifierService")
  return &classifierService{log: serviceLog}
}

func (cls *classifierService) Recommend(features CropFeatures, limit int) []CropScore {
  scores := make([]CropScore, 0, len(cropProfiles))
  for _, profile := range cropProfiles {
    scores = append(scores, CropScore{
      CropName:        profile.name,
      ConfidenceScore: similarity(features, profile),
    })
  }
  sort.SliceStable(scores, func(i, j int) bool {
    return scores[i].ConfidenceScore > scores[j].ConfidenceScore
  })
  if limit > 0 && len(scores) > limit {
    scores = scores[:limit]
  }
  return scores
}

func (cls *classifierService) Predict(features CropFeatures) CropScore {
  return cls.Recommend(features, 1)[0]
}

// similarity maps the normalized distance between observed and ideal
// conditions onto a 0-100 scale.
func similarity(features CropFeatures, profile cropProfile) float64 {
  distance := 0.0
  distance += normDiff(features.Nitrogen, profile.nitrogen, 140)
  distance += normDiff(features.Phosphorus, profile.phosph, 145)
  distance += normDiff(features.Potassium, profile.potass, 205)
  distance += normDiff(features.Temperature, profile.temp, 35)
  distance += normDiff(features.Humidity, profile.humidity, 90)
  distance += normDiff(features.PH, profile.ph, 6)
  distance += normDiff(features.Rainfall, profile.rainfall, 280)

  score := (1 - distance/7) * 100
  if score < 0 {
    score = 0
  }
  return math.Round(score*100) / 100
}

func normDiff(observed, ideal, scale float64) float64 {
  diff := math.Abs(observed-ideal) / scale
  if diff > 1 {
    return 1
  }
  return diff
}
