package prediction

import (
  "math"
)

// Normalized is the canonical form of a stored prediction record.
// Confidence is a fraction in [0, 1] even when the record at rest
// carried a 0-100 percentage.
type Normalized struct {
  CropName   string  `json:"crop_name"`
  Confidence float64 `json:"confidence"`
}

const UnknownCrop = "Unknown"

// shapeResolver inspects one historical record shape. It reports the
// crop name and the raw 0-100 confidence value, or ok=false when the
// record does not match this shape. Resolvers never panic on malformed
// input; a wrong type anywhere is treated as no match.
type shapeResolver func(record map[string]any) (name string, rawPct float64, ok bool)

// resolvers lists the known record shapes in resolution order. First
// match wins. Adding a new legacy shape means inserting one entry here.
var resolvers = []shapeResolver{
  resolveRecommendations,
  resolvePredictionField,
  resolveTopLevelCropName,
  resolveInputData,
}

// Normalize converts a raw stored record of any historical shape into
// a Normalized value. It is total over arbitrary input: records that
// match no known shape resolve to "Unknown" with confidence 0.
func Normalize(record map[string]any) Normalized {
  for _, resolve := range resolvers {
    if name, rawPct, ok := resolve(record); ok {
      return Normalized{CropName: name, Confidence: normalizeConfidence(rawPct)}
    }
  }
  return Normalized{CropName: UnknownCrop, Confidence: 0.0}
}

// normalizeConfidence converts a 0-100 percentage to a fraction rounded
// to 4 decimal places and clamped into [0, 1].
func normalizeConfidence(rawPct float64) float64 {
  if math.IsNaN(rawPct) || math.IsInf(rawPct, 0) {
    return 0.0
  }
  fraction := math.Round(rawPct/100*10000) / 10000
  if fraction < 0 {
    return 0.0
  }
  if fraction > 1 {
    return 1.0
  }
  return fraction
}

// resolveRecommendations handles the newest shape: a non-empty
// "recommendations" list whose first entry carries crop_name and a
// 0-100 confidence_score.
func resolveRecommendations(record map[string]any) (string, float64, bool) {
  list, ok := record["recommendations"].([]any)
  if !ok || len(list) == 0 {
    return "", 0, false
  }
  first, ok := list[0].(map[string]any)
  if !ok {
    return "", 0, false
  }

  name := firstNonEmptyString(first, "crop_name", "crop")
  if name == "" {
    return "", 0, false
  }
  return name, asFloat(first["confidence_score"]), true
}

// resolvePredictionField handles a "prediction" field that is either a
// nested mapping or a plain string.
func resolvePredictionField(record map[string]any) (string, float64, bool) {
  raw, present := record["prediction"]
  if !present {
    return "", 0, false
  }

  switch value := raw.(type) {
  case map[string]any:
    name := firstNonEmptyString(value, "prediction", "crop_name", "crop")
    if name == "" {
      return "", 0, false
    }
    return name, asFloat(value["probability"]), true
  case string:
    if value == "" {
      return "", 0, false
    }
    return value, 0, true
  default:
    return "", 0, false
  }
}

func resolveTopLevelCropName(record map[string]any) (string, float64, bool) {
  name, ok := record["crop_name"].(string)
  if !ok || name == "" {
    return "", 0, false
  }
  return name, asFloat(record["confidence"]), true
}

func resolveInputData(record map[string]any) (string, float64, bool) {
  input, ok := record["input_data"].(map[string]any)
  if !ok {
    return "", 0, false
  }
  name, ok := input["crop"].(string)
  if !ok || name == "" {
    return "", 0, false
  }
  return name, 0, true
}

func firstNonEmptyString(mapping map[string]any, keys ...string) string {
  for _, key := range keys {
    if value, ok := mapping[key].(string); ok && value != "" {
      return value
    }
  }
  return ""
}

// asFloat coerces json-decoded numeric values. Anything else counts as
// zero confidence rather than an error.
func asFloat(raw any) float64 {
  switch value := raw.(type) {
  case float64:
    return value
  case float32:
    return float64(value)
  case int:
    return float64(value)
  case int64:
    return float64(value)
  default:
    return 0
  }
}
