package prediction

import (
  "encoding/json"
  "testing"
)

func TestNormalizeKnownShapes(t *testing.T) {
  tests := []struct {
    name           string
    record         map[string]any
    wantCrop       string
    wantConfidence float64
  }{
    {
      name: "recommendations list",
      record: map[string]any{
        "recommendations": []any{
          map[string]any{"crop_name": "rice", "confidence_score": 87.5},
          map[string]any{"crop_name": "wheat", "confidence_score": 61.0},
        },
      },
      wantCrop:       "rice",
      wantConfidence: 0.875,
    },
    {
      name: "prediction mapping with probability",
      record: map[string]any{
        "prediction": map[string]any{"prediction": "maize", "probability": 92.0},
      },
      wantCrop:       "maize",
      wantConfidence: 0.92,
    },
    {
      name: "prediction mapping prefers prediction over crop",
      record: map[string]any{
        "prediction": map[string]any{"prediction": "cotton", "crop": "wheat"},
      },
      wantCrop:       "cotton",
      wantConfidence: 0,
    },
    {
      name:           "prediction plain string",
      record:         map[string]any{"prediction": "wheat"},
      wantCrop:       "wheat",
      wantConfidence: 0,
    },
    {
      name:           "top level crop name",
      record:         map[string]any{"crop_name": "sugarcane", "confidence": 45.0},
      wantCrop:       "sugarcane",
      wantConfidence: 0.45,
    },
    {
      name: "input data fallback",
      record: map[string]any{
        "input_data": map[string]any{"crop": "millet", "nitrogen": 40.0},
      },
      wantCrop:       "millet",
      wantConfidence: 0,
    },
    {
      name:           "empty record",
      record:         map[string]any{},
      wantCrop:       UnknownCrop,
      wantConfidence: 0,
    },
    {
      name:           "nil record",
      record:         nil,
      wantCrop:       UnknownCrop,
      wantConfidence: 0,
    },
    {
      name: "recommendations wins over prediction",
      record: map[string]any{
        "recommendations": []any{
          map[string]any{"crop_name": "rice", "confidence_score": 80.0},
        },
        "prediction": "wheat",
      },
      wantCrop:       "rice",
      wantConfidence: 0.8,
    },
    {
      name: "empty recommendations falls through",
      record: map[string]any{
        "recommendations": []any{},
        "prediction":      "barley",
      },
      wantCrop:       "barley",
      wantConfidence: 0,
    },
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      got := Normalize(tt.record)
      if got.CropName != tt.wantCrop {
        t.Fatalf("crop_name = %q, want %q", got.CropName, tt.wantCrop)
      }
      if got.Confidence != tt.wantConfidence {
        t.Fatalf("confidence = %v, want %v", got.Confidence, tt.wantConfidence)
      }
    })
  }
}

func TestNormalizeMalformedInput(t *testing.T) {
  tests := []struct {
    name   string
    record map[string]any
  }{
    {"recommendations is a string", map[string]any{"recommendations": "broken"}},
    {"recommendations entry is a string", map[string]any{"recommendations": []any{"broken"}}},
    {"prediction is a number", map[string]any{"prediction": 42.0}},
    {"prediction mapping without name", map[string]any{"prediction": map[string]any{"probability": 80.0}}},
    {"crop_name is a number", map[string]any{"crop_name": 7.0}},
    {"input_data is a list", map[string]any{"input_data": []any{"crop"}}},
    {"input_data crop is nil", map[string]any{"input_data": map[string]any{"crop": nil}}},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      got := Normalize(tt.record)
      if got.CropName != UnknownCrop {
        t.Fatalf("crop_name = %q, want %q", got.CropName, UnknownCrop)
      }
      if got.Confidence != 0 {
        t.Fatalf("confidence = %v, want 0", got.Confidence)
      }
    })
  }
}

func TestNormalizeConfidenceRange(t *testing.T) {
  tests := []struct {
    name   string
    record map[string]any
    want   float64
  }{
    {"percentage above hundred clamps", map[string]any{"crop_name": "rice", "confidence": 250.0}, 1.0},
    {"negative percentage clamps", map[string]any{"crop_name": "rice", "confidence": -30.0}, 0.0},
    {"rounds to four decimals", map[string]any{"crop_name": "rice", "confidence": 66.66666}, 0.6667},
    {"integer percentage", map[string]any{"crop_name": "rice", "confidence": 100}, 1.0},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      got := Normalize(tt.record)
      if got.Confidence != tt.want {
        t.Fatalf("confidence = %v, want %v", got.Confidence, tt.want)
      }
      if got.Confidence < 0 || got.Confidence > 1 {
        t.Fatalf("confidence %v outside [0, 1]", got.Confidence)
      }
    })
  }
}

func TestNormalizeIdempotent(t *testing.T) {
  record := map[string]any{
    "recommendations": []any{
      map[string]any{"crop_name": "rice", "confidence_score": 87.5},
    },
  }
  first := Normalize(record)

  // Round-trip the canonical form through json, re-encode confidence
  // as a percentage the way the canonical shape stores it at rest.
  raw, err := json.Marshal(map[string]any{
    "crop_name":  first.CropName,
    "confidence": first.Confidence * 100,
  })
  if err != nil {
    t.Fatalf("marshal: %v", err)
  }
  var asRecord map[string]any
  if err := json.Unmarshal(raw, &asRecord); err != nil {
    t.Fatalf("unmarshal: %v", err)
  }

  second := Normalize(asRecord)
  if second != first {
    t.Fatalf("re-normalizing canonical form changed result: %+v vs %+v", second, first)
  }
}
