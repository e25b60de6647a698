package aicontext

import (
  "testing"
)

func TestAssembleEmptyProfile(t *testing.T) {
  for _, profile := range []map[string]any{nil, {}} {
    ctx := Assemble(profile)
    score := Score(ctx)
    if score != 0 {
      t.Fatalf("score = %d, want 0 for empty profile", score)
    }
    if Active(score, DefaultThreshold) {
      t.Fatalf("personalization active for empty profile")
    }
  }
}

func TestAssembleEnhancedProfile(t *testing.T) {
  profile := map[string]any{
    "personal_info": map[string]any{"full_name": "Asha"},
    "farm_profile": map[string]any{
      "location":         map[string]any{"state": "Maharashtra", "district": "Latur"},
      "soil_information": map[string]any{"primary_soil_type": "loamy"},
    },
    "farming_profile": map[string]any{"primary_crops": []any{"rice"}},
  }

  ctx := Assemble(profile)
  if ctx.Name != "Asha" {
    t.Fatalf("name = %q, want Asha", ctx.Name)
  }
  if ctx.Location != "Latur, Maharashtra" {
    t.Fatalf("location = %q, want Latur, Maharashtra", ctx.Location)
  }
  if ctx.SoilType != "loamy" {
    t.Fatalf("soil_type = %q, want loamy", ctx.SoilType)
  }
  if len(ctx.PrimaryCrops) != 1 || ctx.PrimaryCrops[0] != "rice" {
    t.Fatalf("primary_crops = %v, want [rice]", ctx.PrimaryCrops)
  }

  score := Score(ctx)
  if score < 8 {
    t.Fatalf("score = %d, want >= 8", score)
  }
  if !Active(score, DefaultThreshold) {
    t.Fatalf("personalization inactive at score %d", score)
  }
}

func TestAssembleFlatAndEnhancedEquivalence(t *testing.T) {
  flat := map[string]any{
    "location":  "Pune, Maharashtra",
    "farm_size": 3.5,
  }
  enhanced := map[string]any{
    "farm_profile": map[string]any{
      "location":     map[string]any{"district": "Pune", "state": "Maharashtra"},
      "farm_details": map[string]any{"total_area": 3.5},
    },
  }

  flatCtx := Assemble(flat)
  enhancedCtx := Assemble(enhanced)

  if flatCtx.Location != enhancedCtx.Location {
    t.Fatalf("location mismatch: flat %q vs enhanced %q", flatCtx.Location, enhancedCtx.Location)
  }
  if flatCtx.FarmSize != enhancedCtx.FarmSize {
    t.Fatalf("farm_size mismatch: flat %v vs enhanced %v", flatCtx.FarmSize, enhancedCtx.FarmSize)
  }
  if !flatCtx.HasFarmSize || !enhancedCtx.HasFarmSize {
    t.Fatalf("farm_size flag lost")
  }
}

func TestAssembleFlatFieldWins(t *testing.T) {
  profile := map[string]any{
    "location":  "Nagpur",
    "soil_type": "black",
    "farm_profile": map[string]any{
      "location":         map[string]any{"district": "Pune", "state": "Maharashtra"},
      "soil_information": map[string]any{"primary_soil_type": "loamy"},
    },
  }

  ctx := Assemble(profile)
  if ctx.Location != "Nagpur" {
    t.Fatalf("location = %q, want flat value Nagpur", ctx.Location)
  }
  if ctx.SoilType != "black" {
    t.Fatalf("soil_type = %q, want flat value black", ctx.SoilType)
  }
}

func TestAssembleMalformedFacts(t *testing.T) {
  profile := map[string]any{
    "location":  42.0,
    "farm_size": "not a number",
    "farm_profile": map[string]any{
      "location":     []any{"wrong"},
      "farm_details": "wrong",
    },
    "farming_profile": map[string]any{
      "primary_crops":    "rice",
      "experience_level": 3.0,
    },
    "address": "Village Khed, Pune",
  }

  ctx := Assemble(profile)
  if ctx.Location != "Village Khed, Pune" {
    t.Fatalf("location = %q, want address fallback", ctx.Location)
  }
  if ctx.HasFarmSize {
    t.Fatalf("farm_size should be omitted, got %v", ctx.FarmSize)
  }
  if ctx.ExperienceLevel != "" || ctx.PrimaryCrops != nil {
    t.Fatalf("wrongly typed farming_profile fields should be omitted: %+v", ctx)
  }
}

func TestAssembleFarmSizeWithUnits(t *testing.T) {
  ctx := Assemble(map[string]any{"farm_size": "3.5 acres"})
  if !ctx.HasFarmSize || ctx.FarmSize != 3.5 {
    t.Fatalf("farm_size = %v (has=%v), want 3.5", ctx.FarmSize, ctx.HasFarmSize)
  }
}

func TestScoreDeterministicAndCapped(t *testing.T) {
  profile := map[string]any{
    "name":      "Ravi",
    "location":  "Pune",
    "farm_size": 2.0,
    "soil_type": "loamy",
    "farming_profile": map[string]any{
      "primary_crops":    []any{"rice", "wheat"},
      "experience_level": "intermediate",
    },
  }

  first := Score(Assemble(profile))
  second := Score(Assemble(profile))
  if first != second {
    t.Fatalf("score not deterministic: %d vs %d", first, second)
  }
  if first != MaxScore {
    t.Fatalf("score = %d, want cap %d for a full profile", first, MaxScore)
  }
}

func TestScoreMonotonic(t *testing.T) {
  sparse := Assemble(map[string]any{"name": "Ravi"})
  fuller := Assemble(map[string]any{"name": "Ravi", "location": "Pune"})
  if Score(fuller) <= Score(sparse) {
    t.Fatalf("adding a fact did not raise the score: %d vs %d", Score(fuller), Score(sparse))
  }
}

func TestActiveThreshold(t *testing.T) {
  tests := []struct {
    score int
    want  bool
  }{
    {0, false},
    {4, false},
    {5, true},
    {10, true},
  }
  for _, tt := range tests {
    if got := Active(tt.score, DefaultThreshold); got != tt.want {
      t.Fatalf("Active(%d) = %v, want %v", tt.score, got, tt.want)
    }
  }
}
