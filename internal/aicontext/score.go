package aicontext

// Quality scoring weights. Additive over populated facts, capped at
// MaxScore.
const (
  nameWeight       = 2
  locationWeight   = 2
  farmSizeWeight   = 1
  soilWeight       = 2
  cropsWeight      = 2
  experienceWeight = 1

  MaxScore = 10

  // DefaultThreshold gates personalization: a context scoring above it
  // is trusted to drive personalized advice. The cutoff is a policy
  // knob, not a contract.
  DefaultThreshold = 4
)

// Score returns the completeness score in [0, MaxScore] for an
// assembled context. Deterministic over the same input.
func Score(ctx Context) int {
  score := 0
  if ctx.Name != "" {
    score += nameWeight
  }
  if ctx.Location != "" {
    score += locationWeight
  }
  if ctx.HasFarmSize {
    score += farmSizeWeight
  }
  if ctx.SoilType != "" {
    score += soilWeight
  }
  if len(ctx.PrimaryCrops) > 0 {
    score += cropsWeight
  }
  if ctx.ExperienceLevel != "" {
    score += experienceWeight
  }
  if score > MaxScore {
    score = MaxScore
  }
  return score
}

// Active reports whether the score clears the personalization gate.
func Active(score, threshold int) bool {
  return score > threshold
}
