package services

import (
  "context"
  "fmt"
  "time"

  "github.com/krishihq/cropadvisor-backend/internal/aicontext"
  "github.com/krishihq/cropadvisor-backend/internal/clients/redis"
  "github.com/krishihq/cropadvisor-backend/internal/docstore"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
)

const profileCollection = "profiles"

// CompletionStatus reports how filled-in a profile is, section by
// section, so the client can nudge users toward better personalization.
type CompletionStatus struct {
  Score            int      `json:"score"`
  MaxScore         int      `json:"max_score"`
  Percent          int      `json:"percent"`
  MissingFields    []string `json:"missing_fields"`
  Personalization  bool     `json:"personalization_active"`
}

type ProfileService interface {
  GetProfile(ctx context.Context, userID string) (map[string]any, error)
  UpdateProfile(ctx context.Context, userID string, updates map[string]any) (map[string]any, error)
  ReplaceEnhancedProfile(ctx context.Context, userID string, profile map[string]any) (map[string]any, error)
  GetCompletionStatus(ctx context.Context, userID string) (*CompletionStatus, error)
}

type profileService struct {
  log          *logger.Logger
  store        docstore.DocStore
  contextCache redis.ContextCache
}

func NewProfileService(log *logger.Logger, store docstore.DocStore, contextCache redis.ContextCache) ProfileService {
  serviceLog := log.With("service", "ProfileService")
  return &profileService{log: serviceLog, store: store, contextCache: contextCache}
}

func (ps *profileService) GetProfile(ctx context.Context, userID string) (map[string]any, error) {
  profile, found, err := ps.store.Get(ctx, profileCollection, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load profile: %w", err)
  }
  if !found {
    return map[string]any{"user_id": userID}, nil
  }
  return profile, nil
}

// UpdateProfile merges flat legacy fields into whatever shape the
// stored profile already has. Unknown keys are stored as-is; the
// assembler decides later what it can use.
func (ps *profileService) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (map[string]any, error) {
  profile, found, err := ps.store.Get(ctx, profileCollection, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load profile: %w", err)
  }
  if !found {
    profile = map[string]any{}
  }

  for key, value := range updates {
    if value == nil {
      delete(profile, key)
      continue
    }
    profile[key] = value
  }
  profile["user_id"] = userID
  profile["updated_at"] = time.Now().UTC().Format(time.RFC3339)

  if err := ps.store.Set(ctx, profileCollection, userID, profile); err != nil {
    return nil, fmt.Errorf("Failed to save profile: %w", err)
  }
  ps.invalidateContext(ctx, userID)
  return profile, nil
}

// ReplaceEnhancedProfile overwrites the nested sections wholesale while
// keeping any flat legacy fields that are not part of the enhanced
// shape. Clients editing the enhanced form always submit full sections.
func (ps *profileService) ReplaceEnhancedProfile(ctx context.Context, userID string, enhanced map[string]any) (map[string]any, error) {
  profile, found, err := ps.store.Get(ctx, profileCollection, userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load profile: %w", err)
  }
  if !found {
    profile = map[string]any{}
  }

  for _, section := range []string{"personal_info", "farm_profile", "farming_profile"} {
    if value, ok := enhanced[section]; ok {
      if value == nil {
        delete(profile, section)
        continue
      }
      profile[section] = value
    }
  }
  profile["user_id"] = userID
  profile["updated_at"] = time.Now().UTC().Format(time.RFC3339)

  if err := ps.store.Set(ctx, profileCollection, userID, profile); err != nil {
    return nil, fmt.Errorf("Failed to save profile: %w", err)
  }
  ps.invalidateContext(ctx, userID)
  return profile, nil
}

func (ps *profileService) GetCompletionStatus(ctx context.Context, userID string) (*CompletionStatus, error) {
  profile, err := ps.GetProfile(ctx, userID)
  if err != nil {
    return nil, err
  }

  assembled := aicontext.Assemble(profile)
  score := aicontext.Score(assembled)

  missing := []string{}
  if assembled.Name == "" {
    missing = append(missing, "name")
  }
  if assembled.Location == "" {
    missing = append(missing, "location")
  }
  if !assembled.HasFarmSize {
    missing = append(missing, "farm_size")
  }
  if assembled.SoilType == "" {
    missing = append(missing, "soil_type")
  }
  if len(assembled.PrimaryCrops) == 0 {
    missing = append(missing, "primary_crops")
  }
  if assembled.ExperienceLevel == "" {
    missing = append(missing, "experience_level")
  }

  return &CompletionStatus{
    Score:           score,
    MaxScore:        aicontext.MaxScore,
    Percent:         score * 100 / aicontext.MaxScore,
    MissingFields:   missing,
    Personalization: aicontext.Active(score, aicontext.DefaultThreshold),
  }, nil
}

func (ps *profileService) invalidateContext(ctx context.Context, userID string) {
  if ps.contextCache == nil {
    return
  }
  ps.contextCache.Invalidate(ctx, userID)
}
