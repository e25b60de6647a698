package services

import (
  "context"
  "testing"

  "github.com/krishihq/cropadvisor-backend/internal/docstore"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
)

func newProfileFixture(t *testing.T) (ProfileService, ContextService) {
  t.Helper()
  log, err := logger.New("dev")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  store := docstore.NewMemoryStore()
  profiles := NewProfileService(log, store, nil)
  contexts := NewContextService(log, store, nil, 4)
  return profiles, contexts
}

func TestProfileUpdateAndContext(t *testing.T) {
  profiles, contexts := newProfileFixture(t)
  ctx := context.Background()

  if _, err := profiles.UpdateProfile(ctx, "u1", map[string]any{
    "name":      "Ravi",
    "location":  "Pune, Maharashtra",
    "farm_size": 3.5,
    "soil_type": "black",
  }); err != nil {
    t.Fatalf("UpdateProfile: %v", err)
  }

  aiContext, err := contexts.GetAIContext(ctx, "u1")
  if err != nil {
    t.Fatalf("GetAIContext: %v", err)
  }
  if aiContext["name"] != "Ravi" {
    t.Fatalf("name = %v", aiContext["name"])
  }
  if aiContext["location"] != "Pune, Maharashtra" {
    t.Fatalf("location = %v", aiContext["location"])
  }
  if active, _ := aiContext["personalization_active"].(bool); !active {
    t.Fatalf("expected personalization active, context: %v", aiContext)
  }
}

func TestEnhancedProfileReplacesSections(t *testing.T) {
  profiles, contexts := newProfileFixture(t)
  ctx := context.Background()

  if _, err := profiles.UpdateProfile(ctx, "u1", map[string]any{"farm_size": 2.0}); err != nil {
    t.Fatalf("UpdateProfile: %v", err)
  }
  if _, err := profiles.ReplaceEnhancedProfile(ctx, "u1", map[string]any{
    "personal_info": map[string]any{"full_name": "Asha"},
    "farm_profile": map[string]any{
      "location": map[string]any{"district": "Latur", "state": "Maharashtra"},
    },
    "farming_profile": map[string]any{
      "primary_crops":    []any{"rice"},
      "experience_level": "beginner",
    },
  }); err != nil {
    t.Fatalf("ReplaceEnhancedProfile: %v", err)
  }

  aiContext, err := contexts.GetAIContext(ctx, "u1")
  if err != nil {
    t.Fatalf("GetAIContext: %v", err)
  }
  if aiContext["name"] != "Asha" {
    t.Fatalf("name = %v", aiContext["name"])
  }
  if aiContext["location"] != "Latur, Maharashtra" {
    t.Fatalf("location = %v", aiContext["location"])
  }
  // The flat legacy field survives an enhanced replace.
  if aiContext["farm_size"] != 2.0 {
    t.Fatalf("farm_size = %v, want 2.0", aiContext["farm_size"])
  }
}

func TestCompletionStatusTracksMissingFields(t *testing.T) {
  profiles, _ := newProfileFixture(t)
  ctx := context.Background()

  status, err := profiles.GetCompletionStatus(ctx, "u1")
  if err != nil {
    t.Fatalf("GetCompletionStatus: %v", err)
  }
  if status.Score != 0 || status.Personalization {
    t.Fatalf("empty profile status = %+v", status)
  }
  if len(status.MissingFields) != 6 {
    t.Fatalf("missing fields = %v, want all 6", status.MissingFields)
  }

  if _, err := profiles.UpdateProfile(ctx, "u1", map[string]any{
    "name":     "Ravi",
    "location": "Pune",
  }); err != nil {
    t.Fatalf("UpdateProfile: %v", err)
  }

  status, err = profiles.GetCompletionStatus(ctx, "u1")
  if err != nil {
    t.Fatalf("GetCompletionStatus: %v", err)
  }
  if status.Score != 4 {
    t.Fatalf("score = %d, want 4", status.Score)
  }
  if status.Personalization {
    t.Fatalf("score 4 should not clear the threshold")
  }
}
