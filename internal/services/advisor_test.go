package services

import (
  "context"
  "strings"
  "testing"
  "time"

  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/types"
)

func userMsg(content string) types.ChatMessage {
  return types.ChatMessage{ID: "m", Role: types.RoleUser, Content: content, Timestamp: time.Now()}
}

func TestCleanTitle(t *testing.T) {
  tests := []struct {
    name   string
    raw    string
    want   string
    wantOK bool
  }{
    {"plain", "rice farming tips", "Rice Farming Tips", true},
    {"quoted", `"Wheat Disease Help"`, "Wheat Disease Help", true},
    {"trailing period", "Soil Health.", "Soil Health", true},
    {"empty", "   ", "", false},
    {"only quotes", `""`, "", false},
    {"too many words", "a b c d e f g", "", false},
    {"too long", "This Title Is Way Way Way Too Long For A Session Label", "", false},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      got, ok := cleanTitle(tt.raw)
      if ok != tt.wantOK {
        t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
      }
      if got != tt.want {
        t.Fatalf("title = %q, want %q", got, tt.want)
      }
    })
  }
}

func TestKeywordFallbackTitle(t *testing.T) {
  tests := []struct {
    name     string
    messages []types.ChatMessage
    want     string
  }{
    {
      name:     "crop keyword",
      messages: []types.ChatMessage{userMsg("When should I plant rice this year?")},
      want:     "Rice Consultation",
    },
    {
      name:     "topic keyword",
      messages: []types.ChatMessage{userMsg("Which fertilizer works for sandy ground?")},
      want:     "Fertilizer Help",
    },
    {
      name:     "no keyword",
      messages: []types.ChatMessage{userMsg("Hello there")},
      want:     "Agricultural Consultation",
    },
    {
      name:     "no messages",
      messages: nil,
      want:     "Farm Consultation",
    },
    {
      name: "assistant messages ignored",
      messages: []types.ChatMessage{
        {ID: "a", Role: types.RoleAssistant, Content: "rice is great"},
        userMsg("Hello there"),
      },
      want: "Agricultural Consultation",
    },
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      if got := keywordFallbackTitle(tt.messages); got != tt.want {
        t.Fatalf("title = %q, want %q", got, tt.want)
      }
    })
  }
}

func TestGenerateSessionTitleWithoutLLM(t *testing.T) {
  log, err := logger.New("dev")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  advisor := NewAdvisorService(log, nil, nil)

  title := advisor.GenerateSessionTitle(context.Background(), "u1", []types.ChatMessage{
    userMsg("My cotton field needs irrigation advice"),
  })
  if title != "Cotton Consultation" {
    t.Fatalf("title = %q, want Cotton Consultation", title)
  }
}

func TestBuildSystemPromptGatesOnPersonalization(t *testing.T) {
  inactive := buildSystemPrompt(map[string]any{
    "personalization_active": false,
    "name":                   "Asha",
  })
  if strings.Contains(inactive, "Farmer profile") {
    t.Fatalf("inactive context leaked profile facts into prompt")
  }

  active := buildSystemPrompt(map[string]any{
    "personalization_active": true,
    "name":                   "Asha",
    "location":               "Latur, Maharashtra",
    "farm_size":              2.5,
    "primary_crops":          []any{"rice", "wheat"},
  })
  for _, want := range []string{"Asha", "Latur, Maharashtra", "2.5 acres", "rice, wheat"} {
    if !strings.Contains(active, want) {
      t.Fatalf("prompt missing %q:\n%s", want, active)
    }
  }
}

func TestCondenseTranscriptBounds(t *testing.T) {
  long := make([]byte, 500)
  for i := range long {
    long[i] = 'x'
  }
  messages := []types.ChatMessage{
    userMsg(string(long)),
    {ID: "a", Role: types.RoleAssistant, Content: "short reply"},
    userMsg("another"),
    {ID: "b", Role: types.RoleAssistant, Content: "reply"},
    userMsg("fifth message should be dropped"),
  }

  transcript := condenseTranscript(messages)
  if strings.Contains(transcript, "fifth message") {
    t.Fatalf("transcript not capped at %d messages", titleMaxMessages)
  }
  // Each line stays bounded by the per-message cap plus the role prefix.
  for _, line := range strings.Split(transcript, "\n") {
    if len(line) > titleMaxMsgChars+20 {
      t.Fatalf("line too long: %d chars", len(line))
    }
  }
}
