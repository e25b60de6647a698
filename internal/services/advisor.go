package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/krishihq/cropadvisor-backend/internal/clients/groq"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/repos"
  "github.com/krishihq/cropadvisor-backend/internal/types"
)

const (
  advisorMaxTokens   = 1024
  advisorTemperature = 0.7

  titleMaxTokens   = 20
  titleTemperature = 0.3
  titleMaxMessages = 4
  titleMaxMsgChars = 200
)

// titleKeywords is the fallback vocabulary scanned when the LLM cannot
// produce a usable session title.
var titleKeywords = []string{
  "rice", "wheat", "maize", "cotton", "sugarcane", "millet",
  "chickpea", "banana", "mango", "groundnut", "soybean", "potato",
  "fertilizer", "pesticide", "irrigation", "soil", "seed", "harvest",
  "weather", "monsoon", "disease", "pest", "yield", "market",
}

type AdvisorService interface {
  GenerateResponse(ctx context.Context, userID string, aiContext map[string]any, history []types.ChatMessage) (string, error)
  GenerateSessionTitle(ctx context.Context, userID string, messages []types.ChatMessage) string
}

type advisorService struct {
  log     *logger.Logger
  llm     groq.Client
  callLog repos.LLMCallLogRepo
}

func NewAdvisorService(log *logger.Logger, llm groq.Client, callLog repos.LLMCallLogRepo) AdvisorService {
  serviceLog := log.With("service", "AdvisorService")
  return &advisorService{log: serviceLog, llm: llm, callLog: callLog}
}

func (as *advisorService) GenerateResponse(ctx context.Context, userID string, aiContext map[string]any, history []types.ChatMessage) (string, error) {
  if as.llm == nil {
    return "", fmt.Errorf("advisor unavailable")
  }

  messages := []groq.Message{{Role: string(types.RoleSystem), Content: buildSystemPrompt(aiContext)}}
  for _, msg := range history {
    if msg.Role != types.RoleUser && msg.Role != types.RoleAssistant {
      continue
    }
    messages = append(messages, groq.Message{Role: string(msg.Role), Content: msg.Content})
  }

  completion, err := as.llm.Complete(ctx, messages, advisorMaxTokens, advisorTemperature)
  as.recordCall(ctx, userID, "chat_response", messages, completion, err)
  if err != nil {
    return "", err
  }
  return completion.Content, nil
}

// GenerateSessionTitle is best-effort: any LLM failure or degenerate
// result falls back to a deterministic keyword title. Never errors.
func (as *advisorService) GenerateSessionTitle(ctx context.Context, userID string, messages []types.ChatMessage) string {
  transcript := condenseTranscript(messages)
  if transcript == "" {
    return "Farm Consultation"
  }

  if as.llm != nil {
    prompt := []groq.Message{
      {Role: string(types.RoleSystem), Content: "Generate a short 2-4 word title for this farming conversation. Return only the title, nothing else."},
      {Role: string(types.RoleUser), Content: transcript},
    }
    completion, err := as.llm.Complete(ctx, prompt, titleMaxTokens, titleTemperature)
    as.recordCall(ctx, userID, "session_title", prompt, completion, err)
    if err == nil {
      if title, ok := cleanTitle(completion.Content); ok {
        return title
      }
      as.log.Debug("LLM title degenerate, falling back", "raw", completion.Content)
    } else {
      as.log.Warn("LLM title generation failed, falling back", "error", err)
    }
  }
  return keywordFallbackTitle(messages)
}

func buildSystemPrompt(aiContext map[string]any) string {
  var sb strings.Builder
  sb.WriteString("You are an expert agricultural advisor helping Indian farmers. ")
  sb.WriteString("Give practical, specific advice in simple language.")

  active, _ := aiContext["personalization_active"].(bool)
  if !active {
    return sb.String()
  }

  sb.WriteString("\n\nFarmer profile:")
  appendFact(&sb, aiContext, "name", "Name")
  appendFact(&sb, aiContext, "location", "Location")
  if size, ok := aiContext["farm_size"].(float64); ok {
    sb.WriteString(fmt.Sprintf("\n- Farm size: %.1f acres", size))
  }
  appendFact(&sb, aiContext, "soil_type", "Soil type")
  appendFact(&sb, aiContext, "irrigation_type", "Irrigation")
  appendFact(&sb, aiContext, "experience_level", "Experience")
  if crops, ok := aiContext["primary_crops"].([]any); ok && len(crops) > 0 {
    names := make([]string, 0, len(crops))
    for _, crop := range crops {
      if name, ok := crop.(string); ok {
        names = append(names, name)
      }
    }
    if len(names) > 0 {
      sb.WriteString("\n- Primary crops: " + strings.Join(names, ", "))
    }
  }
  sb.WriteString("\n\nTailor your advice to this farmer's situation.")
  return sb.String()
}

func appendFact(sb *strings.Builder, aiContext map[string]any, key, label string) {
  if value, ok := aiContext[key].(string); ok && value != "" {
    sb.WriteString("\n- " + label + ": " + value)
  }
}

// condenseTranscript takes the first few user/assistant turns,
// truncating each so the prompt stays bounded.
func condenseTranscript(messages []types.ChatMessage) string {
  var lines []string
  for _, msg := range messages {
    if len(lines) >= titleMaxMessages {
      break
    }
    if msg.Role != types.RoleUser && msg.Role != types.RoleAssistant {
      continue
    }
    content := strings.TrimSpace(msg.Content)
    if content == "" {
      continue
    }
    if len(content) > titleMaxMsgChars {
      content = content[:titleMaxMsgChars]
    }
    lines = append(lines, string(msg.Role)+": "+content)
  }
  return strings.Join(lines, "\n")
}

// cleanTitle strips quoting and rejects degenerate results (too long,
// too many words, or empty after cleanup).
func cleanTitle(raw string) (string, bool) {
  title := strings.TrimSpace(raw)
  title = strings.Trim(title, "\"'`.“”‘’")
  title = strings.TrimSpace(title)
  if title == "" {
    return "", false
  }

  words := strings.Fields(title)
  if len(title) > 50 || len(words) > 6 {
    return "", false
  }

  for i, word := range words {
    if len(word) > 1 {
      words[i] = strings.ToUpper(word[:1]) + word[1:]
    } else {
      words[i] = strings.ToUpper(word)
    }
  }
  return strings.Join(words, " "), true
}

// keywordFallbackTitle scans user messages for the first known
// agricultural keyword and builds a title from it.
func keywordFallbackTitle(messages []types.ChatMessage) string {
  for _, msg := range messages {
    if msg.Role != types.RoleUser {
      continue
    }
    lowered := strings.ToLower(msg.Content)
    for _, keyword := range titleKeywords {
      if strings.Contains(lowered, keyword) {
        label := strings.ToUpper(keyword[:1]) + keyword[1:]
        if isCropKeyword(keyword) {
          return label + " Consultation"
        }
        return label + " Help"
      }
    }
  }
  if len(messages) > 0 {
    return "Agricultural Consultation"
  }
  return "Farm Consultation"
}

func isCropKeyword(keyword string) bool {
  for _, profile := range cropProfiles {
    if profile.name == keyword {
      return true
    }
  }
  return false
}

// recordCall persists an audit row for every LLM call. Best effort;
// audit failures never surface to the caller.
func (as *advisorService) recordCall(ctx context.Context, userID, callType string, prompt []groq.Message, completion *groq.Completion, callErr error) {
  if as.callLog == nil {
    return
  }

  entry := &types.LLMCallLog{
    CallType: callType,
    Success:  callErr == nil,
  }
  if as.llm != nil {
    entry.Model = as.llm.Model()
  }
  if parsed, err := uuid.Parse(userID); err == nil {
    entry.UserID = &parsed
  }
  if raw, err := json.Marshal(prompt); err == nil {
    entry.Prompt = string(raw)
  }
  if completion != nil {
    entry.Response = completion.Content
    if raw, err := json.Marshal(map[string]any{"total_tokens": completion.TokensUsed}); err == nil {
      entry.Usage = datatypes.JSON(raw)
    }
  }
  if callErr != nil {
    entry.Error = callErr.Error()
  }

  if _, err := as.callLog.Create(ctx, nil, []*types.LLMCallLog{entry}); err != nil {
    as.log.Warn("Failed to record LLM call", "call_type", callType, "error", err)
  }
}
