package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"

  "github.com/google/uuid"

  "github.com/krishihq/cropadvisor-backend/internal/docstore"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/types"
)

const sessionCollection = "chat_sessions"

// Message counts after which automatic title generation is attempted.
// The placeholder check makes repeated attempts idempotent.
var titleTriggerCounts = map[int]bool{2: true, 4: true}

// QuickAction is a canned prompt offered by the chat UI.
type QuickAction struct {
  ID     string `json:"id"`
  Label  string `json:"label"`
  Prompt string `json:"prompt"`
}

var quickActions = []QuickAction{
  {ID: "crop_advice", Label: "Crop advice", Prompt: "What crops should I plant this season?"},
  {ID: "pest_control", Label: "Pest control", Prompt: "How do I protect my crops from common pests?"},
  {ID: "fertilizer", Label: "Fertilizer guidance", Prompt: "What fertilizer schedule should I follow?"},
  {ID: "irrigation", Label: "Irrigation tips", Prompt: "How often should I irrigate my fields?"},
  {ID: "market_prices", Label: "Market guidance", Prompt: "When is the best time to sell my harvest?"},
}

// ChatReply is the user-facing result of one exchange.
type ChatReply struct {
  SessionID string            `json:"session_id"`
  Message   types.ChatMessage `json:"message"`
}

type ChatService interface {
  SendMessage(ctx context.Context, userID, sessionID, content string) (*ChatReply, error)
  GetSessions(ctx context.Context, userID string) ([]types.ChatSessionSummary, error)
  GetSession(ctx context.Context, userID, sessionID string) (*types.ChatSession, error)
  DeleteSession(ctx context.Context, userID, sessionID string) error
  QuickActions() []QuickAction
}

type chatService struct {
  log      *logger.Logger
  store    docstore.DocStore
  advisor  AdvisorService
  contexts ContextService
}

func NewChatService(log *logger.Logger, store docstore.DocStore, advisor AdvisorService, contexts ContextService) ChatService {
  serviceLog := log.With("service", "ChatService")
  return &chatService{
    log:      serviceLog,
    store:    store,
    advisor:  advisor,
    contexts: contexts,
  }
}

func (cs *chatService) QuickActions() []QuickAction {
  return quickActions
}

func (cs *chatService) SendMessage(ctx context.Context, userID, sessionID, content string) (*ChatReply, error) {
  session, err := cs.loadOrCreateSession(ctx, userID, sessionID)
  if err != nil {
    return nil, err
  }

  now := time.Now().UTC()
  session.Messages = append(session.Messages, types.ChatMessage{
    ID:        uuid.New().String(),
    Role:      types.RoleUser,
    Content:   content,
    Timestamp: now,
  })

  aiContext, ctxErr := cs.contexts.GetAIContext(ctx, userID)
  if ctxErr != nil {
    cs.log.Warn("AI context unavailable, answering without personalization", "user_id", userID, "error", ctxErr)
    aiContext = map[string]any{"personalization_active": false}
  }

  reply, genErr := cs.advisor.GenerateResponse(ctx, userID, aiContext, session.Messages)
  if genErr != nil {
    cs.log.Warn("Advisor response failed", "session_id", session.SessionID, "error", genErr)
    reply = "I'm having trouble answering right now. Please try again in a moment."
  }

  assistantMsg := types.ChatMessage{
    ID:        uuid.New().String(),
    Role:      types.RoleAssistant,
    Content:   reply,
    Timestamp: time.Now().UTC(),
  }
  session.Messages = append(session.Messages, assistantMsg)
  session.UpdatedAt = time.Now().UTC()

  if err := cs.saveSession(ctx, session); err != nil {
    return nil, err
  }

  cs.maybeGenerateTitle(session)

  return &ChatReply{SessionID: session.SessionID, Message: assistantMsg}, nil
}

// maybeGenerateTitle fires title synthesis in the background after the
// 1st and 2nd exchange. It never blocks the response; failures are
// logged and the placeholder simply survives.
func (cs *chatService) maybeGenerateTitle(session *types.ChatSession) {
  if !titleTriggerCounts[len(session.Messages)] {
    return
  }
  if !types.HasPlaceholderTitle(session.Title) {
    return
  }

  snapshot := *session
  go func() {
    defer func() {
      if r := recover(); r != nil {
        cs.log.Error("Title generation panicked", "session_id", snapshot.SessionID, "panic", r)
      }
    }()

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    title := cs.advisor.GenerateSessionTitle(ctx, snapshot.UserID, snapshot.Messages)
    if title == "" {
      return
    }

    // Re-read before writing: another trigger may have won already.
    current, err := cs.loadSession(ctx, snapshot.UserID, snapshot.SessionID)
    if err != nil || current == nil {
      return
    }
    if !types.HasPlaceholderTitle(current.Title) {
      return
    }
    current.Title = title
    current.UpdatedAt = time.Now().UTC()
    if err := cs.saveSession(ctx, current); err != nil {
      cs.log.Warn("Failed to save generated title", "session_id", snapshot.SessionID, "error", err)
      return
    }
    cs.log.Info("Session title generated", "session_id", snapshot.SessionID, "title", title)
  }()
}

func (cs *chatService) GetSessions(ctx context.Context, userID string) ([]types.ChatSessionSummary, error) {
  docs, err := cs.store.Scan(ctx, sessionCollection, "user_id", userID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load sessions: %w", err)
  }

  summaries := make([]types.ChatSessionSummary, 0, len(docs))
  for _, doc := range docs {
    session, err := decodeSession(doc)
    if err != nil {
      cs.log.Warn("Skipping undecodable session", "error", err)
      continue
    }
    summary := types.ChatSessionSummary{
      SessionID:    session.SessionID,
      Title:        session.Title,
      MessageCount: len(session.Messages),
    }
    if n := len(session.Messages); n > 0 {
      last := session.Messages[n-1]
      summary.LastMessageAt = last.Timestamp
      preview := last.Content
      if len(preview) > 120 {
        preview = preview[:120]
      }
      summary.Preview = preview
    }
    summaries = append(summaries, summary)
  }
  return summaries, nil
}

func (cs *chatService) GetSession(ctx context.Context, userID, sessionID string) (*types.ChatSession, error) {
  session, err := cs.loadSession(ctx, userID, sessionID)
  if err != nil {
    return nil, err
  }
  if session == nil {
    return nil, fmt.Errorf("Session not found")
  }
  return session, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userID, sessionID string) error {
  session, err := cs.loadSession(ctx, userID, sessionID)
  if err != nil {
    return err
  }
  if session == nil {
    return fmt.Errorf("Session not found")
  }
  return cs.store.Delete(ctx, sessionCollection, sessionID)
}

func (cs *chatService) loadOrCreateSession(ctx context.Context, userID, sessionID string) (*types.ChatSession, error) {
  if sessionID != "" {
    session, err := cs.loadSession(ctx, userID, sessionID)
    if err != nil {
      return nil, err
    }
    if session != nil {
      return session, nil
    }
  }

  now := time.Now().UTC()
  return &types.ChatSession{
    SessionID: uuid.New().String(),
    UserID:    userID,
    Title:     types.PlaceholderSessionTitle(now),
    Messages:  []types.ChatMessage{},
    CreatedAt: now,
    UpdatedAt: now,
  }, nil
}

// loadSession returns nil without error when the session is absent or
// owned by a different user.
func (cs *chatService) loadSession(ctx context.Context, userID, sessionID string) (*types.ChatSession, error) {
  doc, found, err := cs.store.Get(ctx, sessionCollection, sessionID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load session: %w", err)
  }
  if !found {
    return nil, nil
  }
  session, err := decodeSession(doc)
  if err != nil {
    return nil, fmt.Errorf("Failed to decode session: %w", err)
  }
  if session.UserID != userID {
    return nil, nil
  }
  return session, nil
}

func (cs *chatService) saveSession(ctx context.Context, session *types.ChatSession) error {
  doc, err := encodeSession(session)
  if err != nil {
    return fmt.Errorf("Failed to encode session: %w", err)
  }
  if err := cs.store.Set(ctx, sessionCollection, session.SessionID, doc); err != nil {
    return fmt.Errorf("Failed to save session: %w", err)
  }
  return nil
}

func encodeSession(session *types.ChatSession) (map[string]any, error) {
  raw, err := json.Marshal(session)
  if err != nil {
    return nil, err
  }
  var doc map[string]any
  if err := json.Unmarshal(raw, &doc); err != nil {
    return nil, err
  }
  return doc, nil
}

func decodeSession(doc map[string]any) (*types.ChatSession, error) {
  raw, err := json.Marshal(doc)
  if err != nil {
    return nil, err
  }
  var session types.ChatSession
  if err := json.Unmarshal(raw, &session); err != nil {
    return nil, err
  }
  return &session, nil
}
