package services

import (
  "context"
  "fmt"
  "testing"
  "time"

  "github.com/stretchr/testify/require"

  "github.com/krishihq/cropadvisor-backend/internal/clients/groq"
  "github.com/krishihq/cropadvisor-backend/internal/docstore"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/types"
)

type fakeLLM struct {
  replies    []string
  titleReply string
  titleErr   error
  titleCalls int
}

func (f *fakeLLM) Model() string { return "fake-model" }

func (f *fakeLLM) Complete(ctx context.Context, messages []groq.Message, maxTokens int, temperature float64) (*groq.Completion, error) {
  if maxTokens == titleMaxTokens {
    f.titleCalls++
    if f.titleErr != nil {
      return nil, f.titleErr
    }
    return &groq.Completion{Content: f.titleReply, TokensUsed: 8}, nil
  }
  reply := "General advice."
  if len(f.replies) > 0 {
    reply = f.replies[0]
    f.replies = f.replies[1:]
  }
  return &groq.Completion{Content: reply, TokensUsed: 50}, nil
}

func newChatFixture(t *testing.T, llm groq.Client) (ChatService, docstore.DocStore) {
  t.Helper()
  log, err := logger.New("dev")
  if err != nil {
    t.Fatalf("logger: %v", err)
  }
  store := docstore.NewMemoryStore()
  advisor := NewAdvisorService(log, llm, nil)
  contexts := NewContextService(log, store, nil, 4)
  return NewChatService(log, store, advisor, contexts), store
}

func TestSendMessageCreatesSessionWithPlaceholder(t *testing.T) {
  llm := &fakeLLM{titleReply: "Rice Farming Tips"}
  chat, _ := newChatFixture(t, llm)

  reply, err := chat.SendMessage(context.Background(), "u1", "", "How do I grow rice?")
  if err != nil {
    t.Fatalf("SendMessage: %v", err)
  }
  if reply.SessionID == "" {
    t.Fatalf("expected a session id")
  }
  if reply.Message.Role != types.RoleAssistant {
    t.Fatalf("reply role = %q", reply.Message.Role)
  }

  session, err := chat.GetSession(context.Background(), "u1", reply.SessionID)
  if err != nil {
    t.Fatalf("GetSession: %v", err)
  }
  if len(session.Messages) != 2 {
    t.Fatalf("message count = %d, want 2", len(session.Messages))
  }
}

func TestTitleGenerationFiresOnceAndIsIdempotent(t *testing.T) {
  llm := &fakeLLM{titleReply: "Rice Farming Tips"}
  chat, _ := newChatFixture(t, llm)

  reply, err := chat.SendMessage(context.Background(), "u1", "", "How do I grow rice?")
  if err != nil {
    t.Fatalf("SendMessage: %v", err)
  }
  sessionID := reply.SessionID

  // The first exchange puts the message count at 2, which triggers the
  // background title task. Wait for it to land.
  require.Eventually(t, func() bool {
    session, err := chat.GetSession(context.Background(), "u1", sessionID)
    return err == nil && session.Title == "Rice Farming Tips"
  }, 2*time.Second, 10*time.Millisecond, "title was never replaced")

  // The second exchange hits the count-4 trigger, but the placeholder
  // is gone so no new title is generated.
  if _, err := chat.SendMessage(context.Background(), "u1", sessionID, "And fertilizer?"); err != nil {
    t.Fatalf("SendMessage: %v", err)
  }
  time.Sleep(100 * time.Millisecond)

  session, err := chat.GetSession(context.Background(), "u1", sessionID)
  if err != nil {
    t.Fatalf("GetSession: %v", err)
  }
  if session.Title != "Rice Farming Tips" {
    t.Fatalf("title changed after retitle window: %q", session.Title)
  }
  if llm.titleCalls != 1 {
    t.Fatalf("title calls = %d, want 1", llm.titleCalls)
  }
}

func TestTitleFallsBackOnLLMError(t *testing.T) {
  llm := &fakeLLM{titleErr: fmt.Errorf("llm down")}
  chat, _ := newChatFixture(t, llm)

  reply, err := chat.SendMessage(context.Background(), "u1", "", "My wheat has a pest problem")
  if err != nil {
    t.Fatalf("SendMessage: %v", err)
  }

  require.Eventually(t, func() bool {
    session, err := chat.GetSession(context.Background(), "u1", reply.SessionID)
    return err == nil && session.Title == "Wheat Consultation"
  }, 2*time.Second, 10*time.Millisecond, "fallback title was never applied")
}

func TestSessionsScopedToUser(t *testing.T) {
  llm := &fakeLLM{titleReply: "Soil Advice"}
  chat, _ := newChatFixture(t, llm)

  reply, err := chat.SendMessage(context.Background(), "u1", "", "Tell me about soil")
  if err != nil {
    t.Fatalf("SendMessage: %v", err)
  }

  if _, err := chat.GetSession(context.Background(), "u2", reply.SessionID); err == nil {
    t.Fatalf("expected other user's session to be invisible")
  }

  summaries, err := chat.GetSessions(context.Background(), "u1")
  if err != nil {
    t.Fatalf("GetSessions: %v", err)
  }
  if len(summaries) != 1 {
    t.Fatalf("session count = %d, want 1", len(summaries))
  }
  if summaries[0].MessageCount != 2 {
    t.Fatalf("message count = %d, want 2", summaries[0].MessageCount)
  }

  if err := chat.DeleteSession(context.Background(), "u1", reply.SessionID); err != nil {
    t.Fatalf("DeleteSession: %v", err)
  }
  summaries, err = chat.GetSessions(context.Background(), "u1")
  if err != nil {
    t.Fatalf("GetSessions: %v", err)
  }
  if len(summaries) != 0 {
    t.Fatalf("session count after delete = %d, want 0", len(summaries))
  }
}

func TestQuickActionsNonEmpty(t *testing.T) {
  chat, _ := newChatFixture(t, &fakeLLM{})
  actions := chat.QuickActions()
  if len(actions) == 0 {
    t.Fatalf("expected quick actions")
  }
  for _, action := range actions {
    if action.ID == "" || action.Prompt == "" {
      t.Fatalf("malformed quick action: %+v", action)
    }
  }
}
