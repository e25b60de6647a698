package types

import (
  "strings"
  "time"
)

type MessageRole string

const (
  RoleUser        MessageRole = "user"
  RoleAssistant   MessageRole = "assistant"
  RoleSystem      MessageRole = "system"
)

// ChatMessage is immutable once appended; append order is the only
// ordering guarantee a session makes.
type ChatMessage struct {
  ID          string              `json:"id"`
  Role        MessageRole         `json:"role"`
  Content     string              `json:"content"`
  Timestamp   time.Time           `json:"timestamp"`
  Metadata    map[string]any      `json:"metadata,omitempty"`
}

type ChatSession struct {
  SessionID   string              `json:"session_id"`
  UserID      string              `json:"user_id"`
  Title       string              `json:"title"`
  Messages    []ChatMessage       `json:"messages"`
  CreatedAt   time.Time           `json:"created_at"`
  UpdatedAt   time.Time           `json:"updated_at"`
}

type ChatSessionSummary struct {
  SessionID       string          `json:"session_id"`
  Title           string          `json:"title"`
  MessageCount    int             `json:"message_count"`
  LastMessageAt   time.Time       `json:"last_message_at"`
  Preview         string          `json:"preview"`
}

const sessionTitlePrefix = "Chat Session"

// PlaceholderSessionTitle is the timestamp-based title a session carries
// until automatic title synthesis replaces it.
func PlaceholderSessionTitle(at time.Time) string {
  return sessionTitlePrefix + " " + at.Format("2006-01-02 15:04")
}

// HasPlaceholderTitle reports whether automatic retitling may still fire.
// Once a synthesized title lands the prefix no longer matches, so
// retitling happens at most once per session.
func HasPlaceholderTitle(title string) bool {
  trimmed := strings.TrimSpace(title)
  return trimmed == "" || strings.HasPrefix(trimmed, sessionTitlePrefix)
}
