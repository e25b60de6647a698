package groq

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "os"
  "strconv"
  "strings"
  "time"

  "github.com/krishihq/cropadvisor-backend/internal/logger"
)

// Message is one turn of an LLM conversation.
type Message struct {
  Role    string `json:"role"`
  Content string `json:"content"`
}

// Completion is the result of one chat completion call.
type Completion struct {
  Content    string
  TokensUsed int
}

// Client is the hosted completion API. Calls are made exactly once;
// callers are expected to degrade gracefully on error instead of
// retrying.
type Client interface {
  Complete(ctx context.Context, messages []Message, maxTokens int, temperature float64) (*Completion, error)
  Model() string
}

type client struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  model      string
  httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
  apiKey := os.Getenv("GROQ_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing GROQ_API_KEY")
  }

  baseURL := os.Getenv("GROQ_BASE_URL")
  if baseURL == "" {
    baseURL = "https://api.groq.com/openai"
  }

  model := os.Getenv("GROQ_MODEL")
  if model == "" {
    model = "llama-3.1-8b-instant"
  }

  timeoutSec := 30
  if v := os.Getenv("GROQ_TIMEOUT_SECONDS"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
      timeoutSec = parsed
    }
  }

  return &client{
    log:        log.With("service", "GroqClient"),
    baseURL:    baseURL,
    apiKey:     apiKey,
    model:      model,
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
  }, nil
}

func (c *client) Model() string {
  return c.model
}

type groqHTTPError struct {
  StatusCode int
  Body       string
}

func (e *groqHTTPError) Error() string {
  return fmt.Sprintf("groq http %d: %s", e.StatusCode, e.Body)
}

type chatRequest struct {
  Model       string    `json:"model"`
  Messages    []Message `json:"messages"`
  MaxTokens   int       `json:"max_tokens,omitempty"`
  Temperature float64   `json:"temperature"`
}

type chatResponse struct {
  Choices []struct {
    Message struct {
      Content string `json:"content"`
    } `json:"message"`
  } `json:"choices"`
  Usage struct {
    TotalTokens int `json:"total_tokens"`
  } `json:"usage"`
}

func (c *client) Complete(ctx context.Context, messages []Message, maxTokens int, temperature float64) (*Completion, error) {
  if len(messages) == 0 {
    return nil, fmt.Errorf("groq: empty message list")
  }

  body := chatRequest{
    Model:       c.model,
    Messages:    messages,
    MaxTokens:   maxTokens,
    Temperature: temperature,
  }

  var buf bytes.Buffer
  if err := json.NewEncoder(&buf).Encode(body); err != nil {
    return nil, err
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
  if err != nil {
    return nil, err
  }
  req.Header.Set("Authorization", "Bearer "+c.apiKey)
  req.Header.Set("Content-Type", "application/json")

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, err
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return nil, readErr
  }

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return nil, &groqHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
  }

  var decoded chatResponse
  if err := json.Unmarshal(raw, &decoded); err != nil {
    return nil, fmt.Errorf("groq decode error: %w; raw=%s", err, string(raw))
  }
  if len(decoded.Choices) == 0 {
    return nil, fmt.Errorf("groq: response carried no choices")
  }

  return &Completion{
    Content:    strings.TrimSpace(decoded.Choices[0].Message.Content),
    TokensUsed: decoded.Usage.TotalTokens,
  }, nil
}
