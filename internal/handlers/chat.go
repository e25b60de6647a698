package handlers

import (
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/krishihq/cropadvisor-backend/internal/services"
)

type ChatHandler struct {
  chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
  return &ChatHandler{chatService: chatService}
}

func (ch *ChatHandler) SendMessage(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  var req struct {
    SessionID string      `json:"session_id"`
    Message   string      `json:"message"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
    return
  }
  reply, err := ch.chatService.SendMessage(c.Request.Context(), userID, req.SessionID, strings.TrimSpace(req.Message))
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "chat_unavailable", err)
    return
  }
  RespondOK(c, reply)
}

func (ch *ChatHandler) GetSessions(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  sessions, err := ch.chatService.GetSessions(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "chat_unavailable", err)
    return
  }
  RespondOK(c, gin.H{"sessions": sessions})
}

func (ch *ChatHandler) GetSession(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  session, err := ch.chatService.GetSession(c.Request.Context(), userID, c.Param("sessionID"))
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    return
  }
  RespondOK(c, session)
}

func (ch *ChatHandler) DeleteSession(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  if err := ch.chatService.DeleteSession(c.Request.Context(), userID, c.Param("sessionID")); err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    return
  }
  RespondOK(c, gin.H{"success": "true"})
}

func (ch *ChatHandler) GetQuickActions(c *gin.Context) {
  RespondOK(c, gin.H{"quick_actions": ch.chatService.QuickActions()})
}
