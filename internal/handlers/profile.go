package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/krishihq/cropadvisor-backend/internal/requestdata"
  "github.com/krishihq/cropadvisor-backend/internal/services"
)

type ProfileHandler struct {
  profileService services.ProfileService
  contextService services.ContextService
}

func NewProfileHandler(profileService services.ProfileService, contextService services.ContextService) *ProfileHandler {
  return &ProfileHandler{profileService: profileService, contextService: contextService}
}

func currentUserID(c *gin.Context) (string, bool) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return "", false
  }
  return rd.UserID.String(), true
}

func (ph *ProfileHandler) GetProfile(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  profile, err := ph.profileService.GetProfile(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "profile_unavailable", err)
    return
  }
  RespondOK(c, profile)
}

func (ph *ProfileHandler) UpdateProfile(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  var updates map[string]any
  if err := c.ShouldBindJSON(&updates); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  profile, err := ph.profileService.UpdateProfile(c.Request.Context(), userID, updates)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "profile_unavailable", err)
    return
  }
  RespondOK(c, profile)
}

func (ph *ProfileHandler) UpdateEnhancedProfile(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  var enhanced map[string]any
  if err := c.ShouldBindJSON(&enhanced); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  profile, err := ph.profileService.ReplaceEnhancedProfile(c.Request.Context(), userID, enhanced)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "profile_unavailable", err)
    return
  }
  RespondOK(c, profile)
}

func (ph *ProfileHandler) GetCompletionStatus(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  status, err := ph.profileService.GetCompletionStatus(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "profile_unavailable", err)
    return
  }
  RespondOK(c, status)
}

func (ph *ProfileHandler) GetAIContext(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  aiContext, err := ph.contextService.GetAIContext(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "context_unavailable", err)
    return
  }
  RespondOK(c, aiContext)
}
