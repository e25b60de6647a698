package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
)

// GetEnhancedProfile returns only the nested sections of the stored
// profile, for clients rendering the enhanced editing form.
func (ph *ProfileHandler) GetEnhancedProfile(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  profile, err := ph.profileService.GetProfile(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "profile_unavailable", err)
    return
  }
  enhanced := gin.H{}
  for _, section := range []string{"personal_info", "farm_profile", "farming_profile"} {
    if value, exists := profile[section]; exists {
      enhanced[section] = value
    }
  }
  RespondOK(c, enhanced)
}
