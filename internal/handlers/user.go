package handlers

import (
  "io"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/krishihq/cropadvisor-backend/internal/requestdata"
  "github.com/krishihq/cropadvisor-backend/internal/services"
)

type UserHandler struct {
  userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetCurrentUser(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  user, err := uh.userService.GetUser(c.Request.Context(), rd.UserID)
  if err != nil {
    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) UpdateDisplayName(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  var req struct {
    DisplayName string      `json:"display_name"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user, err := uh.userService.UpdateDisplayName(c.Request.Context(), rd.UserID, req.DisplayName)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  RespondOK(c, user)
}

func (uh *UserHandler) UploadAvatar(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }

  fileHeader, err := c.FormFile("avatar")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file required"})
    return
  }
  file, err := fileHeader.Open()
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "could not read avatar file"})
    return
  }
  defer file.Close()

  raw, err := io.ReadAll(io.LimitReader(file, 8<<20))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "could not read avatar file"})
    return
  }

  user, err := uh.userService.UpdateAvatarImage(c.Request.Context(), rd.UserID, raw)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  RespondOK(c, user)
}
