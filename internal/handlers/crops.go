package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/krishihq/cropadvisor-backend/internal/services"
)

type CropsHandler struct {
  predictionService services.PredictionService
}

func NewCropsHandler(predictionService services.PredictionService) *CropsHandler {
  return &CropsHandler{predictionService: predictionService}
}

func (ch *CropsHandler) Recommend(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  var features services.CropFeatures
  if err := c.ShouldBindJSON(&features); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  recommendations, err := ch.predictionService.Recommend(c.Request.Context(), userID, features)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "predictions_unavailable", err)
    return
  }
  RespondOK(c, gin.H{"recommendations": recommendations})
}

func (ch *CropsHandler) Predict(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  var features services.CropFeatures
  if err := c.ShouldBindJSON(&features); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  result, err := ch.predictionService.Predict(c.Request.Context(), userID, features)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "predictions_unavailable", err)
    return
  }
  RespondOK(c, result)
}

func (ch *CropsHandler) GetRawPredictions(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  records, err := ch.predictionService.GetRawHistory(c.Request.Context(), userID, 0)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "predictions_unavailable", err)
    return
  }
  RespondOK(c, gin.H{"predictions": records, "count": len(records)})
}

func (ch *CropsHandler) GetHistory(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  limit := 0
  if raw := c.Query("limit"); raw != "" {
    if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
      limit = parsed
    }
  }
  history, err := ch.predictionService.GetHistory(c.Request.Context(), userID, limit)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "predictions_unavailable", err)
    return
  }
  RespondOK(c, gin.H{"predictions": history, "count": len(history)})
}

func (ch *CropsHandler) GetDashboardStats(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  stats, err := ch.predictionService.GetDashboardStats(c.Request.Context(), userID)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "predictions_unavailable", err)
    return
  }
  RespondOK(c, stats)
}
