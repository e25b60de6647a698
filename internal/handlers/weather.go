package handlers

import (
  "fmt"
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/krishihq/cropadvisor-backend/internal/services"
)

type WeatherHandler struct {
  weatherService services.WeatherService
}

func NewWeatherHandler(weatherService services.WeatherService) *WeatherHandler {
  return &WeatherHandler{weatherService: weatherService}
}

func parseCoords(c *gin.Context) (float64, float64, error) {
  lat, err := strconv.ParseFloat(c.Query("lat"), 64)
  if err != nil {
    return 0, 0, fmt.Errorf("lat required")
  }
  lon, err := strconv.ParseFloat(c.Query("lon"), 64)
  if err != nil {
    return 0, 0, fmt.Errorf("lon required")
  }
  return lat, lon, nil
}

func (wh *WeatherHandler) Current(c *gin.Context) {
  lat, lon, err := parseCoords(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  report, err := wh.weatherService.Current(c.Request.Context(), lat, lon)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "weather_unavailable", err)
    return
  }
  RespondOK(c, report)
}

func (wh *WeatherHandler) Forecast(c *gin.Context) {
  lat, lon, err := parseCoords(c)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  days := 5
  if raw := c.Query("days"); raw != "" {
    if parsed, err := strconv.Atoi(raw); err == nil {
      days = parsed
    }
  }
  forecast, err := wh.weatherService.Forecast(c.Request.Context(), lat, lon, days)
  if err != nil {
    RespondError(c, http.StatusServiceUnavailable, "weather_unavailable", err)
    return
  }
  RespondOK(c, gin.H{"forecast": forecast})
}
