package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/krishihq/cropadvisor-backend/internal/handlers"
  "github.com/krishihq/cropadvisor-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler    *handlers.AuthHandler
  AuthMiddleware *middleware.AuthMiddleware
  UserHandler    *handlers.UserHandler
  ProfileHandler *handlers.ProfileHandler
  CropsHandler   *handlers.CropsHandler
  ChatHandler    *handlers.ChatHandler
  WeatherHandler *handlers.WeatherHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  router.Use(otelgin.Middleware("cropadvisor"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5173",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
    api.POST("/refresh", cfg.AuthHandler.Refresh)
  }

// ===============
// || Protected ||
// ===============
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // User
  protected.GET("/user", cfg.UserHandler.GetCurrentUser)
  protected.PATCH("/user", cfg.UserHandler.UpdateDisplayName)
  protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
  // Profile
  protected.GET("/profile", cfg.ProfileHandler.GetProfile)
  protected.PUT("/profile", cfg.ProfileHandler.UpdateProfile)
  protected.POST("/profile/enhanced", cfg.ProfileHandler.UpdateEnhancedProfile)
  protected.GET("/profile/enhanced", cfg.ProfileHandler.GetEnhancedProfile)
  protected.GET("/profile/completion", cfg.ProfileHandler.GetCompletionStatus)
  protected.GET("/ai-context", cfg.ProfileHandler.GetAIContext)
  // Crops
  protected.POST("/crops/recommend", cfg.CropsHandler.Recommend)
  protected.POST("/crops/predict", cfg.CropsHandler.Predict)
  protected.GET("/crops/predictions", cfg.CropsHandler.GetRawPredictions)
  protected.GET("/crops/predictions/history", cfg.CropsHandler.GetHistory)
  protected.GET("/dashboard/stats", cfg.CropsHandler.GetDashboardStats)
  // Chat
  protected.POST("/chat/message", cfg.ChatHandler.SendMessage)
  protected.GET("/chat/sessions", cfg.ChatHandler.GetSessions)
  protected.GET("/chat/sessions/:sessionID", cfg.ChatHandler.GetSession)
  protected.DELETE("/chat/sessions/:sessionID", cfg.ChatHandler.DeleteSession)
  protected.GET("/chat/quick-actions", cfg.ChatHandler.GetQuickActions)
  // Weather
  protected.GET("/weather/current", cfg.WeatherHandler.Current)
  protected.GET("/weather/forecast", cfg.WeatherHandler.Forecast)

  return router
}
