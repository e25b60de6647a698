package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/krishihq/cropadvisor-backend/internal/clients/groq"
  "github.com/krishihq/cropadvisor-backend/internal/clients/redis"
  "github.com/krishihq/cropadvisor-backend/internal/db"
  "github.com/krishihq/cropadvisor-backend/internal/docstore"
  "github.com/krishihq/cropadvisor-backend/internal/handlers"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/middleware"
  "github.com/krishihq/cropadvisor-backend/internal/observability"
  "github.com/krishihq/cropadvisor-backend/internal/repos"
  "github.com/krishihq/cropadvisor-backend/internal/server"
  "github.com/krishihq/cropadvisor-backend/internal/services"
  "github.com/krishihq/cropadvisor-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Tracing
  shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "cropadvisor-backend",
    Environment: os.Getenv("APP_ENV"),
    Version:     os.Getenv("APP_VERSION"),
  })
  if shutdownOTel != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = shutdownOTel(ctx)
    }()
  }

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  scoreThreshold := utils.GetEnvAsInt("CONTEXT_SCORE_THRESHOLD", 4, log)
  port := utils.GetEnv("PORT", "8080", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  llmCallLogRepo := repos.NewLLMCallLogRepo(thePG, log)

  // Document store
  store := docstore.NewGormStore(thePG, log)

  // Redis context cache (optional)
  contextCache, err := redis.NewContextCache(log)
  if err != nil {
    log.Warn("Could not init ContextCache, continuing without cache", "error", err)
    contextCache = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  groqClient, err := groq.NewClient(log)
  if err != nil {
    log.Warn("Could not init GroqClient, chat responses will degrade", "error", err)
    groqClient = nil
  }
  avatarService, err := services.NewAvatarService(log)
  if err != nil {
    log.Warn("Could not init AvatarService, continuing without avatars", "error", err)
    avatarService = nil
  }
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo, avatarService)
  profileService := services.NewProfileService(log, store, contextCache)
  contextService := services.NewContextService(log, store, contextCache, scoreThreshold)
  classifierService := services.NewClassifierService(log)
  predictionService := services.NewPredictionService(log, store, classifierService, profileService)
  advisorService := services.NewAdvisorService(log, groqClient, llmCallLogRepo)
  chatService := services.NewChatService(log, store, advisorService, contextService)
  weatherService := services.NewWeatherService(log)

  // Handlers
  log.Info("Setting up Handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  profileHandler := handlers.NewProfileHandler(profileService, contextService)
  cropsHandler := handlers.NewCropsHandler(predictionService)
  chatHandler := handlers.NewChatHandler(chatService)
  weatherHandler := handlers.NewWeatherHandler(weatherService)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:    authHandler,
    AuthMiddleware: authMiddleware,
    UserHandler:    userHandler,
    ProfileHandler: profileHandler,
    CropsHandler:   cropsHandler,
    ChatHandler:    chatHandler,
    WeatherHandler: weatherHandler,
  })

  log.Info("Starting server", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Fatal("Server failed", "error", err)
  }
}
