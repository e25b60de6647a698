package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/types"
  "github.com/krishihq/cropadvisor-backend/internal/utils"
)

type PostgresService interface {
  DB() *gorm.DB
  AutoMigrateAll() error
  Close() error
}

type postgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(baseLog *logger.Logger) (PostgresService, error) {
  svcLog := baseLog.With("service", "PostgresService")

  host := utils.GetEnv("POSTGRES_HOST", "localhost", svcLog)
  port := utils.GetEnv("POSTGRES_PORT", "5432", svcLog)
  user := utils.GetEnv("POSTGRES_USER", "postgres", svcLog)
  password := utils.GetEnv("POSTGRES_PASSWORD", "postgres", svcLog)
  name := utils.GetEnv("POSTGRES_NAME", "cropadvisor", svcLog)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

  gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
  if err != nil {
    svcLog.Error("Failed to connect to postgres", "host", host, "port", port, "error", err)
    return nil, err
  }

  if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
    svcLog.Error("Failed to ensure uuid-ossp extension", "error", err)
    return nil, err
  }

  svcLog.Info("Connected to postgres", "host", host, "port", port, "database", name)
  return &postgresService{db: gdb, log: svcLog}, nil
}

func (ps *postgresService) DB() *gorm.DB {
  return ps.db
}

func (ps *postgresService) AutoMigrateAll() error {
  if err := ps.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Document{},
    &types.LLMCallLog{},
  ); err != nil {
    ps.log.Error("Auto migration failed", "error", err)
    return err
  }

  if err := ps.db.Exec(`
    DO $$
    BEGIN
      IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'fk_user_token_user'
      ) THEN
        ALTER TABLE "user_token"
          ADD CONSTRAINT fk_user_token_user
          FOREIGN KEY (user_id) REFERENCES "user"(id)
          ON DELETE CASCADE;
      END IF;
    END$$;
  `).Error; err != nil {
    ps.log.Error("Failed to ensure user_token foreign key", "error", err)
    return err
  }

  ps.log.Info("Auto migration complete")
  return nil
}

func (ps *postgresService) Close() error {
  sqlDB, err := ps.db.DB()
  if err != nil {
    return err
  }
  return sqlDB.Close()
}
