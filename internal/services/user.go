package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/krishihq/cropadvisor-backend/internal/logger"
  "github.com/krishihq/cropadvisor-backend/internal/normalization"
  "github.com/krishihq/cropadvisor-backend/internal/repos"
  "github.com/krishihq/cropadvisor-backend/internal/types"
)

type UserService interface {
  GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
  UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (*types.User, error)
  UpdateAvatarImage(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error)
}

type userService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    avatarService: avatarService,
  }
}

func (us *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("Failed to load user: %w", err)
  }
  if len(users) == 0 {
    return nil, fmt.Errorf("User not found")
  }
  return users[0], nil
}

func (us *userService) UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) (*types.User, error) {
  displayName = normalization.ParseDisplayString(displayName)
  if displayName == "" {
    return nil, fmt.Errorf("Display name required")
  }

  if err := us.userRepo.UpdateFields(ctx, nil, userID, map[string]any{"display_name": displayName}); err != nil {
    return nil, fmt.Errorf("Failed to update display name: %w", err)
  }
  return us.GetUser(ctx, userID)
}

func (us *userService) UpdateAvatarImage(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error) {
  if us.avatarService == nil {
    return nil, fmt.Errorf("Avatar service unavailable")
  }

  user, err := us.GetUser(ctx, userID)
  if err != nil {
    return nil, err
  }

  if err := us.avatarService.CreateUserAvatarFromImage(ctx, user, raw); err != nil {
    return nil, fmt.Errorf("Failed to process avatar image: %w", err)
  }
  if err := us.userRepo.UpdateFields(ctx, nil, userID, map[string]any{
    "avatar_path": user.AvatarPath,
    "avatar_url":  user.AvatarURL,
  }); err != nil {
    return nil, fmt.Errorf("Failed to save avatar fields: %w", err)
  }
  return user, nil
}
