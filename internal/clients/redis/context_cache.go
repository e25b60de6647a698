package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/krishihq/cropadvisor-backend/internal/logger"
)

// ContextCache holds assembled AI contexts so profile reads are skipped
// while the cached copy is still fresh. A cache miss or a dead redis is
// never an error for callers; they rebuild from the profile store.
type ContextCache interface {
	Get(ctx context.Context, userID string) (map[string]any, bool)
	Set(ctx context.Context, userID string, aiContext map[string]any)
	Invalidate(ctx context.Context, userID string)
	Close() error
}

type contextCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewContextCache(log *logger.Logger) (ContextCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := 24 * time.Hour
	if v := strings.TrimSpace(os.Getenv("AI_CONTEXT_TTL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &contextCache{
		log: log.With("service", "ContextCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(userID string) string {
	return "ai_context:" + userID
}

func (cc *contextCache) Get(ctx context.Context, userID string) (map[string]any, bool) {
	raw, err := cc.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			cc.log.Warn("Context cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		cc.log.Warn("Context cache entry corrupt, dropping", "user_id", userID, "error", err)
		cc.Invalidate(ctx, userID)
		return nil, false
	}
	return decoded, true
}

func (cc *contextCache) Set(ctx context.Context, userID string, aiContext map[string]any) {
	raw, err := json.Marshal(aiContext)
	if err != nil {
		cc.log.Warn("Context cache encode failed", "user_id", userID, "error", err)
		return
	}
	if err := cc.rdb.Set(ctx, cacheKey(userID), raw, cc.ttl).Err(); err != nil {
		cc.log.Warn("Context cache write failed", "user_id", userID, "error", err)
	}
}

func (cc *contextCache) Invalidate(ctx context.Context, userID string) {
	if err := cc.rdb.Del(ctx, cacheKey(userID)).Err(); err != nil {
		cc.log.Warn("Context cache invalidate failed", "user_id", userID, "error", err)
	}
}

func (cc *contextCache) Close() error {
	return cc.rdb.Close()
}
