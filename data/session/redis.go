package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type RedisSession struct {
	redis      *redis.Client
	expiration time.Duration
}

func NewRedisSession(redisClient *redis.Client, expiration time.Duration) *RedisSession {
	return &RedisSession{redis: redisClient, expiration: expiration}
}

func (s *RedisSession) GetSession(ctx context.Context, key string) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := s.redis.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return model.Session{}, err
	}

	var chatSession model.Session
	if err = json.Unmarshal([]byte(res), &chatSession); err != nil {
		slog.Error("can't unmarshall session", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", key))
		return model.Session{}, ErrNotFound
	}

	return chatSession, nil
}

func (s *RedisSession) SetSession(ctx context.Context, key string, chatSession model.Session) error {
	raw, err := json.Marshal(chatSession)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err = s.redis.Set(ctx, keyPrefix+key, raw, s.expiration).Err(); err != nil {
		slog.Error("failed on redis.Set",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()), slog.String("key", key))
		return err
	}
	return nil
}
