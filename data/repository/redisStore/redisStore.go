package redisStore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	redis      *redis.Client
	channel    string
	instanceID string
}

func New(redisClient *redis.Client, changeChannel string) *RedisStore {
	return &RedisStore{redis: redisClient, channel: changeChannel, instanceID: uuid.NewString()}
}

func redisKey(namespace, key string) string {
	return namespace + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, namespace, key string) (string, error) {
	res, err := s.redis.Get(ctx, redisKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		slog.Error("failed on redis.Get",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("err", err.Error()),
			slog.String("key", redisKey(namespace, key)),
		)
		return "", err
	}
	return res, nil
}

// SetMany writes inside MULTI/EXEC and then announces the change to other instances.
func (s *RedisStore) SetMany(ctx context.Context, namespace string, records map[string]string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range records {
			pipe.Set(ctx, redisKey(namespace, key), value, 0)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed on redis.TxPipelined", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	s.publish(ctx, namespace)
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	redisKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		redisKeys = append(redisKeys, redisKey(namespace, k))
	}

	if err := s.redis.Del(ctx, redisKeys...).Err(); err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return err
	}
	return nil
}

func (s *RedisStore) publish(ctx context.Context, namespace string) {
	msg := fmt.Sprintf("%s|%s", s.instanceID, namespace)
	if err := s.redis.Publish(ctx, s.channel, msg).Err(); err != nil {
		slog.Warn("failed to publish change", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
}

// Watch blocks until ctx is done and calls fn for changes made by other instances.
func (s *RedisStore) Watch(ctx context.Context, fn func(ctx context.Context, namespace string)) error {
	sub := s.redis.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			instanceID, namespace, found := strings.Cut(msg.Payload, "|")
			if !found || instanceID == s.instanceID {
				continue
			}
			fn(utils.WithNewRqID(ctx), namespace)
		}
	}
}
