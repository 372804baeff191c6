package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/redis/go-redis/v9"
)

const quoteKeyPrefix = "quote:"

type RedisCache struct {
	redis      *redis.Client
	expiration time.Duration
}

func NewRedisCache(redisClient *redis.Client, expiration time.Duration) *RedisCache {
	return &RedisCache{redis: redisClient, expiration: expiration}
}

func (r *RedisCache) SetQuotes(ctx context.Context, quotes []model.Quote) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start SetQuotes", slog.String("rqID", rqID), slog.Int("quotes", len(quotes)))

	pipe := r.redis.Pipeline()
	for _, quote := range quotes {
		quoteJson, err := json.Marshal(quote)
		if err != nil {
			slog.Error(
				"can't marshall quote in SetQuotes",
				slog.String("rqID", rqID),
				slog.String("err", err.Error()),
				slog.Any("quote", quote),
			)
			return errors.New("can't marshall quote")
		}

		pipe.Set(ctx, quoteKeyPrefix+quote.Ticker, quoteJson, r.expiration)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetQuotes completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetQuote(ctx context.Context, ticker string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("ticker", ticker))

	res, err := r.redis.Get(ctx, quoteKeyPrefix+ticker).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Quote{}, ErrNotFound
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("ticker", ticker))
		return model.Quote{}, err
	}

	quote := model.Quote{}
	err = json.Unmarshal([]byte(res), &quote)
	if err != nil {
		slog.Error(
			"can't unmarshall quote in GetQuote",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.Quote{}, errors.New("can't unmarshall quote")
	}

	slog.Debug("GetQuote finished", slog.String("rqID", rqID))

	return quote, nil
}

// GetQuotes returns only the tickers present in the cache.
func (r *RedisCache) GetQuotes(ctx context.Context, tickers []string) (map[string]model.Quote, error) {
	res := make(map[string]model.Quote, len(tickers))
	if len(tickers) == 0 {
		return res, nil
	}

	keys := make([]string, 0, len(tickers))
	for _, t := range tickers {
		keys = append(keys, quoteKeyPrefix+t)
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Error("failed on redis.MGet", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return nil, err
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var quote model.Quote
		if err := json.Unmarshal([]byte(s), &quote); err != nil {
			continue
		}
		res[quote.Ticker] = quote
	}
	return res, nil
}
