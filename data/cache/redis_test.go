package cache

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	c := NewRedisCache(client, time.Minute)

	_, err := c.GetQuote(ctx, "AAPL")
	require.ErrorIs(t, err, ErrNotFound)

	quotes := []model.Quote{
		{Ticker: "AAPL", Name: "Apple Inc", Price: decimal.RequireFromString("214.29"), ChangePercent: decimal.RequireFromString("-1.04")},
		{Ticker: "TSLA", Name: "Tesla Inc", Price: decimal.RequireFromString("184.88"), ChangePercent: decimal.RequireFromString("5.76")},
	}
	require.NoError(t, c.SetQuotes(ctx, quotes))

	q, err := c.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(quotes[0].Price))

	many, err := c.GetQuotes(ctx, []string{"AAPL", "TSLA", "MSFT"})
	require.NoError(t, err)
	assert.Len(t, many, 2)
	assert.Contains(t, many, "TSLA")

	mr.FastForward(2 * time.Minute)
	_, err = c.GetQuote(ctx, "AAPL")
	require.ErrorIs(t, err, ErrNotFound)
}
