package marketService

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/KotFed0t/ginvest_bot/data/cache"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuotesApi struct {
	quotes []model.Quote
	err    error
}

func (f *fakeQuotesApi) GetQuotes(context.Context, []string) ([]model.Quote, error) {
	return f.quotes, f.err
}

func newRedisCache(t *testing.T) *cache.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, 0)
}

func tickers(quotes []model.Quote) []string {
	res := make([]string, 0, len(quotes))
	for _, q := range quotes {
		res = append(res, q.Ticker)
	}
	return res
}

func TestSearch(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	assert.Empty(t, s.Search(ctx, ""))
	assert.Empty(t, s.Search(ctx, "   "))
	assert.Equal(t, []string{"AAPL"}, tickers(s.Search(ctx, "apple")))
	assert.Equal(t, []string{"GOOGL", "GOOG"}, tickers(s.Search(ctx, "GoOg")))
	assert.Empty(t, s.Search(ctx, "zzzz"))
}

func TestSearchLimitsResults(t *testing.T) {
	s := New(nil, nil, nil)

	res := s.Search(context.Background(), "a")
	assert.Len(t, res, searchLimit)
	assert.Equal(t, "TSLA", res[0].Ticker)
}

func TestQuote(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	q, err := s.Quote(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Ticker)
	assert.Equal(t, "214.29", q.Price.StringFixed(2))

	_, err = s.Quote(ctx, "XXXX")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRefreshQuotesFromApi(t *testing.T) {
	c := newRedisCache(t)
	api := &fakeQuotesApi{quotes: []model.Quote{
		{Ticker: "AAPL", Price: decimal.RequireFromString("220.00"), ChangePercent: decimal.RequireFromString("2.50")},
		{Ticker: "UNKNOWN", Price: decimal.RequireFromString("1")},
	}}
	s := New(c, api, nil)
	ctx := context.Background()

	require.NoError(t, s.RefreshQuotes(ctx))

	q, err := s.Quote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "220", q.Price.String())
	assert.Equal(t, "Technology", q.Sector)

	prices := s.Prices(ctx, []string{"AAPL", "TSLA", "UNKNOWN"})
	assert.Len(t, prices, 2)
	assert.Equal(t, "220", prices["AAPL"].String())
	assert.Equal(t, "184.88", prices["TSLA"].String())

	list := s.List(ctx)
	assert.Len(t, list, len(catalog))
	assert.Equal(t, "214.29", catalog[2].Price.String())
}

func TestRefreshQuotesApiFailureFallsBack(t *testing.T) {
	c := newRedisCache(t)
	s := New(c, &fakeQuotesApi{err: errors.New("down")}, nil)
	ctx := context.Background()

	require.NoError(t, s.RefreshQuotes(ctx))

	cached, err := c.GetQuote(ctx, "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "135.58", cached.Price.String())
}

func TestRandomPrice(t *testing.T) {
	s := New(nil, nil, rand.NewPCG(1, 2))

	low := decimal.NewFromInt(50)
	high := decimal.NewFromInt(550)
	for i := 0; i < 1000; i++ {
		p := s.RandomPrice("AAPL")
		assert.True(t, p.GreaterThanOrEqual(low) && p.LessThanOrEqual(high), p.String())
		assert.True(t, p.Equal(p.Round(2)))
	}
}

func TestPriceTool(t *testing.T) {
	s := New(nil, nil, rand.NewPCG(1, 2))
	tool := s.PriceTool()
	assert.Equal(t, PriceToolName, tool.Declaration.Name)

	res, err := tool.Call(context.Background(), map[string]any{"ticker": "googl"})
	require.NoError(t, err)
	assert.Equal(t, "GOOGL", res["ticker"])
	assert.IsType(t, float64(0), res["price"])

	_, err = tool.Call(context.Background(), map[string]any{})
	assert.Error(t, err)
}
