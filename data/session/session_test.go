package session

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

type sessionStore interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, session model.Session) error
}

func sampleSession() model.Session {
	return model.Session{
		Action: model.ExpectingShareCount,
		Trade: &model.TradeIntent{
			Ticker:      "NVDA",
			Side:        model.Sell,
			Step:        model.StepAmount,
			ShareCount:  5,
			Available:   40,
			MarketPrice: decimal.RequireFromString("135.58"),
		},
		LiveCard: &model.LiveCard{MessageID: "17", ChatID: 100},
	}
}

func checkRoundTrip(t *testing.T, store sessionStore) {
	ctx := context.Background()

	_, err := store.GetSession(ctx, "100")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetSession(ctx, "100", sampleSession()))

	got, err := store.GetSession(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, model.ExpectingShareCount, got.Action)
	require.NotNil(t, got.Trade)
	assert.Equal(t, model.StepAmount, got.Trade.Step)
	assert.True(t, got.Trade.MarketPrice.Equal(decimal.RequireFromString("135.58")))
	assert.Equal(t, "17", got.LiveCard.MessageID)
}

func TestRedisSession(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisSession(client, time.Hour)
	checkRoundTrip(t, store)

	mr.FastForward(2 * time.Hour)
	_, err := store.GetSession(context.Background(), "100")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySession(t *testing.T) {
	store := NewMemorySession(time.Hour)
	checkRoundTrip(t, store)

	now := time.Now()
	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err := store.GetSession(context.Background(), "100")
	require.ErrorIs(t, err, ErrNotFound)
}
