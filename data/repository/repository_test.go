package repository_test

import (
	"context"
	"testing"

	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/KotFed0t/ginvest_bot/data/repository/memoryStore"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitAndRead(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(memoryStore.New())

	_, err := repo.GetHoldings(ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)

	holdings := []model.Holding{{
		Ticker:               "GOOGL",
		CompanyName:          "Alphabet Inc.",
		Shares:               10,
		MarketPrice:          decimal.RequireFromString("179.63"),
		AveragePurchasePrice: decimal.RequireFromString("179.63"),
	}}
	portfolio := model.PortfolioRecord{RemainingBalance: decimal.RequireFromString("98203.70")}

	batch := repository.NewBatch().PutHoldings(holdings).PutPortfolio(portfolio)
	require.NoError(t, repo.Commit(ctx, 1, batch))

	got, err := repo.GetHoldings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GOOGL", got[0].Ticker)
	assert.True(t, got[0].AveragePurchasePrice.Equal(holdings[0].AveragePurchasePrice))

	gotPortfolio, err := repo.GetPortfolio(ctx, 1)
	require.NoError(t, err)
	assert.True(t, gotPortfolio.RemainingBalance.Equal(portfolio.RemainingBalance))

	// other chats are isolated
	_, err = repo.GetHoldings(ctx, 2)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEmptyHoldingsStoredAsEmptyList(t *testing.T) {
	ctx := context.Background()
	store := memoryStore.New()
	repo := repository.New(store)

	require.NoError(t, repo.Commit(ctx, 1, repository.NewBatch().PutHoldings(nil)))

	raw, err := store.Get(ctx, "1", repository.KeyHoldings)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestOrphanedRecordTreatedAsMissing(t *testing.T) {
	ctx := context.Background()
	store := memoryStore.New()
	repo := repository.New(store)

	require.NoError(t, store.SetMany(ctx, "7", map[string]string{repository.KeyPortfolio: `{"totalValue": [1,2]}`}))

	_, err := repo.GetPortfolio(ctx, 7)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOnboardingRecords(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(memoryStore.New())

	_, complete, err := repo.GetOnboarding(ctx, 3)
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, complete)

	goal := model.GoalOptions[1]
	answers := model.OnboardingAnswers{Goal: &goal}
	require.NoError(t, repo.Commit(ctx, 3, repository.NewBatch().PutOnboarding(answers, true)))

	got, complete, err := repo.GetOnboarding(ctx, 3)
	require.NoError(t, err)
	assert.True(t, complete)
	require.NotNil(t, got.Goal)
	assert.Equal(t, "retirement", got.Goal.ID)
}

func TestObserversNotifiedInOrderAfterCommit(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(memoryStore.New())

	var calls []string
	repo.Subscribe(func(ctx context.Context, chatID int64) {
		// the new state is already visible
		_, err := repo.GetProgress(ctx, chatID)
		assert.NoError(t, err)
		calls = append(calls, "first")
	})
	unsubscribe := repo.Subscribe(func(context.Context, int64) { calls = append(calls, "second") })

	require.NoError(t, repo.Commit(ctx, 5, repository.NewBatch().PutProgress(model.Progress{Points: 200})))
	assert.Equal(t, []string{"first", "second"}, calls)

	unsubscribe()
	calls = nil
	require.NoError(t, repo.Commit(ctx, 5, repository.NewBatch().PutProgress(model.Progress{Points: 250})))
	assert.Equal(t, []string{"first"}, calls)

	// empty batch writes nothing and notifies nobody
	calls = nil
	require.NoError(t, repo.Commit(ctx, 5, repository.NewBatch()))
	assert.Empty(t, calls)
}

func TestNotifyNamespace(t *testing.T) {
	repo := repository.New(memoryStore.New())

	var got []int64
	repo.Subscribe(func(_ context.Context, chatID int64) { got = append(got, chatID) })

	repo.NotifyNamespace(context.Background(), "12345")
	repo.NotifyNamespace(context.Background(), "not-a-chat")
	assert.Equal(t, []int64{12345}, got)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	repo := repository.New(memoryStore.New())

	require.NoError(t, repo.Commit(ctx, 1, repository.NewBatch().PutProgress(model.Progress{Points: 1})))

	notified := 0
	repo.Subscribe(func(context.Context, int64) { notified++ })

	require.NoError(t, repo.Reset(ctx, 1))
	assert.Equal(t, 0, notified)

	_, err := repo.GetProgress(ctx, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
