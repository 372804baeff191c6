package telebotConverter

import (
	"strings"
	"testing"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := map[string]string{
		"98203.7":    "$98,203.70",
		"0":          "$0.00",
		"999.999":    "$1,000.00",
		"-2130.43":   "-$2,130.43",
		"1234567.89": "$1,234,567.89",
	}
	for in, want := range tests {
		assert.Equal(t, want, Money(decimal.RequireFromString(in)), in)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "+1.86%", Percent(decimal.RequireFromString("1.86")))
	assert.Equal(t, "-1.04%", Percent(decimal.RequireFromString("-1.04")))
}

func TestSplitText(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitText("short", 10))

	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	parts := SplitText(text, 10)
	require.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("a", 8), parts[0])
	assert.Equal(t, strings.Repeat("b", 8), parts[1])

	for _, p := range SplitText(strings.Repeat("x", 25), 10) {
		assert.LessOrEqual(t, len(p), 10)
	}
}

func TestTradeStepResponse(t *testing.T) {
	in := model.TradeIntent{
		Ticker:      "GOOGL",
		CompanyName: "Alphabet Inc.",
		Side:        model.Buy,
		Step:        model.StepRiskConfirm,
		ReasonCode:  "buy-growth",
		ShareCount:  10,
		RiskPercent: 42,
		MarketPrice: decimal.RequireFromString("179.63"),
	}

	text, markup := TradeStepResponse(in, 100, "")
	assert.Contains(t, text, "Estimated cost: $1,796.30")
	assert.Contains(t, text, "Risk: 42%")
	assert.Contains(t, text, "Strong company growth potential.")
	require.Len(t, markup.InlineKeyboard, 1)

	in.Step = model.StepReason
	text, markup = TradeStepResponse(in, 100, "Selection Required: Please select a reason for your trade.")
	assert.Contains(t, text, "Selection Required")
	assert.Len(t, markup.InlineKeyboard, len(model.Reasons(model.Buy))+1)
	assert.Equal(t, "✅ Strong company growth potential.", markup.InlineKeyboard[1][0].Text)
}

func TestTradeStepButtonsCarryIntentID(t *testing.T) {
	in := model.TradeIntent{
		ID:          "1f3a9c0e",
		Ticker:      "NVDA",
		CompanyName: "NVIDIA Corporation",
		Side:        model.Sell,
		Available:   7,
		MarketPrice: decimal.RequireFromString("875.28"),
	}

	for _, step := range []model.TradeStep{model.StepReason, model.StepAmount, model.StepRiskConfirm} {
		in.Step = step
		_, markup := TradeStepResponse(in, 7, "")
		for _, row := range markup.InlineKeyboard {
			for _, btn := range row {
				assert.True(t, strings.HasPrefix(btn.Data, in.ID), "step %d: %q", step, btn.Text)
				// data is sent as "\f" + unique + "|" + data
				assert.LessOrEqual(t, len("\f"+btn.Unique+"|"+btn.Data), 64, "step %d: %q", step, btn.Text)
			}
		}
	}
}

func TestLeaderboardResponse(t *testing.T) {
	text := LeaderboardResponse([]model.LeaderboardRow{
		{Rank: 1, Name: "Alex T.", Points: 250},
		{Rank: 2, Name: "You", Points: 200, IsCurrentUser: true},
	})
	assert.Equal(t, "🥇 Leaderboard\n\n1. Alex T. · 250 pts\n2. 👉 You · 200 pts", text)
}

func TestReadinessResponse(t *testing.T) {
	text := ReadinessResponse(model.Readiness{Score: 75, Band: "Almost there"})
	assert.Contains(t, text, "▰▰▰▰▰▰▰▱▱▱ 75/100")
	assert.Contains(t, text, "Almost there")
}

func TestSearchResponse(t *testing.T) {
	text, markup := SearchResponse(aiModel.StockSearchOutput{Results: []aiModel.StockInfo{
		{Ticker: "AAPL", Name: "Apple Inc", Price: 214.29, Change: "-1.04%", ChangeType: aiModel.ChangeDecrease},
		{Ticker: "TSLA", Name: "Tesla Inc", Price: 184.88, Change: "+5.76%", ChangeType: aiModel.ChangeIncrease},
	}})
	assert.Contains(t, text, "🔻 AAPL · Apple Inc\n   $214.29 (-1.04%)")
	assert.Contains(t, text, "🟢 TSLA · Tesla Inc\n   $184.88 (+5.76%)")
	assert.Len(t, markup.InlineKeyboard, 2)
}
