package ledger

import (
	"testing"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestScenarioBuyBuySell(t *testing.T) {
	book := Book{Cash: dec("100000")}

	book, err := ApplyBuy(book, Trade{Ticker: "GOOGL", Shares: 10, Price: dec("179.63")})
	require.NoError(t, err)
	assert.True(t, book.Cash.Equal(dec("98203.70")), book.Cash.String())
	h, ok := book.Find("GOOGL")
	require.True(t, ok)
	assert.Equal(t, 10, h.Shares)
	assert.True(t, h.AveragePurchasePrice.Equal(dec("179.63")))

	book, err = ApplyBuy(book, Trade{Ticker: "GOOGL", Shares: 5, Price: dec("200.00")})
	require.NoError(t, err)
	h, _ = book.Find("GOOGL")
	assert.Equal(t, 15, h.Shares)
	assert.Equal(t, "186.42", h.AveragePurchasePrice.StringFixed(2))

	cashBefore := book.Cash
	book, err = ApplySell(book, Trade{Ticker: "GOOGL", Shares: 15, Price: dec("190.00")})
	require.NoError(t, err)
	assert.True(t, book.Cash.Sub(cashBefore).Equal(dec("2850")))
	_, ok = book.Find("GOOGL")
	assert.False(t, ok)
	assert.Empty(t, book.Holdings)
}

func TestApplyBuyInsufficientFunds(t *testing.T) {
	book := Book{Cash: dec("100")}

	res, err := ApplyBuy(book, Trade{Ticker: "AAPL", Shares: 1, Price: dec("214.29")})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, res.Cash.Equal(dec("100")))
	assert.Empty(t, res.Holdings)
}

func TestApplySellInsufficientShares(t *testing.T) {
	book := Book{
		Cash:     dec("0"),
		Holdings: []model.Holding{{Ticker: "TSLA", Shares: 3, MarketPrice: dec("184.88"), AveragePurchasePrice: dec("150")}},
	}

	_, err := ApplySell(book, Trade{Ticker: "TSLA", Shares: 4, Price: dec("184.88")})
	require.ErrorIs(t, err, ErrInsufficientShares)

	_, err = ApplySell(book, Trade{Ticker: "NVDA", Shares: 1, Price: dec("135.58")})
	require.ErrorIs(t, err, ErrInsufficientShares)

	assert.Equal(t, 3, book.Holdings[0].Shares)
}

func TestApplySellKeepsAveragePrice(t *testing.T) {
	book := Book{
		Cash:     dec("0"),
		Holdings: []model.Holding{{Ticker: "TSLA", Shares: 10, MarketPrice: dec("184.88"), AveragePurchasePrice: dec("150")}},
	}

	res, err := ApplySell(book, Trade{Ticker: "TSLA", Shares: 4, Price: dec("200")})
	require.NoError(t, err)
	h, _ := res.Find("TSLA")
	assert.Equal(t, 6, h.Shares)
	assert.True(t, h.AveragePurchasePrice.Equal(dec("150")))
	assert.True(t, res.Cash.Equal(dec("800")))
	// input untouched
	assert.Equal(t, 10, book.Holdings[0].Shares)
}

func TestInvalidTrades(t *testing.T) {
	book := Book{Cash: dec("1000")}

	_, err := ApplyBuy(book, Trade{Ticker: "AAPL", Shares: 0, Price: dec("1")})
	assert.ErrorIs(t, err, ErrInvalidShares)

	_, err = ApplyBuy(book, Trade{Ticker: "AAPL", Shares: 1, Price: dec("0")})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Apply(book, model.Side("hold"), Trade{Ticker: "AAPL", Shares: 1, Price: dec("1")})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	book := Book{
		Cash: dec("100000"),
		Holdings: []model.Holding{
			{Ticker: "GOOGL", Shares: 10, MarketPrice: dec("180"), AveragePurchasePrice: dec("179.63")},
			{Ticker: "AAPL", Shares: 25, MarketPrice: dec("214.29"), AveragePurchasePrice: dec("200")},
		},
	}

	s := Summarize(book, dec("2130.43"), dec("1.86"))
	assert.True(t, s.InvestedValue.Equal(dec("6796.30")), s.InvestedValue.String())
	assert.True(t, s.TotalValue.Equal(dec("107157.25")), s.TotalValue.String())
	assert.Equal(t, 2, s.HoldingsCount)
	assert.True(t, s.DayGain.Equal(dec("2130.43")))
}

func TestMarkToMarket(t *testing.T) {
	book := Book{Holdings: []model.Holding{{Ticker: "NVDA", Shares: 1, MarketPrice: dec("100"), AveragePurchasePrice: dec("90")}}}

	res := MarkToMarket(book, map[string]decimal.Decimal{"NVDA": dec("135.58"), "AAPL": dec("1")})
	assert.True(t, res.Holdings[0].MarketPrice.Equal(dec("135.58")))
	assert.True(t, book.Holdings[0].MarketPrice.Equal(dec("100")))
	assert.Len(t, res.Holdings, 1)
}

var tickers = []string{"GOOGL", "AAPL", "TSLA"}

func totalFromParts(b Book) decimal.Decimal {
	total := b.Cash
	for _, h := range b.Holdings {
		total = total.Add(h.MarketPrice.Mul(decimal.NewFromInt(int64(h.Shares))))
	}
	return total
}

func TestPropertyNoDrift(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := Book{Cash: dec("100000")}
		steps := rapid.IntRange(1, 40).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			side := rapid.SampledFrom([]model.Side{model.Buy, model.Sell}).Draw(t, "side")
			trade := Trade{
				Ticker: rapid.SampledFrom(tickers).Draw(t, "ticker"),
				Shares: rapid.IntRange(1, 100).Draw(t, "shares"),
				Price:  decimal.NewFromInt(int64(rapid.IntRange(100, 100000).Draw(t, "cents"))).Shift(-2),
			}

			before := book
			next, err := Apply(book, side, trade)
			if err != nil {
				if !before.Cash.Equal(next.Cash) || len(before.Holdings) != len(next.Holdings) {
					t.Fatalf("rejected trade changed the book")
				}
				continue
			}
			book = next

			s := Summarize(book, decimal.Zero, decimal.Zero)
			if !s.TotalValue.Equal(totalFromParts(book)) {
				t.Fatalf("total drifted: %s vs %s", s.TotalValue, totalFromParts(book))
			}
			if book.Cash.IsNegative() {
				t.Fatalf("negative cash %s", book.Cash)
			}
			for _, h := range book.Holdings {
				if h.Shares <= 0 {
					t.Fatalf("holding %s kept with %d shares", h.Ticker, h.Shares)
				}
			}
		}
	})
}

func TestPropertyAveragePrice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n1 := rapid.IntRange(1, 100).Draw(t, "n1")
		n2 := rapid.IntRange(1, 100).Draw(t, "n2")
		p1 := decimal.NewFromInt(int64(rapid.IntRange(1, 100000).Draw(t, "p1"))).Shift(-2)
		p2 := decimal.NewFromInt(int64(rapid.IntRange(1, 100000).Draw(t, "p2"))).Shift(-2)

		book, err := ApplyBuy(Book{Cash: dec("1000000")}, Trade{Ticker: "X", Shares: n1, Price: p1})
		if err != nil {
			t.Fatal(err)
		}
		h, _ := book.Find("X")
		if !h.AveragePurchasePrice.Equal(p1) {
			t.Fatalf("first buy avg %s, want %s", h.AveragePurchasePrice, p1)
		}

		book, err = ApplyBuy(book, Trade{Ticker: "X", Shares: n2, Price: p2})
		if err != nil {
			t.Fatal(err)
		}
		h, _ = book.Find("X")

		want := p1.Mul(decimal.NewFromInt(int64(n1))).Add(p2.Mul(decimal.NewFromInt(int64(n2)))).Div(decimal.NewFromInt(int64(n1 + n2)))
		if !h.AveragePurchasePrice.Round(8).Equal(want.Round(8)) {
			t.Fatalf("avg %s, want %s", h.AveragePurchasePrice, want)
		}
	})
}

func TestPropertySellAllRemoves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(t, "n")
		book, err := ApplyBuy(Book{Cash: dec("1000000")}, Trade{Ticker: "X", Shares: n, Price: dec("10")})
		if err != nil {
			t.Fatal(err)
		}
		book, err = ApplySell(book, Trade{Ticker: "X", Shares: n, Price: dec("12")})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := book.Find("X"); ok {
			t.Fatalf("holding not removed")
		}
	})
}
