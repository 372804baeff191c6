// Package ledger applies simulated trades to a cash balance and a set of holdings.
// It never mutates its input and never persists anything.
package ledger

import (
	"errors"
	"fmt"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidShares      = errors.New("share count must be positive")
	ErrInvalidPrice       = errors.New("market price must be positive")
)

type Book struct {
	Cash     decimal.Decimal
	Holdings []model.Holding
}

type Trade struct {
	Ticker      string
	CompanyName string
	Shares      int
	Price       decimal.Decimal
}

func (t Trade) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(int64(t.Shares)))
}

func (b Book) Find(ticker string) (model.Holding, bool) {
	for _, h := range b.Holdings {
		if h.Ticker == ticker {
			return h, true
		}
	}
	return model.Holding{}, false
}

func (b Book) SharesOf(ticker string) int {
	h, _ := b.Find(ticker)
	return h.Shares
}

func (b Book) clone() Book {
	holdings := make([]model.Holding, len(b.Holdings))
	copy(holdings, b.Holdings)
	return Book{Cash: b.Cash, Holdings: holdings}
}

func validate(t Trade) error {
	if t.Shares <= 0 {
		return ErrInvalidShares
	}
	if !t.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

// ApplyBuy debits the cost and recomputes the weighted average purchase price.
func ApplyBuy(b Book, t Trade) (Book, error) {
	if err := validate(t); err != nil {
		return b, err
	}

	cost := t.Total()
	if b.Cash.LessThan(cost) {
		return b, fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, cost.StringFixed(2), b.Cash.StringFixed(2))
	}

	res := b.clone()
	res.Cash = res.Cash.Sub(cost)

	for i, h := range res.Holdings {
		if h.Ticker != t.Ticker {
			continue
		}
		shares := h.Shares + t.Shares
		res.Holdings[i].AveragePurchasePrice = h.CostBasis().Add(cost).Div(decimal.NewFromInt(int64(shares)))
		res.Holdings[i].Shares = shares
		res.Holdings[i].MarketPrice = t.Price
		return res, nil
	}

	res.Holdings = append(res.Holdings, model.Holding{
		Ticker:               t.Ticker,
		CompanyName:          t.CompanyName,
		Shares:               t.Shares,
		MarketPrice:          t.Price,
		AveragePurchasePrice: t.Price,
	})
	return res, nil
}

// ApplySell credits the proceeds. The average price is kept, an emptied holding is removed.
func ApplySell(b Book, t Trade) (Book, error) {
	if err := validate(t); err != nil {
		return b, err
	}

	held := b.SharesOf(t.Ticker)
	if held < t.Shares {
		return b, fmt.Errorf("%w: want to sell %d of %s, hold %d", ErrInsufficientShares, t.Shares, t.Ticker, held)
	}

	res := b.clone()
	res.Cash = res.Cash.Add(t.Total())

	for i, h := range res.Holdings {
		if h.Ticker != t.Ticker {
			continue
		}
		if h.Shares == t.Shares {
			res.Holdings = append(res.Holdings[:i], res.Holdings[i+1:]...)
		} else {
			res.Holdings[i].Shares = h.Shares - t.Shares
			res.Holdings[i].MarketPrice = t.Price
		}
		break
	}
	return res, nil
}

func Apply(b Book, side model.Side, t Trade) (Book, error) {
	switch side {
	case model.Buy:
		return ApplyBuy(b, t)
	case model.Sell:
		return ApplySell(b, t)
	default:
		return b, fmt.Errorf("unknown trade side %q", side)
	}
}

// MarkToMarket replaces market prices of held tickers with the given quotes.
func MarkToMarket(b Book, prices map[string]decimal.Decimal) Book {
	res := b.clone()
	for i, h := range res.Holdings {
		if p, ok := prices[h.Ticker]; ok && p.IsPositive() {
			res.Holdings[i].MarketPrice = p
		}
	}
	return res
}

// Summarize always derives invested and total values from the book.
func Summarize(b Book, dayGain, dayGainPercent decimal.Decimal) model.PortfolioSummary {
	invested := decimal.Zero
	market := decimal.Zero
	for _, h := range b.Holdings {
		invested = invested.Add(h.CostBasis())
		market = market.Add(h.MarketValue())
	}

	return model.PortfolioSummary{
		CashBalance:    b.Cash,
		InvestedValue:  invested,
		TotalValue:     b.Cash.Add(market),
		DayGain:        dayGain,
		DayGainPercent: dayGainPercent,
		HoldingsCount:  len(b.Holdings),
	}
}
