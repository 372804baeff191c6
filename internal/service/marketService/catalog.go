package marketService

import (
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/shopspring/decimal"
)

func quote(ticker, name, sector, price, change string) model.Quote {
	return model.Quote{
		Ticker:        ticker,
		Name:          name,
		Sector:        sector,
		Price:         decimal.RequireFromString(price),
		ChangePercent: decimal.RequireFromString(change),
	}
}

// catalog order is the search result order.
var catalog = []model.Quote{
	quote("TSLA", "Tesla Inc", "Consumer Cyclical", "184.88", "5.76"),
	quote("NVDA", "NVIDIA Corp", "Technology", "135.58", "3.50"),
	quote("AAPL", "Apple Inc", "Technology", "214.29", "-1.04"),
	quote("SPY", "SPDR S&P 500 ETF Trust", "Index Fund", "544.83", "0.21"),
	quote("IVV", "iShares Core S&P 500 ETF", "Index Fund", "546.79", "0.22"),
	quote("VTI", "Vanguard Total Stock Market ETF", "Index Fund", "267.84", "0.25"),
	quote("AMZN", "Amazon.com, Inc.", "Consumer Cyclical", "189.08", "1.60"),
	quote("GOOGL", "Alphabet Inc.", "Communication Services", "179.63", "1.89"),
	quote("MSFT", "Microsoft Corporation", "Technology", "449.78", "0.92"),
	quote("GOOG", "Alphabet Inc. Class C", "Communication Services", "175.43", "1.12"),
	quote("ADBE", "Adobe Inc.", "Technology", "527.31", "-0.48"),
	quote("NKE", "Nike, Inc.", "Consumer Cyclical", "94.75", "-2.13"),
	quote("BA", "The Boeing Company", "Industrials", "177.38", "-0.87"),
	quote("NOW", "ServiceNow, Inc.", "Technology", "742.25", "0.64"),
}

func catalogEntry(ticker string) (model.Quote, bool) {
	for _, q := range catalog {
		if q.Ticker == ticker {
			return q, true
		}
	}
	return model.Quote{}, false
}

func catalogTickers() []string {
	res := make([]string, 0, len(catalog))
	for _, q := range catalog {
		res = append(res, q.Ticker)
	}
	return res
}
