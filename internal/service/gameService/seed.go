package gameService

import (
	"github.com/KotFed0t/ginvest_bot/internal/ledger"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/shopspring/decimal"
)

var (
	seedDayGain        = decimal.RequireFromString("2130.43")
	seedDayGainPercent = decimal.RequireFromString("1.86")
)

func seedHolding(ticker, name string, shares int, price string) model.Holding {
	p := decimal.RequireFromString(price)
	return model.Holding{
		Ticker:               ticker,
		CompanyName:          name,
		Shares:               shares,
		MarketPrice:          p,
		AveragePurchasePrice: p,
	}
}

func seedHoldings() []model.Holding {
	return []model.Holding{
		seedHolding("GOOGL", "Alphabet Inc.", 10, "179.63"),
		seedHolding("AAPL", "Apple Inc", 25, "214.29"),
		seedHolding("TSLA", "Tesla Inc", 15, "184.88"),
		seedHolding("AMZN", "Amazon.com, Inc.", 5, "189.08"),
		seedHolding("NVDA", "NVIDIA Corp", 40, "135.58"),
	}
}

func (s *GameService) seedPortfolio(holdings []model.Holding) model.PortfolioRecord {
	book := ledger.Book{Cash: decimal.NewFromFloat(s.cfg.StartingCash), Holdings: holdings}
	return portfolioRecord(ledger.Summarize(book, seedDayGain, seedDayGainPercent))
}

func portfolioRecord(summary model.PortfolioSummary) model.PortfolioRecord {
	return model.PortfolioRecord{
		TotalValue:        summary.TotalValue,
		InvestedValue:     summary.InvestedValue,
		RemainingBalance:  summary.CashBalance,
		TodaysGain:        summary.DayGain,
		TodaysGainPercent: summary.DayGainPercent,
	}
}
