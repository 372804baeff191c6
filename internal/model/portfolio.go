package model

import (
	"github.com/shopspring/decimal"
)

type Holding struct {
	Ticker               string          `json:"ticker"`
	CompanyName          string          `json:"companyName"`
	Shares               int             `json:"shares"`
	MarketPrice          decimal.Decimal `json:"marketPrice"`
	AveragePurchasePrice decimal.Decimal `json:"averagePurchasePrice"`
}

func (h Holding) MarketValue() decimal.Decimal {
	return h.MarketPrice.Mul(decimal.NewFromInt(int64(h.Shares)))
}

func (h Holding) CostBasis() decimal.Decimal {
	return h.AveragePurchasePrice.Mul(decimal.NewFromInt(int64(h.Shares)))
}

// PortfolioRecord is the persisted summary record. TotalValue and InvestedValue are
// written for layout compatibility only, readers recompute them from holdings.
type PortfolioRecord struct {
	TotalValue        decimal.Decimal `json:"totalValue"`
	InvestedValue     decimal.Decimal `json:"investedValue"`
	RemainingBalance  decimal.Decimal `json:"remainingBalance"`
	TodaysGain        decimal.Decimal `json:"todaysGain"`
	TodaysGainPercent decimal.Decimal `json:"todaysGainPercent"`
}

type PortfolioSummary struct {
	CashBalance    decimal.Decimal
	InvestedValue  decimal.Decimal
	TotalValue     decimal.Decimal
	DayGain        decimal.Decimal
	DayGainPercent decimal.Decimal
	HoldingsCount  int
}

type PortfolioView struct {
	Summary  PortfolioSummary
	Holdings []Holding
}

type PortfolioReport struct {
	View        PortfolioView
	Trades      []JournalEntry
	Progress    Progress
	Level       LevelProgress
	GeneratedAt string
}

type ExportFile struct {
	Name  string
	Bytes []byte
	Link  string
}
