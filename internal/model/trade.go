package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

type TradeStep int

const (
	StepReason TradeStep = iota
	StepAmount
	StepRiskConfirm
	StepCommitted
	StepCancelled
)

func (s TradeStep) Terminal() bool {
	return s == StepCommitted || s == StepCancelled
}

type TradeReason struct {
	Code    string
	Label   string
	Correct bool
}

var buyReasons = []TradeReason{
	{Code: "buy-undervalued", Label: "The stock appears undervalued (low P/E ratio).", Correct: true},
	{Code: "buy-growth", Label: "Strong company growth potential.", Correct: true},
	{Code: "buy-hype", Label: "Everyone is talking about it, so it must go up.", Correct: false},
	{Code: "buy-dip", Label: "Buying the dip after a market overreaction.", Correct: true},
}

var sellReasons = []TradeReason{
	{Code: "sell-overvalued", Label: "The stock appears overvalued (high P/E ratio).", Correct: true},
	{Code: "sell-profit", Label: "Taking profits after reaching a target price.", Correct: true},
	{Code: "sell-panic", Label: "The market is crashing, selling everything!", Correct: false},
	{Code: "sell-fundamentals", Label: "Company fundamentals have weakened.", Correct: true},
}

func Reasons(side Side) []TradeReason {
	if side == Sell {
		return sellReasons
	}
	return buyReasons
}

func FindReason(side Side, code string) (TradeReason, bool) {
	for _, r := range Reasons(side) {
		if r.Code == code {
			return r, true
		}
	}
	return TradeReason{}, false
}

// TradeIntent lives in the dialog session only. ID ties wizard messages to the intent they show.
type TradeIntent struct {
	ID          string          `json:"id"`
	Ticker      string          `json:"ticker"`
	CompanyName string          `json:"companyName"`
	Side        Side            `json:"side"`
	Step        TradeStep       `json:"step"`
	ReasonCode  string          `json:"reasonCode"`
	ShareCount  int             `json:"shareCount"`
	Available   int             `json:"available"`
	RiskPercent int             `json:"riskPercent"`
	MarketPrice decimal.Decimal `json:"marketPrice"`
}

func (t TradeIntent) EstimatedTotal() decimal.Decimal {
	return t.MarketPrice.Mul(decimal.NewFromInt(int64(t.ShareCount)))
}

type JournalEntry struct {
	ID            string          `json:"id"`
	Ticker        string          `json:"ticker"`
	Side          Side            `json:"side"`
	Shares        int             `json:"shares"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	ReasonCode    string          `json:"reasonCode"`
	CorrectReason bool            `json:"correctReason"`
	RiskPercent   int             `json:"riskPercent"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type TradeResult struct {
	Entry         JournalEntry
	Summary       PortfolioSummary
	PointsEarned  int
	CorrectReason bool
}
