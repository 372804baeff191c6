package model

import "github.com/shopspring/decimal"

// Quote is a catalog stock with its last known price.
type Quote struct {
	Ticker        string          `json:"ticker"`
	Name          string          `json:"name"`
	Sector        string          `json:"sector"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"changePercent"`
}
