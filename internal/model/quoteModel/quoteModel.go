package quoteModel

type RawQuotes struct {
	Quotes []RawQuote `json:"quotes"`
}

type RawQuote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	ChangePercent *float64 `json:"changePercent"`
}
