package marketService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/aiModel"
	"github.com/KotFed0t/ginvest_bot/internal/service"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const (
	searchLimit   = 5
	PriceToolName = "getStockPrice"
)

type Cache interface {
	SetQuotes(ctx context.Context, quotes []model.Quote) error
	GetQuote(ctx context.Context, ticker string) (model.Quote, error)
	GetQuotes(ctx context.Context, tickers []string) (map[string]model.Quote, error)
}

type QuotesApi interface {
	GetQuotes(ctx context.Context, tickers []string) ([]model.Quote, error)
}

// MarketService works over the mock catalog. cache and quotesApi may be nil.
type MarketService struct {
	cache     Cache
	quotesApi QuotesApi

	mu  sync.Mutex
	rnd *rand.Rand
}

func New(cache Cache, quotesApi QuotesApi, src rand.Source) *MarketService {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &MarketService{cache: cache, quotesApi: quotesApi, rnd: rand.New(src)}
}

// Search matches the query against ticker and name, case-insensitive.
func (s *MarketService) Search(ctx context.Context, query string) []model.Quote {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []model.Quote{}
	}

	res := make([]model.Quote, 0, searchLimit)
	for _, q := range catalog {
		if strings.Contains(strings.ToLower(q.Ticker), query) || strings.Contains(strings.ToLower(q.Name), query) {
			res = append(res, q)
			if len(res) == searchLimit {
				break
			}
		}
	}

	return s.withCachedPrices(ctx, res)
}

// List returns the whole catalog with the freshest known prices.
func (s *MarketService) List(ctx context.Context) []model.Quote {
	res := make([]model.Quote, len(catalog))
	copy(res, catalog)
	return s.withCachedPrices(ctx, res)
}

func (s *MarketService) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.Quote"

	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	entry, ok := catalogEntry(ticker)
	if !ok {
		return model.Quote{}, service.ErrNotFound
	}

	if s.cache == nil {
		return entry, nil
	}

	cached, err := s.cache.GetQuote(ctx, ticker)
	if err != nil {
		slog.Debug("quote is not cached", slog.String("rqID", rqID), slog.String("op", op), slog.String("ticker", ticker), slog.String("err", err.Error()))
		return entry, nil
	}

	return cached, nil
}

// Prices returns market prices for the given tickers. Unknown tickers are omitted.
func (s *MarketService) Prices(ctx context.Context, tickers []string) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal, len(tickers))

	quotes := make([]model.Quote, 0, len(tickers))
	for _, t := range tickers {
		if q, ok := catalogEntry(t); ok {
			quotes = append(quotes, q)
		}
	}

	for _, q := range s.withCachedPrices(ctx, quotes) {
		res[q.Ticker] = q.Price
	}
	return res
}

func (s *MarketService) Sector(ticker string) string {
	if q, ok := catalogEntry(ticker); ok {
		return q.Sector
	}
	return ""
}

// RandomPrice backs the market chat tool. The value is illustrative.
func (s *MarketService) RandomPrice(ticker string) decimal.Decimal {
	s.mu.Lock()
	f := s.rnd.Float64()
	s.mu.Unlock()
	return decimal.NewFromFloat(f*500 + 50).Round(2)
}

func (s *MarketService) PriceTool() aiModel.Tool {
	return aiModel.Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        PriceToolName,
			Description: "Get the current price of a stock by its ticker symbol.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"ticker": {Type: genai.TypeString, Description: "The stock ticker symbol, e.g. GOOGL."},
				},
				Required: []string{"ticker"},
			},
		},
		Call: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			ticker, _ := args["ticker"].(string)
			ticker = strings.ToUpper(strings.TrimSpace(ticker))
			if ticker == "" {
				return nil, errors.New("ticker is required")
			}
			price := s.RandomPrice(ticker)
			slog.Debug("price tool called", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("ticker", ticker), slog.String("price", price.String()))
			return map[string]any{"ticker": ticker, "price": price.InexactFloat64()}, nil
		},
	}
}

// RefreshQuotes warms the quote cache, from the quotes api when configured and
// from catalog prices otherwise.
func (s *MarketService) RefreshQuotes(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.RefreshQuotes"

	slog.Debug("RefreshQuotes start", slog.String("rqID", rqID), slog.String("op", op))

	if s.cache == nil {
		return nil
	}

	quotes := make([]model.Quote, len(catalog))
	copy(quotes, catalog)

	if s.quotesApi != nil {
		fetched, err := s.quotesApi.GetQuotes(ctx, catalogTickers())
		if err != nil {
			slog.Error("failed on quotesApi.GetQuotes, falling back to catalog", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			quotes = mergeQuotes(quotes, fetched)
		}
	}

	if err := s.cache.SetQuotes(ctx, quotes); err != nil {
		return fmt.Errorf("set quotes: %w", err)
	}

	slog.Debug("RefreshQuotes finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int("quotes", len(quotes)))

	return nil
}

// mergeQuotes takes prices from fetched, names and sectors stay from the catalog.
func mergeQuotes(base []model.Quote, fetched []model.Quote) []model.Quote {
	byTicker := make(map[string]model.Quote, len(fetched))
	for _, q := range fetched {
		byTicker[q.Ticker] = q
	}

	for i, q := range base {
		f, ok := byTicker[q.Ticker]
		if !ok || !f.Price.IsPositive() {
			continue
		}
		base[i].Price = f.Price
		base[i].ChangePercent = f.ChangePercent
	}
	return base
}

func (s *MarketService) withCachedPrices(ctx context.Context, quotes []model.Quote) []model.Quote {
	if s.cache == nil || len(quotes) == 0 {
		return quotes
	}

	tickers := make([]string, 0, len(quotes))
	for _, q := range quotes {
		tickers = append(tickers, q.Ticker)
	}

	cached, err := s.cache.GetQuotes(ctx, tickers)
	if err != nil {
		slog.Warn("can't get quotes from cache", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return quotes
	}

	return mergeQuotes(quotes, mapValues(cached))
}

func mapValues(m map[string]model.Quote) []model.Quote {
	res := make([]model.Quote, 0, len(m))
	for _, v := range m {
		res = append(res, v)
	}
	return res
}
