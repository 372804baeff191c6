package quotesApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/ginvest_bot/config"
	"github.com/KotFed0t/ginvest_bot/internal/model"
	"github.com/KotFed0t/ginvest_bot/internal/model/quoteModel"
	"github.com/KotFed0t/ginvest_bot/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type QuotesApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *QuotesApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.QuotesApi.Url)
	return &QuotesApi{client: client}
}

func (a *QuotesApi) GetQuotes(ctx context.Context, tickers []string) ([]model.Quote, error) {
	rqId := utils.GetRequestIDFromCtx(ctx)
	op := "QuotesApi.GetQuotes"

	slog.Debug("start GetQuotes request", slog.String("rqID", rqId), slog.String("op", op), slog.Int("tickers", len(tickers)))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbols", strings.Join(tickers, ",")).
		Get("/quotes")

	if err != nil {
		slog.Error("error while dialing QuotesApi", slog.String("err", err.Error()), slog.String("rqID", rqId), slog.String("op", op))
		return nil, err
	}

	if resp.IsError() {
		slog.Error("QuotesApi responded with error", slog.Int("status", resp.StatusCode()), slog.String("rqID", rqId), slog.String("op", op))
		return nil, fmt.Errorf("quotes api status %d", resp.StatusCode())
	}

	raw := quoteModel.RawQuotes{}
	err = json.Unmarshal(resp.Body(), &raw)
	if err != nil {
		slog.Error("can't unmarshall response into quoteModel.RawQuotes", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return nil, err
	}

	res, err := parseRawQuotes(raw)
	if err != nil {
		slog.Error("can't parse raw data", slog.String("err", err.Error()), slog.String("rqID", rqId))
		return nil, err
	}

	slog.Debug("GetQuotes request complete", slog.String("rqID", rqId), slog.Int("quotes", len(res)))

	return res, nil
}

// parseRawQuotes skips entries without a price, the api returns them for halted symbols.
func parseRawQuotes(raw quoteModel.RawQuotes) ([]model.Quote, error) {
	res := make([]model.Quote, 0, len(raw.Quotes))
	for _, q := range raw.Quotes {
		if q.Symbol == "" {
			return nil, fmt.Errorf("quote without symbol: %+v", q)
		}
		if q.Price == nil {
			continue
		}

		quote := model.Quote{
			Ticker: strings.ToUpper(q.Symbol),
			Name:   q.Name,
			Price:  decimal.NewFromFloat(*q.Price).Round(2),
		}
		if q.ChangePercent != nil {
			quote.ChangePercent = decimal.NewFromFloat(*q.ChangePercent).Round(2)
		}
		res = append(res, quote)
	}
	return res, nil
}
