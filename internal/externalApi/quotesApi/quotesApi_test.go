package quotesApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KotFed0t/ginvest_bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApi(t *testing.T, handler http.HandlerFunc) *QuotesApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = 5 * time.Second
	cfg.API.QuotesApi.Url = srv.URL
	return New(cfg)
}

func TestGetQuotes(t *testing.T) {
	api := newApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quotes", r.URL.Path)
		assert.Equal(t, "AAPL,TSLA,HALT", r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quotes":[
			{"symbol":"aapl","name":"Apple Inc","price":214.29,"changePercent":-1.04},
			{"symbol":"TSLA","name":"Tesla Inc","price":184.876,"changePercent":5.76},
			{"symbol":"HALT","name":"Halted","price":null}
		]}`))
	})

	quotes, err := api.GetQuotes(context.Background(), []string{"AAPL", "TSLA", "HALT"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "AAPL", quotes[0].Ticker)
	assert.Equal(t, "-1.04", quotes[0].ChangePercent.StringFixed(2))
	assert.Equal(t, "184.88", quotes[1].Price.StringFixed(2))
}

func TestGetQuotesServerError(t *testing.T) {
	api := newApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := api.GetQuotes(context.Background(), []string{"AAPL"})
	require.Error(t, err)
}
