package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/macrorun/macrorun/src/domain/timeseries"
	"github.com/macrorun/macrorun/src/infrastructure/cache"
)

const cacheTTL = 6 * time.Hour

// YahooMarketData implements the pipeline's market data contract against the
// Yahoo Finance chart API. Per-symbol failures are absorbed: an absent or
// failed symbol is simply missing from the result map.
type YahooMarketData struct {
	chart *chartClient
	store cache.Store
}

// Option configures a YahooMarketData.
type Option func(*YahooMarketData)

// WithBaseURL points the client at a different endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(y *YahooMarketData) {
		y.chart = newChartClient(baseURL)
	}
}

// WithCache consults store before every download and fills it afterwards.
func WithCache(store cache.Store) Option {
	return func(y *YahooMarketData) {
		y.store = store
	}
}

func NewYahooMarketData(opts ...Option) *YahooMarketData {
	y := &YahooMarketData{chart: newChartClient("")}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// AdjustedClose returns daily adjusted-close series per ticker. Tickers are
// de-duplicated and uppercased; failed downloads are logged and omitted.
func (y *YahooMarketData) AdjustedClose(ctx context.Context, tickers []string, start time.Time) (map[string]timeseries.Series, error) {
	out := make(map[string]timeseries.Series)
	seen := make(map[string]bool)

	for _, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true

		s, err := y.dailySeries(ctx, ticker, start)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("ticker", ticker).Msg("ETF price download failed")
			continue
		}
		if s.IsEmpty() {
			log.Warn().Str("ticker", ticker).Msg("ETF price series is empty")
			continue
		}
		out[ticker] = s
	}
	return out, nil
}

// FXVersusUSD returns one daily FX series per country, standardized so higher
// means a stronger local currency against USD. Countries without a mapping or
// with failed downloads are absent from the result.
func (y *YahooMarketData) FXVersusUSD(ctx context.Context, countries []string, start time.Time) (map[string]timeseries.Series, error) {
	out := make(map[string]timeseries.Series)
	byTicker := make(map[string]timeseries.Series) // euro-bloc countries share one ticker
	var unmapped []string

	for _, country := range countries {
		spec, ok := fxMap[country]
		if !ok {
			unmapped = append(unmapped, country)
			continue
		}

		s, cached := byTicker[spec.Ticker]
		if !cached {
			var err error
			s, err = y.dailySeries(ctx, spec.Ticker, start)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Warn().Err(err).Str("country", country).Str("ticker", spec.Ticker).
					Msg("FX download failed")
				continue
			}
			byTicker[spec.Ticker] = s
		}

		fx := s
		if spec.Invert {
			fx = invert(s)
		}
		if fx.IsEmpty() {
			log.Warn().Str("country", country).Str("ticker", spec.Ticker).Msg("FX series is empty")
			continue
		}
		out[country] = fx
	}

	if len(unmapped) > 0 {
		log.Warn().Strs("countries", unmapped).Msg("No FX mapping for countries")
	}
	return out, nil
}

// dailySeries fetches (or recalls from cache) the daily close series for one
// symbol, preferring adjusted closes.
func (y *YahooMarketData) dailySeries(ctx context.Context, symbol string, start time.Time) (timeseries.Series, error) {
	key := fmt.Sprintf("macrorun:chart:%s:%s", symbol, start.Format("2006-01-02"))

	if y.store != nil {
		if raw, err := y.store.Get(ctx, key); err == nil {
			var points []timeseries.Point
			if err := json.Unmarshal([]byte(raw), &points); err == nil {
				log.Debug().Str("symbol", symbol).Msg("Chart cache hit")
				return timeseries.New(points), nil
			}
		}
	}

	parsed, err := y.chart.fetchChart(ctx, symbol, start)
	if err != nil {
		return timeseries.Empty(), err
	}

	result := parsed.Chart.Result[0]
	closes := selectCloses(result.Indicators.Quote, result.Indicators.AdjClose)
	if closes == nil {
		return timeseries.Empty(), fmt.Errorf("no close data for %s", symbol)
	}

	points := make([]timeseries.Point, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		points = append(points, timeseries.Point{
			Time:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Value: *closes[i],
		})
	}
	s := timeseries.New(points)

	if y.store != nil && !s.IsEmpty() {
		if data, err := json.Marshal(s.Points()); err == nil {
			if err := y.store.Set(ctx, key, string(data), cacheTTL); err != nil {
				log.Debug().Err(err).Str("symbol", symbol).Msg("Chart cache write failed")
			}
		}
	}
	return s, nil
}

// selectCloses prefers the adjusted close track when present.
func selectCloses(quote []struct {
	Close []*float64 `json:"close"`
}, adj []struct {
	AdjClose []*float64 `json:"adjclose"`
}) []*float64 {
	if len(adj) > 0 && len(adj[0].AdjClose) > 0 {
		return adj[0].AdjClose
	}
	if len(quote) > 0 && len(quote[0].Close) > 0 {
		return quote[0].Close
	}
	return nil
}

// invert flips a USD/LOCAL quote into LOCAL strength (1/price).
func invert(s timeseries.Series) timeseries.Series {
	points := make([]timeseries.Point, 0, s.Len())
	for _, p := range s.Points() {
		if p.Value == 0 {
			continue
		}
		points = append(points, timeseries.Point{Time: p.Time, Value: 1.0 / p.Value})
	}
	return timeseries.New(points)
}
