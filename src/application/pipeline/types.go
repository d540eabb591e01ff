package pipeline

import (
	"context"
	"time"

	"github.com/macrorun/macrorun/src/domain/num"
	"github.com/macrorun/macrorun/src/domain/timeseries"
)

// FX regime labels as normalized by the universe loader. Any other non-empty
// string passes through untouched; only "Pegged" changes scoring behavior.
const (
	RegimeFreeFloat = "FreeFloat"
	RegimeManaged   = "Managed"
	RegimePegged    = "Pegged"
)

// UniverseRow is one validated row of the country ETF universe. Country and
// ETF are non-empty and Country is unique; every macro field is optional.
type UniverseRow struct {
	Country           string
	ETF               string
	PolicyRate        num.Float
	PolicyRate3MAgo   num.Float
	CPIYoY            num.Float
	GrowthMomentum    num.Float
	CurrentAccountGDP num.Float
	RiskFlag          num.Float
	FXRegime          string
}

// FeatureRow holds the per-country features derived from market data and the
// manual macro columns. Built once per run, never mutated afterward.
type FeatureRow struct {
	Country           string    `json:"country"`
	ETF               string    `json:"etf"`
	TrendOK           bool      `json:"trend_ok"`
	ETFMom12m         num.Float `json:"etf_mom_12m"`
	FXMom12m          num.Float `json:"fx_mom_12m"`
	FXMom3m           num.Float `json:"fx_mom_3m"`
	PolicyRate        num.Float `json:"policy_rate"`
	PolicyRate3MAgo   num.Float `json:"policy_rate_3m_ago"`
	CPIYoY            num.Float `json:"cpi_yoy"`
	RealRate          num.Float `json:"real_rate"`
	RateChange3M      num.Float `json:"rate_change_3m"`
	GrowthMomentum    num.Float `json:"growth_momentum"`
	CurrentAccountGDP num.Float `json:"current_account_gdp"`
	RiskFlag          num.Float `json:"risk_flag"`
	FXRegime          string    `json:"fx_regime,omitempty"`
}

// RankedCountry is a scored feature row. Rank is 1-based; slice order is the
// presentation order.
type RankedCountry struct {
	FeatureRow
	Score num.Float `json:"score"`
	Rank  int       `json:"rank"`
}

// RankedResult is the sole output artifact of a ranking run.
type RankedResult struct {
	GeneratedAt        time.Time       `json:"generated_at"`
	UniverseSize       int             `json:"universe_size"`
	EligibleAfterGates int             `json:"eligible_after_gates"`
	Countries          []RankedCountry `json:"countries"`
}

// IsEmpty reports whether gating removed every candidate.
func (r *RankedResult) IsEmpty() bool {
	return len(r.Countries) == 0
}

// MarketData is the provider contract the ranker depends on. Absent or failed
// identifiers are simply missing from the result map, never an error; errors
// are reserved for cancelled contexts and unreachable endpoints.
type MarketData interface {
	// AdjustedClose returns a daily adjusted-close series per ticker.
	AdjustedClose(ctx context.Context, tickers []string, start time.Time) (map[string]timeseries.Series, error)
	// FXVersusUSD returns a daily FX series per country, standardized so a
	// higher value means a stronger local currency against the US dollar.
	FXVersusUSD(ctx context.Context, countries []string, start time.Time) (map[string]timeseries.Series, error)
}
