package pipeline

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/macrorun/macrorun/src/domain/features"
	"github.com/macrorun/macrorun/src/domain/num"
)

// Structural signal composition: current account is in % of GDP and would
// dominate the growth term unscaled; a higher risk flag is a penalty.
const (
	currentAccountScale = 0.2
	riskFlagPenalty     = 0.75
)

// Ranker scores a country universe cross-sectionally and returns the top-K
// most favorable countries. One invocation is one batch; no state survives
// between runs.
type Ranker struct {
	cfg  Config
	data MarketData
}

// NewRanker validates the configuration eagerly and fails before any data is
// fetched.
func NewRanker(cfg Config, data MarketData) (*Ranker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("market data provider is required")
	}
	return &Ranker{cfg: cfg, data: data}, nil
}

// Rank runs the full pipeline: feature derivation per country, eligibility
// gates, cross-sectional standardization over the eligible set, regime
// adjustment, optional FX veto, weighted composition, sort and truncation.
func (r *Ranker) Rank(ctx context.Context, universe []UniverseRow, start time.Time) (*RankedResult, error) {
	if len(universe) == 0 {
		return nil, fmt.Errorf("universe is empty")
	}

	tickers := make([]string, 0, len(universe))
	countries := make([]string, 0, len(universe))
	seen := make(map[string]bool, len(universe))
	for _, row := range universe {
		countries = append(countries, row.Country)
		t := strings.ToUpper(row.ETF)
		if !seen[t] {
			seen[t] = true
			tickers = append(tickers, t)
		}
	}

	etfPx, err := r.data.AdjustedClose(ctx, tickers, start)
	if err != nil {
		return nil, fmt.Errorf("fetch ETF prices: %w", err)
	}
	fxPx, err := r.data.FXVersusUSD(ctx, countries, start)
	if err != nil {
		return nil, fmt.Errorf("fetch FX series: %w", err)
	}

	rows := make([]FeatureRow, 0, len(universe))
	for _, u := range universe {
		row := r.buildFeatureRow(u, etfPx[strings.ToUpper(u.ETF)], fxPx[u.Country])
		log.Debug().Str("country", row.Country).Str("etf", row.ETF).
			Bool("trend_ok", row.TrendOK).
			Str("etf_mom_12m", row.ETFMom12m.String()).
			Str("fx_mom_12m", row.FXMom12m.String()).
			Msg("Derived country features")
		rows = append(rows, row)
	}

	eligible := r.applyGates(rows)
	if len(eligible) == 0 {
		log.Warn().Int("universe", len(universe)).Msg("No countries survived eligibility gates")
		return &RankedResult{
			GeneratedAt:  time.Now().UTC(),
			UniverseSize: len(universe),
			Countries:    []RankedCountry{},
		}, nil
	}

	scored := r.score(eligible)

	sort.SliceStable(scored, func(i, j int) bool {
		vi, oki := scored[i].Score.Float64()
		vj, okj := scored[j].Score.Float64()
		if oki != okj {
			return oki // defined scores ahead of undefined ones
		}
		return vi > vj
	})

	topK := r.cfg.TopK
	if len(scored) < topK {
		topK = len(scored)
	}
	selected := make([]RankedCountry, topK)
	copy(selected, scored[:topK])
	for i := range selected {
		selected[i].Rank = i + 1
	}

	log.Info().Int("universe", len(universe)).Int("eligible", len(scored)).
		Int("selected", len(selected)).
		Msg("Country ranking completed")

	return &RankedResult{
		GeneratedAt:        time.Now().UTC(),
		UniverseSize:       len(universe),
		EligibleAfterGates: len(scored),
		Countries:          selected,
	}, nil
}

// applyGates filters candidates in order: trend confirmation, then the two
// missing-data drops. Gated-out countries never reach the cross-sectional
// statistics.
func (r *Ranker) applyGates(rows []FeatureRow) []FeatureRow {
	eligible := make([]FeatureRow, 0, len(rows))
	for _, row := range rows {
		if r.cfg.RequireETFAboveMA && !row.TrendOK {
			log.Debug().Str("country", row.Country).Msg("Gated out: ETF below trend MA")
			continue
		}
		if r.cfg.DropIfMissingPolicyRate && !row.PolicyRate.Valid() {
			log.Debug().Str("country", row.Country).Msg("Gated out: missing policy rate")
			continue
		}
		if r.cfg.DropIfMissingCPI && !row.CPIYoY.Valid() {
			log.Debug().Str("country", row.Country).Msg("Gated out: missing CPI")
			continue
		}
		eligible = append(eligible, row)
	}
	return eligible
}

// score standardizes the five signals over the eligible cross-section, applies
// the missing-data policy, clipping and the peg penalty, then composes the
// weighted final score. Two-pass by construction: all features are collected
// before any z-score is derived.
func (r *Ranker) score(eligible []FeatureRow) []RankedCountry {
	n := len(eligible)

	equity := make([]num.Float, n)
	fxCombo := make([]num.Float, n)
	realRate := make([]num.Float, n)
	rateChg := make([]num.Float, n)
	structural := make([]num.Float, n)

	for i, row := range eligible {
		equity[i] = row.ETFMom12m
		fxCombo[i] = row.FXMom12m.Add(row.FXMom3m).Scale(0.5)
		realRate[i] = row.RealRate
		rateChg[i] = row.RateChange3M
		structural[i] = num.F(row.GrowthMomentum.Or(0) +
			currentAccountScale*row.CurrentAccountGDP.Or(0) -
			riskFlagPenalty*row.RiskFlag.Or(0))
	}

	zEquity := r.normalize(features.ZScoreCrossSection(equity))
	zFX := r.normalize(features.ZScoreCrossSection(fxCombo))
	zReal := r.normalize(features.ZScoreCrossSection(realRate))
	zRateChg := r.normalize(features.ZScoreCrossSection(rateChg))
	zStruct := r.normalize(features.ZScoreCrossSection(structural))

	// Peg penalty: pegged regimes keep only 1 − penalty of their FX signal.
	for i, row := range eligible {
		zFX[i] = zFX[i].Scale(r.fxRegimeMultiplier(row.FXRegime))
	}

	keep := make([]int, 0, n)
	for i, row := range eligible {
		if r.cfg.HardVetoOnFXBreakdown && row.FXMom12m.Or(0) < 0 {
			log.Debug().Str("country", row.Country).
				Str("fx_mom_12m", row.FXMom12m.String()).
				Msg("Vetoed: negative 12m FX momentum")
			continue
		}
		keep = append(keep, i)
	}

	scored := make([]RankedCountry, 0, len(keep))
	for _, i := range keep {
		score := zEquity[i].Scale(r.cfg.WeightEquity).
			Add(zFX[i].Scale(r.cfg.WeightFX)).
			Add(zReal[i].Scale(r.cfg.WeightRealRate)).
			Add(zRateChg[i].Scale(r.cfg.WeightRateChange)).
			Add(zStruct[i].Scale(r.cfg.WeightStructural))

		if r.cfg.ClipScores {
			if v, ok := score.Float64(); ok {
				score = num.F(math.Max(r.cfg.ScoreClipMin, math.Min(r.cfg.ScoreClipMax, v)))
			}
		}

		scored = append(scored, RankedCountry{FeatureRow: eligible[i], Score: score})
	}
	return scored
}

// normalize applies the fill-with-zero policy and symmetric clipping to one
// z-scored signal.
func (r *Ranker) normalize(z []num.Float) []num.Float {
	if r.cfg.FillMissingWithZero {
		for i, v := range z {
			if !v.Valid() {
				z[i] = num.F(0)
			}
		}
	}
	if r.cfg.ClipScores {
		z = features.Clip(z, r.cfg.ScoreClipMin, r.cfg.ScoreClipMax)
	}
	return z
}

// fxRegimeMultiplier down-weights FX signal credibility for currencies that do
// not float freely: exactly 1 − peg penalty for a pegged regime, else 1.
func (r *Ranker) fxRegimeMultiplier(regime string) float64 {
	if strings.EqualFold(strings.TrimSpace(regime), RegimePegged) {
		return math.Max(0, 1.0-r.cfg.FXPegPenalty)
	}
	return 1.0
}
