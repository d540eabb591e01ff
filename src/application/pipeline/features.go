package pipeline

import (
	"github.com/macrorun/macrorun/src/domain/features"
	"github.com/macrorun/macrorun/src/domain/timeseries"
)

// buildFeatureRow derives the per-country features from one universe row and
// its market data. Missing history never fails; it yields missing features.
func (r *Ranker) buildFeatureRow(row UniverseRow, etfPx, fxPx timeseries.Series) FeatureRow {
	return FeatureRow{
		Country: row.Country,
		ETF:     row.ETF,

		TrendOK:   r.trendOK(etfPx),
		ETFMom12m: features.PctChangeN(etfPx, r.cfg.Mom12mDays),
		FXMom12m:  features.PctChangeN(fxPx, r.cfg.Mom12mDays),
		FXMom3m:   features.PctChangeN(fxPx, r.cfg.Mom3mDays),

		PolicyRate:        row.PolicyRate,
		PolicyRate3MAgo:   row.PolicyRate3MAgo,
		CPIYoY:            row.CPIYoY,
		RealRate:          row.PolicyRate.Sub(row.CPIYoY),
		RateChange3M:      row.PolicyRate.Sub(row.PolicyRate3MAgo),
		GrowthMomentum:    row.GrowthMomentum,
		CurrentAccountGDP: row.CurrentAccountGDP,
		RiskFlag:          row.RiskFlag,
		FXRegime:          row.FXRegime,
	}
}

// trendOK is true only when the series covers the trend window and the latest
// close sits above the trailing moving average.
func (r *Ranker) trendOK(etfPx timeseries.Series) bool {
	if etfPx.Len() < r.cfg.MATrendDays {
		return false
	}

	ma := features.MovingAverage(etfPx, r.cfg.MATrendDays)
	lastMA, ok := ma.Last()
	if !ok {
		return false
	}
	lastPx, ok := etfPx.Last()
	if !ok {
		return false
	}
	return lastPx.Value > lastMA.Value
}
