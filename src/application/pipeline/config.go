package pipeline

import (
	"fmt"
	"math"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// weightSumTolerance is how far the five scoring weights may drift from 1.0.
const weightSumTolerance = 1e-6

// Config drives the ranking model. Defaults reproduce the standard allocator
// setup; Validate must pass before any data is fetched.
type Config struct {
	// Output
	TopK int `yaml:"top_k" default:"10" validate:"gt=0"`

	// Lookback windows (trading days)
	Mom12mDays  int `yaml:"mom_12m_days" default:"252" validate:"gt=0"`
	Mom3mDays   int `yaml:"mom_3m_days" default:"63" validate:"gt=0"`
	MATrendDays int `yaml:"ma_trend_days" default:"200" validate:"gt=1"`

	// Trend / eligibility gates
	RequireETFAboveMA     bool `yaml:"require_etf_above_ma" default:"true"`
	HardVetoOnFXBreakdown bool `yaml:"hard_veto_on_fx_breakdown"`

	// Scoring weights (must sum to 1.0)
	WeightEquity     float64 `yaml:"weight_equity" default:"0.30" validate:"gte=0,lte=1"`
	WeightFX         float64 `yaml:"weight_fx" default:"0.25" validate:"gte=0,lte=1"`
	WeightRealRate   float64 `yaml:"weight_real_rate" default:"0.20" validate:"gte=0,lte=1"`
	WeightRateChange float64 `yaml:"weight_rate_change" default:"0.15" validate:"gte=0,lte=1"`
	WeightStructural float64 `yaml:"weight_structural" default:"0.10" validate:"gte=0,lte=1"`

	// FX regime handling: multiplier applied to the FX signal of a pegged
	// country is 1 − FXPegPenalty.
	FXPegPenalty float64 `yaml:"fx_peg_penalty" default:"0.70" validate:"gte=0,lte=1"`

	// Macro thresholds. RateChangeSignificant is parsed and validated but
	// currently takes no part in scoring; the rate-change signal is left
	// directional and the threshold stays inert.
	RealRateBadThreshold  float64 `yaml:"real_rate_bad_threshold" default:"-2.0"`
	RealRateGoodThreshold float64 `yaml:"real_rate_good_threshold" default:"1.0"`
	RateChangeSignificant float64 `yaml:"rate_change_significant" default:"0.25" validate:"gte=0"`

	// Missing-data behavior
	FillMissingWithZero     bool `yaml:"fill_missing_with_zero" default:"true"`
	DropIfMissingPolicyRate bool `yaml:"drop_if_missing_policy_rate"`
	DropIfMissingCPI        bool `yaml:"drop_if_missing_cpi"`

	// Safety / normalization
	ClipScores   bool    `yaml:"clip_scores" default:"true"`
	ScoreClipMin float64 `yaml:"score_clip_min" default:"-3.0"`
	ScoreClipMax float64 `yaml:"score_clip_max" default:"3.0"`

	// Debugging
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the standard model configuration.
func DefaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		// Tags are static; a failure here is a programming error.
		panic(fmt.Sprintf("pipeline: apply config defaults: %v", err))
	}
	return cfg
}

// Validate fails fast on structural misconfiguration: bad weight sum,
// non-positive top-K, inverted lookback windows, or an inverted clip range.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	total := c.WeightEquity + c.WeightFX + c.WeightRealRate + c.WeightRateChange + c.WeightStructural
	if math.Abs(total-1.0) > weightSumTolerance {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", total)
	}

	if c.Mom12mDays <= c.Mom3mDays {
		return fmt.Errorf("mom_12m_days (%d) must be > mom_3m_days (%d)", c.Mom12mDays, c.Mom3mDays)
	}

	if c.ScoreClipMin >= c.ScoreClipMax {
		return fmt.Errorf("score_clip_min (%.2f) must be < score_clip_max (%.2f)", c.ScoreClipMin, c.ScoreClipMax)
	}

	return nil
}
