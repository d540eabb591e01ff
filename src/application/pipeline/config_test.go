package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.TopK)
	assert.Equal(t, 252, cfg.Mom12mDays)
	assert.Equal(t, 63, cfg.Mom3mDays)
	assert.Equal(t, 200, cfg.MATrendDays)
	assert.True(t, cfg.RequireETFAboveMA)
	assert.True(t, cfg.FillMissingWithZero)
	assert.True(t, cfg.ClipScores)
	assert.InDelta(t, 0.70, cfg.FXPegPenalty, 1e-12)
}

func TestConfig_Validate_WeightSum(t *testing.T) {
	t.Run("rejects_bad_sum", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WeightEquity = 0.50 // sum now 1.20
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sum to 1.0")
	})

	t.Run("tolerates_tiny_drift", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WeightEquity = 0.30 + 5e-7
		cfg.WeightFX = 0.25 - 5e-7
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects_drift_beyond_tolerance", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WeightStructural += 1e-3
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_Validate_TopK(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopK = 0
	assert.Error(t, cfg.Validate())

	cfg.TopK = -3
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_Windows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mom12mDays = 63
	cfg.Mom3mDays = 252
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mom_12m_days")
}

func TestConfig_Validate_PegPenaltyRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FXPegPenalty = 1.2
	assert.Error(t, cfg.Validate())

	cfg.FXPegPenalty = -0.1
	assert.Error(t, cfg.Validate())

	cfg.FXPegPenalty = 1.0
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_ClipRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScoreClipMin = 3.0
	cfg.ScoreClipMax = -3.0
	assert.Error(t, cfg.Validate())
}

func TestNewRanker_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WeightFX = 0.40 // breaks the weight sum

	_, err := NewRanker(cfg, fixtureData{})
	assert.Error(t, err)
}

func TestNewRanker_RequiresProvider(t *testing.T) {
	_, err := NewRanker(DefaultConfig(), nil)
	assert.Error(t, err)
}
