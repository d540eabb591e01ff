// Package artifacts persists ranking output: the primary CSV report plus
// timestamped JSON run artifacts for later inspection.
package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/macrorun/macrorun/src/application/pipeline"
)

// resultColumns is the report layout; field order here is a reporting
// concern, not a core contract.
var resultColumns = []string{
	"Country", "ETF", "Score", "Trend_OK",
	"ETF_Mom_12m", "FX_Mom_12m", "FX_Mom_3m",
	"PolicyRate", "CPI_YoY", "RealRate", "RateChange_3M",
	"GrowthMomentum", "FX_Regime",
}

// WriteResultCSV writes the ranked result to path, creating parent
// directories as needed. Missing values render as empty cells.
func WriteResultCSV(path string, result *pipeline.RankedResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(resultColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range result.Countries {
		if err := writer.Write(resultRow(c)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", c.Country, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func resultRow(c pipeline.RankedCountry) []string {
	return []string{
		c.Country,
		c.ETF,
		c.Score.String(),
		strconv.FormatBool(c.TrendOK),
		c.ETFMom12m.String(),
		c.FXMom12m.String(),
		c.FXMom3m.String(),
		c.PolicyRate.String(),
		c.CPIYoY.String(),
		c.RealRate.String(),
		c.RateChange3M.String(),
		c.GrowthMomentum.String(),
		c.FXRegime,
	}
}

// runArtifact wraps a result with run provenance.
type runArtifact struct {
	RunID     string                 `json:"run_id"`
	CreatedAt time.Time              `json:"created_at"`
	Result    *pipeline.RankedResult `json:"result"`
}

// WriteRunJSON drops a timestamped JSON artifact of the run under dir and
// returns the written path.
func WriteRunJSON(dir string, result *pipeline.RankedResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("ensure artifacts dir: %w", err)
	}

	artifact := runArtifact{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Result:    result,
	}

	name := fmt.Sprintf("%s-ranking.json", artifact.CreatedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
