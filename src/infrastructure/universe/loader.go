// Package universe loads and validates the country ETF universe from Excel.
// It only reads the workbook, normalizes columns and values, and validates
// required fields; it never computes signals or fetches market data.
package universe

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/macrorun/macrorun/src/application/pipeline"
	"github.com/macrorun/macrorun/src/domain/num"
)

var requiredColumns = []string{"Country", "ETF"}

// Load reads the universe workbook at path. The first sheet is used unless
// sheet is non-empty.
func Load(path, sheet string) ([]pipeline.UniverseRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open universe file %s: %w", path, err)
	}
	defer f.Close()
	return parseWorkbook(f, sheet)
}

// LoadReader reads the universe workbook from r. Used by tests and callers
// that already hold the bytes.
func LoadReader(r io.Reader, sheet string) ([]pipeline.UniverseRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open universe workbook: %w", err)
	}
	defer f.Close()
	return parseWorkbook(f, sheet)
}

func parseWorkbook(f *excelize.File, sheet string) ([]pipeline.UniverseRow, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("universe workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("universe sheet %q is empty", sheet)
	}

	cols := columnIndex(rows[0])
	if missing := missingRequired(cols); len(missing) > 0 {
		return nil, fmt.Errorf("universe is missing required columns %v, found columns: %v",
			missing, headerNames(rows[0]))
	}

	out := make([]pipeline.UniverseRow, 0, len(rows)-1)
	seen := make(map[string]bool)

	for _, raw := range rows[1:] {
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(raw) {
				return ""
			}
			return strings.TrimSpace(raw[idx])
		}

		country := cell("Country")
		etf := strings.ToUpper(cell("ETF"))
		if country == "" || etf == "" {
			continue
		}
		// One row per country, first occurrence wins.
		if seen[country] {
			log.Debug().Str("country", country).Msg("Duplicate universe row skipped")
			continue
		}
		seen[country] = true

		out = append(out, pipeline.UniverseRow{
			Country:           country,
			ETF:               etf,
			PolicyRate:        num.Parse(cell("PolicyRate")),
			PolicyRate3MAgo:   num.Parse(cell("PolicyRate_3M_Ago")),
			CPIYoY:            num.Parse(cell("CPI_YoY")),
			GrowthMomentum:    parseGrowthMomentum(cell("GrowthMomentum")),
			CurrentAccountGDP: num.Parse(cell("CurrentAccount_GDP")),
			RiskFlag:          num.Parse(cell("RiskFlag")),
			FXRegime:          normalizeRegime(cell("FX_Regime")),
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("universe loaded but contains no valid (Country, ETF) rows")
	}

	log.Info().Int("rows", len(out)).Str("sheet", sheet).Msg("Universe loaded")
	return out, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func missingRequired(cols map[string]int) []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func headerNames(header []string) []string {
	names := make([]string, 0, len(header))
	for _, h := range header {
		if n := strings.TrimSpace(h); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// parseGrowthMomentum accepts numeric values (clamped to [−1, 1]) or the
// descriptive words the curated sheet uses.
func parseGrowthMomentum(s string) num.Float {
	if s == "" {
		return num.None()
	}
	switch strings.ToLower(s) {
	case "accelerating", "up", "positive", "+1":
		return num.F(1)
	case "decelerating", "down", "negative":
		return num.F(-1)
	case "flat", "neutral":
		return num.F(0)
	}
	v := num.Parse(s)
	if x, ok := v.Float64(); ok {
		if x > 1 {
			return num.F(1)
		}
		if x < -1 {
			return num.F(-1)
		}
		return num.F(x)
	}
	return num.None()
}

// normalizeRegime maps curated spellings onto the canonical regime labels.
// Unknown non-empty values pass through untouched.
func normalizeRegime(s string) string {
	switch strings.ToLower(s) {
	case "pegged", "peg":
		return pipeline.RegimePegged
	case "managed", "crawl", "band":
		return pipeline.RegimeManaged
	case "freefloat", "free", "float", "floating":
		return pipeline.RegimeFreeFloat
	}
	return s
}
