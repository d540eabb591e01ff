// Package config loads the application configuration from YAML over built-in
// defaults and validates it eagerly.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/macrorun/macrorun/src/application/pipeline"
)

// App is the full configuration surface of one run.
type App struct {
	Model pipeline.Config `yaml:"model"`
	Data  Data            `yaml:"data"`
}

// Data configures the I/O collaborators around the ranker.
type Data struct {
	UniversePath  string `yaml:"universe_path" default:"data/country_etf_universe.xlsx"`
	UniverseSheet string `yaml:"universe_sheet"`
	Start         string `yaml:"start" default:"2015-01-01"`
	OutputCSV     string `yaml:"output_csv" default:"data/top_countries.csv"`
	ArtifactsDir  string `yaml:"artifacts_dir"`
	Cache         Cache  `yaml:"cache"`
}

// Cache configures the optional Redis-backed download cache.
type Cache struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr" default:"localhost:6379"`
	DB      int           `yaml:"db"`
	TTL     time.Duration `yaml:"ttl" default:"6h"`
}

// UnmarshalYAML accepts the TTL as a duration string ("6h", "90m"). Keys
// absent from the document keep their current values.
func (c *Cache) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		Enabled *bool   `yaml:"enabled"`
		Addr    *string `yaml:"addr"`
		DB      *int    `yaml:"db"`
		TTL     *string `yaml:"ttl"`
	}{}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Enabled != nil {
		c.Enabled = *raw.Enabled
	}
	if raw.Addr != nil {
		c.Addr = *raw.Addr
	}
	if raw.DB != nil {
		c.DB = *raw.DB
	}
	if raw.TTL != nil {
		ttl, err := time.ParseDuration(*raw.TTL)
		if err != nil {
			return fmt.Errorf("invalid cache ttl %q: %w", *raw.TTL, err)
		}
		c.TTL = ttl
	}
	return nil
}

// Default returns the built-in configuration.
func Default() App {
	var app App
	if err := defaults.Set(&app); err != nil {
		panic(fmt.Sprintf("config: apply defaults: %v", err))
	}
	return app
}

// Load reads path over the defaults. An empty path skips the file entirely;
// a named file must exist.
func Load(path string) (App, error) {
	app := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return App{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &app); err != nil {
			return App{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := app.Validate(); err != nil {
		return App{}, err
	}
	return app, nil
}

// Validate checks the model config and the runner fields.
func (a App) Validate() error {
	if err := a.Model.Validate(); err != nil {
		return err
	}
	if _, err := a.StartDate(); err != nil {
		return err
	}
	if a.Data.UniversePath == "" {
		return fmt.Errorf("universe_path must not be empty")
	}
	if a.Data.OutputCSV == "" {
		return fmt.Errorf("output_csv must not be empty")
	}
	return nil
}

// StartDate parses the market data start date.
func (a App) StartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", a.Data.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q (want YYYY-MM-DD): %w", a.Data.Start, err)
	}
	return t, nil
}
