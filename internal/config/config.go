// Package config reads the sectioner command line configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/sectioner/export"
	"github.com/tsawler/sectioner/layout"
	"github.com/tsawler/sectioner/logging"
	"github.com/tsawler/sectioner/model"
)

// Config is the top-level configuration file.
type Config struct {
	Mode       string        `yaml:"mode"`       // font-height | indent-band | headerless
	Duplicates string        `yaml:"duplicates"` // keep-all | collapse-to-last
	IndentBand BandConfig    `yaml:"indent_band"`
	Running    RunningConfig `yaml:"running_lines"`
	Output     OutputConfig  `yaml:"output"`
	LogLevel   string        `yaml:"log_level"`
	Database   string        `yaml:"database"`
	Workers    int           `yaml:"workers"`
	RawText    bool          `yaml:"raw_text"`
	ByPeriod   bool          `yaml:"by_period"` // headerless paragraphs end at periods
	OCR        OCRConfig     `yaml:"ocr"`
}

// OCRConfig controls recognition of image input.
type OCRConfig struct {
	Language string `yaml:"language"` // Tesseract language, e.g. eng or eng+fra
}

// BandConfig is the header indent band, as fractions of the page width.
type BandConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// RunningConfig controls removal of repeated page headers and footers.
type RunningConfig struct {
	Exclude            bool    `yaml:"exclude"`
	HeaderBand         float64 `yaml:"header_band"`
	FooterBand         float64 `yaml:"footer_band"`
	MinOccurrenceRatio float64 `yaml:"min_occurrence_ratio"`
}

// OutputConfig selects the output format.
type OutputConfig struct {
	Format string `yaml:"format"` // json | jsonl | csv | tsv | markdown | text
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = model.ModeFontHeight.String()
	}
	if c.Duplicates == "" {
		c.Duplicates = layout.KeepAll.String()
	}
	band := layout.DefaultIndentBandConfig()
	if c.IndentBand.Start == 0 && c.IndentBand.End == 0 {
		c.IndentBand = BandConfig{Start: band.Start, End: band.End}
	}
	running := layout.DefaultRunningLineConfig()
	if c.Running.HeaderBand <= 0 {
		c.Running.HeaderBand = running.HeaderBand
	}
	if c.Running.FooterBand <= 0 {
		c.Running.FooterBand = running.FooterBand
	}
	if c.Running.MinOccurrenceRatio <= 0 {
		c.Running.MinOccurrenceRatio = running.MinOccurrenceRatio
	}
	if c.Output.Format == "" {
		c.Output.Format = export.FormatJSON.String()
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
}

// Validate checks every enumerated value in the configuration.
func (c *Config) Validate() error {
	if _, ok := model.ParseMode(c.Mode); !ok {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if _, err := layout.ParseDuplicatePolicy(c.Duplicates); err != nil {
		return err
	}
	if err := c.Band().Validate(); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParsedMode returns the segmentation mode.
func (c *Config) ParsedMode() model.Mode {
	mode, _ := model.ParseMode(c.Mode)
	return mode
}

// DuplicatePolicy returns the duplicate header policy.
func (c *Config) DuplicatePolicy() layout.DuplicatePolicy {
	policy, _ := layout.ParseDuplicatePolicy(c.Duplicates)
	return policy
}

// Band returns the indent band as a layout configuration.
func (c *Config) Band() layout.IndentBandConfig {
	return layout.IndentBandConfig{Start: c.IndentBand.Start, End: c.IndentBand.End}
}

// RunningLines returns the running line detector configuration.
func (c *Config) RunningLines() layout.RunningLineConfig {
	config := layout.DefaultRunningLineConfig()
	config.HeaderBand = c.Running.HeaderBand
	config.FooterBand = c.Running.FooterBand
	config.MinOccurrenceRatio = c.Running.MinOccurrenceRatio
	return config
}

// ExportConfig returns the exporter configuration for the output section.
func (c *Config) ExportConfig() export.Config {
	format, _ := export.ParseFormat(c.Output.Format)
	config := export.ConfigFor(format)
	config.PrettyPrint = c.Output.Pretty
	return config
}
