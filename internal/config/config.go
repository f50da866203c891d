// Package config carries the application configuration, loadable from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/proofcheck/internal/detector"
	"github.com/ivlev/proofcheck/internal/scorer"
	"github.com/ivlev/proofcheck/internal/session"
)

type Config struct {
	ReferenceDir string `yaml:"reference_dir"`
	ProofDir     string `yaml:"proof_dir"`
	OutputCSV    string `yaml:"output_csv"`
	HistoryFile  string `yaml:"history_file"`
	StampDir     string `yaml:"stamp_dir"`

	DPI       int     `yaml:"dpi"`
	Workers   int     `yaml:"workers"`
	Threshold float64 `yaml:"threshold"`
	Tier      string  `yaml:"tier"`

	Detector detector.Config `yaml:"detector"`
	Scorer   scorer.Config   `yaml:"scorer"`

	FlushInterval    time.Duration `yaml:"flush_interval"`
	MaxPendingWrites int           `yaml:"max_pending_writes"`
}

// Default returns a runnable configuration with the documented defaults.
func Default() Config {
	return Config{
		HistoryFile:      "proofcheck_history.yaml",
		DPI:              150,
		Workers:          0, // 0 = size from the host, see system.DefaultWorkers
		Threshold:        85,
		Tier:             "free",
		Detector:         detector.DefaultConfig(),
		Scorer:           scorer.DefaultConfig(),
		FlushInterval:    5 * time.Second,
		MaxPendingWrites: 20,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects malformed configuration eagerly, before any rendering or
// scoring starts.
func (c Config) Validate() error {
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	if err := c.Scorer.Validate(); err != nil {
		return err
	}
	if c.DPI < 36 || c.DPI > 1200 {
		return fmt.Errorf("config: dpi %d out of [36,1200]", c.DPI)
	}
	if c.Threshold < 0 || c.Threshold > 100 || c.Threshold != c.Threshold {
		return fmt.Errorf("config: threshold %v out of [0,100]", c.Threshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers %d must not be negative", c.Workers)
	}
	return nil
}

// Session maps the application config onto a session config. workers must
// already be resolved to a concrete count.
func (c Config) Session(workers int) session.Config {
	return session.Config{
		Detector:  c.Detector,
		Scorer:    c.Scorer,
		DPI:       c.DPI,
		Threshold: c.Threshold,
		Workers:   workers,
	}
}
