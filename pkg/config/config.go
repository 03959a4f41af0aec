// Package config provides configuration loading and management for aperturesynth.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"aperturesynth/pkg/pupil"
	"aperturesynth/pkg/wiener"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Synthesis parameters
	Synthesis struct {
		// NumAngles is the number of pupil rotations sampled over 0-180 degrees
		NumAngles int `yaml:"numAngles"`

		// SNR is the assumed signal-to-noise ratio of the Wiener filter
		SNR float64 `yaml:"snr"`

		// Interpolation is the resampling kernel used to rotate the pupil
		// (nearest, bilinear or catmullrom)
		Interpolation string `yaml:"interpolation"`
	} `yaml:"synthesis"`

	// Processing parameters
	Processing struct {
		// NumWorkers specifies how many goroutines compute angles in parallel
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Dir is where reconstructed images and reports are written
		Dir string `yaml:"dir"`

		// SaveIntermediaryResults determines whether per-angle masks and frames are saved
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is the directory for per-angle results, relative to Dir
		IntermediaryDir string `yaml:"intermediaryDir"`

		// PlotHistograms writes a histogram comparison chart
		PlotHistograms bool `yaml:"plotHistograms"`

		// HTMLReport writes an interactive HTML report
		HTMLReport bool `yaml:"htmlReport"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default synthesis parameters
	cfg.Synthesis.NumAngles = 5
	cfg.Synthesis.SNR = 1e5
	cfg.Synthesis.Interpolation = string(pupil.DefaultInterpolation)

	cfg.Processing.NumWorkers = runtime.NumCPU() // Use all available cores by default

	// Set default output parameters
	cfg.Output.Dir = "output"
	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.PlotHistograms = true
	cfg.Output.HTMLReport = false
	cfg.Output.Verbose = true

	return cfg
}

// Validate checks that the configuration can drive a reconstruction
func (c *Config) Validate() error {
	if c.Synthesis.NumAngles <= 0 {
		return fmt.Errorf("synthesis.numAngles must be positive, got %d", c.Synthesis.NumAngles)
	}
	if err := wiener.ValidateSNR(c.Synthesis.SNR); err != nil {
		return fmt.Errorf("synthesis.snr: %w", err)
	}
	if _, err := pupil.ParseInterpolation(c.Synthesis.Interpolation); err != nil {
		return fmt.Errorf("synthesis.interpolation: %w", err)
	}
	if c.Processing.NumWorkers < 0 {
		return fmt.Errorf("processing.numWorkers must not be negative, got %d", c.Processing.NumWorkers)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
