// Package config loads converter settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Raster backends.
const (
	RasterPdfium = "pdfium"
	RasterFitz   = "fitz"
)

// Config holds all settings of the converter front end.
type Config struct {
	OutputDir string    `yaml:"output_dir"`
	Quality   string    `yaml:"quality"`
	OCR       OCRConfig `yaml:"ocr"`
	Log       LogConfig `yaml:"log"`
}

// OCRConfig holds OCR pipeline settings.
type OCRConfig struct {
	Enabled bool   `yaml:"enabled"`
	Raster  string `yaml:"raster"`   // pdfium or fitz
	TempDir string `yaml:"temp_dir"` // empty means the system temp dir
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Quality: "balanced",
		OCR: OCRConfig{
			Raster: RasterPdfium,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads path over the defaults (path may be empty) and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PDFDOCX_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := getenv("PDFDOCX_QUALITY"); v != "" {
		c.Quality = v
	}
	if v := getenv("PDFDOCX_OCR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PDFDOCX_OCR: %w", err)
		}
		c.OCR.Enabled = b
	}
	if v := getenv("PDFDOCX_RASTER"); v != "" {
		c.OCR.Raster = v
	}
	if v := getenv("PDFDOCX_TEMP_DIR"); v != "" {
		c.OCR.TempDir = v
	}
	if v := getenv("PDFDOCX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("PDFDOCX_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate checks the raster backend and log format. The quality name is
// parsed by the caller.
func (c *Config) Validate() error {
	switch strings.ToLower(c.OCR.Raster) {
	case RasterPdfium, RasterFitz:
	default:
		return fmt.Errorf("ocr.raster must be %q or %q, got %q", RasterPdfium, RasterFitz, c.OCR.Raster)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
