// Package config loads pipeline settings from .env, the environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Error policies for batch processing.
const (
	PolicyAbort   = "abort"
	PolicyCollect = "collect"
)

// Report formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

var (
	ErrNoInput            = errors.New("INPUT_PATH or SOURCES_CONFIG_PATH is required")
	ErrInvalidMaxChars    = errors.New("MAX_SUMMARY_CHARS must be at least 1")
	ErrInvalidMaxKeywords = errors.New("MAX_KEYWORDS must be at least 1")
	ErrInvalidWorkers     = errors.New("WORKERS must be at least 1")
	ErrInvalidPolicy      = errors.New("ERROR_POLICY must be 'abort' or 'collect'")
	ErrInvalidFormat      = errors.New("REPORT_FORMAT must be 'html' or 'markdown'")
	ErrMissingOutputPath  = errors.New("OUTPUT_PATH is required")
)

type Config struct {
	// Input: a raw JSON batch or a YAML list of collected feed files
	InputPath         string
	SourcesConfigPath string

	// Output
	OutputPath   string
	ReportPath   string
	ReportFormat string // html | markdown
	ReportTitle  string

	// Processing
	MaxSummaryChars int
	MaxKeywords     int
	Workers         int
	ErrorPolicy     string // abort | collect

	// App settings
	Debug          bool
	LogLevel       string
	MonitoringAddr string
}

// FileConfig is the optional YAML overlay (CONFIG_FILE).
//
//	report:
//	  title: 今日AI简报
//	  format: html
//	processing:
//	  max_summary_chars: 100
type FileConfig struct {
	Report struct {
		Title  string `yaml:"title"`
		Format string `yaml:"format"`
		Path   string `yaml:"path"`
	} `yaml:"report"`
	Processing struct {
		MaxSummaryChars int    `yaml:"max_summary_chars"`
		MaxKeywords     int    `yaml:"max_keywords"`
		Workers         int    `yaml:"workers"`
		ErrorPolicy     string `yaml:"error_policy"`
	} `yaml:"processing"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		OutputPath:      "processed_news.json",
		ReportPath:      "ai_news_report.html",
		ReportFormat:    FormatHTML,
		ReportTitle:     "今日AI简报",
		MaxSummaryChars: 100,
		MaxKeywords:     5,
		Workers:         1,
		ErrorPolicy:     PolicyAbort,
		LogLevel:        "info",
		MonitoringAddr:  ":8080",
	}
}

// Load builds the configuration: defaults, then .env, then environment,
// then CONFIG_FILE. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	cfg.InputPath = os.Getenv("INPUT_PATH")
	cfg.SourcesConfigPath = os.Getenv("SOURCES_CONFIG_PATH")
	cfg.OutputPath = getEnvOrDefault("OUTPUT_PATH", cfg.OutputPath)
	cfg.ReportPath = getEnvOrDefault("REPORT_PATH", cfg.ReportPath)
	cfg.ReportFormat = getEnvOrDefault("REPORT_FORMAT", cfg.ReportFormat)
	cfg.ReportTitle = getEnvOrDefault("REPORT_TITLE", cfg.ReportTitle)
	cfg.ErrorPolicy = getEnvOrDefault("ERROR_POLICY", cfg.ErrorPolicy)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.MonitoringAddr = getEnvOrDefault("MONITORING_ADDR", cfg.MonitoringAddr)

	cfg.MaxSummaryChars = getEnvIntOrDefault("MAX_SUMMARY_CHARS", cfg.MaxSummaryChars)
	cfg.MaxKeywords = getEnvIntOrDefault("MAX_KEYWORDS", cfg.MaxKeywords)
	cfg.Workers = getEnvIntOrDefault("WORKERS", cfg.Workers)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ApplyFile overlays the non-zero values of a YAML config file.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if fc.Report.Title != "" {
		c.ReportTitle = fc.Report.Title
	}
	if fc.Report.Format != "" {
		c.ReportFormat = fc.Report.Format
	}
	if fc.Report.Path != "" {
		c.ReportPath = fc.Report.Path
	}
	if fc.Processing.MaxSummaryChars != 0 {
		c.MaxSummaryChars = fc.Processing.MaxSummaryChars
	}
	if fc.Processing.MaxKeywords != 0 {
		c.MaxKeywords = fc.Processing.MaxKeywords
	}
	if fc.Processing.Workers != 0 {
		c.Workers = fc.Processing.Workers
	}
	if fc.Processing.ErrorPolicy != "" {
		c.ErrorPolicy = fc.Processing.ErrorPolicy
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks processing settings. Input requirements are checked by
// ValidateInput since only the run command needs them.
func (c *Config) Validate() error {
	if c.MaxSummaryChars < 1 {
		return ErrInvalidMaxChars
	}
	if c.MaxKeywords < 1 {
		return ErrInvalidMaxKeywords
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.ErrorPolicy != PolicyAbort && c.ErrorPolicy != PolicyCollect {
		return ErrInvalidPolicy
	}
	if c.ReportFormat != FormatHTML && c.ReportFormat != FormatMarkdown {
		return ErrInvalidFormat
	}
	return nil
}

// ValidateInput checks the settings the full pipeline run needs.
func (c *Config) ValidateInput() error {
	if c.InputPath == "" && c.SourcesConfigPath == "" {
		return ErrNoInput
	}
	if c.OutputPath == "" {
		return ErrMissingOutputPath
	}
	return c.Validate()
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Sources: %s, Output: %s, Report: %s(%s), MaxChars: %d, MaxKeywords: %d, Workers: %d, Policy: %s}",
		c.InputPath, c.SourcesConfigPath, c.OutputPath, c.ReportPath, c.ReportFormat,
		c.MaxSummaryChars, c.MaxKeywords, c.Workers, c.ErrorPolicy,
	)
}
