// Package config loads analyzer settings from an optional YAML file with
// environment variable overrides. A .env file in the working directory is
// honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries every externally tunable setting of the analyzer.
type Config struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	Model           string `yaml:"model"`
	FallbackModel   string `yaml:"fallback_model"`

	OCRLanguage string `yaml:"ocr_language"`

	// MinRecords is the acceptance threshold of the extraction strategy
	// chain: a tier's output below this count triggers the next tier.
	MinRecords int `yaml:"min_records"`

	// Workers bounds concurrent page processing. Zero means one worker
	// per CPU.
	Workers int `yaml:"workers"`

	MaxBailChars    int `yaml:"max_bail_chars"`
	MaxChargesChars int `yaml:"max_charges_chars"`

	// MinRegionAreaRatio rejects detected table regions smaller than this
	// fraction of the page.
	MinRegionAreaRatio float64 `yaml:"min_region_area_ratio"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OCRLanguage:        "fra",
		MinRecords:         3,
		MaxBailChars:       15000,
		MaxChargesChars:    12000,
		MinRegionAreaRatio: 0.05,
	}
}

// Load reads path when it exists, then applies environment overrides.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.Model, "CHARGEAUDIT_MODEL")
	envOverride(&cfg.FallbackModel, "CHARGEAUDIT_FALLBACK_MODEL")
	envOverride(&cfg.OCRLanguage, "CHARGEAUDIT_OCR_LANGUAGE")
	envOverrideInt(&cfg.MinRecords, "CHARGEAUDIT_MIN_RECORDS")
	envOverrideInt(&cfg.Workers, "CHARGEAUDIT_WORKERS")
	envOverrideInt(&cfg.MaxBailChars, "CHARGEAUDIT_MAX_BAIL_CHARS")
	envOverrideInt(&cfg.MaxChargesChars, "CHARGEAUDIT_MAX_CHARGES_CHARS")
	envOverrideFloat(&cfg.MinRegionAreaRatio, "CHARGEAUDIT_MIN_REGION_AREA_RATIO")

	return cfg, nil
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envOverrideFloat(target *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}
