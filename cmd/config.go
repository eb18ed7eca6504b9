package cmd

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/opat/opat/market"
	"github.com/opat/opat/renderer"
)

// Config holds the defaults of every command. Flags override them.
type Config struct {
	Currency  string  `env:"OPAT_CURRENCY" envDefault:"USD"`
	Lenient   bool    `env:"OPAT_LENIENT" envDefault:"false"`
	VAMIBase  float64 `env:"OPAT_VAMI_BASE" envDefault:"1000"`
	LogLevel  string  `env:"OPAT_LOG_LEVEL" envDefault:"info"`
	LogFormat string  `env:"OPAT_LOG_FORMAT" envDefault:"text"`
	PricesDir string  `env:"OPAT_PRICES_DIR"`
	PricesURL string  `env:"OPAT_PRICES_URL"`
	JSONPath  string  `env:"OPAT_JSON_PATH" envDefault:"$[*]"`
}

// LoadConfig reads the optional .env file of the working directory, then the
// environment.
func LoadConfig() (Config, error) {
	// a missing .env file is fine.
	_ = godotenv.Load()
	return ParseConfig()
}

// ParseConfig reads the configuration from the environment only.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if !renderer.ValidCurrency(cfg.Currency) {
		return cfg, fmt.Errorf("invalid configuration: unknown currency %q", cfg.Currency)
	}
	if cfg.VAMIBase <= 0 {
		return cfg, fmt.Errorf("invalid configuration: VAMI base must be positive, got %v", cfg.VAMIBase)
	}
	if cfg.JSONPath == "" {
		cfg.JSONPath = market.DefaultJSONPath
	}
	return cfg, nil
}

// Environ returns the configuration as environment variables, for extensions.
func (c Config) Environ() []string {
	return []string{
		"OPAT_CURRENCY=" + c.Currency,
		"OPAT_LENIENT=" + strconv.FormatBool(c.Lenient),
		"OPAT_VAMI_BASE=" + strconv.FormatFloat(c.VAMIBase, 'g', -1, 64),
		"OPAT_LOG_LEVEL=" + c.LogLevel,
		"OPAT_LOG_FORMAT=" + c.LogFormat,
		"OPAT_PRICES_DIR=" + c.PricesDir,
		"OPAT_PRICES_URL=" + c.PricesURL,
		"OPAT_JSON_PATH=" + c.JSONPath,
	}
}
