// Package config loads runtime configuration from flags, with defaults
// taken from the environment and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default values.
const (
	DefaultBubblemapsAPIURL  = "https://api-legacy.bubblemaps.io"
	DefaultBubblemapsAppURL  = "https://app.bubblemaps.io"
	DefaultCMCAPIURL         = "https://pro-api.coinmarketcap.com/v2"
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultNavigationTimeout = 60 * time.Second
	DefaultSettleDelay       = 5 * time.Second
	DefaultAnalysisTimeout   = 2 * time.Minute
	DefaultPercentageScale   = 100.0
	DefaultMetricsAddr       = ":9090"
	DefaultWorkers           = 16
)

// Config holds all settings shared by the commands.
type Config struct {
	TelegramToken string
	CMCAPIKey     string

	BubblemapsAPIURL string
	BubblemapsAppURL string
	CMCAPIURL        string
	DevToolsURL      string // empty disables screenshots
	PostgresDSN      string // empty selects the in-memory session store

	HTTPTimeout       time.Duration
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	AnalysisTimeout   time.Duration
	PercentageScale   float64

	LogLevel  string
	LogFormat string
	LogFile   string

	MetricsAddr string
	Workers     int
	Migrate     bool // apply migrations at startup
}

// LoadEnvFile loads .env into the process environment. Existing
// variables win; a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load registers flags on fs, parses args and returns the result.
// Flag defaults come from environment variables.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	c := &Config{}
	var errs []error

	fs.StringVar(&c.TelegramToken, "telegram-token", os.Getenv("TELEGRAM_BOT_TOKEN"), "Telegram bot token")
	fs.StringVar(&c.CMCAPIKey, "cmc-api-key", os.Getenv("CMC_API_KEY"), "CoinMarketCap Pro API key")
	fs.StringVar(&c.BubblemapsAPIURL, "bubblemaps-api-url", envString("BUBBLEMAPS_API_URL", DefaultBubblemapsAPIURL), "Bubblemaps API base URL")
	fs.StringVar(&c.BubblemapsAppURL, "bubblemaps-app-url", envString("BUBBLEMAPS_APP_URL", DefaultBubblemapsAppURL), "Bubblemaps web app base URL")
	fs.StringVar(&c.CMCAPIURL, "cmc-api-url", envString("CMC_API_URL", DefaultCMCAPIURL), "CoinMarketCap API base URL")
	fs.StringVar(&c.DevToolsURL, "devtools-url", os.Getenv("DEVTOOLS_URL"), "Headless Chrome DevTools HTTP endpoint (empty disables screenshots)")
	fs.StringVar(&c.PostgresDSN, "postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (empty uses in-memory sessions)")

	fs.DurationVar(&c.HTTPTimeout, "http-timeout", envDuration("HTTP_TIMEOUT", DefaultHTTPTimeout, &errs), "Upstream API request timeout")
	fs.DurationVar(&c.NavigationTimeout, "navigation-timeout", envDuration("NAVIGATION_TIMEOUT", DefaultNavigationTimeout, &errs), "Bubble map page load timeout")
	fs.DurationVar(&c.SettleDelay, "settle-delay", envDuration("SETTLE_DELAY", DefaultSettleDelay, &errs), "Wait after page load before capture")
	fs.DurationVar(&c.AnalysisTimeout, "analysis-timeout", envDuration("ANALYSIS_TIMEOUT", DefaultAnalysisTimeout, &errs), "Upper bound for one token analysis")
	fs.Float64Var(&c.PercentageScale, "percentage-scale", envFloat("PERCENTAGE_SCALE", DefaultPercentageScale, &errs), "Upstream percentage units per human percent")

	fs.StringVar(&c.LogLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", envString("LOG_FORMAT", "json"), "Log format (json, text)")
	fs.StringVar(&c.LogFile, "log-file", os.Getenv("LOG_FILE"), "Optional log file, written in addition to stdout")

	fs.StringVar(&c.MetricsAddr, "metrics-addr", envString("METRICS_ADDR", DefaultMetricsAddr), "Health/metrics HTTP address (empty disables)")
	fs.IntVar(&c.Workers, "workers", envInt("WORKERS", DefaultWorkers, &errs), "Maximum updates handled concurrently")
	fs.BoolVar(&c.Migrate, "migrate", envBool("MIGRATE", false, &errs), "Apply PostgreSQL migrations at startup")

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values common to every command.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("--http-timeout must be positive"))
	}
	if c.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("--navigation-timeout must be positive"))
	}
	if c.SettleDelay < 0 {
		errs = append(errs, errors.New("--settle-delay must not be negative"))
	}
	if c.AnalysisTimeout <= 0 {
		errs = append(errs, errors.New("--analysis-timeout must be positive"))
	}
	if c.PercentageScale <= 0 {
		errs = append(errs, errors.New("--percentage-scale must be positive"))
	}
	if c.BubblemapsAPIURL == "" {
		errs = append(errs, errors.New("--bubblemaps-api-url is required"))
	}
	return errors.Join(errs...)
}

// ValidateBot checks values the bot command needs.
func (c *Config) ValidateBot() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("--telegram-token (TELEGRAM_BOT_TOKEN) is required"))
	}
	if c.Workers < 1 {
		errs = append(errs, errors.New("--workers must be at least 1"))
	}
	if c.Migrate && c.PostgresDSN == "" {
		errs = append(errs, errors.New("--migrate requires --postgres-dsn"))
	}
	return errors.Join(errs...)
}

// ValidateMigrate checks values the migrate command needs.
func (c *Config) ValidateMigrate() error {
	if c.PostgresDSN == "" {
		return errors.New("--postgres-dsn (POSTGRES_DSN) is required")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func envFloat(key string, def float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func envInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func envBool(key string, def bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}
