package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"RiskBarometer/pkg/util"
)

var validate = validator.New()

type Config struct {
	Environment string `yaml:"environment" default:"production" validate:"required"`

	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`

	Provider struct {
		BaseURL       string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"required,url"`
		UserAgent     string        `yaml:"user_agent"`
		Timeout       time.Duration `yaml:"timeout" default:"15s"`
		MaxConcurrent int           `yaml:"max_concurrent" default:"4" validate:"gte=1,lte=16"`
		CacheTTL      time.Duration `yaml:"cache_ttl" default:"10m"`
	} `yaml:"provider"`

	Output struct {
		Dir           string `yaml:"dir" default:"data" validate:"required"`
		BarometerFile string `yaml:"barometer_file" default:"risk-barometer.json" validate:"required"`
		MarketFile    string `yaml:"market_file" default:"market.json" validate:"required"`
		// MetricsFile, when set, receives a Prometheus textfile dump per run.
		MetricsFile string `yaml:"metrics_file"`
	} `yaml:"output"`

	Symbols struct {
		Gold       string `yaml:"gold" default:"GC=F" validate:"required"`
		SP500      string `yaml:"sp500" default:"^GSPC" validate:"required"`
		Nasdaq     string `yaml:"nasdaq" default:"^IXIC" validate:"required"`
		Bitcoin    string `yaml:"bitcoin" default:"BTC-USD" validate:"required"`
		VIX        string `yaml:"vix" default:"^VIX" validate:"required"`
		Yield10Y   string `yaml:"yield_10y" default:"^TNX" validate:"required"`
		YieldShort string `yaml:"yield_short" default:"^IRX" validate:"required"`
		DXY        string `yaml:"dxy" default:"DX-Y.NYB" validate:"required"`
	} `yaml:"symbols"`

	Overview struct {
		Symbols   []string `yaml:"symbols"`
		Range     string   `yaml:"range" default:"5d"`
		Interval  string   `yaml:"interval" default:"15m"`
		SparkBars int      `yaml:"spark_bars" default:"48" validate:"gte=1"`
	} `yaml:"overview"`

	Server struct {
		Enabled         bool          `yaml:"enabled"`
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
}

// Load reads and parses a YAML configuration file, applies defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Finalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. A missing file falls back to pure defaults so the binary can
// run unconfigured.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		c = &Config{}
		if ferr := c.Finalize(); ferr != nil {
			return nil, ferr
		}
	}

	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("OVERVIEW_SYMBOLS"); v != "" {
		c.Overview.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("SERVE"); v != "" {
		c.Server.Enabled, _ = strconv.ParseBool(v)
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Finalize applies defaults and validates.
func (c *Config) Finalize() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	if len(c.Overview.Symbols) == 0 {
		c.Overview.Symbols = []string{
			"GC=F", "SI=F", "CL=F", "^GSPC", "^IXIC", "^DJI", "BTC-USD", "ETH-USD", "DX-Y.NYB",
		}
	}
	return c.Validate()
}

// Validate checks the configuration against its declarative rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("validate config: %s failed %q", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
