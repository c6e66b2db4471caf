package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"FibScope/internal/calculator"
	"FibScope/internal/model"
)

// Providers accepted in data_source.provider.
const (
	ProviderYahoo    = "yahoo"
	ProviderVsTrader = "vstrader"
	ProviderBinance  = "binance"
	ProviderMock     = "mock"
)

// TimeframeConfig overrides the history window and trend lengths of one
// timeframe. Zero values fall back to the defaults.
type TimeframeConfig struct {
	LookbackDays int `yaml:"lookback_days" toml:"lookback_days"`
	FastMA       int `yaml:"fast_ma" toml:"fast_ma"`
	SlowMA       int `yaml:"slow_ma" toml:"slow_ma"`
}

// Config holds all application configuration.
type Config struct {
	Symbol     string `yaml:"symbol" toml:"symbol"`
	DataSource struct {
		Provider  string `yaml:"provider" toml:"provider"`
		BaseURL   string `yaml:"base_url" toml:"base_url"`
		APIKey    string `yaml:"api_key" toml:"api_key"`
		APISecret string `yaml:"api_secret" toml:"api_secret"`
	} `yaml:"data_source" toml:"data_source"`
	Timeframes       map[string]TimeframeConfig `yaml:"timeframes" toml:"timeframes"`
	DefaultTimeframe string                     `yaml:"default_timeframe" toml:"default_timeframe"`
	Fibonacci        struct {
		TroughSource string `yaml:"trough_source" toml:"trough_source"`
	} `yaml:"fibonacci" toml:"fibonacci"`
	Output struct {
		HTMLPath    string `yaml:"html_path" toml:"html_path"`
		PNGPath     string `yaml:"png_path" toml:"png_path"`
		PlotlyJSURL string `yaml:"plotly_js_url" toml:"plotly_js_url"`
		StatePath   string `yaml:"state_path" toml:"state_path"`
		Width       int    `yaml:"width" toml:"width"`
		Height      int    `yaml:"height" toml:"height"`
	} `yaml:"output" toml:"output"`
	Server struct {
		Addr string `yaml:"addr" toml:"addr"`
	} `yaml:"server" toml:"server"`
	Schedule struct {
		RebuildCron string `yaml:"rebuild_cron" toml:"rebuild_cron"`
	} `yaml:"schedule" toml:"schedule"`
	Cache struct {
		RedisAddr  string `yaml:"redis_addr" toml:"redis_addr"`
		Password   string `yaml:"password" toml:"password"`
		DB         int    `yaml:"db" toml:"db"`
		TTLSeconds int    `yaml:"ttl_seconds" toml:"ttl_seconds"`
	} `yaml:"cache" toml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
	} `yaml:"database" toml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token" toml:"bot_token"`
		ChatID   string `yaml:"chat_id" toml:"chat_id"`
	} `yaml:"telegram" toml:"telegram"`
	Proxy string `yaml:"proxy" toml:"proxy"`
}

// Load reads config from a YAML file (or TOML when the path ends in .toml),
// then applies environment variable overrides and defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			err = toml.Unmarshal(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"FIBSCOPE_SYMBOL", &c.Symbol},
		{"DATA_PROVIDER", &c.DataSource.Provider},
		{"DATA_BASE_URL", &c.DataSource.BaseURL},
		{"DATA_API_KEY", &c.DataSource.APIKey},
		{"DATA_API_SECRET", &c.DataSource.APISecret},
		{"DEFAULT_TIMEFRAME", &c.DefaultTimeframe},
		{"TROUGH_SOURCE", &c.Fibonacci.TroughSource},
		{"HTML_PATH", &c.Output.HTMLPath},
		{"PNG_PATH", &c.Output.PNGPath},
		{"VIEW_STATE_PATH", &c.Output.StatePath},
		{"SERVER_ADDR", &c.Server.Addr},
		{"CRON_REBUILD", &c.Schedule.RebuildCron},
		{"REDIS_ADDR", &c.Cache.RedisAddr},
		{"REDIS_PASSWORD", &c.Cache.Password},
		{"SQLITE_PATH", &c.Database.SQLitePath},
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"HTTPS_PROXY", &c.Proxy},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.TTLSeconds = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Symbol == "" {
		c.Symbol = "AAPL"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = ProviderVsTrader
		}
	}
	if c.DefaultTimeframe == "" {
		c.DefaultTimeframe = string(model.TF1h)
	}
	if c.Fibonacci.TroughSource == "" {
		c.Fibonacci.TroughSource = string(calculator.TroughFromHigh)
	}
	if c.Output.HTMLPath == "" {
		c.Output.HTMLPath = "candlestick.html"
	}
	if c.Output.PlotlyJSURL == "" {
		c.Output.PlotlyJSURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"
	}
	if c.Output.StatePath == "" {
		c.Output.StatePath = "data/view_state.json"
	}
	if c.Output.Width == 0 {
		c.Output.Width = 1920
	}
	if c.Output.Height == 0 {
		c.Output.Height = 1080
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Schedule.RebuildCron == "" {
		c.Schedule.RebuildCron = "0 */5 * * * *"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 60
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/fibscope.db"
	}
}

// Timeframe returns the effective settings of tf: configured values where
// present, otherwise the default lookback and trend lengths of 20/50 for the
// hourly and one-minute charts and 50/200 for the others.
func (c *Config) Timeframe(tf model.Timeframe) (lookback time.Duration, fast, slow int) {
	lookback = tf.DefaultLookback()
	fast, slow = 50, 200
	if tf == model.TF1h || tf == model.TF1m {
		fast, slow = 20, 50
	}
	for key, tc := range c.Timeframes {
		parsed, err := model.ParseTimeframe(key)
		if err != nil || parsed != tf {
			continue
		}
		if tc.LookbackDays > 0 {
			lookback = time.Duration(tc.LookbackDays) * 24 * time.Hour
		}
		if tc.FastMA > 0 {
			fast = tc.FastMA
		}
		if tc.SlowMA > 0 {
			slow = tc.SlowMA
		}
	}
	return lookback, fast, slow
}

// CacheTTL returns the bar cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderBinance, ProviderMock:
	case ProviderVsTrader:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", ProviderVsTrader)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if _, err := model.ParseTimeframe(c.DefaultTimeframe); err != nil {
		return fmt.Errorf("default_timeframe: %w", err)
	}
	if _, err := calculator.ParseTroughSource(c.Fibonacci.TroughSource); err != nil {
		return fmt.Errorf("fibonacci.trough_source: %w", err)
	}
	for key, tc := range c.Timeframes {
		if _, err := model.ParseTimeframe(key); err != nil {
			return fmt.Errorf("timeframes: %w", err)
		}
		if tc.LookbackDays < 0 || tc.FastMA < 0 || tc.SlowMA < 0 {
			return fmt.Errorf("timeframes.%s: values must not be negative", key)
		}
	}
	for _, tf := range model.Timeframes {
		if _, fast, slow := c.Timeframe(tf); fast >= slow {
			return fmt.Errorf("timeframes.%s: fast_ma (%d) must be shorter than slow_ma (%d)", tf, fast, slow)
		}
	}
	if c.Output.HTMLPath == "" {
		return fmt.Errorf("output.html_path is required")
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("output.width and output.height must be positive")
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Schedule.RebuildCron); err != nil {
		return fmt.Errorf("schedule.rebuild_cron: %w", err)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
