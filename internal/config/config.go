package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"QuantResearch/internal/calculator"
	"QuantResearch/internal/collector"
	"QuantResearch/internal/dashboard"
	"QuantResearch/internal/model"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string            `yaml:"base_url"`
		APIKey  string            `yaml:"api_key"`
		Aliases map[string]string `yaml:"aliases"`
	} `yaml:"data_source"`
	Indicators struct {
		MAPeriod    int     `yaml:"ma_period"`
		RSIPeriod   int     `yaml:"rsi_period"`
		BBPeriod    int     `yaml:"bb_period"`
		BBK         float64 `yaml:"bb_k"`
		MACDShort   int     `yaml:"macd_short"`
		MACDLong    int     `yaml:"macd_long"`
		MACDSignal  int     `yaml:"macd_signal"`
		ATRPeriod   int     `yaml:"atr_period"`
		RVWAPPeriod int     `yaml:"rvwap_period"`
	} `yaml:"indicators"`
	Dashboard struct {
		Symbol    string   `yaml:"symbol"`
		RangeDays int      `yaml:"range_days"`
		Weekly    bool     `yaml:"weekly"`
		Overlays  []string `yaml:"overlays"`
		Panels    []string `yaml:"panels"`
		StateFile string   `yaml:"state_file"`
	} `yaml:"dashboard"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, the YAML file at path, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("QR_SYMBOL"); v != "" {
		cfg.Dashboard.Symbol = v
	}
	if v := os.Getenv("QR_RANGE_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Dashboard.RangeDays = days
		}
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		cfg.Schedule.RunOnStart = v == "true"
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := collector.DefaultParams()
	ind := &c.Indicators
	if ind.MAPeriod == 0 {
		ind.MAPeriod = def.MAPeriod
	}
	if ind.RSIPeriod == 0 {
		ind.RSIPeriod = def.RSIPeriod
	}
	if ind.BBPeriod == 0 {
		ind.BBPeriod = def.BBPeriod
	}
	if ind.BBK == 0 {
		ind.BBK = def.BBK
	}
	if ind.MACDShort == 0 {
		ind.MACDShort = def.MACDShort
	}
	if ind.MACDLong == 0 {
		ind.MACDLong = def.MACDLong
	}
	if ind.MACDSignal == 0 {
		ind.MACDSignal = def.MACDSignal
	}
	if ind.ATRPeriod == 0 {
		ind.ATRPeriod = def.ATRPeriod
	}
	if ind.RVWAPPeriod == 0 {
		ind.RVWAPPeriod = def.RVWAPPeriod
	}

	if c.Dashboard.Symbol == "" {
		c.Dashboard.Symbol = "AAPL"
	}
	if c.Dashboard.RangeDays == 0 {
		c.Dashboard.RangeDays = dashboard.DefaultRangeDays
	}
	if c.Dashboard.StateFile == "" {
		c.Dashboard.StateFile = "data/view_state.json"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 30 16 * * 1-5"
	}
}

// Params returns the indicator parameters for the collector.
func (c *Config) Params() collector.Params {
	ind := c.Indicators
	return collector.Params{
		MAPeriod:    ind.MAPeriod,
		RSIPeriod:   ind.RSIPeriod,
		BBPeriod:    ind.BBPeriod,
		BBK:         ind.BBK,
		MACDShort:   ind.MACDShort,
		MACDLong:    ind.MACDLong,
		MACDSignal:  ind.MACDSignal,
		ATRPeriod:   ind.ATRPeriod,
		RVWAPPeriod: ind.RVWAPPeriod,
	}
}

// IndicatorKeys returns the configured overlays followed by the panels.
func (c *Config) IndicatorKeys() []string {
	keys := make([]string, 0, len(c.Dashboard.Overlays)+len(c.Dashboard.Panels))
	for _, k := range append(append([]string{}, c.Dashboard.Overlays...), c.Dashboard.Panels...) {
		keys = append(keys, strings.ToUpper(strings.TrimSpace(k)))
	}
	return keys
}

// Validate checks the fields every mode needs.
func (c *Config) Validate() error {
	p := c.Params()
	for name, v := range map[string]int{
		"indicators.ma_period":    p.MAPeriod,
		"indicators.rsi_period":   p.RSIPeriod,
		"indicators.bb_period":    p.BBPeriod,
		"indicators.macd_short":   p.MACDShort,
		"indicators.macd_long":    p.MACDLong,
		"indicators.macd_signal":  p.MACDSignal,
		"indicators.atr_period":   p.ATRPeriod,
		"indicators.rvwap_period": p.RVWAPPeriod,
	} {
		if v < 1 {
			return fmt.Errorf("%w: %s must be >= 1, got %d", calculator.ErrInvalidInput, name, v)
		}
	}
	if p.BBK <= 0 {
		return fmt.Errorf("%w: indicators.bb_k must be positive", calculator.ErrInvalidInput)
	}
	if p.MACDShort >= p.MACDLong {
		return fmt.Errorf("%w: indicators.macd_short must be below macd_long", calculator.ErrInvalidInput)
	}
	if c.Dashboard.RangeDays < 1 {
		return fmt.Errorf("%w: dashboard.range_days must be positive", calculator.ErrInvalidInput)
	}
	for _, k := range c.Dashboard.Overlays {
		if !contains(model.OverlayIndicators, strings.ToUpper(strings.TrimSpace(k))) {
			return fmt.Errorf("%w: dashboard.overlays: unknown overlay %q", calculator.ErrInvalidInput, k)
		}
	}
	for _, k := range c.Dashboard.Panels {
		if !contains(model.PanelIndicators, strings.ToUpper(strings.TrimSpace(k))) {
			return fmt.Errorf("%w: dashboard.panels: unknown panel %q", calculator.ErrInvalidInput, k)
		}
	}
	return nil
}

// ValidateServe additionally checks what the long-running service needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("%w: telegram.bot_token is required", calculator.ErrInvalidInput)
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("%w: telegram.chat_id is required", calculator.ErrInvalidInput)
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor).Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("%w: schedule.refresh_cron: %v", calculator.ErrInvalidInput, err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
