package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"StockDashboard/internal/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr   string        `yaml:"listen_addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		Compress     bool          `yaml:"compress"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	DataSource struct {
		Provider string        `yaml:"provider"` // "yahoo", "vstrader" or "mock"
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Dashboard struct {
		MinDate     string `yaml:"min_date"`
		MaxDate     string `yaml:"max_date"`
		StartDate   string `yaml:"start_date"`
		EndDate     string `yaml:"end_date"`
		Symbol      string `yaml:"symbol"`
		PlotStyle   string `yaml:"plot_style"`
		ColorScheme string `yaml:"color_scheme"`
		MAWindow    int    `yaml:"ma_window"`
		Interval    string `yaml:"interval"`
	} `yaml:"dashboard"`
	Schedule struct {
		ProbeCron   string `yaml:"probe_cron"`
		PruneCron   string `yaml:"prune_cron"`
		ProbeSymbol string `yaml:"probe_symbol"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath    string `yaml:"sqlite_path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Variables in a .env file next to the working directory are loaded first and
// never override variables already set in the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Server.Compress = true

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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
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
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.RetentionDays = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_PROBE"); v != "" {
		cfg.Schedule.ProbeCron = v
	}
	if v := os.Getenv("CRON_PRUNE"); v != "" {
		cfg.Schedule.PruneCron = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8050"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.DataSource.Provider == "" {
		// the vstrader API is used whenever one is configured
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Provider = "vstrader"
		} else {
			cfg.DataSource.Provider = "yahoo"
		}
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.Dashboard.MinDate == "" {
		cfg.Dashboard.MinDate = "2015-01-01"
	}
	if cfg.Dashboard.MaxDate == "" {
		cfg.Dashboard.MaxDate = "2022-01-01"
	}
	if cfg.Dashboard.StartDate == "" {
		cfg.Dashboard.StartDate = "2021-01-01"
	}
	if cfg.Dashboard.EndDate == "" {
		cfg.Dashboard.EndDate = "2022-01-01"
	}
	if cfg.Dashboard.Symbol == "" {
		cfg.Dashboard.Symbol = "AAPL"
	}
	if cfg.Dashboard.PlotStyle == "" {
		cfg.Dashboard.PlotStyle = string(model.PlotCandlestick)
	}
	if cfg.Dashboard.ColorScheme == "" {
		cfg.Dashboard.ColorScheme = "green_red"
	}
	if cfg.Dashboard.MAWindow == 0 {
		cfg.Dashboard.MAWindow = 10
	}
	if cfg.Dashboard.Interval == "" {
		cfg.Dashboard.Interval = string(model.Interval1Day)
	}
	if cfg.Schedule.ProbeCron == "" {
		cfg.Schedule.ProbeCron = "0 */15 * * * *"
	}
	if cfg.Schedule.PruneCron == "" {
		cfg.Schedule.PruneCron = "0 0 3 * * *"
	}
	if cfg.Schedule.ProbeSymbol == "" {
		cfg.Schedule.ProbeSymbol = cfg.Dashboard.Symbol
	}
	if cfg.Database.RetentionDays == 0 {
		cfg.Database.RetentionDays = 30
	}

	return cfg, nil
}

// Validate checks that all required fields are set and that the dashboard
// defaults form a valid set of chart parameters.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the vstrader provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Database.RetentionDays < 0 {
		return fmt.Errorf("database.retention_days must not be negative")
	}
	if !model.Symbol(c.Schedule.ProbeSymbol).Valid() {
		return fmt.Errorf("schedule.probe_symbol %q is not a supported symbol", c.Schedule.ProbeSymbol)
	}

	limits, err := c.Limits()
	if err != nil {
		return err
	}
	if limits.MinDate.After(limits.MaxDate) {
		return fmt.Errorf("dashboard.min_date is after dashboard.max_date")
	}
	if _, err := model.ParseChartParams(c.DefaultParams(), limits); err != nil {
		return fmt.Errorf("dashboard defaults: %w", err)
	}
	return nil
}

// Limits returns the selectable date bounds.
func (c *Config) Limits() (model.ParamLimits, error) {
	minDate, err := time.Parse(model.DateLayout, c.Dashboard.MinDate)
	if err != nil {
		return model.ParamLimits{}, fmt.Errorf("dashboard.min_date: %w", err)
	}
	maxDate, err := time.Parse(model.DateLayout, c.Dashboard.MaxDate)
	if err != nil {
		return model.ParamLimits{}, fmt.Errorf("dashboard.max_date: %w", err)
	}
	return model.ParamLimits{MinDate: minDate, MaxDate: maxDate}, nil
}

// DefaultParams returns the inputs the page starts with.
func (c *Config) DefaultParams() model.RawParams {
	d := c.Dashboard
	return model.RawParams{
		Symbol:   d.Symbol,
		Start:    d.StartDate,
		End:      d.EndDate,
		Style:    d.PlotStyle,
		Scheme:   d.ColorScheme,
		Window:   d.MAWindow,
		Interval: d.Interval,
	}
}
