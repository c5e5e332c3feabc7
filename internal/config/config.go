package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ScrapeConfig controls the external fetchers
type ScrapeConfig struct {
	Delay            time.Duration `mapstructure:"delay"`   // minimum interval between fetches
	Timeout          time.Duration `mapstructure:"timeout"` // HTTP client timeout
	PageTimeout      time.Duration `mapstructure:"page_timeout"`
	Season           int           `mapstructure:"season"`
	UserAgent        string        `mapstructure:"user_agent"`
	StatsBaseURL     string        `mapstructure:"stats_base_url"`
	SportsbookURL    string        `mapstructure:"sportsbook_url"`
	DefenseURL       string        `mapstructure:"defense_url"`
	SharedThrottle   bool          `mapstructure:"shared_throttle"` // coordinate the delay through Redis
	ChromeExecutable string        `mapstructure:"chrome_executable"`
}

// WorkbookConfig holds the stage hand-off paths
type WorkbookConfig struct {
	Dir         string `mapstructure:"dir"`
	Odds        string `mapstructure:"odds"`
	Enriched    string `mapstructure:"enriched"`
	Labeled     string `mapstructure:"labeled"`
	Predictions string `mapstructure:"predictions"`
	Picks       string `mapstructure:"picks"`
}

// ModelConfig controls the classifier
type ModelConfig struct {
	Path         string  `mapstructure:"path"`
	Epochs       int     `mapstructure:"epochs"`
	LearningRate float64 `mapstructure:"learning_rate"`
	L2           float64 `mapstructure:"l2"`
	Seed         int64   `mapstructure:"seed"`
	Incremental  bool    `mapstructure:"incremental"`
}

// SelectionConfig controls the bet selector
type SelectionConfig struct {
	StraightCount int     `mapstructure:"straight_count"`
	ParlayCount   int     `mapstructure:"parlay_count"`
	TopCount      int     `mapstructure:"top_count"`
	DailyBudget   float64 `mapstructure:"daily_budget"`
	ParlayShare   float64 `mapstructure:"parlay_share"`
}

// EmailConfig holds SMTP settings. Notification by email is skipped when Host is empty.
type EmailConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// SlackConfig holds the webhook. Skipped when empty.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// RedisConfig holds Redis connection configuration. Skipped when URL is empty.
type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	Password   string        `mapstructure:"password"`
	DedupTTL   time.Duration `mapstructure:"dedup_ttl"`
	PickStream string        `mapstructure:"pick_stream"`
}

// PostgresConfig holds the picks database DSN. Skipped when empty.
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ServerConfig holds picks-api configuration
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScheduleConfig controls the pipeline runner
type ScheduleConfig struct {
	Cron   string   `mapstructure:"cron"` // empty runs once and exits
	Stages []string `mapstructure:"stages"`
}

// LogConfig controls logrus
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// Config holds all application configuration
type Config struct {
	Scrape    ScrapeConfig    `mapstructure:"scrape"`
	Workbooks WorkbookConfig  `mapstructure:"workbooks"`
	Model     ModelConfig     `mapstructure:"model"`
	Selection SelectionConfig `mapstructure:"selection"`
	Email     EmailConfig     `mapstructure:"email"`
	Slack     SlackConfig     `mapstructure:"slack"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Server    ServerConfig    `mapstructure:"server"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Log       LogConfig       `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scrape.delay", 7*time.Second)
	v.SetDefault("scrape.timeout", 15*time.Second)
	v.SetDefault("scrape.page_timeout", 3*time.Minute)
	v.SetDefault("scrape.season", 2024)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (compatible; DKScraper/1.0)")
	v.SetDefault("scrape.stats_base_url", "https://www.basketball-reference.com")
	v.SetDefault("scrape.sportsbook_url", "https://sportsbook.draftkings.com/nba-player-props")
	v.SetDefault("scrape.defense_url", "https://www.fantasypros.com/daily-fantasy/nba/fanduel-defense-vs-position.php")
	v.SetDefault("scrape.shared_throttle", false)
	v.SetDefault("scrape.chrome_executable", "")

	v.SetDefault("workbooks.dir", "DataFrames")
	v.SetDefault("workbooks.odds", "Finaloutput.xlsx")
	v.SetDefault("workbooks.enriched", "EnrichedOutput.xlsx")
	v.SetDefault("workbooks.labeled", "FinishedOutput.xlsx")
	v.SetDefault("workbooks.predictions", "Predictions_for_today.xlsx")
	v.SetDefault("workbooks.picks", "Picks_for_today.xlsx")

	v.SetDefault("model.path", "Models/model.json")
	v.SetDefault("model.epochs", 200)
	v.SetDefault("model.learning_rate", 0.05)
	v.SetDefault("model.l2", 0.0001)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.incremental", true)

	v.SetDefault("selection.straight_count", 5)
	v.SetDefault("selection.parlay_count", 4)
	v.SetDefault("selection.top_count", 10)
	v.SetDefault("selection.daily_budget", 20.0)
	v.SetDefault("selection.parlay_share", 0.3)

	v.SetDefault("email.host", "")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "")
	v.SetDefault("email.to", []string{})

	v.SetDefault("slack.webhook_url", "")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.dedup_ttl", 20*time.Hour)
	v.SetDefault("redis.pick_stream", "picks.selected.basketball_nba")

	v.SetDefault("postgres.dsn", "")

	v.SetDefault("server.addr", ":8086")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:3001"})

	v.SetDefault("schedule.cron", "")
	v.SetDefault("schedule.stages", []string{"label", "scrape", "enrich", "predict", "select"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Unprefixed names shared with the rest of the deployment
var envAliases = map[string][]string{
	"redis.url":         {"REDIS_URL"},
	"redis.password":    {"REDIS_PASSWORD"},
	"postgres.dsn":      {"PICKS_DSN", "DATABASE_URL"},
	"slack.webhook_url": {"SLACK_WEBHOOK_URL"},
	"email.host":        {"SMTP_HOST"},
	"email.port":        {"SMTP_PORT"},
	"email.username":    {"SMTP_USERNAME"},
	"email.password":    {"SMTP_PASSWORD"},
	"server.addr":       {"SERVER_ADDR"},
	"log.level":         {"LOG_LEVEL"},
}

// Load reads configuration from an optional YAML file, a .env file and the environment.
// Environment wins over the file. An empty path searches ./config and the working directory.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PROPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		args := append([]string{key, "PROPS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the pipeline cannot run without
func (c *Config) Validate() error {
	if c.Scrape.Delay < 0 {
		return fmt.Errorf("scrape.delay must not be negative")
	}
	if c.Selection.StraightCount < 0 || c.Selection.ParlayCount < 0 {
		return fmt.Errorf("selection counts must not be negative")
	}
	if c.Selection.ParlayShare < 0 || c.Selection.ParlayShare > 1 {
		return fmt.Errorf("selection.parlay_share must be between 0 and 1")
	}
	if c.Selection.DailyBudget < 0 {
		return fmt.Errorf("selection.daily_budget must not be negative")
	}
	if c.Email.Host != "" && len(c.Email.To) == 0 {
		return fmt.Errorf("email.to is required when email.host is set")
	}
	return nil
}

// WorkbookPath joins a workbook file name onto the workbook directory
func (c *Config) WorkbookPath(name string) string {
	if c.Workbooks.Dir == "" {
		return name
	}
	return strings.TrimRight(c.Workbooks.Dir, "/") + "/" + name
}
