package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "CONTENT_STUDIO_CONFIG"

	databaseDriverEnv = "DATABASE_DRIVER"
	databaseDSNEnv    = "DATABASE_DSN"
	httpAddrEnv       = "HTTP_ADDR"
	logLevelEnv       = "LOG_LEVEL"
	jwtSecretEnv      = "JWT_SECRET"
	archiveBucketEnv  = "ARCHIVE_BUCKET"
	archiveKeyEnv     = "ARCHIVE_ACCESS_KEY"
	archiveSecretEnv  = "ARCHIVE_SECRET_KEY"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	HTTP          HTTPConfig         `yaml:"http"`
	Database      DatabaseConfig     `yaml:"database"`
	Extractor     ExtractorConfig    `yaml:"extractor"`
	Generation    GenerationConfig   `yaml:"generation"`
	Auth          AuthConfig         `yaml:"auth"`
	Archive       ArchiveConfig      `yaml:"archive"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig describes the API listener.
type HTTPConfig struct {
	Addr         string   `yaml:"addr"`
	ReadTimeout  Duration `yaml:"readTimeout"`
	WriteTimeout Duration `yaml:"writeTimeout"`
	BodyLimitMB  int      `yaml:"bodyLimitMB"`
}

// DatabaseConfig describes the store connection. Driver is postgres or sqlite.
type DatabaseConfig struct {
	Driver  string   `yaml:"driver"`
	DSN     string   `yaml:"dsn"`
	Timeout Duration `yaml:"timeout"`
}

// ExtractorConfig tunes outbound page fetching.
type ExtractorConfig struct {
	FetchTimeout Duration `yaml:"fetchTimeout"`
	UserAgent    string   `yaml:"userAgent"`
}

// GenerationConfig tunes multi-platform post generation.
type GenerationConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Seed        uint64 `yaml:"seed"`
}

// AuthConfig enables bearer-token authentication when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

// ArchiveConfig points at an S3-compatible bucket for uploaded documents. Empty bucket disables it.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

// Enabled reports whether uploads should be archived.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// SchedulerConfig defines when the calendar digest runs.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	DigestWindow   Duration       `yaml:"digestWindow"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both token and chat are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Duration is a time.Duration read from YAML strings such as "15s".
type Duration time.Duration

// UnmarshalYAML parses a duration string; invalid values keep the current value.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: invalid duration %q: %v (keeping default)", raw, err)
		return nil
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(jwtSecretEnv); v != "" {
		c.Auth.JWTSecret = v
	}

	if v := os.Getenv(archiveBucketEnv); v != "" {
		c.Archive.Bucket = v
	}

	if v := os.Getenv(archiveKeyEnv); v != "" {
		c.Archive.AccessKey = v
	}

	if v := os.Getenv(archiveSecretEnv); v != "" {
		c.Archive.SecretKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}
	if override.HTTP.ReadTimeout > 0 {
		base.HTTP.ReadTimeout = override.HTTP.ReadTimeout
	}
	if override.HTTP.WriteTimeout > 0 {
		base.HTTP.WriteTimeout = override.HTTP.WriteTimeout
	}
	if override.HTTP.BodyLimitMB > 0 {
		base.HTTP.BodyLimitMB = override.HTTP.BodyLimitMB
	}

	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.Timeout > 0 {
		base.Database.Timeout = override.Database.Timeout
	}

	if override.Extractor.FetchTimeout > 0 {
		base.Extractor.FetchTimeout = override.Extractor.FetchTimeout
	}
	if override.Extractor.UserAgent != "" {
		base.Extractor.UserAgent = override.Extractor.UserAgent
	}

	if override.Generation.Concurrency > 0 {
		base.Generation.Concurrency = override.Generation.Concurrency
	}
	if override.Generation.Seed != 0 {
		base.Generation.Seed = override.Generation.Seed
	}

	if override.Auth.JWTSecret != "" {
		base.Auth.JWTSecret = override.Auth.JWTSecret
	}

	if override.Archive.Bucket != "" {
		base.Archive = override.Archive
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if override.Scheduler.DigestWindow > 0 {
		base.Scheduler.DigestWindow = override.Scheduler.DigestWindow
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration(30 * time.Second),
			WriteTimeout: Duration(60 * time.Second),
			BodyLimitMB:  20,
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			DSN:     "contentstudio.db",
			Timeout: Duration(5 * time.Second),
		},
		Extractor:  ExtractorConfig{FetchTimeout: Duration(15 * time.Second)},
		Generation: GenerationConfig{Concurrency: 4},
		Archive:    ArchiveConfig{Region: "auto"},
		Scheduler: SchedulerConfig{
			CronExpression: "@every 1h",
			Timezone:       defaultTimezone,
			DigestWindow:   Duration(24 * time.Hour),
			location:       tz,
		},
	}
}
