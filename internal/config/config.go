// Package config loads process configuration from .env, an optional TOML file
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	PublicStoreRedis     = "redis"
	PublicStoreFirestore = "firestore"
)

// Config is the resolved process configuration
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DiscordToken  string
	ApplicationID string
	GuildID       string

	Port        string
	MetricsUser string
	MetricsPass string

	FirebaseCredentialsFile string
	FirebaseCredentialsJSON string
	FirebaseProjectID       string

	// PublicStore selects the public challenge backend
	PublicStore string

	// Timezone is the calendar streaks and daily records are computed in
	Timezone *time.Location

	RetentionDays           int
	DefaultDailyGoalMinutes int
	ReauthWindow            time.Duration
	TickInterval            time.Duration
	RotationInterval        time.Duration
	SaveTimeout             time.Duration

	// IdleEviction unloads a user's state after this long without a request
	IdleEviction time.Duration

	// RateLimit is requests per second per client IP; RateBurst is the bucket size
	RateLimit float64
	RateBurst int

	// TrustProxy takes the client IP from X-Forwarded-For. Enable only behind a proxy that sets it.
	TrustProxy bool
}

// FileConfig is the TOML tunables file
type FileConfig struct {
	Stats   StatsFile   `toml:"stats"`
	Session SessionFile `toml:"session"`
	Account AccountFile `toml:"account"`
	Server  ServerFile  `toml:"server"`
}

type StatsFile struct {
	RetentionDays    *int    `toml:"retention-days"`
	DefaultDailyGoal *int    `toml:"default-daily-goal"`
	Timezone         *string `toml:"timezone"`
}

type SessionFile struct {
	TickInterval     *Duration `toml:"tick-interval"`
	RotationInterval *Duration `toml:"rotation-interval"`
	SaveTimeout      *Duration `toml:"save-timeout"`
	IdleEviction     *Duration `toml:"idle-eviction"`
}

type AccountFile struct {
	ReauthWindow *Duration `toml:"reauth-window"`
}

type ServerFile struct {
	RateLimit   *float64 `toml:"rate-limit"`
	RateBurst   *int     `toml:"rate-burst"`
	PublicStore *string  `toml:"public-store"`
	TrustProxy  *bool    `toml:"trust-proxy"`
}

// Duration reads "90s" style strings
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		RedisAddr:               "localhost:6379",
		Port:                    "8080",
		PublicStore:             PublicStoreRedis,
		Timezone:                time.Local,
		RetentionDays:           30,
		DefaultDailyGoalMinutes: 60,
		ReauthWindow:            5 * time.Minute,
		TickInterval:            time.Second,
		RotationInterval:        30 * time.Second,
		SaveTimeout:             10 * time.Second,
		IdleEviction:            30 * time.Minute,
		RateLimit:               10,
		RateBurst:               20,
	}
}

// Load resolves the configuration. A missing .env or TOML file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Config: no .env file found")
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("UNPLUGGED_CONFIG")
	}

	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.applyFile(file); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads a TOML tunables file. A missing file yields an empty one.
func LoadFile(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	var file FileConfig
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &file, nil
}

func (c *Config) applyFile(f *FileConfig) error {
	if f.Stats.RetentionDays != nil {
		c.RetentionDays = *f.Stats.RetentionDays
	}
	if f.Stats.DefaultDailyGoal != nil {
		c.DefaultDailyGoalMinutes = *f.Stats.DefaultDailyGoal
	}
	if f.Stats.Timezone != nil {
		loc, err := time.LoadLocation(*f.Stats.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", *f.Stats.Timezone, err)
		}
		c.Timezone = loc
	}
	if f.Session.TickInterval != nil {
		c.TickInterval = f.Session.TickInterval.Duration
	}
	if f.Session.RotationInterval != nil {
		c.RotationInterval = f.Session.RotationInterval.Duration
	}
	if f.Session.SaveTimeout != nil {
		c.SaveTimeout = f.Session.SaveTimeout.Duration
	}
	if f.Session.IdleEviction != nil {
		c.IdleEviction = f.Session.IdleEviction.Duration
	}
	if f.Account.ReauthWindow != nil {
		c.ReauthWindow = f.Account.ReauthWindow.Duration
	}
	if f.Server.RateLimit != nil {
		c.RateLimit = *f.Server.RateLimit
	}
	if f.Server.RateBurst != nil {
		c.RateBurst = *f.Server.RateBurst
	}
	if f.Server.PublicStore != nil {
		c.PublicStore = *f.Server.PublicStore
	}
	if f.Server.TrustProxy != nil {
		c.TrustProxy = *f.Server.TrustProxy
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.RedisPassword, "REDIS_PASSWORD")
	setString(&c.DiscordToken, "DISCORD_TOKEN")
	setString(&c.ApplicationID, "APPLICATION_ID")
	setString(&c.GuildID, "GUILD_ID")
	setString(&c.Port, "PORT")
	setString(&c.MetricsUser, "METRICS_USER")
	setString(&c.MetricsPass, "METRICS_PASS")
	setString(&c.FirebaseCredentialsFile, "FIREBASE_CREDENTIALS_FILE")
	setString(&c.FirebaseCredentialsJSON, "FIREBASE_CREDENTIALS_JSON")
	setString(&c.FirebaseProjectID, "FIREBASE_PROJECT_ID")
	setString(&c.PublicStore, "PUBLIC_STORE")

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.RedisDB = db
	}

	if v := os.Getenv("TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TRUST_PROXY %q: %w", v, err)
		}
		c.TrustProxy = trust
	}

	if v := os.Getenv("TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return fmt.Errorf("invalid TIMEZONE %q: %w", v, err)
		}
		c.Timezone = loc
	}

	return nil
}

// Validate rejects values the services cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.PublicStore != PublicStoreRedis && c.PublicStore != PublicStoreFirestore {
		errs = append(errs, fmt.Errorf("unknown public store %q", c.PublicStore))
	}
	if c.RetentionDays <= 0 {
		errs = append(errs, errors.New("retention days must be positive"))
	}
	if c.DefaultDailyGoalMinutes < 0 {
		errs = append(errs, errors.New("default daily goal cannot be negative"))
	}
	if c.ReauthWindow <= 0 {
		errs = append(errs, errors.New("reauth window must be positive"))
	}
	if c.TickInterval <= 0 || c.RotationInterval <= 0 || c.SaveTimeout <= 0 || c.IdleEviction <= 0 {
		errs = append(errs, errors.New("intervals and timeouts must be positive"))
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		errs = append(errs, errors.New("rate limit and burst must be positive"))
	}

	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
