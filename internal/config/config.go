package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SHOWTIME_PORT
const EnvPrefix = "SHOWTIME"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Game      GameConfig
	Writer    WriterConfig
	Redis     RedisConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port      int
	Host      string
	Env       string // "development" or "production"
	PublicURL string // base of invite links; derived from the request when empty
}

// GameConfig holds game-related configuration
type GameConfig struct {
	GracePeriod       time.Duration
	SweepInterval     time.Duration
	InactivityTimeout time.Duration
	HandSize          int
}

// WriterConfig points at the script writer service. An empty URL selects
// the built-in canned writer.
type WriterConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// RedisConfig configures the optional show archive. An empty Addr disables it.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	ArchiveSize int
	Retention   time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// RateLimitConfig throttles inbound websocket messages per connection
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// Keys shared by flags, environment variables and viper
const (
	KeyHost              = "host"
	KeyPort              = "port"
	KeyEnv               = "env"
	KeyPublicURL         = "public-url"
	KeyGracePeriod       = "grace-period"
	KeySweepInterval     = "sweep-interval"
	KeyInactivityTimeout = "inactivity-timeout"
	KeyHandSize          = "hand-size"
	KeyWriterURL         = "writer-url"
	KeyWriterAPIKey      = "writer-api-key"
	KeyWriterTimeout     = "writer-timeout"
	KeyRedisAddr         = "redis-addr"
	KeyRedisPassword     = "redis-password"
	KeyRedisDB           = "redis-db"
	KeyArchiveSize       = "archive-size"
	KeyArchiveRetention  = "archive-retention"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
	KeyRateLimit         = "rate-limit"
	KeyRateBurst         = "rate-burst"
)

// New returns a viper instance reading SHOWTIME_* environment variables,
// with every default registered.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyHost, "0.0.0.0")
	v.SetDefault(KeyPort, 8080)
	v.SetDefault(KeyEnv, "development")
	v.SetDefault(KeyPublicURL, "")
	v.SetDefault(KeyGracePeriod, 3*time.Second)
	v.SetDefault(KeySweepInterval, 5*time.Minute)
	v.SetDefault(KeyInactivityTimeout, time.Hour)
	v.SetDefault(KeyHandSize, 4)
	v.SetDefault(KeyWriterURL, "")
	v.SetDefault(KeyWriterAPIKey, "")
	v.SetDefault(KeyWriterTimeout, 60*time.Second)
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyArchiveSize, 100)
	v.SetDefault(KeyArchiveRetention, 7*24*time.Hour)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyRateLimit, 10.0)
	v.SetDefault(KeyRateBurst, 20)

	return v
}

// RegisterFlags declares a flag for every key and binds it into v. Flags
// win over environment variables, which win over defaults.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringP(KeyHost, "b", v.GetString(KeyHost), "address to bind to (env: SHOWTIME_HOST)")
	fs.IntP(KeyPort, "p", v.GetInt(KeyPort), "port to listen on (env: SHOWTIME_PORT)")
	fs.String(KeyEnv, v.GetString(KeyEnv), "development or production (env: SHOWTIME_ENV)")
	fs.String(KeyPublicURL, v.GetString(KeyPublicURL), "base URL used in invite links (env: SHOWTIME_PUBLIC_URL)")
	fs.Duration(KeyGracePeriod, v.GetDuration(KeyGracePeriod), "how long a dropped player keeps their seat (env: SHOWTIME_GRACE_PERIOD)")
	fs.Duration(KeySweepInterval, v.GetDuration(KeySweepInterval), "how often idle rooms are swept, 0 to disable (env: SHOWTIME_SWEEP_INTERVAL)")
	fs.Duration(KeyInactivityTimeout, v.GetDuration(KeyInactivityTimeout), "idle time before a room is closed (env: SHOWTIME_INACTIVITY_TIMEOUT)")
	fs.Int(KeyHandSize, v.GetInt(KeyHandSize), "cards dealt per category (env: SHOWTIME_HAND_SIZE)")
	fs.String(KeyWriterURL, v.GetString(KeyWriterURL), "script writer endpoint; empty uses the canned writer (env: SHOWTIME_WRITER_URL)")
	fs.String(KeyWriterAPIKey, v.GetString(KeyWriterAPIKey), "script writer API key (env: SHOWTIME_WRITER_API_KEY)")
	fs.Duration(KeyWriterTimeout, v.GetDuration(KeyWriterTimeout), "script writer request timeout (env: SHOWTIME_WRITER_TIMEOUT)")
	fs.String(KeyRedisAddr, v.GetString(KeyRedisAddr), "redis address for the show archive; empty disables it (env: SHOWTIME_REDIS_ADDR)")
	fs.String(KeyRedisPassword, v.GetString(KeyRedisPassword), "redis password (env: SHOWTIME_REDIS_PASSWORD)")
	fs.Int(KeyRedisDB, v.GetInt(KeyRedisDB), "redis database (env: SHOWTIME_REDIS_DB)")
	fs.Int(KeyArchiveSize, v.GetInt(KeyArchiveSize), "number of recent shows kept (env: SHOWTIME_ARCHIVE_SIZE)")
	fs.Duration(KeyArchiveRetention, v.GetDuration(KeyArchiveRetention), "how long archived shows are kept (env: SHOWTIME_ARCHIVE_RETENTION)")
	fs.String(KeyLogLevel, v.GetString(KeyLogLevel), "debug, info, warn or error (env: SHOWTIME_LOG_LEVEL)")
	fs.String(KeyLogFormat, v.GetString(KeyLogFormat), "text or json (env: SHOWTIME_LOG_FORMAT)")
	fs.Float64(KeyRateLimit, v.GetFloat64(KeyRateLimit), "inbound messages per second per connection (env: SHOWTIME_RATE_LIMIT)")
	fs.Int(KeyRateBurst, v.GetInt(KeyRateBurst), "inbound message burst per connection (env: SHOWTIME_RATE_BURST)")

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr := v.BindPFlag(f.Name, f); bindErr != nil && err == nil {
			err = fmt.Errorf("binding flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// Load reads the configuration out of v and validates it
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:      v.GetInt(KeyPort),
			Host:      v.GetString(KeyHost),
			Env:       v.GetString(KeyEnv),
			PublicURL: strings.TrimRight(v.GetString(KeyPublicURL), "/"),
		},
		Game: GameConfig{
			GracePeriod:       v.GetDuration(KeyGracePeriod),
			SweepInterval:     v.GetDuration(KeySweepInterval),
			InactivityTimeout: v.GetDuration(KeyInactivityTimeout),
			HandSize:          v.GetInt(KeyHandSize),
		},
		Writer: WriterConfig{
			URL:     v.GetString(KeyWriterURL),
			APIKey:  v.GetString(KeyWriterAPIKey),
			Timeout: v.GetDuration(KeyWriterTimeout),
		},
		Redis: RedisConfig{
			Addr:        v.GetString(KeyRedisAddr),
			Password:    v.GetString(KeyRedisPassword),
			DB:          v.GetInt(KeyRedisDB),
			ArchiveSize: v.GetInt(KeyArchiveSize),
			Retention:   v.GetDuration(KeyArchiveRetention),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		RateLimit: RateLimitConfig{
			PerSecond: v.GetFloat64(KeyRateLimit),
			Burst:     v.GetInt(KeyRateBurst),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if c.Game.GracePeriod <= 0 {
		return errors.New("grace period must be positive")
	}
	if c.Game.SweepInterval < 0 {
		return errors.New("sweep interval cannot be negative")
	}
	if c.Game.InactivityTimeout <= 0 {
		return errors.New("inactivity timeout must be positive")
	}
	if c.Game.HandSize < 1 {
		return fmt.Errorf("hand size must be at least 1: %d", c.Game.HandSize)
	}
	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst < 1 {
		return errors.New("rate limit and burst must be positive")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.Logging.Format)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ArchiveEnabled reports whether a redis address was configured
func (c *Config) ArchiveEnabled() bool {
	return c.Redis.Addr != ""
}
