package config // package config loads application configuration from .env, environment variables and an optional YAML file

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultOrigin is the frontend development server allowed to call the API
// when no allow-list is configured.
const DefaultOrigin = "http://localhost:5173"

// DefaultMessageTemplate is rendered by POST /api/check. {name} is replaced
// with the name the client sent.
const DefaultMessageTemplate = "Server responded successfully! Welcome, [{name}]. Your data was received and processed."

var (
	// ErrWildcardOrigin is returned when "*" is configured as an allowed
	// origin. Credentials are always allowed, and browsers refuse a
	// wildcard origin on credentialed responses.
	ErrWildcardOrigin = errors.New("wildcard origin cannot be combined with credentials")
	// ErrNoOrigins is returned when the allow-list is empty.
	ErrNoOrigins = errors.New("at least one allowed origin is required")
)

// Config holds all runtime configuration values. Every key can be set from
// the environment by upper-casing it and replacing dots with underscores,
// e.g. app.port -> APP_PORT, cors.allowed_origins -> CORS_ALLOWED_ORIGINS.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Check  CheckConfig  `mapstructure:"check"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// AppConfig identifies the deployment.
type AppConfig struct {
	Env  string `mapstructure:"env"`  // application environment (e.g. "dev", "prod")
	Port string `mapstructure:"port"` // HTTP port to listen on
}

// CORSConfig is the cross-origin allow-list. Allowed origins may use any
// method and header, with credentials.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxAge         int      `mapstructure:"max_age"` // preflight cache lifetime in seconds
}

// CheckConfig configures the /api/check confirmation message.
type CheckConfig struct {
	MessageTemplate string `mapstructure:"message_template"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// ServerConfig tunes the underlying http.Server.
type ServerConfig struct {
	BodyLimit       string        `mapstructure:"body_limit"` // echo size notation, e.g. "1M"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	H2C             bool          `mapstructure:"h2c"` // serve HTTP/2 over cleartext
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.App.Port
}

// Load reads configuration in increasing order of precedence: defaults, the
// YAML file at path (skipped when path is empty), environment variables
// (including those from a .env file in the working directory) and finally
// any flag in flags that was explicitly set. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("app.port is required")
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return ErrNoOrigins
	}
	for _, o := range c.CORS.AllowedOrigins {
		if o == "*" {
			return ErrWildcardOrigin
		}
	}
	if c.Check.MessageTemplate == "" {
		return errors.New("check.message_template is required")
	}
	if _, err := bytes.Parse(c.Server.BodyLimit); err != nil {
		return fmt.Errorf("server.body_limit: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", "8080")

	v.SetDefault("cors.allowed_origins", []string{DefaultOrigin})
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("check.message_template", DefaultMessageTemplate)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.body_limit", "1M")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.h2c", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.methods", []string{"GET"})
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("cache.key_strategy", "route_query")
	v.SetDefault("cache.prefix", "cache")
	v.SetDefault("cache.max_body_bytes", 1<<20)
}

// flag name -> config key
var flagKeys = map[string]string{
	"port":      "app.port",
	"env":       "app.env",
	"log-level": "log.level",
	"h2c":       "server.h2c",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// normalize trims list entries that commonly arrive with stray whitespace
// from comma-separated environment variables.
func (c *Config) normalize() {
	origins := c.CORS.AllowedOrigins[:0]
	for _, o := range c.CORS.AllowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.AllowedOrigins = origins
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Cache.normalize()
}
