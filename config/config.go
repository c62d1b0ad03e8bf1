package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabasePath      string `mapstructure:"DATABASE_PATH"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	Timezone          string `mapstructure:"TIMEZONE"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Bcrypt hash of the bearer token required to record events over HTTP.
	// Empty leaves the endpoint open.
	APITokenHash string `mapstructure:"API_TOKEN_HASH"`

	// Redis configuration. An empty address keeps the report cache in memory.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int           `mapstructure:"REDIS_CACHE_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	// MQTT configuration. An empty broker disables publishing.
	MQTTBroker   string `mapstructure:"MQTT_BROKER"`
	MQTTClientID string `mapstructure:"MQTT_CLIENT_ID"`
	MQTTTopic    string `mapstructure:"MQTT_TOPIC"`

	// Push button wired to a GPIO character device line.
	GPIOEnabled    bool          `mapstructure:"GPIO_ENABLED"`
	GPIOChip       string        `mapstructure:"GPIO_CHIP"`
	GPIOButtonLine int           `mapstructure:"GPIO_BUTTON_LINE"`
	ButtonDebounce time.Duration `mapstructure:"BUTTON_DEBOUNCE"`

	HealthInterval time.Duration `mapstructure:"HEALTH_INTERVAL"`
}

var AppConfig Config

// Flags returns the command-line flags understood by the daemon. Each flag
// overrides the configuration key it is bound to.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("habit-tracker", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a config file (default: ./config.yaml or ./config/config.yaml)")
	fs.StringP("port", "p", "", "HTTP port to listen on")
	fs.String("db", "", "path to the SQLite database file")
	return fs
}

// Load reads configuration from the optional config file, the environment
// and the given flags. A nil flag set is allowed.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()

	// Set default values.
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_PATH", "habit-tracker.db")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "") // empty keeps the ENV default
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("API_TOKEN_HASH", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("MQTT_BROKER", "")
	v.SetDefault("MQTT_CLIENT_ID", "habit-tracker")
	v.SetDefault("MQTT_TOPIC", "habit-tracker/streak")
	v.SetDefault("GPIO_ENABLED", false)
	v.SetDefault("GPIO_CHIP", "gpiochip0")
	v.SetDefault("GPIO_BUTTON_LINE", 26)
	v.SetDefault("BUTTON_DEBOUNCE", "500ms")
	v.SetDefault("HEALTH_INTERVAL", "60s")

	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
		bindFlag(v, fs, "APP_PORT", "port")
		bindFlag(v, fs, "DATABASE_PATH", "db")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && v.ConfigFileUsed() != "" {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// bindFlag binds a flag to key only when the flag was set, so an unset flag
// does not shadow a value from the environment or config file.
func bindFlag(v *viper.Viper, fs *pflag.FlagSet, key, name string) {
	if f := fs.Lookup(name); f != nil && f.Changed {
		_ = v.BindPFlag(key, f)
	}
}

// LoadConfig populates AppConfig and exits on failure.
func LoadConfig(fs *pflag.FlagSet) {
	cfg, err := Load(fs)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Location resolves the configured display time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
