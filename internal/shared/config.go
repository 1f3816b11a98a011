package shared

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	ConfigPathEnvVar  = "CONFIG_PATH"
	DefaultConfigPath = "config.yaml"

	ProviderOpenMeteo      = "open-meteo"
	ProviderOpenWeatherMap = "openweathermap"
)

type Config struct {
	AppEnv      string `koanf:"app_env" validate:"required"`
	LogLevel    string `koanf:"log_level"`
	HTTPAddr    string `koanf:"http_addr" validate:"required"`
	MetricsAddr string `koanf:"metrics_addr"`

	// Timezone is the property's local zone. Display times, the tide day and
	// the legacy day buckets all use it.
	Timezone  string  `koanf:"timezone" validate:"required"`
	Latitude  float64 `koanf:"latitude" validate:"latitude"`
	Longitude float64 `koanf:"longitude" validate:"longitude"`

	HTTP     HTTPConfig     `koanf:"http"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Property PropertyConfig `koanf:"property"`
	Weather  WeatherConfig  `koanf:"weather"`
	Sun      SunConfig      `koanf:"sun"`
	Tides    TidesConfig    `koanf:"tides"`
	QR       QRConfig       `koanf:"qr"`
	Redis    RedisConfig    `koanf:"redis"`
	Refresh  RefreshConfig  `koanf:"refresh"`

	loc *time.Location
}

type HTTPConfig struct {
	RequestTimeout   time.Duration `koanf:"request_timeout" validate:"gt=0"`
	RefreshPerMinute int           `koanf:"refresh_per_minute" validate:"gte=1"`
}

type UpstreamConfig struct {
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	RPS             int           `koanf:"rps" validate:"gte=1"`
	BreakerFailures uint32        `koanf:"breaker_failures" validate:"gte=1"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
	UserAgent       string        `koanf:"user_agent"`
}

type PropertyConfig struct {
	FeedURL string `koanf:"feed_url" validate:"required,url"`
}

type WeatherConfig struct {
	Provider          string `koanf:"provider" validate:"oneof=open-meteo openweathermap"`
	OpenMeteoURL      string `koanf:"open_meteo_url" validate:"required_if=Provider open-meteo,omitempty,url"`
	ForecastDays      int    `koanf:"forecast_days" validate:"gte=1,lte=16"`
	OpenWeatherMapURL string `koanf:"open_weather_map_url" validate:"required_if=Provider openweathermap,omitempty,url"`
	OpenWeatherMapKey string `koanf:"open_weather_map_key" validate:"required_if=Provider openweathermap"`
}

type SunConfig struct {
	URL string `koanf:"url" validate:"omitempty,url"`
}

type TidesConfig struct {
	URL     string `koanf:"url" validate:"required,url"`
	Station string `koanf:"station" validate:"required"`
	Datum   string `koanf:"datum" validate:"required"`
}

type QRConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

// RedisConfig enables slice-change publishing when Addr is set.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
	Channel  string `koanf:"channel" validate:"required"`
}

// RefreshConfig.Schedule is a standard 5-field cron expression; empty disables it.
type RefreshConfig struct {
	Schedule string `koanf:"schedule"`
	OnStart  bool   `koanf:"on_start"`
}

func Defaults() Config {
	return Config{
		AppEnv:      "prod",
		LogLevel:    "info",
		HTTPAddr:    ":8080",
		MetricsAddr: "",
		Timezone:    "America/New_York",
		Latitude:    30.6697,
		Longitude:   -81.4626,
		HTTP: HTTPConfig{
			RequestTimeout:   15 * time.Second,
			RefreshPerMinute: 6,
		},
		Upstream: UpstreamConfig{
			Timeout:         20 * time.Second,
			RPS:             5,
			BreakerFailures: 5,
			BreakerTimeout:  time.Minute,
			UserAgent:       "concierge/1.0",
		},
		Property: PropertyConfig{
			FeedURL: "https://hooks.concierge.local/property/feed",
		},
		Weather: WeatherConfig{
			Provider:          ProviderOpenMeteo,
			OpenMeteoURL:      "https://api.open-meteo.com/v1/forecast",
			ForecastDays:      7,
			OpenWeatherMapURL: "https://api.openweathermap.org/data/2.5/forecast",
		},
		Sun: SunConfig{
			URL: "https://api.sunrise-sunset.org/json",
		},
		Tides: TidesConfig{
			URL:     "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter",
			Station: "8720030",
			Datum:   "MLLW",
		},
		QR: QRConfig{
			BaseURL: "https://api.qrserver.com/v1/create-qr-code/",
		},
		Redis: RedisConfig{
			Channel: "concierge",
		},
		Refresh: RefreshConfig{
			OnStart: true,
		},
	}
}

// Environment variables recognised on top of the file. Anything else is ignored.
var envKeys = map[string]string{
	"APP_ENV":        "app_env",
	"LOG_LEVEL":      "log_level",
	"HTTP_ADDR":      "http_addr",
	"METRICS_ADDR":   "metrics_addr",
	"TIMEZONE":       "timezone",
	"LATITUDE":       "latitude",
	"LONGITUDE":      "longitude",
	"REDIS_ADDR":     "redis.addr",
	"REDIS_PASSWORD": "redis.password",
	"REDIS_DB":       "redis.db",
	"REDIS_CHANNEL":  "redis.channel",

	"PROPERTY_FEED_URL":    "property.feed_url",
	"WEATHER_PROVIDER":     "weather.provider",
	"OPENWEATHERMAP_KEY":   "weather.open_weather_map_key",
	"TIDE_STATION":         "tides.station",
	"REFRESH_SCHEDULE":     "refresh.schedule",
	"UPSTREAM_TIMEOUT":     "upstream.timeout",
	"UPSTREAM_RPS":         "upstream.rps",
	"HTTP_REQUEST_TIMEOUT": "http.request_timeout",
}

func envKey(name string) string {
	return envKeys[strings.ToUpper(name)]
}

var validate = validator.New()

// Load layers compiled-in defaults, the optional YAML file (CONFIG_PATH or
// ./config.yaml) and the environment, in that order.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := configPath(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func configPath() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}

// Validate checks struct tags, the timezone name and the cron schedule, and
// resolves the location returned by Location.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid config: timezone %q: %w", c.Timezone, err)
	}
	c.loc = loc
	if c.Refresh.Schedule != "" {
		if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
			return fmt.Errorf("invalid config: refresh.schedule %q: %w", c.Refresh.Schedule, err)
		}
	}
	return nil
}

// Location is the resolved Timezone. Valid only after Validate.
func (c Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Legacy reports whether the OpenWeatherMap + sunrise-sunset pair is in use.
func (c Config) Legacy() bool {
	return c.Weather.Provider == ProviderOpenWeatherMap
}
