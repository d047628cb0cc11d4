package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB holds persisted application contexts.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisDraftDB  int    `mapstructure:"REDIS_DRAFT_DB"`

	// External marketplace backend.
	BackendURL        string        `mapstructure:"BACKEND_URL"`
	BackendTimeout    time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	BackendRetryCount int           `mapstructure:"BACKEND_RETRY_COUNT"`
	BackendRetryWait  time.Duration `mapstructure:"BACKEND_RETRY_WAIT"`
	BackendStaleTime  time.Duration `mapstructure:"BACKEND_STALE_TIME"`

	// Reverse geocoding.
	GeocoderURL       string `mapstructure:"GEOCODER_URL"`
	GeocoderUserAgent string `mapstructure:"GEOCODER_USER_AGENT"`

	// Client state lifetimes.
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookieName string        `mapstructure:"SESSION_COOKIE_NAME"`
	CookieSecure      bool          `mapstructure:"COOKIE_SECURE"`
	DraftTTL          time.Duration `mapstructure:"DRAFT_TTL"`
	CalendarTimezone  string        `mapstructure:"CALENDAR_TIMEZONE"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "neighborly")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_DRAFT_DB", 1)
	viper.SetDefault("BACKEND_URL", "http://localhost:5000/api")
	viper.SetDefault("BACKEND_TIMEOUT", "10s")
	viper.SetDefault("BACKEND_RETRY_COUNT", 1)
	viper.SetDefault("BACKEND_RETRY_WAIT", "300ms")
	viper.SetDefault("BACKEND_STALE_TIME", "5m")
	viper.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODER_USER_AGENT", "neighborly-bff/1.0")
	viper.SetDefault("SESSION_TTL", "168h")
	viper.SetDefault("SESSION_COOKIE_NAME", "neighborly_session")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("DRAFT_TTL", "24h")
	viper.SetDefault("CALENDAR_TIMEZONE", "UTC")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
}

// LoadConfig reads .env, config.yaml and the environment, in that order of
// increasing precedence.
func LoadConfig() {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// CalendarLocation is the location used to bucket availability by date.
// Unknown zone names fall back to UTC.
func CalendarLocation() *time.Location {
	if AppConfig.CalendarTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(AppConfig.CalendarTimezone)
	if err != nil {
		log.Printf("Invalid CALENDAR_TIMEZONE %q, using UTC", AppConfig.CalendarTimezone)
		return time.UTC
	}
	return loc
}
