package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DBDriverPostgres = "postgres"
	DBDriverMongo    = "mongodb"
	DBDriverMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	// Storage
	DBDriver      string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	RedisURL      string
	AMQPURL       string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URI"`
	FrontendBaseURL    string `mapstructure:"CLIENT_URL"`

	RateLimitWindow      time.Duration
	RateLimitMaxRequests int64
	LoginRateLimit       string

	// Hosting control-plane API
	MCAPIBase string
	MCAPIKey  string

	// Mock fleet lifecycle timings
	ServerStartDelay       time.Duration
	ServerStopDelay        time.Duration
	TransitionPollInterval time.Duration
}

// GoogleOAuthEnabled reports whether enough settings are present to run the OAuth flow.
func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// Environment returns the label reported by the health endpoint.
func (c *Config) Environment() string {
	if c.IsProduction {
		return "production"
	}
	return "development"
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "5000")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_DRIVER", DBDriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MONGODB_URI", "")
	viper.SetDefault("MONGODB_DATABASE", "auradeploy")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "168h")
	viper.SetDefault("JWT_ISSUER", "auradeploy")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URI", "")
	viper.SetDefault("CLIENT_URL", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_WINDOW_MS", 900000)
	viper.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("MC_API_BASE", "http://localhost:3000/api")
	viper.SetDefault("MC_API_KEY", "")
	viper.SetDefault("SERVER_START_DELAY", "3s")
	viper.SetDefault("SERVER_STOP_DELAY", "2s")
	viper.SetDefault("TRANSITION_POLL_INTERVAL", "1s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "5000"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))

	cfg.DBDriver = strings.ToLower(viper.GetString("DB_DRIVER"))
	switch cfg.DBDriver {
	case DBDriverPostgres, DBDriverMongo, DBDriverMemory:
	default:
		log.Printf("Warning: Unknown DB_DRIVER ('%s'). Defaulting to %s.\n", cfg.DBDriver, DBDriverPostgres)
		cfg.DBDriver = DBDriverPostgres
	}
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DBDriver == DBDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.MongoURI = viper.GetString("MONGODB_URI")
	if cfg.DBDriver == DBDriverMongo && cfg.MongoURI == "" {
		log.Println("Warning: MONGODB_URI environment variable not set.")
	}
	cfg.MongoDatabase = viper.GetString("MONGODB_DATABASE")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.AMQPURL = viper.GetString("AMQP_URL")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "auradeploy"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URI")
	cfg.FrontendBaseURL = strings.TrimRight(viper.GetString("CLIENT_URL"), "/")
	if !cfg.GoogleOAuthEnabled() {
		log.Println("Warning: GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET or GOOGLE_REDIRECT_URI not set. Google OAuth will not function.")
	}

	windowMs := viper.GetInt64("RATE_LIMIT_WINDOW_MS")
	if windowMs <= 0 {
		windowMs = 900000
		log.Printf("Warning: Invalid value for RATE_LIMIT_WINDOW_MS. Defaulting to %d.\n", windowMs)
	}
	cfg.RateLimitWindow = time.Duration(windowMs) * time.Millisecond
	cfg.RateLimitMaxRequests = viper.GetInt64("RATE_LIMIT_MAX_REQUESTS")
	if cfg.RateLimitMaxRequests <= 0 {
		cfg.RateLimitMaxRequests = 100
		log.Printf("Warning: Invalid value for RATE_LIMIT_MAX_REQUESTS. Defaulting to %d.\n", cfg.RateLimitMaxRequests)
	}
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	cfg.MCAPIBase = strings.TrimRight(viper.GetString("MC_API_BASE"), "/")
	cfg.MCAPIKey = viper.GetString("MC_API_KEY")
	if cfg.MCAPIKey == "" {
		log.Println("Warning: MC_API_KEY not set. Proxy routes will respond with a misconfiguration error.")
	}

	cfg.ServerStartDelay = durationOrDefault("SERVER_START_DELAY", 3*time.Second)
	cfg.ServerStopDelay = durationOrDefault("SERVER_STOP_DELAY", 2*time.Second)
	cfg.TransitionPollInterval = durationOrDefault("TRANSITION_POLL_INTERVAL", time.Second)

	return cfg, nil
}

// durationOrDefault parses a duration setting such as "60m" or "1h".
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
