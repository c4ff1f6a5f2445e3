package config

import (
	"github.com/bbernstein/chargefinder/backend-go/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultOCMBaseURL       = "https://api.openchargemap.io"
	defaultSearchRadiusKM   = 150
	defaultSearchMaxResults = 100
	defaultPort             = "8080"
)

// DefaultCenter is used when a request carries no location (Waterloo, Ontario).
var DefaultCenter = models.Coordinate{Latitude: 43.4695, Longitude: -80.5425}

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	Port        string

	// Open Charge Map upstream
	OCMBaseURL       string
	OCMAPIKey        string
	SearchRadiusKM   int
	SearchMaxResults int

	DefaultCenter      models.Coordinate
	CORSAllowedOrigins []string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the upstream HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithOpenChargeMap sets the upstream base URL and API key
func WithOpenChargeMap(baseURL, apiKey string) Option {
	return func(c *Config) {
		c.OCMBaseURL = strings.TrimRight(baseURL, "/")
		c.OCMAPIKey = apiKey
	}
}

// WithSearchLimits sets the radius and result cap of the primary upstream search.
// Non-positive values keep the defaults.
func WithSearchLimits(radiusKM, maxResults int) Option {
	return func(c *Config) {
		if radiusKM > 0 {
			c.SearchRadiusKM = radiusKM
		}
		if maxResults > 0 {
			c.SearchMaxResults = maxResults
		}
	}
}

// WithDefaultCenter overrides the location used for requests without coordinates.
// Out-of-range coordinates are ignored.
func WithDefaultCenter(lat, lng float64) Option {
	return func(c *Config) {
		center := models.Coordinate{Latitude: lat, Longitude: lng}
		if !center.Valid() {
			log.Warn().Float64("lat", lat).Float64("lng", lng).Msg("Ignoring out-of-range default center")
			return
		}
		c.DefaultCenter = center
	}
}

func WithCORSAllowedOrigins(origins []string) Option {
	return func(c *Config) {
		c.CORSAllowedOrigins = origins
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		HTTPTimeout:      10 * time.Second,
		Port:             defaultPort,
		OCMBaseURL:       defaultOCMBaseURL,
		SearchRadiusKM:   defaultSearchRadiusKM,
		SearchMaxResults: defaultSearchMaxResults,
		DefaultCenter:    DefaultCenter,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		return
	}
	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}

// IsDevelopment reports whether console-friendly output and debug routes are wanted.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithPort(getEnvOrDefault("PORT", defaultPort)),
		WithOpenChargeMap(getEnvOrDefault("OCM_BASE_URL", defaultOCMBaseURL), os.Getenv("OCM_API_KEY")),
		WithSearchLimits(
			getEnvInt("SEARCH_RADIUS_KM", defaultSearchRadiusKM),
			getEnvInt("SEARCH_MAX_RESULTS", defaultSearchMaxResults),
		),
		WithDefaultCenter(
			getFloatEnvOrDefault("DEFAULT_LAT", DefaultCenter.Latitude),
			getFloatEnvOrDefault("DEFAULT_LNG", DefaultCenter.Longitude),
		),
		WithCORSAllowedOrigins(splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Msg("Invalid float value in environment variable, using default")
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
