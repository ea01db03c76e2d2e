package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig      `envconfig:"SERVER"`
	Database    DatabaseConfig    `envconfig:"DB"`
	Redis       RedisConfig       `envconfig:"REDIS"`
	Storage     StorageConfig     `envconfig:"STORAGE"`
	JWT         JWTConfig         `envconfig:"JWT"`
	OAuth       OAuthConfig       `envconfig:"OAUTH"`
	Persistence PersistenceConfig `envconfig:"PERSISTENCE"`
	Recorder    RecorderConfig    `envconfig:"RECORDER"`
	Analysis    AnalysisConfig    `envconfig:"ANALYSIS"`
	Auth        AuthConfig        `envconfig:"AUTH"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds PostgreSQL configuration for the KV persistence backend
type DatabaseConfig struct {
	Host        string `envconfig:"HOST" default:"localhost"`
	Port        string `envconfig:"PORT" default:"5432"`
	User        string `envconfig:"USER" default:"postgres"`
	Password    string `envconfig:"PASSWORD" default:"postgres"`
	Name        string `envconfig:"NAME" default:"meetflow"`
	SSLMode     string `envconfig:"SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
}

// StorageConfig holds object storage configuration for transcript exports
type StorageConfig struct {
	Endpoint        string `envconfig:"ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"BUCKET" default:"meetflow-exports"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"false"`
	PublicURL       string `envconfig:"PUBLIC_URL" default:""`
	Enabled         bool   `envconfig:"ENABLED" default:"false"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string        `envconfig:"ACCESS_SECRET" default:"change-me-in-production"`
	RefreshSecret string        `envconfig:"REFRESH_SECRET" default:"change-me-too-in-production"`
	AccessExpiry  time.Duration `envconfig:"ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"REFRESH_EXPIRY" default:"168h"`
}

// OAuthConfig holds OAuth configuration for social login
type OAuthConfig struct {
	Google GoogleOAuthConfig `envconfig:"GOOGLE"`
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"CLIENT_ID" default:""`
	ClientSecret string `envconfig:"CLIENT_SECRET" default:""`
	RedirectURL  string `envconfig:"REDIRECT_URL" default:"http://localhost:8080/v1/auth/google/callback"`
}

// PersistenceConfig selects the durable KV backend for the meeting store
type PersistenceConfig struct {
	// Backend is one of "memory", "redis", "postgres"
	Backend     string `envconfig:"BACKEND" default:"memory"`
	MeetingsKey string `envconfig:"MEETINGS_KEY" default:"meetings"`
}

// RecorderConfig holds recording session timing configuration
type RecorderConfig struct {
	// SpeakingInterval is how often the speaking flags are re-rolled
	SpeakingInterval time.Duration `envconfig:"SPEAKING_INTERVAL" default:"3s"`
	// SpeakingProbability is the chance a participant is marked speaking per roll
	SpeakingProbability float64 `envconfig:"SPEAKING_PROBABILITY" default:"0.3"`
	// DefaultParticipants seeds the roster when a start request carries none
	DefaultParticipants []string `envconfig:"DEFAULT_PARTICIPANTS" default:"You,Sarah Chen,Mike Johnson,Emma Davis"`
}

// AnalysisConfig holds analysis engine configuration
type AnalysisConfig struct {
	// ScheduleDelay is how long after stop the analysis task is kicked off
	ScheduleDelay time.Duration `envconfig:"SCHEDULE_DELAY" default:"3s"`
	// Latency simulates processing time of the analysis backend
	Latency    time.Duration `envconfig:"LATENCY" default:"2s"`
	MaxRetries uint64        `envconfig:"MAX_RETRIES" default:"3"`
}

// AuthConfig holds auth service configuration
type AuthConfig struct {
	// SimulatedLatency stands in for the identity backend round trip
	SimulatedLatency time.Duration `envconfig:"SIMULATED_LATENCY" default:"800ms"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Persistence.Backend {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("PERSISTENCE_BACKEND must be one of memory, redis, postgres (got %q)", c.Persistence.Backend)
	}
	if c.Recorder.SpeakingProbability < 0 || c.Recorder.SpeakingProbability > 1 {
		return fmt.Errorf("RECORDER_SPEAKING_PROBABILITY must be within [0, 1]")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
