package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Recall     RecallConfig
	Simulation SimulationConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// FanoutEnabled turns on the Redis pub/sub backplane so broadcasts
	// reach subscribers connected to other API instances.
	FanoutEnabled bool
}

// RecallConfig holds settings for the meeting-bot provider integration
type RecallConfig struct {
	WebhookSecret string
}

// SimulationConfig holds cadences and trigger probabilities for the mock
// AI pipeline. Probabilities are in [0,1].
type SimulationConfig struct {
	InsightInterval    time.Duration
	InsightChance      float64
	DetectionInterval  time.Duration
	ActionChance       float64
	DecisionChance     float64
	PhaseCacheTTL      time.Duration
	PersistMaxRetries  uint64
	PersistMaxInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meetpilot"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			FanoutEnabled: getEnvAsBool("REDIS_FANOUT_ENABLED", false),
		},
		Recall: RecallConfig{
			WebhookSecret: getEnv("RECALL_WEBHOOK_SECRET", ""),
		},
		Simulation: SimulationConfig{
			InsightInterval:    getEnvAsDuration("SIM_INSIGHT_INTERVAL", "15s"),
			InsightChance:      getEnvAsFloat("SIM_INSIGHT_CHANCE", 0.4),
			DetectionInterval:  getEnvAsDuration("SIM_DETECTION_INTERVAL", "25s"),
			ActionChance:       getEnvAsFloat("SIM_ACTION_CHANCE", 0.3),
			DecisionChance:     getEnvAsFloat("SIM_DECISION_CHANCE", 0.15),
			PhaseCacheTTL:      getEnvAsDuration("SIM_PHASE_CACHE_TTL", "5s"),
			PersistMaxRetries:  uint64(getEnvAsInt("SIM_PERSIST_MAX_RETRIES", 2)),
			PersistMaxInterval: getEnvAsDuration("SIM_PERSIST_MAX_INTERVAL", "2s"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Recall.WebhookSecret == "" {
		return fmt.Errorf("RECALL_WEBHOOK_SECRET is required")
	}
	if c.Simulation.InsightChance < 0 || c.Simulation.InsightChance > 1 {
		return fmt.Errorf("SIM_INSIGHT_CHANCE must be within [0,1]")
	}
	if c.Simulation.ActionChance < 0 || c.Simulation.ActionChance > 1 {
		return fmt.Errorf("SIM_ACTION_CHANCE must be within [0,1]")
	}
	if c.Simulation.DecisionChance < 0 || c.Simulation.DecisionChance > 1 {
		return fmt.Errorf("SIM_DECISION_CHANCE must be within [0,1]")
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

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
