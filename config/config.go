package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"casino/database"
)

// GameLimits bounds a single game's accepted bet sizes.
type GameLimits struct {
	MinBet int64
	MaxBet int64
}

// CrashSettings holds the crash game's limits and round timing.
type CrashSettings struct {
	MinBet               int64
	MaxBet               int64
	BettingWindowSeconds int64
}

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// OwnerID is the single privileged account allowed to withdraw the
	// bankroll and force-close crash rounds
	OwnerID int64

	// Game configuration
	CoinFlip GameLimits
	Wheel    GameLimits
	Crash    CrashSettings

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// HTTP
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Game defaults
		CoinFlip: GameLimits{MinBet: 10, MaxBet: 100_000},
		Wheel:    GameLimits{MinBet: 10, MaxBet: 100_000},
		Crash: CrashSettings{
			MinBet:               10,
			MaxBet:               100_000,
			BettingWindowSeconds: 30,
		},

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if ownerID := os.Getenv("OWNER_ID"); ownerID != "" {
		parsed, err := strconv.ParseInt(ownerID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OWNER_ID: %w", err)
		}
		config.OwnerID = parsed
	}

	if window := os.Getenv("CRASH_BETTING_WINDOW_SECONDS"); window != "" {
		if parsed, err := strconv.ParseInt(window, 10, 64); err == nil && parsed > 0 {
			config.Crash.BettingWindowSeconds = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.OwnerID == 0 {
			return nil, fmt.Errorf("OWNER_ID is required")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment: "test",
		OwnerID:     999999,
		CoinFlip:    GameLimits{MinBet: 10, MaxBet: 100_000},
		Wheel:       GameLimits{MinBet: 10, MaxBet: 100_000},
		Crash: CrashSettings{
			MinBet:               10,
			MaxBet:               100_000,
			BettingWindowSeconds: 30,
		},
	}
}
