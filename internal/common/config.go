package common

import (
	"os"
	"strconv"
	"time"
)

// PlaceholderAPIKey is the unset-sentinel that ships in sample configs.
// A credential equal to it is treated the same as no credential at all.
const PlaceholderAPIKey = "YOUR_VISION_API_KEY"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Vision  VisionConfig
	History HistoryConfig
	Rules   RulesConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// VisionConfig holds text-recognition configuration
type VisionConfig struct {
	APIKey          string
	Endpoint        string
	Engine          string // "vision" | "tesseract"
	TessdataDir     string
	Timeout         time.Duration
	MaxPayloadBytes int
	MockDelay       time.Duration
}

// HistoryConfig holds scan-history store configuration
type HistoryConfig struct {
	DSN string
}

// RulesConfig points at the optional normalization/classification overlay.
type RulesConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Vision: VisionConfig{
			APIKey:          getEnv("VISION_API_KEY", ""),
			Endpoint:        getEnv("VISION_ENDPOINT", ""),
			Engine:          getEnv("SCAN_ENGINE", "vision"),
			TessdataDir:     getEnv("TESSDATA_PREFIX", ""),
			Timeout:         getEnvAsDuration("VISION_TIMEOUT", 30*time.Second),
			MaxPayloadBytes: getEnvAsInt("VISION_MAX_PAYLOAD_BYTES", 10<<20),
			MockDelay:       getEnvAsDuration("MOCK_DELAY", 2500*time.Millisecond),
		},
		History: HistoryConfig{
			DSN: getEnv("HISTORY_DSN", "receipt-scan.db"),
		},
		Rules: RulesConfig{
			Path: getEnv("RULES_PATH", ""),
		},
	}
}

// HasCredential reports whether a usable recognition credential is set.
// The placeholder value from sample configs counts as unset.
func (c VisionConfig) HasCredential() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	switch c.Vision.Engine {
	case "vision", "tesseract":
	default:
		return NewAppError("CONFIG_ERROR", "SCAN_ENGINE must be 'vision' or 'tesseract'", ErrInvalidInput)
	}
	if c.Vision.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "VISION_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.Vision.MaxPayloadBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "VISION_MAX_PAYLOAD_BYTES must be positive", ErrInvalidInput)
	}
	return nil
}
