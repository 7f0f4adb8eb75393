package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	CollectionPath string
	Addr           string
	LogLevel       string
	OutputDir      string
	CompareField   int
	SampleLimit    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the tool still runs when .env is absent.
	_ = godotenv.Load()

	return Config{
		CollectionPath: envOr("ANKI_DB_PATH", ""),
		Addr:           envOr("ADDR", ":8080"),
		LogLevel:       envOr("LOG_LEVEL", "INFO"),
		OutputDir:      envOr("OUTPUT_DIR", "."),
		CompareField:   envIntOr("COMPARE_FIELD", 0),
		SampleLimit:    envIntOr("SAMPLE_LIMIT", 5),
	}
}

// Validate checks the configuration for values that would fail later in
// confusing ways if left unchecked.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.CompareField < 0 {
		return fmt.Errorf("COMPARE_FIELD must be >= 0, got %d", c.CompareField)
	}
	if c.SampleLimit < 1 {
		return fmt.Errorf("SAMPLE_LIMIT must be >= 1, got %d", c.SampleLimit)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR cannot be empty")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
