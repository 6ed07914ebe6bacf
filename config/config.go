package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"sonora/blueprint"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup
type Config struct {
	Env            string
	Port           string
	DeezerAPIBase  string
	CatalogTimeout time.Duration
	CatalogRate    float64
	CatalogBurst   int
	RedisURL       string
	Username       string
	Password       string
	Email          string
	ScreenIdleTTL  time.Duration
	SentryDSN      string
}

// LoadEnvFile loads ``.env.<ENV>`` into the process environment. A missing file is not fatal.
func LoadEnvFile() string {
	env := os.Getenv("ENV")
	if env == "" {
		log.Println("==⚠️ WARNING: env variable not set. Using dev ⚠️==")
		env = "dev"
	}
	err := godotenv.Load(".env." + env)
	if err != nil {
		log.Printf("[config][LoadEnvFile] warning - could not read the env file: %v\n", err)
	}
	return env
}

// Load reads the configuration from the environment
func Load() *Config {
	return &Config{
		Env:            getString("ENV", "dev"),
		Port:           getString("PORT", "52800"),
		DeezerAPIBase:  getString("DEEZER_API_BASE", blueprint.DeezerAPIBase),
		CatalogTimeout: getDuration("CATALOG_TIMEOUT", 5*time.Second),
		CatalogRate:    getFloat("CATALOG_RATE", 10),
		CatalogBurst:   getInt("CATALOG_BURST", 10),
		RedisURL:       os.Getenv("REDISCLOUD_URL"),
		Username:       os.Getenv("SONORA_USERNAME"),
		Password:       os.Getenv("SONORA_PASSWORD"),
		Email:          os.Getenv("SONORA_EMAIL"),
		ScreenIdleTTL:  getDuration("SCREEN_IDLE_TTL", 30*time.Minute),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[config][getDuration] warning - invalid %s=%q, using %s\n", key, raw, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("[config][getInt] warning - invalid %s=%q, using %d\n", key, raw, fallback)
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Printf("[config][getFloat] warning - invalid %s=%q, using %v\n", key, raw, fallback)
		return fallback
	}
	return v
}
