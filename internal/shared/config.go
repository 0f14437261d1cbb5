package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	LogFile         string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	StoreTimeout    time.Duration
	SeedWorkers     int
	WriteRPS        int
}

// Load reads the process environment. A .env file in the working directory,
// if present, fills in variables that are not already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be read")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		LogFile:         env("LOG_FILE", ""),
		MongoURI:        env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   env("MONGO_DATABASE", "mydatabase"),
		MongoCollection: env("MONGO_COLLECTION", "reviews"),
		StoreTimeout:    time.Duration(atoi("STORE_TIMEOUT_SECONDS", 10)) * time.Second,
		SeedWorkers:     atoi("SEED_WORKERS", 4),
		WriteRPS:        atoi("WRITE_RPS", 5),
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 10 * time.Second
	}
	if os.Getenv("MONGO_URI") == "" {
		log.Warn().Msg("MONGO_URI is empty, using local default")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
