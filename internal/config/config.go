// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every knob the service layers consume. The engine core takes
// no configuration beyond the rules embedded in the game state.
type Config struct {
	Addr            string        // listen address for the websocket server
	DatabaseURL     string        // optional; empty disables the store
	RedisAddr       string        // optional; empty disables action history
	BotProfilePath  string        // optional YAML overriding bot difficulty tiers
	TargetScore     int           // cumulative score that ends the game
	PeekRevealDelay time.Duration // how long initial peeks stay face up
	BotDelay        time.Duration // think time before a bot move
	LogLevel        logrus.Level
}

// Load reads .env (if present) and the environment.
func Load() Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		Addr:            getEnv("SEN_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		BotProfilePath:  os.Getenv("SEN_BOT_PROFILES"),
		TargetScore:     getEnvInt("SEN_TARGET_SCORE", 100),
		PeekRevealDelay: getEnvDuration("SEN_PEEK_REVEAL_MS", 3000),
		BotDelay:        getEnvDuration("SEN_BOT_DELAY_MS", 900),
		LogLevel:        logrus.InfoLevel,
	}
	if lvl, err := logrus.ParseLevel(getEnv("SEN_LOG_LEVEL", "info")); err == nil {
		cfg.LogLevel = lvl
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}
