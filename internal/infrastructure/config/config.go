package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// ServerURL is the content server base URL.
	ServerURL string
	// DBPath is the SQLite file backing the local cache and progress.
	DBPath string
	// QuestionsPerSession is how many questions a practice round samples.
	QuestionsPerSession int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerURL:           getenvDefault("SERVER_URL", "http://127.0.0.1:8080"),
		DBPath:              getenvDefault("DB_PATH", "practice.db"),
		QuestionsPerSession: getenvIntDefault("QUESTIONS_PER_SESSION", 8),
	}
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}
