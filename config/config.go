package config

import (
	"log"
	"os"
)

type Config struct {
	ServerPort    string
	JWTSecret     string
	SessionSecret string
	DBPath        string
	FrontendURL   string
}

var config *Config

// GetConfig returns the process configuration, loaded from the environment
// on first use.
func GetConfig() *Config {
	if config == nil {
		config = &Config{
			ServerPort:    getEnv("SERVER_PORT", "3001"),
			JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
			SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production"),
			// absolute path so a Docker volume can be mounted over it
			DBPath:      getEnv("DB_PATH", "/app/data/filenest.db"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5000"),
		}

		log.Printf("Config loaded - ServerPort: %s, DBPath: %s", config.ServerPort, config.DBPath)
	}
	return config
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
