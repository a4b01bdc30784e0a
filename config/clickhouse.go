package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type ClickHouseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// GetClickHouseConfig reads the activity-log store settings. The activity
// log is only written when ACTIVITY_LOG_STORAGE=clickhouse.
func GetClickHouseConfig() *ClickHouseConfig {
	activityStorage := strings.ToLower(getEnv("ACTIVITY_LOG_STORAGE", "none"))
	return &ClickHouseConfig{
		Enabled:  activityStorage == "clickhouse",
		Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
		Port:     getEnvAsInt("CLICKHOUSE_PORT", 9000),
		Database: getEnv("CLICKHOUSE_DB", "filenest_activity"),
		Username: getEnv("CLICKHOUSE_USER", "filenest"),
		Password: getEnv("CLICKHOUSE_PASSWORD", "filenest"),
	}
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s: %s, using default %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}
