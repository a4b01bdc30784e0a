package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"filenest/config"
)

var CHConn driver.Conn

// InitClickHouse connects to the activity-log store. A disabled config is
// not an error: the activity log is optional and CHConn stays nil.
func InitClickHouse() {
	cfg := config.GetClickHouseConfig()
	if !cfg.Enabled {
		log.Println("Activity log storage disabled, skipping ClickHouse init")
		return
	}

	log.Printf("Connecting to ClickHouse at %s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: 10 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		log.Fatal("Failed to connect to ClickHouse:", err)
	}

	ctx := context.Background()
	if err := conn.Ping(ctx); err != nil {
		log.Fatal("Failed to ping ClickHouse:", err)
	}

	if err := createActivityTables(ctx, conn); err != nil {
		conn.Close()
		log.Fatal("Failed to create activity tables:", err)
	}

	CHConn = conn
	log.Printf("ClickHouse initialized - database: %s", cfg.Database)
}

func createActivityTables(ctx context.Context, conn driver.Conn) error {
	createTableSQL := `
    CREATE TABLE IF NOT EXISTS file_activity_log (
        timestamp DateTime64(3),
        date Date DEFAULT toDate(timestamp),
        user_id UInt32,
        file_id UInt32,
        action LowCardinality(String),
        detail String
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMM(date)
    ORDER BY (date, user_id, timestamp)
    TTL date + INTERVAL 90 DAY
    SETTINGS index_granularity = 8192
    `

	if err := conn.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create file_activity_log: %w", err)
	}

	// daily per-user rollup for the usage view
	dailyStatsSQL := `
    CREATE MATERIALIZED VIEW IF NOT EXISTS file_activity_daily
    ENGINE = SummingMergeTree()
    PARTITION BY toYYYYMM(date)
    ORDER BY (date, user_id, action)
    AS SELECT
        toDate(timestamp) as date,
        user_id,
        action,
        count() as events
    FROM file_activity_log
    GROUP BY date, user_id, action
    `

	if err := conn.Exec(ctx, dailyStatsSQL); err != nil {
		// the raw log still works without the rollup
		log.Printf("Warning: failed to create file_activity_daily view: %v", err)
	}

	return nil
}

// CloseClickHouse closes the activity-log connection if one was opened.
func CloseClickHouse() {
	if CHConn != nil {
		CHConn.Close()
	}
}
