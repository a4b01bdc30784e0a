package services

import (
	"context"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type activityEvent struct {
	Timestamp time.Time
	UserID    uint32
	FileID    uint32
	Action    string
	Detail    string
}

// ActivityLogger records file operations into ClickHouse, best-effort and
// off the request path. A nil logger is valid and drops everything, which
// is what you get when ClickHouse is not configured.
type ActivityLogger struct {
	conn   driver.Conn
	events chan activityEvent
}

func NewActivityLogger(conn driver.Conn) *ActivityLogger {
	if conn == nil {
		return nil
	}
	l := &ActivityLogger{
		conn:   conn,
		events: make(chan activityEvent, 256),
	}
	go l.run()
	return l
}

// Record never blocks the caller; when the buffer is full the event is
// dropped.
func (l *ActivityLogger) Record(userID, fileID uint, action, detail string) {
	if l == nil {
		return
	}
	ev := activityEvent{
		Timestamp: time.Now(),
		UserID:    uint32(userID),
		FileID:    uint32(fileID),
		Action:    action,
		Detail:    detail,
	}
	select {
	case l.events <- ev:
	default:
	}
}

func (l *ActivityLogger) run() {
	for ev := range l.events {
		err := l.conn.Exec(context.Background(),
			"INSERT INTO file_activity_log (timestamp, user_id, file_id, action, detail) VALUES (?, ?, ?, ?, ?)",
			ev.Timestamp, ev.UserID, ev.FileID, ev.Action, ev.Detail,
		)
		if err != nil {
			log.Printf("activity log insert failed: %v", err)
		}
	}
}

// Close stops the writer goroutine. Events already buffered are written.
func (l *ActivityLogger) Close() {
	if l != nil {
		close(l.events)
	}
}
