// Package postgres persists service events and conversion history.
// The service runs fine without it; callers treat a nil client as
// "in-memory only".
package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// EventRow is an event as stored in Postgres.
type EventRow struct {
	EventID   int64                  `json:"event_id"`
	Timestamp time.Time              `json:"ts"`
	Level     string                 `json:"level"`
	Event     string                 `json:"event"`
	Message   *string                `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	ServiceID string                 `json:"service_id"`
}

// ConversionRow is one completed conversion as stored in Postgres.
type ConversionRow struct {
	ConversionID int64     `json:"conversion_id"`
	Timestamp    time.Time `json:"ts"`
	Filename     string    `json:"filename"`
	SourceBytes  int       `json:"source_bytes"`
	Code         string    `json:"code"`
	ServiceID    string    `json:"service_id"`
}

// Client manages the Postgres connection for event and history storage.
type Client struct {
	db        *sql.DB
	serviceID string
}

// New opens a connection using the standard PG* environment variables.
func New(serviceID string) (*Client, error) {
	host := getEnv("PGHOST", "127.0.0.1")
	port := getEnv("PGPORT", "5432")
	user := getEnv("PGUSER", "xdslconv")
	dbname := getEnv("PGDATABASE", "xdslconv")
	password := os.Getenv("PGPASSWORD")

	connStr := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable", host, port, user, dbname)
	if password != "" {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	client := &Client{db: db, serviceID: serviceID}
	if err := client.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return client, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func (c *Client) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			event_id   BIGSERIAL PRIMARY KEY,
			ts         TIMESTAMPTZ NOT NULL,
			level      TEXT NOT NULL,
			event      TEXT NOT NULL,
			msg        TEXT,
			fields     JSONB,
			service_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts DESC);
		CREATE TABLE IF NOT EXISTS conversions (
			conversion_id BIGSERIAL PRIMARY KEY,
			ts            TIMESTAMPTZ NOT NULL,
			filename      TEXT NOT NULL,
			source_bytes  INTEGER NOT NULL,
			code          TEXT NOT NULL,
			service_id    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_conversions_ts ON conversions(ts DESC);
	`
	_, err := c.db.Exec(query)
	return err
}

// Append inserts an event row.
func (c *Client) Append(ts time.Time, level, event, msg string, fields map[string]interface{}) error {
	var fieldsJSON []byte
	var err error
	if fields != nil {
		fieldsJSON, err = json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal fields: %w", err)
		}
	}

	var msgPtr *string
	if msg != "" {
		msgPtr = &msg
	}

	query := `
		INSERT INTO events (ts, level, event, msg, fields, service_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = c.db.Exec(query, ts, level, event, msgPtr, fieldsJSON, c.serviceID)
	return err
}

// SaveConversion records one completed conversion.
func (c *Client) SaveConversion(filename string, sourceBytes int, code string) error {
	query := `
		INSERT INTO conversions (ts, filename, source_bytes, code, service_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := c.db.Exec(query, time.Now().UTC(), filename, sourceBytes, code, c.serviceID)
	return err
}

// RecentConversions returns the last N conversions, newest first.
func (c *Client) RecentConversions(limit int) ([]ConversionRow, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT conversion_id, ts, filename, source_bytes, code, service_id
		FROM conversions
		WHERE service_id = $1
		ORDER BY ts DESC
		LIMIT $2
	`
	rows, err := c.db.Query(query, c.serviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConversionRow
	for rows.Next() {
		var r ConversionRow
		if err := rows.Scan(&r.ConversionID, &r.Timestamp, &r.Filename, &r.SourceBytes, &r.Code, &r.ServiceID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
