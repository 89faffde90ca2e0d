package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Postgres wraps the postgres connection holding the report history.
type Postgres struct {
	DB *sql.DB
}

// ReportRecord is one generated report: who asked for what, how much data
// came back and how long it took.
type ReportRecord struct {
	ID         string          `json:"id"`
	ReportType string          `json:"reportType"`
	Platform   string          `json:"platform"`
	Team       string          `json:"team,omitempty"`
	Metrics    []string        `json:"metrics"`
	Config     json.RawMessage `json:"config"`
	RowCount   int             `json:"rowCount"`
	DurationMS int64           `json:"durationMs"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// schemaSQL sets up the necessary tables if they don't exist.
const schemaSQL = `CREATE TABLE IF NOT EXISTS report_history (
    id UUID PRIMARY KEY,
    report_type TEXT NOT NULL,
    platform TEXT NOT NULL,
    team TEXT,
    metrics TEXT[],
    config JSONB NOT NULL,
    row_count INT NOT NULL DEFAULT 0,
    duration_ms BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_report_history_created_at ON report_history (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_report_history_platform ON report_history (platform);
`

// InitPostgres connects to Postgres with connection pooling configuration.
func InitPostgres(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (*Postgres, error) {
	// Register the otelsql wrapper for postgres
	driverName, err := otelsql.Register("postgres",
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	p := &Postgres{DB: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	zap.L().Info("Connected to Postgres",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns))
	return p, nil
}

// Close terminates the Postgres connection.
func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		if err := p.DB.Close(); err != nil {
			zap.L().Error("postgres close", zap.Error(err))
		}
	}
}

// ensureSchema creates the required tables if they do not exist.
func (p *Postgres) ensureSchema() error {
	if _, err := p.DB.ExecContext(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertReportRecord stores one generated report. A missing ID is assigned.
func (p *Postgres) InsertReportRecord(ctx context.Context, rec *ReportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := p.DB.ExecContext(ctx, `INSERT INTO report_history (
        id, report_type, platform, team, metrics, config, row_count, duration_ms, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.ReportType, rec.Platform, nullable(rec.Team), pq.Array(rec.Metrics),
		rec.Config, rec.RowCount, rec.DurationMS, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report record: %w", err)
	}
	return nil
}

// ListReportHistory returns the most recent report records, newest first.
func (p *Postgres) ListReportHistory(ctx context.Context, limit int) ([]ReportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.DB.QueryContext(ctx, `SELECT id, report_type, platform, team, metrics, config, row_count, duration_ms, created_at
        FROM report_history ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query report history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []ReportRecord
	for rows.Next() {
		var rec ReportRecord
		var team sql.NullString
		var config []byte
		if err := rows.Scan(&rec.ID, &rec.ReportType, &rec.Platform, &team, pq.Array(&rec.Metrics), &config, &rec.RowCount, &rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report record: %w", err)
		}
		if team.Valid {
			rec.Team = team.String
		}
		rec.Config = json.RawMessage(config)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

// nullable maps an empty string onto SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
