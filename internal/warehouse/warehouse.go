// Package warehouse is the query layer over the unified_data ClickHouse table.
// It returns wide-format rows in the canonical report schema; all column and
// date normalization happens here so the report core never re-probes shapes.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	_ "github.com/ClickHouse/clickhouse-go/v2"

	"github.com/openmartech/adreport/internal/observability"
	"github.com/openmartech/adreport/internal/report"
)

// ErrUnavailable is returned when the warehouse connection is not configured.
var ErrUnavailable = fmt.Errorf("warehouse unavailable")

// Warehouse wraps a ClickHouse connection.
type Warehouse struct {
	DB      *sql.DB
	Metrics observability.MetricsRegistry
}

// Init connects to ClickHouse with connection pooling configuration.
func Init(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration, metrics observability.MetricsRegistry) (*Warehouse, error) {
	driverName, err := otelsql.Register("clickhouse",
		otelsql.WithAttributes(
			attribute.String("db.system", "clickhouse"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}

	zap.L().Info("Connected to ClickHouse warehouse")
	return &Warehouse{DB: db, Metrics: metrics}, nil
}

// Close terminates the ClickHouse connection.
func (w *Warehouse) Close() {
	if w != nil && w.DB != nil {
		if err := w.DB.Close(); err != nil {
			zap.L().Error("clickhouse close", zap.Error(err))
		}
	}
}

// queryRows runs a query and scans every result row into a report.Row,
// normalizing columns into the canonical schema on the way out. NULL columns
// are omitted from the row entirely; downstream derivation depends on absence
// rather than zero.
func (w *Warehouse) queryRows(ctx context.Context, kind, query string, args ...any) ([]report.Row, error) {
	if w == nil || w.DB == nil {
		return nil, ErrUnavailable
	}

	start := time.Now()
	rows, err := w.DB.QueryContext(ctx, query, args...)
	if err != nil {
		w.Metrics.IncrementWarehouseQueryErrors(kind)
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			zap.L().Warn("rows close", zap.Error(err))
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", kind, err)
	}

	var out []report.Row
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", kind, err)
		}
		row := make(report.Row, len(cols))
		for i, col := range cols {
			if values[i] == nil {
				continue
			}
			row[normalizeColumn(col)] = normalizeValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		w.Metrics.IncrementWarehouseQueryErrors(kind)
		return nil, fmt.Errorf("rows error %s: %w", kind, err)
	}

	w.Metrics.RecordWarehouseQuery(kind, time.Since(start))
	return out, nil
}

// normalizeColumn maps legacy Spanish and camelCase column names onto the
// canonical schema. Rows from older ingest jobs still carry them.
func normalizeColumn(col string) string {
	switch col {
	case "fecha":
		return "date"
	case "campaignName":
		return "campaign_name"
	}
	return col
}

// normalizeValue unwraps driver types into the plain scalars the report core
// coerces. Warehouse time columns are all calendar dates.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format("2006-01-02")
	case []byte:
		return string(val)
	}
	return v
}
