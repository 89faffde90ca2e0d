package db

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Postgres{DB: db}, mock
}

func TestInsertReportRecordAssignsID(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO report_history").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &ReportRecord{
		ReportType: "simple",
		Platform:   "facebook",
		Metrics:    []string{"cost", "clicks"},
		Config:     json.RawMessage(`{"platform":"facebook"}`),
		RowCount:   42,
		DurationMS: 350,
	}
	require.NoError(t, p.InsertReportRecord(context.Background(), rec))

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportHistory(t *testing.T) {
	p, mock := newMockPostgres(t)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "report_type", "platform", "team", "metrics", "config", "row_count", "duration_ms", "created_at"}).
		AddRow("11111111-1111-1111-1111-111111111111", "simple", "facebook", "growth", "{cost,clicks}", []byte(`{"platform":"facebook"}`), 42, int64(350), created).
		AddRow("22222222-2222-2222-2222-222222222222", "compare_periods", "google", nil, "{cost}", []byte(`{}`), 2, int64(90), created.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, report_type, platform, team, metrics, config, row_count, duration_ms, created_at").
		WithArgs(10).
		WillReturnRows(rows)

	records, err := p.ListReportHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "simple", records[0].ReportType)
	assert.Equal(t, "growth", records[0].Team)
	assert.Equal(t, []string{"cost", "clicks"}, records[0].Metrics)
	assert.Equal(t, 42, records[0].RowCount)

	assert.Empty(t, records[1].Team)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportHistoryDefaultLimit(t *testing.T) {
	p, mock := newMockPostgres(t)

	mock.ExpectQuery("FROM report_history ORDER BY created_at DESC LIMIT").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_type", "platform", "team", "metrics", "config", "row_count", "duration_ms", "created_at"}))

	records, err := p.ListReportHistory(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}
