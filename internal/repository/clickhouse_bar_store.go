package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"FinSignal/internal/domain/models"
	pkgch "FinSignal/pkg/clickhouse"
	applogger "FinSignal/pkg/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// CHBarStore implements BarStore backed by a ClickHouse table with
// columns (ts, instrument, timeframe, open, high, low, close, volume).
type CHBarStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client, table string, l *applogger.Logger) (*CHBarStore, error) {
	return newCHBarStore(ch.DB(), table, l)
}

func newCHBarStore(db *sql.DB, table string, l *applogger.Logger) (*CHBarStore, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid bars table name %q", table)
	}
	if l == nil {
		l = applogger.NewNop()
	}
	return &CHBarStore{db: db, table: table, l: l}, nil
}

func latestBarsQuery(table string) string {
	const qtpl = `
        SELECT ts, open, high, low, close, volume
        FROM %s
        WHERE instrument = ? AND timeframe = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	return fmt.Sprintf(qtpl, table)
}

func (s *CHBarStore) GetLatestNBars(ctx context.Context, instrument string, n int, tf models.Timeframe) ([]models.Bar, error) {
	if n <= 0 {
		return nil, nil
	}
	start := time.Now()
	fields := []applogger.Field{
		applogger.String("table", s.table),
		applogger.String("instrument", instrument),
		applogger.String("tf", tf.String()),
		applogger.Int("limit", n),
	}

	rows, err := s.db.QueryContext(ctx, latestBarsQuery(s.table), instrument, tf.String(), n)
	if err != nil {
		s.l.Error("clickhouse latest_bars query error", append(fields, applogger.Error(err))...)
		return nil, fmt.Errorf("get latest bars: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Bar, 0, n)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			s.l.Error("clickhouse latest_bars scan error", append(fields, applogger.Error(err))...)
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		s.l.Error("clickhouse latest_bars rows error", append(fields, applogger.Error(err))...)
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	s.l.Debug("clickhouse latest_bars ok",
		append(fields,
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)...,
	)
	return tmp, nil
}
