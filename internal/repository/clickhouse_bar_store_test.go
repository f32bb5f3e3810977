package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"FinSignal/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDriver answers every query with the rows registered for its DSN.
type stubDriver struct {
	mu      sync.Mutex
	results map[string]stubResult
}

type stubResult struct {
	rows  [][]driver.Value
	err   error
	query string
	args  []driver.Value
}

var stub = &stubDriver{results: map[string]stubResult{}}

func init() { sql.Register("finsignal-stub", stub) }

func (d *stubDriver) Open(dsn string) (driver.Conn, error) { return &stubConn{d: d, dsn: dsn}, nil }

type stubConn struct {
	d   *stubDriver
	dsn string
}

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{c: c, query: query}, nil
}
func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return nil, errors.New("not supported") }

type stubStmt struct {
	c     *stubConn
	query string
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return -1 }
func (s *stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("not supported")
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.c.d.mu.Lock()
	defer s.c.d.mu.Unlock()
	res := s.c.d.results[s.c.dsn]
	res.query = s.query
	res.args = args
	s.c.d.results[s.c.dsn] = res
	if res.err != nil {
		return nil, res.err
	}
	return &stubRows{rows: res.rows}, nil
}

type stubRows struct {
	rows [][]driver.Value
	i    int
}

func (r *stubRows) Columns() []string {
	return []string{"ts", "open", "high", "low", "close", "volume"}
}
func (r *stubRows) Close() error { return nil }
func (r *stubRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

func openStub(t *testing.T, res stubResult) (*sql.DB, func() stubResult) {
	t.Helper()
	dsn := t.Name()
	stub.mu.Lock()
	stub.results[dsn] = res
	stub.mu.Unlock()
	db, err := sql.Open("finsignal-stub", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, func() stubResult {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		return stub.results[dsn]
	}
}

func TestCHBarStoreReturnsAscending(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	db, last := openStub(t, stubResult{rows: [][]driver.Value{
		{t0.Add(2 * time.Hour), 3.0, 3.5, 2.5, 3.2, 30.0},
		{t0.Add(time.Hour), 2.0, 2.5, 1.5, 2.2, 20.0},
		{t0, 1.0, 1.5, 0.5, 1.2, 10.0},
	}})
	s, err := newCHBarStore(db, "market.bars", nil)
	require.NoError(t, err)

	bars, err := s.GetLatestNBars(context.Background(), "BTC/USDT", 3, models.TF1h)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, t0, bars[0].Time)
	assert.Equal(t, 3.2, bars[2].Close)
	assert.Equal(t, 30.0, bars[2].Volume)

	got := last()
	assert.Contains(t, got.query, "FROM market.bars")
	assert.Contains(t, got.query, "ORDER BY ts DESC")
	assert.Equal(t, []driver.Value{"BTC/USDT", "1h", int64(3)}, got.args)
}

func TestCHBarStoreQueryError(t *testing.T) {
	db, _ := openStub(t, stubResult{err: errors.New("table missing")})
	s, err := newCHBarStore(db, "bars", nil)
	require.NoError(t, err)

	_, err = s.GetLatestNBars(context.Background(), "ETH", 10, models.TF15m)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "table missing"))
}

func TestCHBarStoreZeroLimit(t *testing.T) {
	db, _ := openStub(t, stubResult{})
	s, err := newCHBarStore(db, "bars", nil)
	require.NoError(t, err)

	bars, err := s.GetLatestNBars(context.Background(), "ETH", 0, models.TF15m)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestCHBarStoreRejectsTableName(t *testing.T) {
	for _, name := range []string{"", "bars; DROP TABLE x", "a.b.c", "1bars"} {
		_, err := newCHBarStore(nil, name, nil)
		assert.Error(t, err, name)
	}
}
