package pghost

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
)

// flakyDriver fails the first `fails` Exec calls and then succeeds.
type flakyDriver struct {
	mu    sync.Mutex
	fails int
	execs int
}

func (d *flakyDriver) Open(string) (driver.Conn, error) { return flakyConn{d}, nil }

type flakyConn struct{ d *flakyDriver }

func (c flakyConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c flakyConn) Close() error                        { return nil }
func (c flakyConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (c flakyConn) ExecContext(ctx context.Context, _ string, _ []driver.NamedValue) (driver.Result, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	c.d.execs++
	if c.d.execs <= c.d.fails {
		return nil, context.Canceled
	}
	return driver.RowsAffected(0), nil
}

var registerFlaky sync.Once

func TestEnsureSchema_RetriesAfterFailure(t *testing.T) {
	drv := &flakyDriver{fails: 1}
	registerFlaky.Do(func() { sql.Register("taxradio-flaky", drv) })

	db, err := sql.Open("taxradio-flaky", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	store := New(db)

	if err := store.EnsureSchema(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the first attempt to fail, got %v", err)
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("expected cached success, got %v", err)
	}
	if drv.execs != 2 {
		t.Fatalf("expected two schema executions, got %d", drv.execs)
	}
}
