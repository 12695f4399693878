package calls

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
)

// rowlessDriver serves empty result sets and zero-row exec results, enough to
// exercise the not-found branches without a live database.

type rowlessDriver struct{}

func (rowlessDriver) Open(name string) (driver.Conn, error) { return rowlessConn{}, nil }

type rowlessConn struct{}

func (rowlessConn) Prepare(query string) (driver.Stmt, error) { return rowlessStmt{}, nil }
func (rowlessConn) Close() error                              { return nil }
func (rowlessConn) Begin() (driver.Tx, error)                 { return rowlessTx{}, nil }

type rowlessTx struct{}

func (rowlessTx) Commit() error   { return nil }
func (rowlessTx) Rollback() error { return nil }

type rowlessStmt struct{}

func (rowlessStmt) Close() error  { return nil }
func (rowlessStmt) NumInput() int { return -1 }

func (rowlessStmt) Exec(args []driver.Value) (driver.Result, error) {
	return zeroRowResult{}, nil
}

func (rowlessStmt) Query(args []driver.Value) (driver.Rows, error) {
	return emptyRows{}, nil
}

type zeroRowResult struct{}

func (zeroRowResult) LastInsertId() (int64, error) { return 0, nil }
func (zeroRowResult) RowsAffected() (int64, error) { return 0, nil }

type emptyRows struct{}

func (emptyRows) Columns() []string {
	return []string{"id", "client_id", "agent_id", "provider_call_sid", "recording_url", "transcript", "created_at"}
}
func (emptyRows) Close() error                   { return nil }
func (emptyRows) Next(dest []driver.Value) error { return io.EOF }

func init() {
	sql.Register("calls-rowless", rowlessDriver{})
}

func openRowless(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("calls-rowless", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpdateSnapshotTxMissingCall(t *testing.T) {
	db := openRowless(t)
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	err = UpdateSnapshotTx(context.Background(), tx, "no-such-call", "https://rec", "hi")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindByProviderSIDMissing(t *testing.T) {
	db := openRowless(t)

	c, ok, err := FindByProviderSID(context.Background(), db, "CA-missing")
	if err != nil {
		t.Fatalf("FindByProviderSID: %v", err)
	}
	if ok {
		t.Fatalf("expected no match, got %+v", c)
	}
}
