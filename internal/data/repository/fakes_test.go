package repository

import (
	"context"
	"strings"

	"studio-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB scripts one outcome per transaction attempt. Unimplemented PgxIface
// methods panic through the nil embedded interface.
type fakeDB struct {
	database.PgxIface

	txOptions  []pgx.TxOptions
	commitErrs []error // consumed one per Commit
	writeErr   error
	writeTag   string // command tag for writes inside transactions
	tag        string // command tag for Exec outside transactions

	execs     []execCall
	commits   int
	rollbacks int
}

func (db *fakeDB) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	db.txOptions = append(db.txOptions, opts)
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(db.tag), nil
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.execs = append(db.execs, execCall{sql: sql, args: args})
	return &emptyRows{}, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.execs = append(db.execs, execCall{sql: sql, args: args})
	return zeroRow{}
}

func (db *fakeDB) attempts() int { return len(db.txOptions) }

type fakeTx struct {
	pgx.Tx
	db   *fakeDB
	done bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.db.execs = append(tx.db.execs, execCall{sql: sql, args: args})
	if strings.Contains(sql, "pg_advisory_xact_lock") {
		return pgconn.NewCommandTag("SELECT 1"), nil
	}
	if tx.db.writeErr != nil {
		return pgconn.CommandTag{}, tx.db.writeErr
	}
	if tx.db.writeTag != "" {
		return pgconn.NewCommandTag(tx.db.writeTag), nil
	}
	if strings.HasPrefix(strings.TrimSpace(sql), "UPDATE") {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return &emptyRows{}, nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.done = true
	tx.db.commits++
	if len(tx.db.commitErrs) == 0 {
		return nil
	}
	err := tx.db.commitErrs[0]
	tx.db.commitErrs = tx.db.commitErrs[1:]
	return err
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.done {
		tx.db.rollbacks++
	}
	return nil
}

// zeroRow scans nothing and leaves destinations at their zero values
type zeroRow struct{}

func (zeroRow) Scan(...any) error { return nil }

type emptyRows struct{ pgx.Rows }

func (*emptyRows) Next() bool { return false }
func (*emptyRows) Err() error { return nil }
func (*emptyRows) Close()     {}

func (db *fakeDB) locks() []execCall {
	var out []execCall
	for _, e := range db.execs {
		if strings.Contains(e.sql, "pg_advisory_xact_lock") {
			out = append(out, e)
		}
	}
	return out
}
