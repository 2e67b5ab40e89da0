package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const getBlob = `SELECT value FROM blob WHERE key = ?`

func (q *Queries) GetBlob(ctx context.Context, key string) ([]byte, error) {
	row := q.db.QueryRowContext(ctx, getBlob, key)
	var value []byte
	err := row.Scan(&value)
	return value, err
}

const putBlob = `INSERT INTO blob (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

type PutBlobParams struct {
	Key       string
	Value     []byte
	UpdatedAt int64
}

func (q *Queries) PutBlob(ctx context.Context, arg PutBlobParams) error {
	_, err := q.db.ExecContext(ctx, putBlob, arg.Key, arg.Value, arg.UpdatedAt)
	return err
}
