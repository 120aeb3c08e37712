package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type SwapiResponse struct {
	Url       string
	Body      []byte
	FetchedAt int64
}

type Run struct {
	ID         string
	Command    string
	Output     string
	Records    int64
	StartedAt  int64
	FinishedAt sql.NullInt64
	Error      sql.NullString
}
