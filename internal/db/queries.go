package db

import (
	"context"
	"database/sql"
)

const getResponse = `-- name: GetResponse :one
select url, body, fetched_at from swapi_response
where url = ?
`

func (q *Queries) GetResponse(ctx context.Context, url string) (SwapiResponse, error) {
	row := q.db.QueryRowContext(ctx, getResponse, url)
	var i SwapiResponse
	err := row.Scan(&i.Url, &i.Body, &i.FetchedAt)
	return i, err
}

const putResponse = `-- name: PutResponse :exec
insert into swapi_response(url, body, fetched_at)
values (?, ?, ?)
on conflict (url) do update set
    body = excluded.body,
    fetched_at = excluded.fetched_at
`

type PutResponseParams struct {
	Url       string
	Body      []byte
	FetchedAt int64
}

func (q *Queries) PutResponse(ctx context.Context, arg PutResponseParams) error {
	_, err := q.db.ExecContext(ctx, putResponse, arg.Url, arg.Body, arg.FetchedAt)
	return err
}

const deleteResponsesBefore = `-- name: DeleteResponsesBefore :execrows
delete from swapi_response
where fetched_at < ?
`

func (q *Queries) DeleteResponsesBefore(ctx context.Context, before int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteResponsesBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createRun = `-- name: CreateRun :exec
insert into run(id, command, output, started_at)
values (?, ?, ?, ?)
`

type CreateRunParams struct {
	ID        string
	Command   string
	Output    string
	StartedAt int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun, arg.ID, arg.Command, arg.Output, arg.StartedAt)
	return err
}

const finishRun = `-- name: FinishRun :exec
update run set
    records = ?,
    finished_at = ?,
    error = ?
where id = ?
`

type FinishRunParams struct {
	ID         string
	Records    int64
	FinishedAt int64
	Error      sql.NullString
}

func (q *Queries) FinishRun(ctx context.Context, arg FinishRunParams) error {
	_, err := q.db.ExecContext(ctx, finishRun, arg.Records, arg.FinishedAt, arg.Error, arg.ID)
	return err
}

const listRuns = `-- name: ListRuns :many
select id, command, output, records, started_at, finished_at, error from run
order by started_at desc, id
limit ?
`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.Command,
			&i.Output,
			&i.Records,
			&i.StartedAt,
			&i.FinishedAt,
			&i.Error,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
