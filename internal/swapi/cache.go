package swapi

import (
	"context"
	"database/sql"
	"errors"
	"time"
	"rebelintel/internal/components/chrono"
	"rebelintel/internal/db"
)

// DBCache is a Cache backed by the swapi_response table.
type DBCache struct {
	qry   *db.Queries
	clock chrono.API
	// ttl <= 0 means responses never expire
	ttl time.Duration
}

func NewDBCache(qry *db.Queries, clock chrono.API, ttl time.Duration) DBCache {
	return DBCache{qry: qry, clock: clock, ttl: ttl}
}

func (c DBCache) expired(fetchedAt int64) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.clock.Now().Sub(time.Unix(fetchedAt, 0)) > c.ttl
}

func (c DBCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	res, err := c.qry.GetResponse(ctx, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.expired(res.FetchedAt) {
		return nil, false, nil
	}
	return res.Body, true, nil
}

func (c DBCache) Put(ctx context.Context, url string, body []byte) error {
	return c.qry.PutResponse(ctx, db.PutResponseParams{
		Url:       url,
		Body:      body,
		FetchedAt: c.clock.Now().Unix(),
	})
}

// Prune deletes every expired response and returns how many were removed.
func (c DBCache) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	return c.qry.DeleteResponsesBefore(ctx, c.clock.Now().Add(-c.ttl).Unix())
}
