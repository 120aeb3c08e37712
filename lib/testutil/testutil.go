package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"rebelintel/internal/components/telemetry"
	"rebelintel/internal/db"
)

type ServiceParams struct {
	Name string
	// if unset, no database is opened
	WithDB bool
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB      *sql.DB
	Queries *db.Queries
}

// SetupService installs the telemetry described by a telemetry.json5 found
// up the tree (if any) and optionally opens a database with the schema
// applied. Everything is torn down when the test finishes.
func SetupService(t testing.TB, params ServiceParams) ServiceResult {
	t.Helper()

	tel, err := telemetry.SetupFromEnv(context.Background(), fmt.Sprintf("test:%s", params.Name))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Error(err)
		}
	})

	if !params.WithDB {
		return ServiceResult{}
	}

	dbpath := ":memory:"
	if params.DbPath != "" {
		dbpath = params.DbPath
	}
	database, err := db.Config{File: dbpath}.OpenDB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		database.Close()
	})

	return ServiceResult{
		DB:      database,
		Queries: db.New(database),
	}
}
