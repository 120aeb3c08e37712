package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"rebelintel/internal/clean"
	"rebelintel/internal/components/chrono"
	"rebelintel/internal/components/telemetry"
	"rebelintel/internal/db"
	"rebelintel/internal/echobase"
	"rebelintel/internal/swapi"
	"rebelintel/lib/configutil"

	"github.com/google/uuid"
)

const report_run_finish = "run.finish"

type environment struct {
	config  Config
	tel     telemetry.API
	clock   chrono.API
	otel    telemetry.Telemetry
	db      *sql.DB
	qry     *db.Queries
	cache   swapi.DBCache
	client  *swapi.Client
	cleaner clean.Cleaner
}

func newEnvironment(ctx context.Context) (*environment, error) {
	config, path, err := configutil.Load(configPath, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}

	otelSetup, err := telemetry.SetupFromEnv(ctx, "rebelintel")
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	database, err := config.Cache.Database.OpenDB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	e := &environment{
		config: config,
		tel:    telemetry.SlogAPI{},
		clock:  chrono.StandardImpl{},
		otel:   otelSetup,
		db:     database,
		qry:    db.New(database),
	}
	e.cache = swapi.NewDBCache(e.qry, e.clock, config.ttl())

	opts := swapi.ClientOptions{
		BaseUrl:           config.Swapi.BaseUrl,
		Timeout:           config.timeout(),
		UserAgent:         config.Swapi.UserAgent,
		RequestsPerSecond: config.requestsPerSecond(),
		Telemetry:         e.tel,
	}
	if !config.Cache.Disabled && !noCache {
		opts.Cache = e.cache
	}
	if dumpHttp != "" {
		output, err := telemetry.NewFilesystemOutput(dumpHttp)
		if err != nil {
			database.Close()
			return nil, err
		}
		opts.MessageOutput = output
	}

	e.client, err = swapi.NewClient(opts)
	if err != nil {
		database.Close()
		return nil, err
	}
	e.cleaner = clean.NewCleaner(e.client, e.tel)
	return e, nil
}

func (e *environment) enricher() echobase.Enricher {
	return echobase.NewEnricher(e.client, e.cleaner, e.tel, e.config.evacuationOptions())
}

func (e *environment) Close(ctx context.Context) error {
	return errors.Join(e.db.Close(), e.otel.Shutdown(ctx))
}

// recordRun keeps a row in the run table for every report written.
func (e *environment) recordRun(ctx context.Context, command, output string, run func(ctx context.Context) (int, error)) error {
	id := uuid.NewString()
	err := e.qry.CreateRun(ctx, db.CreateRunParams{
		ID:        id,
		Command:   command,
		Output:    output,
		StartedAt: e.clock.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	count, runErr := run(ctx)

	finish := db.FinishRunParams{
		ID:         id,
		Records:    int64(count),
		FinishedAt: e.clock.Now().Unix(),
	}
	if runErr != nil {
		finish.Error = sql.NullString{String: runErr.Error(), Valid: true}
	} else {
		e.tel.ReportCount(fmt.Sprintf("run.%s.records", command), int64(count))
	}
	err = e.qry.FinishRun(context.WithoutCancel(ctx), finish)
	if err != nil {
		e.tel.ReportBroken(report_run_finish, id, err)
	}
	return runErr
}
