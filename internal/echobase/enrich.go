package echobase

import (
	"context"
	"fmt"
	"sync"
	"rebelintel/internal/clean"
	"rebelintel/internal/components/telemetry"
	"rebelintel/internal/record"
	"rebelintel/internal/swapi"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("internal/echobase")

const report_enricher_lookup = "enricher.lookup"

// Catalog is the part of the catalog client the enricher depends on.
type Catalog interface {
	SearchOne(ctx context.Context, category swapi.Category, term string) (*record.Record, error)
}

type Options struct {
	// PassengersPerTransport is the passenger capacity of a GR-75 medium transport.
	PassengersPerTransport int64
	// TransportName is the name given to the evacuation transport.
	TransportName string
	// Concurrency bounds the number of catalog lookups in flight.
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.PassengersPerTransport <= 0 {
		o.PassengersPerTransport = 90
	}
	if o.TransportName == "" {
		o.TransportName = "Bright Hope"
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	return o
}

type Enricher struct {
	catalog Catalog
	cleaner clean.Cleaner
	tel     telemetry.API
	opts    Options
}

func NewEnricher(catalog Catalog, cleaner clean.Cleaner, tel telemetry.API, opts Options) Enricher {
	return Enricher{
		catalog: catalog,
		cleaner: cleaner,
		tel:     telemetry.NewScopedAPI("echobase", tel),
		opts:    opts.withDefaults(),
	}
}

type lookup struct {
	category swapi.Category
	term     string
}

var (
	lookupHoth        = lookup{swapi.Planets, "Hoth"}
	lookupSnowspeeder = lookup{swapi.Vehicles, "snowspeeder"}
	lookupXwing       = lookup{swapi.Starships, "T-65 X-wing"}
	lookupGR75        = lookup{swapi.Starships, "GR-75 medium transport"}
	lookupFalcon      = lookup{swapi.Starships, "Millennium Falcon"}

	lookupHan    = lookup{swapi.People, "han solo"}
	lookupChewie = lookup{swapi.People, "Chewbacca"}
	lookupLeia   = lookup{swapi.People, "Leia Organa"}
	lookupC3PO   = lookup{swapi.People, "C-3PO"}
	lookupLuke   = lookup{swapi.People, "Luke Skywalker"}
	lookupR2D2   = lookup{swapi.People, "R2-D2"}
	lookupWedge  = lookup{swapi.People, "Wedge Antilles"}
	lookupR5D4   = lookup{swapi.People, "R5-D4"}
)

var entityLookups = []lookup{lookupHoth, lookupSnowspeeder, lookupXwing, lookupGR75, lookupFalcon}

var crewLookups = []lookup{
	lookupHan, lookupChewie, lookupLeia, lookupC3PO,
	lookupLuke, lookupR2D2, lookupWedge, lookupR5D4,
}

// fetchAll runs every catalog lookup concurrently. Entities are returned raw
// since they are merged with seed data before cleaning, people come back
// filtered and cleaned.
func (e Enricher) fetchAll(ctx context.Context) (map[lookup]*record.Record, error) {
	var mutex sync.Mutex
	results := map[lookup]*record.Record{}
	store := func(l lookup, r *record.Record) {
		mutex.Lock()
		defer mutex.Unlock()
		results[l] = r
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.opts.Concurrency)

	for _, l := range entityLookups {
		l := l // per-iteration copy (go directive is 1.21)
		group.Go(func() error {
			entity, err := e.catalog.SearchOne(groupCtx, l.category, l.term)
			if err != nil {
				e.tel.ReportBroken(report_enricher_lookup, l.category, l.term, err)
				return err
			}
			store(l, entity)
			return nil
		})
	}
	for _, l := range crewLookups {
		l := l // per-iteration copy (go directive is 1.21)
		group.Go(func() error {
			person, err := e.catalog.SearchOne(groupCtx, l.category, l.term)
			if err != nil {
				e.tel.ReportBroken(report_enricher_lookup, l.category, l.term, err)
				return err
			}
			cleaned, err := e.cleaner.Prepare(groupCtx, person, clean.PersonKeys)
			if err != nil {
				return fmt.Errorf("clean %q: %w", l.term, err)
			}
			store(l, cleaned)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Enrich returns a copy of the Echo Base seed document merged with catalog
// data, with the evacuation plan computed and the Bright Hope assignment appended.
func (e Enricher) Enrich(ctx context.Context, seed *record.Record) (*record.Record, error) {
	ctx, span := tracer.Start(ctx, "enricher:Enrich")
	defer span.End()

	base := seed.DeepClone()

	fetched, err := e.fetchAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch catalog entries")
		return nil, err
	}

	steps := []func(context.Context, *record.Record, map[lookup]*record.Record) error{
		e.enrichHoth,
		e.enrichPeople,
		e.enrichAssets,
		e.enrichFalcon,
		e.updateEvacuationPlan,
		e.assignTransport,
	}
	for _, step := range steps {
		if err := step(ctx, base, fetched); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to enrich echo base")
			return nil, err
		}
	}
	return base, nil
}

// merge overlays a catalog entity on the seed record found at `path`.
func (e Enricher) merge(ctx context.Context, base *record.Record, catalog *record.Record, keys []string, path ...any) (*record.Record, error) {
	seed, err := base.PathRecord(path...)
	if err != nil {
		return nil, err
	}
	merged, err := e.cleaner.Merge(ctx, seed, catalog, keys)
	if err != nil {
		return nil, err
	}
	return merged, base.SetPath(merged, path...)
}

// cleanAt cleans the seed record found at `path` in place.
func (e Enricher) cleanAt(ctx context.Context, base *record.Record, path ...any) error {
	seed, err := base.PathRecord(path...)
	if err != nil {
		return err
	}
	cleaned, err := e.cleaner.Clean(ctx, seed)
	if err != nil {
		return err
	}
	return base.SetPath(cleaned, path...)
}

func (e Enricher) enrichHoth(ctx context.Context, base *record.Record, fetched map[lookup]*record.Record) error {
	_, err := e.merge(ctx, base, fetched[lookupHoth], clean.HothKeys, "location", "planet")
	if err != nil {
		return fmt.Errorf("hoth: %w", err)
	}
	return nil
}

func (e Enricher) enrichPeople(ctx context.Context, base *record.Record, _ map[lookup]*record.Record) error {
	err := e.cleanAt(ctx, base, "garrison", "commander")
	if err != nil {
		return fmt.Errorf("commander: %w", err)
	}
	err = e.cleanAt(ctx, base, "visiting_starships", "freighters", 1, "pilot")
	if err != nil {
		return fmt.Errorf("freighter pilot: %w", err)
	}
	return nil
}

func (e Enricher) enrichAssets(ctx context.Context, base *record.Record, fetched map[lookup]*record.Record) error {
	_, err := e.merge(ctx, base, fetched[lookupSnowspeeder], clean.VehicleKeys, "vehicle_assets", "snowspeeders", 0, "type")
	if err != nil {
		return fmt.Errorf("snowspeeder: %w", err)
	}
	_, err = e.merge(ctx, base, fetched[lookupXwing], clean.StarshipKeys, "starship_assets", "starfighters", 0, "type")
	if err != nil {
		return fmt.Errorf("x-wing: %w", err)
	}
	_, err = e.merge(ctx, base, fetched[lookupGR75], clean.StarshipKeys, "starship_assets", "transports", 0, "type")
	if err != nil {
		return fmt.Errorf("gr-75: %w", err)
	}
	return nil
}

func (e Enricher) enrichFalcon(ctx context.Context, base *record.Record, fetched map[lookup]*record.Record) error {
	falcon, err := e.merge(ctx, base, fetched[lookupFalcon], clean.StarshipKeys, "visiting_starships", "freighters", 0)
	if err != nil {
		return fmt.Errorf("millennium falcon: %w", err)
	}
	crewed := clean.AssignCrew(
		falcon,
		clean.CrewMember{Role: "pilot", Member: fetched[lookupHan]},
		clean.CrewMember{Role: "copilot", Member: fetched[lookupChewie]},
	)
	return base.SetPath(crewed, "visiting_starships", "freighters", 0)
}

func (e Enricher) updateEvacuationPlan(_ context.Context, base *record.Record, _ map[lookup]*record.Record) error {
	plan, err := base.PathRecord("evacuation_plan")
	if err != nil {
		return err
	}
	personnel, err := base.PathRecord("garrison", "personnel")
	if err != nil {
		return err
	}
	availableValue, err := base.Path("starship_assets", "transports", 0, "num_available")
	if err != nil {
		return err
	}
	multiplierValue, err := plan.Path("passenger_overload_multiplier")
	if err != nil {
		return err
	}

	evacuation, err := ComputeEvacuation(personnel, availableValue, multiplierValue, e.opts.PassengersPerTransport)
	if err != nil {
		return fmt.Errorf("evacuation plan: %w", err)
	}
	plan.Set("max_base_personnel", evacuation.MaxBasePersonnel)
	plan.Set("max_available_transports", evacuation.MaxAvailableTransports)
	plan.Set("max_passenger_overload_capacity", evacuation.MaxPassengerOverloadCapacity)
	return nil
}

func (e Enricher) assignTransport(_ context.Context, base *record.Record, fetched map[lookup]*record.Record) error {
	gr75, err := base.PathRecord("starship_assets", "transports", 0, "type")
	if err != nil {
		return err
	}
	xwing, err := base.PathRecord("starship_assets", "starfighters", 0, "type")
	if err != nil {
		return err
	}

	transport := gr75.Clone()
	transport.Set("name", e.opts.TransportName)
	transport.Set("passenger_manifest", []any{fetched[lookupLeia], fetched[lookupC3PO]})
	transport.Set("escorts", []any{
		clean.AssignCrew(
			xwing,
			clean.CrewMember{Role: "pilot", Member: fetched[lookupLuke]},
			clean.CrewMember{Role: "astromech_droid", Member: fetched[lookupR2D2]},
		),
		clean.AssignCrew(
			xwing,
			clean.CrewMember{Role: "pilot", Member: fetched[lookupWedge]},
			clean.CrewMember{Role: "astromech_droid", Member: fetched[lookupR5D4]},
		),
	})

	plan, err := base.PathRecord("evacuation_plan")
	if err != nil {
		return err
	}
	assignments := []any{}
	if existing, ok := plan.Get("transport_assignments"); ok && existing != nil {
		list, ok := existing.([]any)
		if !ok {
			return fmt.Errorf("evacuation_plan.transport_assignments: expected array, got %T", existing)
		}
		assignments = list
	}
	plan.Set("transport_assignments", append(assignments, transport))
	return nil
}
