package echobase

import (
	"context"
	"fmt"
	"rebelintel/internal/clean"
	"rebelintel/internal/record"
)

// Uninhabited keeps every planet whose population is unknown, filtered down
// to the planet fields and cleaned, in input order.
func Uninhabited(ctx context.Context, cleaner clean.Cleaner, planets []*record.Record) ([]*record.Record, error) {
	ctx, span := tracer.Start(ctx, "Uninhabited")
	defer span.End()

	var out []*record.Record
	for _, planet := range planets {
		population, _ := planet.Get("population")
		if !clean.IsUnknown(population) {
			continue
		}
		cleaned, err := cleaner.Prepare(ctx, planet, clean.PlanetKeys)
		if err != nil {
			name, _ := planet.String("name")
			return nil, fmt.Errorf("planet %q: %w", name, err)
		}
		out = append(out, cleaned)
	}
	return out, nil
}
