package clean

import (
	"context"
	"fmt"
	"strings"
	"rebelintel/internal/components/telemetry"
	"rebelintel/internal/record"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/clean")

const (
	report_cleaner_coerce  = "cleaner.coerce"
	report_cleaner_resolve = "cleaner.resolve"
)

// Resolver fetches the catalog resource a url points to.
type Resolver interface {
	Resource(ctx context.Context, url string) (*record.Record, error)
}

// Cleaner converts the string-encoded fields of catalog entities into typed values.
type Cleaner struct {
	resolver Resolver
	tel      telemetry.API
}

// NewCleaner creates a Cleaner. `resolver` can be nil, in which case
// homeworld and species urls are left as is.
func NewCleaner(resolver Resolver, tel telemetry.API) Cleaner {
	return Cleaner{
		resolver: resolver,
		tel:      telemetry.NewScopedAPI("clean", tel),
	}
}

// Clean returns a new record with every value converted to its typed form:
//   - "unknown" and "n/a" strings become null
//   - float, int and list fields are converted, falling back to the original value
//   - homeworld and species references are resolved, filtered and cleaned recursively
//   - anything else is copied as is
func (c Cleaner) Clean(ctx context.Context, entity *record.Record) (*record.Record, error) {
	ctx, span := tracer.Start(ctx, "cleaner:Clean")
	defer span.End()

	cleaned := record.New()
	for _, key := range entity.Keys() {
		value, _ := entity.Get(key)

		if IsUnknown(value) {
			cleaned.Set(key, nil)
			continue
		}

		converted, err := c.convert(ctx, key, value)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to convert field")
			return nil, fmt.Errorf("clean %s: %w", key, err)
		}
		cleaned.Set(key, converted)
	}

	span.SetAttributes(attribute.Int("custom.fields", cleaned.Len()))
	return cleaned, nil
}

// Prepare filters an entity down to `keys` then cleans it.
func (c Cleaner) Prepare(ctx context.Context, entity *record.Record, keys []string) (*record.Record, error) {
	return c.Clean(ctx, FilterData(entity, keys))
}

// Merge overlays a catalog entity onto locally authored seed data, filters the
// result down to `keys` and cleans it.
func (c Cleaner) Merge(ctx context.Context, seed, catalog *record.Record, keys []string) (*record.Record, error) {
	return c.Prepare(ctx, CombineData(seed, catalog), keys)
}

func (c Cleaner) convert(ctx context.Context, key string, value any) (any, error) {
	switch fieldKinds[key] {
	case fieldFloat:
		if s, ok := value.(string); ok && key == "gravity" {
			value = strings.TrimSpace(strings.ReplaceAll(s, "standard", " "))
		}
		return c.checkCoerced(key, value, ConvertToFloat(value)), nil
	case fieldInt:
		return c.checkCoerced(key, value, ConvertToInt(value)), nil
	case fieldList:
		return ConvertToList(value, listDelimiter), nil
	case fieldHomeworld:
		return c.homeworld(ctx, value)
	case fieldSpecies:
		return c.species(ctx, value)
	}
	return value, nil
}

// conversions that fall back to the original string are kept but reported
func (c Cleaner) checkCoerced(key string, original, converted any) any {
	if _, stillString := converted.(string); stillString {
		c.tel.ReportWarning(report_cleaner_coerce, key, original)
	}
	return converted
}

func (c Cleaner) resolve(ctx context.Context, ref any, keys []string) (any, error) {
	switch v := ref.(type) {
	case string:
		if c.resolver == nil {
			return v, nil
		}
		resource, err := c.resolver.Resource(ctx, v)
		if err != nil {
			c.tel.ReportBroken(report_cleaner_resolve, v, err)
			return nil, fmt.Errorf("resolve %s: %w", v, err)
		}
		return c.Prepare(ctx, resource, keys)
	case *record.Record:
		if v == nil {
			return nil, nil
		}
		return c.Prepare(ctx, v, keys)
	case nil:
		return nil, nil
	}
	c.tel.ReportWarning(report_cleaner_resolve, "unexpected reference type", fmt.Sprintf("%T", ref))
	return ref, nil
}

func (c Cleaner) homeworld(ctx context.Context, value any) (any, error) {
	return c.resolve(ctx, value, PlanetKeys)
}

// only the first species of an entity is kept, wrapped in a single element list
func (c Cleaner) species(ctx context.Context, value any) (any, error) {
	list, ok := value.([]any)
	if !ok {
		return c.resolve(ctx, value, SpeciesKeys)
	}
	if len(list) == 0 {
		return []any{}, nil
	}
	resolved, err := c.resolve(ctx, list[0], SpeciesKeys)
	if err != nil {
		return nil, err
	}
	return []any{resolved}, nil
}
