package clean

import (
	"context"
	"errors"
	"math"
	"testing"
	"rebelintel/internal/components/telemetry"
	"rebelintel/internal/record"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestIsUnknown(t *testing.T) {
	table := []struct {
		input    any
		expected bool
	}{
		{input: "unknown", expected: true},
		{input: " Unknown ", expected: true},
		{input: "N/A", expected: true},
		{input: "n/a\n", expected: true},
		{input: "none", expected: false},
		{input: "", expected: false},
		{input: int64(0), expected: false},
		{input: nil, expected: false},
	}
	for _, row := range table {
		require.Equal(t, row.expected, IsUnknown(row.input), "input: %#v", row.input)
	}
}

func TestConvertToFloat(t *testing.T) {
	require.Equal(t, 1.5, ConvertToFloat("1.5"))
	require.Equal(t, 2.0, ConvertToFloat(" 2 "))
	require.Equal(t, 4.0, ConvertToFloat(int64(4)))
	require.Equal(t, "1.5 (surface)", ConvertToFloat("1.5 (surface)"))
	require.Equal(t, "NaN", ConvertToFloat("NaN"))
	require.Equal(t, true, ConvertToFloat(true))
}

func TestConvertToInt(t *testing.T) {
	require.Equal(t, int64(7200), ConvertToInt("7200"))
	require.Equal(t, int64(12), ConvertToInt(" 12 "))
	require.Equal(t, int64(3), ConvertToInt(3.0))
	require.Equal(t, int64(90), ConvertToInt(int64(90)))
	require.Equal(t, "1,000", ConvertToInt("1,000"))
	require.Equal(t, "2.5", ConvertToInt("2.5"))
	require.Equal(t, int64(2), ConvertToInt(2.5))
	require.Equal(t, int64(-2), ConvertToInt(-2.9))
	require.True(t, math.IsNaN(ConvertToInt(math.NaN()).(float64)))
	require.Equal(t, math.Inf(1), ConvertToInt(math.Inf(1)))
	require.Equal(t, "99999999999999999999", ConvertToInt("99999999999999999999"))
}

func TestConvertToList(t *testing.T) {
	require.Equal(t, []any{"frozen"}, ConvertToList("frozen", ", "))
	require.Equal(t, []any{"tundra", "ice caves", "mountain ranges"}, ConvertToList("tundra, ice caves , mountain ranges", ", "))
	require.Equal(t, []any{"a", "b"}, ConvertToList("a,b", ","))
	require.Equal(t, int64(5), ConvertToList(int64(5), ", "))
}

func TestFilterData(t *testing.T) {
	data := record.FromPairs(
		"name", "Hoth",
		"films", []any{"https://swapi.dev/api/films/2/"},
		"url", "https://swapi.dev/api/planets/4/",
		"diameter", "7200",
	)
	filtered := FilterData(data, []string{"url", "name", "diameter", "population"})
	require.Equal(t, []string{"url", "name", "diameter"}, filtered.Keys())
	require.Equal(t, 4, data.Len())
}

func TestCombineData(t *testing.T) {
	seed := record.FromPairs("name", "Hoth", "system_position", int64(6), "diameter", "7,200")
	catalog := record.FromPairs("diameter", "7200", "climate", "frozen")

	combined := CombineData(seed, catalog)
	require.Equal(t, []string{"name", "system_position", "diameter", "climate"}, combined.Keys())
	diameter, _ := combined.Get("diameter")
	require.Equal(t, "7200", diameter)

	seedDiameter, _ := seed.Get("diameter")
	require.Equal(t, "7,200", seedDiameter)
}

func TestAssignCrew(t *testing.T) {
	xwing := record.FromPairs("name", "X-wing", "pilot", "already assigned")
	luke := record.FromPairs("name", "Luke Skywalker")
	r2 := record.FromPairs("name", "R2-D2")

	crewed := AssignCrew(
		xwing,
		CrewMember{Role: "pilot", Member: luke},
		CrewMember{Role: "astromech_droid", Member: r2},
	)

	pilot, _ := crewed.Get("pilot")
	require.Equal(t, "already assigned", pilot)
	droid, ok := crewed.Record("astromech_droid")
	require.True(t, ok)
	require.Same(t, r2, droid)
	require.False(t, xwing.Has("astromech_droid"))
}

type fakeResolver struct {
	resources map[string]*record.Record
	calls     []string
}

func (f *fakeResolver) Resource(ctx context.Context, url string) (*record.Record, error) {
	f.calls = append(f.calls, url)
	r, ok := f.resources[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func newTatooineResolver() *fakeResolver {
	return &fakeResolver{resources: map[string]*record.Record{
		"https://swapi.dev/api/planets/1/": record.FromPairs(
			"name", "Tatooine",
			"rotation_period", "23",
			"orbital_period", "304",
			"diameter", "10465",
			"climate", "arid",
			"gravity", "1 standard",
			"terrain", "desert",
			"surface_water", "1",
			"population", "200000",
			"residents", []any{"https://swapi.dev/api/people/1/"},
			"url", "https://swapi.dev/api/planets/1/",
		),
		"https://swapi.dev/api/species/2/": record.FromPairs(
			"name", "Droid",
			"classification", "artificial",
			"designation", "sentient",
			"average_height", "n/a",
			"skin_colors", "n/a",
			"hair_colors", "n/a",
			"eye_colors", "n/a",
			"average_lifespan", "indefinite",
			"language", "n/a",
			"url", "https://swapi.dev/api/species/2/",
		),
	}}
}

func TestCleanPerson(t *testing.T) {
	resolver := newTatooineResolver()
	recorder := &telemetry.RecorderAPI{}
	cleaner := NewCleaner(resolver, recorder)

	person := record.FromPairs(
		"url", "https://swapi.dev/api/people/2/",
		"name", "C-3PO",
		"mass", "75",
		"hair_color", "n/a",
		"skin_color", "gold",
		"eye_color", "yellow",
		"birth_year", "112BBY",
		"gender", "n/a",
		"homeworld", "https://swapi.dev/api/planets/1/",
		"species", []any{"https://swapi.dev/api/species/2/"},
	)

	cleaned, err := cleaner.Prepare(context.Background(), person, PersonKeys)
	require.NoError(t, err)

	expected := record.FromPairs(
		"url", "https://swapi.dev/api/people/2/",
		"name", "C-3PO",
		"mass", int64(75),
		"hair_color", nil,
		"skin_color", []any{"gold"},
		"eye_color", "yellow",
		"birth_year", "112BBY",
		"gender", nil,
		"homeworld", record.FromPairs(
			"url", "https://swapi.dev/api/planets/1/",
			"name", "Tatooine",
			"rotation_period", int64(23),
			"orbital_period", int64(304),
			"diameter", int64(10465),
			"climate", []any{"arid"},
			"gravity", 1.0,
			"terrain", []any{"desert"},
			"surface_water", int64(1),
			"population", int64(200000),
		),
		"species", []any{record.FromPairs(
			"url", "https://swapi.dev/api/species/2/",
			"name", "Droid",
			"classification", "artificial",
			"average_height", nil,
			"skin_colors", nil,
			"hair_colors", nil,
			"eye_colors", nil,
			"average_lifespan", "indefinite",
			"language", nil,
		)},
	)

	expectedJson, err := record.EncodeIndent(expected)
	require.NoError(t, err)
	cleanedJson, err := record.EncodeIndent(cleaned)
	require.NoError(t, err)
	if diff := cmp.Diff(string(expectedJson), string(cleanedJson)); diff != "" {
		t.Fatal(diff)
	}

	require.Equal(t, []string{
		"https://swapi.dev/api/planets/1/",
		"https://swapi.dev/api/species/2/",
	}, resolver.calls)

	// "indefinite" is not an int, it is kept and reported
	warnings := recorder.Reports("warning")
	require.Len(t, warnings, 1)
	require.Equal(t, "clean: "+report_cleaner_coerce, warnings[0].Id)
	require.Equal(t, []any{"average_lifespan", "indefinite"}, warnings[0].Params)
}

func TestCleanSpeciesEdgeCases(t *testing.T) {
	cleaner := NewCleaner(newTatooineResolver(), &telemetry.RecorderAPI{})

	cleaned, err := cleaner.Clean(context.Background(), record.FromPairs(
		"species", []any{},
		"homeworld", record.FromPairs("name", "Hoth", "diameter", "7200", "residents", []any{}),
	))
	require.NoError(t, err)

	species, _ := cleaned.List("species")
	require.Empty(t, species)

	homeworld, ok := cleaned.Record("homeworld")
	require.True(t, ok)
	require.Equal(t, []string{"name", "diameter"}, homeworld.Keys())
	diameter, _ := homeworld.Get("diameter")
	require.Equal(t, int64(7200), diameter)
}

func TestCleanNilReferences(t *testing.T) {
	recorder := &telemetry.RecorderAPI{}
	cleaner := NewCleaner(newTatooineResolver(), recorder)

	cleaned, err := cleaner.Clean(context.Background(), record.FromPairs(
		"homeworld", nil,
		"species", []any{nil},
	))
	require.NoError(t, err)

	homeworld, ok := cleaned.Get("homeworld")
	require.True(t, ok)
	require.Nil(t, homeworld)
	species, _ := cleaned.List("species")
	require.Equal(t, []any{nil}, species)
	require.Empty(t, recorder.Reports("warning"))
}

func TestCleanWithoutResolverKeepsUrls(t *testing.T) {
	cleaner := NewCleaner(nil, &telemetry.RecorderAPI{})
	cleaned, err := cleaner.Clean(context.Background(), record.FromPairs(
		"homeworld", "https://swapi.dev/api/planets/1/",
		"gravity", "1.5 standard",
		"population", "unknown",
	))
	require.NoError(t, err)

	homeworld, _ := cleaned.Get("homeworld")
	require.Equal(t, "https://swapi.dev/api/planets/1/", homeworld)
	gravity, _ := cleaned.Get("gravity")
	require.Equal(t, 1.5, gravity)
	population, ok := cleaned.Get("population")
	require.True(t, ok)
	require.Nil(t, population)
}

func TestCleanResolveError(t *testing.T) {
	recorder := &telemetry.RecorderAPI{}
	cleaner := NewCleaner(&fakeResolver{}, recorder)

	_, err := cleaner.Clean(context.Background(), record.FromPairs(
		"homeworld", "https://swapi.dev/api/planets/404/",
	))
	require.Error(t, err)
	require.Contains(t, err.Error(), "clean homeworld")
	require.Len(t, recorder.Reports("broken"), 1)
}

func TestMerge(t *testing.T) {
	cleaner := NewCleaner(nil, &telemetry.RecorderAPI{})

	seed := record.FromPairs("name", "Hoth", "system_position", int64(6), "natural_satelites", int64(3))
	catalog := record.FromPairs(
		"name", "Hoth",
		"diameter", "7200",
		"climate", "frozen",
		"population", "unknown",
		"url", "https://swapi.dev/api/planets/4/",
		"created", "2014-12-10T11:49:31.984000Z",
	)

	merged, err := cleaner.Merge(context.Background(), seed, catalog, HothKeys)
	require.NoError(t, err)
	require.Equal(t, []string{"url", "name", "system_position", "natural_satelites", "diameter", "climate", "population"}, merged.Keys())
}
