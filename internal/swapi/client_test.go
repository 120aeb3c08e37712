package swapi

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
	"rebelintel/internal/components/chrono"
	"rebelintel/internal/components/telemetry"
	"rebelintel/internal/swapi/swapitest"
	"rebelintel/lib/testutil"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, server *swapitest.Server, cache Cache) *Client {
	t.Helper()
	client, err := NewClient(ClientOptions{
		BaseUrl:   server.BaseUrl(),
		Timeout:   time.Second * 5,
		UserAgent: "rebelintel-test",
		Cache:     cache,
		Telemetry: &telemetry.RecorderAPI{},
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestResolveUrl(t *testing.T) {
	client, err := NewClient(ClientOptions{BaseUrl: "https://swapi.dev/api", Telemetry: &telemetry.RecorderAPI{}})
	require.NoError(t, err)

	table := []struct {
		ref      string
		params   url.Values
		expected string
	}{
		{ref: "planets/", expected: "https://swapi.dev/api/planets/"},
		{ref: "/planets/4/", expected: "https://swapi.dev/api/planets/4/"},
		{ref: "people/", params: url.Values{"search": {"han solo"}}, expected: "https://swapi.dev/api/people/?search=han+solo"},
		{ref: "https://swapi.dev/api/species/2/", expected: "https://swapi.dev/api/species/2/"},
		{ref: "https://swapi.dev/api/people/?search=r2&a=1#frag", expected: "https://swapi.dev/api/people/?a=1&search=r2"},
	}
	for _, row := range table {
		resolved, err := client.ResolveUrl(row.ref, row.params)
		require.NoError(t, err)
		require.Equal(t, row.expected, resolved)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Starships")
	require.NoError(t, err)
	require.Equal(t, Starships, c)

	_, err = ParseCategory("droids")
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	server := swapitest.NewServer(t)
	client := newTestClient(t, server, nil)
	ctx := context.Background()

	hoth, err := client.Get(ctx, "planets/4/", nil)
	require.NoError(t, err)
	name, _ := hoth.String("name")
	require.Equal(t, "Hoth", name)

	tatooine, err := client.Resource(ctx, server.BaseUrl()+"/planets/1/")
	require.NoError(t, err)
	name, _ = tatooine.String("name")
	require.Equal(t, "Tatooine", name)

	_, err = client.Get(ctx, "planets/404/", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestClientDumpsExchanges(t *testing.T) {
	server := swapitest.NewServer(t)
	dir := filepath.Join(t.TempDir(), "http")
	output, err := telemetry.NewFilesystemOutput(dir)
	require.NoError(t, err)

	client, err := NewClient(ClientOptions{
		BaseUrl:       server.BaseUrl(),
		Timeout:       time.Second * 5,
		MessageOutput: output,
		Telemetry:     &telemetry.RecorderAPI{},
	})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "planets/4/", nil)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "GET")
	require.Contains(t, string(contents), "<NO BODY AVAILABLE>")
	require.Contains(t, string(contents), "Hoth")
}

func TestSearch(t *testing.T) {
	server := swapitest.NewServer(t)
	client := newTestClient(t, server, nil)
	ctx := context.Background()

	results, err := client.Search(ctx, People, "han solo")
	require.NoError(t, err)
	require.Len(t, results, 2)

	han, err := client.SearchOne(ctx, People, "han solo")
	require.NoError(t, err)
	name, _ := han.String("name")
	require.Equal(t, "Han Solo", name)

	transport, err := client.SearchOne(ctx, Starships, "GR-75 medium transport")
	require.NoError(t, err)
	name, _ = transport.String("name")
	require.Equal(t, "Rebel transport", name)

	_, err = client.SearchOne(ctx, Vehicles, "sandcrawler")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCachedClient(t *testing.T) {
	server := swapitest.NewServer(t)
	res := testutil.SetupService(t, testutil.ServiceParams{Name: "swapi", WithDB: true})

	clock := chrono.NewFixedImpl(time.Unix(1_700_000_000, 0))
	cache := NewDBCache(res.Queries, clock, time.Hour)
	client := newTestClient(t, server, cache)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.SearchOne(ctx, Vehicles, "snowspeeder")
		require.NoError(t, err)
	}
	require.Len(t, server.Requests(), 1)

	clock.Advance(time.Hour * 2)
	_, err := client.SearchOne(ctx, Vehicles, "snowspeeder")
	require.NoError(t, err)
	require.Len(t, server.Requests(), 2)

	clock.Advance(time.Hour * 2)
	pruned, err := cache.Prune(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)
}

func TestRateLimitedClient(t *testing.T) {
	server := swapitest.NewServer(t)
	client, err := NewClient(ClientOptions{
		BaseUrl:           server.BaseUrl(),
		RequestsPerSecond: 1000,
		Telemetry:         &telemetry.RecorderAPI{},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	for i := 0; i < 5; i++ {
		_, err := client.Get(ctx, "people/1/", nil)
		require.NoError(t, err)
	}
	require.Len(t, server.Requests(), 5)
}
