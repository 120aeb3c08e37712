package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/protobuf/proto"
)

func TestScopedAPI(t *testing.T) {
	recorder := &RecorderAPI{}
	scoped := NewScopedAPI("swapi", recorder)

	scoped.ReportBroken("client.search", "boom")
	scoped.ReportWarning("client.cache")
	scoped.ReportCount("client.requests", 3)

	broken := recorder.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, "swapi: client.search", broken[0].Id)
	require.Equal(t, []any{"boom"}, broken[0].Params)

	require.Len(t, recorder.Reports("warning"), 1)
	count := recorder.Reports("count")
	require.Len(t, count, 1)
	require.Equal(t, []any{int64(3)}, count[0].Params)
	require.Len(t, recorder.Reports(""), 3)
}

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (m *memoryOutput) Write(id, contents string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.messages[id] = contents
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"name":"Hoth"}`))
	}))
	defer server.Close()

	recorder := &RecorderAPI{}
	output := &memoryOutput{messages: map[string]string{}}

	client := resty.New().SetBaseURL(server.URL)
	InstrumentResty(client, recorder, "test/resty", output)

	res, err := client.R().Get("/planets/4/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	_, err = client.R().Get("/missing")
	require.NoError(t, err)

	debug := recorder.Reports("debug")
	require.Len(t, debug, 4)
	require.Equal(t, report_resty_request, debug[0].Id)
	require.Equal(t, report_resty_response, debug[1].Id)

	require.Len(t, output.messages, 2)
	require.Contains(t, output.messages["1"], "GET")
	require.Contains(t, output.messages["1"], `{"name":"Hoth"}`)
	require.Contains(t, output.messages["2"], "404")
}

func TestInstrumentRestyReportsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	recorder := &RecorderAPI{}
	client := resty.New()
	InstrumentResty(client, recorder, "test/resty", nil)

	_, err := client.R().Get(url)
	require.Error(t, err)
	require.Len(t, recorder.Reports("broken"), 1)
}

func TestInstrumentRestyDumpsBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New().SetBaseURL(server.URL)
	InstrumentResty(client, &RecorderAPI{}, "test/resty", output)

	_, err := client.R().Get("/planets/")
	require.NoError(t, err)
	_, err = client.R().SetBody(`{"name":"Hoth"}`).Post("/planets/")
	require.NoError(t, err)

	require.Len(t, output.messages, 2)
	require.Contains(t, output.messages["1"], "<NO BODY AVAILABLE>")
	require.Contains(t, output.messages["2"], "POST")
	require.Contains(t, output.messages["2"], `{"name":"Hoth"}`)
}

func useTracerProvider(t *testing.T, provider *sdktrace.TracerProvider) {
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
}

func TestInstrumentRestyLeavesCallerSpanOpen(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	useTracerProvider(t, provider)

	recorder := &RecorderAPI{}
	client := resty.New()
	// stands in for a rate limiter rejecting the request before it is instrumented
	client.OnBeforeRequest(func(*resty.Client, *resty.Request) error {
		return errors.New("rate limit wait canceled")
	})
	InstrumentResty(client, recorder, "test/resty", nil)

	ctx, parent := provider.Tracer("test").Start(context.Background(), "client:Get")
	_, err := client.R().SetContext(ctx).Get("http://127.0.0.1:1/planets/")
	require.Error(t, err)
	require.Empty(t, spans.Ended())
	require.Len(t, recorder.Reports("broken"), 1)

	parent.End()
	ended := spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "client:Get", ended[0].Name())
}

func TestInstrumentRestyEndsRequestSpan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	spans := tracetest.NewSpanRecorder()
	useTracerProvider(t, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)))

	client := resty.New().SetBaseURL(server.URL)
	InstrumentResty(client, &RecorderAPI{}, "test/resty", nil)

	_, err := client.R().Get("/planets/")
	require.NoError(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "http GET", ended[0].Name())
}

func TestSetupExportsOverOtlpHttp(t *testing.T) {
	var mutex sync.Mutex
	var spanNames []string
	resourceAttrs := map[string]string{}
	metricExports := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		mutex.Lock()
		defer mutex.Unlock()
		switch r.URL.Path {
		case "/v1/traces":
			req := &coltracepb.ExportTraceServiceRequest{}
			if err := proto.Unmarshal(body, req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			for _, rs := range req.GetResourceSpans() {
				for _, attr := range rs.GetResource().GetAttributes() {
					resourceAttrs[attr.GetKey()] = attr.GetValue().GetStringValue()
				}
				for _, ss := range rs.GetScopeSpans() {
					for _, span := range ss.GetSpans() {
						spanNames = append(spanNames, span.GetName())
					}
				}
			}
		case "/v1/metrics":
			metricExports++
		}
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	previousTracer := otel.GetTracerProvider()
	previousMeter := otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(previousTracer)
		otel.SetMeterProvider(previousMeter)
	})

	ctx := context.Background()
	tel, err := Setup(ctx, "rebelintel-test", Config{
		Otlp: OtlpConfig{
			Traces:  OtlpConnConfig{HttpEndpoint: server.URL + "/v1/traces"},
			Metrics: OtlpConnConfig{HttpEndpoint: server.URL + "/v1/metrics"},
		},
		Attributes: map[string]string{"deployment.environment": "test"},
	})
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.NotNil(t, tel.MeterProvider)

	_, span := otel.Tracer("test").Start(ctx, "fetch planets")
	span.End()
	counter, err := otel.Meter("test").Int64Counter("swapi.cache.hits")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, tel.Shutdown(ctx))

	mutex.Lock()
	defer mutex.Unlock()
	require.Equal(t, []string{"fetch planets"}, spanNames)
	require.Equal(t, "rebelintel-test", resourceAttrs["service.name"])
	require.Equal(t, "test", resourceAttrs["deployment.environment"])
	require.NotEmpty(t, resourceAttrs["service.version"])
	require.GreaterOrEqual(t, metricExports, 1)
}

func TestSetupSkipsUnconfiguredSignals(t *testing.T) {
	tel, err := Setup(context.Background(), "rebelintel-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "http")
	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	output.Write("1", "hello")
	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}
