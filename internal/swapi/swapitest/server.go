// Package swapitest serves a small fixed copy of the catalog over http for tests.
package swapitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"rebelintel/internal/record"

	_ "embed"
)

//go:embed catalog.json
var catalogJson string

// Server mimics the catalog api under <server url>/api.
type Server struct {
	*httptest.Server

	catalog map[string][]*record.Record

	mutex    sync.Mutex
	requests []string
}

func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	raw := strings.ReplaceAll(catalogJson, "{{base}}", s.BaseUrl())
	value, err := record.Decode([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	root, ok := value.(*record.Record)
	if !ok {
		t.Fatal("catalog fixture is not an object")
	}

	s.catalog = map[string][]*record.Record{}
	root.Each(func(category string, entries any) {
		list, _ := entries.([]any)
		for _, e := range list {
			s.catalog[category] = append(s.catalog[category], e.(*record.Record))
		}
	})
	return s
}

// BaseUrl is the api root, the equivalent of https://swapi.dev/api
func (s *Server) BaseUrl() string {
	return s.URL + "/api"
}

// Requests returns the request uris served so far.
func (s *Server) Requests() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	s.mutex.Unlock()

	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/"), "/")
	entries, ok := s.catalog[parts[0]]
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch len(parts) {
	case 1:
		term := strings.ToLower(r.URL.Query().Get("search"))
		results := []any{}
		for _, e := range entries {
			if matches(e, term) {
				results = append(results, e)
			}
		}
		writeJson(w, record.FromPairs(
			"count", int64(len(results)),
			"next", nil,
			"previous", nil,
			"results", results,
		))
	case 2:
		want := fmt.Sprintf("%s/%s/%s/", s.BaseUrl(), parts[0], parts[1])
		for _, e := range entries {
			if u, _ := e.String("url"); u == want {
				writeJson(w, e)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found"}`))
	default:
		http.NotFound(w, r)
	}
}

// search matches name (or title) and model, case insensitively
func matches(entry *record.Record, term string) bool {
	for _, field := range []string{"name", "title", "model"} {
		v, ok := entry.String(field)
		if ok && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func writeJson(w http.ResponseWriter, value any) {
	body, err := record.Encode(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "application/json")
	w.Write(body)
}
