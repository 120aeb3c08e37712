package commands

import (
	"time"
	"rebelintel/internal/db"
	"rebelintel/internal/echobase"
	"rebelintel/internal/swapi"
)

const configName = "rebelintel.json5"

type SwapiConfig struct {
	BaseUrl           string  `json:"base_url"`
	UserAgent         string  `json:"user_agent"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	// 0 disables rate limiting
	RequestsPerSecond *float64 `json:"requests_per_second"`
}

type CacheConfig struct {
	Disabled bool `json:"disabled"`
	// 0 keeps cached responses forever
	TtlHours *int      `json:"ttl_hours"`
	Database db.Config `json:"database"`
}

type FilesConfig struct {
	In  string `json:"in"`
	Out string `json:"out"`
}

type EvacuationConfig struct {
	PassengersPerTransport int64  `json:"passengers_per_transport"`
	TransportName          string `json:"transport_name"`
	Concurrency            int    `json:"concurrency"`
}

type Config struct {
	Swapi      SwapiConfig      `json:"swapi"`
	Cache      CacheConfig      `json:"cache"`
	Planets    FilesConfig      `json:"planets"`
	EchoBase   FilesConfig      `json:"echo_base"`
	Evacuation EvacuationConfig `json:"evacuation"`
}

var defaultConfig = Config{
	Swapi: SwapiConfig{
		BaseUrl:           swapi.DefaultBaseUrl,
		UserAgent:         "rebelintel/1.0",
		TimeoutSeconds:    30,
		RequestsPerSecond: ptr(5.0),
	},
	Cache: CacheConfig{
		TtlHours: ptr(24),
		Database: db.Config{File: ".rebelintel/cache.db"},
	},
	Planets: FilesConfig{
		In:  "data/swapi_planets-v1p0.json",
		Out: "swapi_planets_uninhabited-v1p1.json",
	},
	EchoBase: FilesConfig{
		In:  "data/swapi_echo_base-v1p0.json",
		Out: "swapi_echo_base-v1p1.json",
	},
	Evacuation: EvacuationConfig{
		PassengersPerTransport: 90,
		TransportName:          "Bright Hope",
		Concurrency:            4,
	},
}

func ptr[T any](v T) *T {
	return &v
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.Swapi.TimeoutSeconds) * time.Second
}

func (c Config) ttl() time.Duration {
	if c.Cache.TtlHours == nil {
		return time.Duration(*defaultConfig.Cache.TtlHours) * time.Hour
	}
	return time.Duration(*c.Cache.TtlHours) * time.Hour
}

func (c Config) requestsPerSecond() float64 {
	if c.Swapi.RequestsPerSecond == nil {
		return *defaultConfig.Swapi.RequestsPerSecond
	}
	return *c.Swapi.RequestsPerSecond
}

func (c Config) evacuationOptions() echobase.Options {
	return echobase.Options{
		PassengersPerTransport: c.Evacuation.PassengersPerTransport,
		TransportName:          c.Evacuation.TransportName,
		Concurrency:            c.Evacuation.Concurrency,
	}
}
