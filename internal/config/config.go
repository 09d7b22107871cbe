// Package config holds the flat Settings bundle read once at startup
// from the environment, in the teacher's app-utils-go/env idiom.
package config

import (
	"strconv"

	"github.com/catalystcommunity/app-utils-go/env"
)

var (
	// Port is the HTTP server port.
	Port = env.GetEnvAsIntOrDefault("PORT", "6080")

	// ServiceName identifies this service, reported by /_heart_beat.
	ServiceName = env.GetEnvOrDefault("SERVICE_NAME", "remote-vector-index-builder-api")

	// LogLevel controls the verbosity of structured logging.
	LogLevel = env.GetEnvOrDefault("LOG_LEVEL", "INFO")

	// RequestStoreType names the request-store backend. Only "memory"
	// is implemented; Serve always builds the memory store and does not
	// read this value.
	RequestStoreType = env.GetEnvOrDefault("REQUEST_STORE_TYPE", "memory")

	// RequestStoreMaxSize bounds how many job records the store holds.
	RequestStoreMaxSize = env.GetEnvAsIntOrDefault("REQUEST_STORE_MAX_SIZE", "10000")

	// RequestStoreTTLSeconds, when set (> 0), bounds how long a
	// terminal or in-flight job record remains visible before the
	// sweeper evicts it. A value of 0 disables TTL eviction entirely.
	RequestStoreTTLSeconds = env.GetEnvAsIntOrDefault("REQUEST_STORE_TTL_SECONDS", "1800")

	// MaxWorkers sizes the executor's fixed worker pool.
	MaxWorkers = env.GetEnvAsIntOrDefault("MAX_WORKERS", "2")

	// GPUMemoryLimit and CPUMemoryLimit are the resource ledger's
	// fixed totals, in bytes (spec.md §6: "floats, bytes" — no unit
	// conversion is applied, see DESIGN.md).
	GPUMemoryLimit = mustParseFloat(env.GetEnvOrDefault("GPU_MEMORY_LIMIT", "25769803776")) // 24 GiB
	CPUMemoryLimit = mustParseFloat(env.GetEnvOrDefault("CPU_MEMORY_LIMIT", "34359738368")) // 32 GiB

	// ObjectStoreBucket and ObjectStorePrefix configure the S3 backend
	// the object-store factory lazily constructs on first use. The
	// backend itself is chosen per build from the request's
	// repository_type, not from configuration (see
	// objectstore.Factory).
	ObjectStoreBucket = env.GetEnvOrDefault("OBJECT_STORE_BUCKET", "vector-index-builder")
	ObjectStorePrefix = env.GetEnvOrDefault("OBJECT_STORE_PREFIX", "")
)

// mustParseFloat parses a configuration value known to be a literal
// float default or a validated environment override. There is no
// app-utils-go float helper, so this is the one place config falls
// back to the standard library's strconv.
func mustParseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic("config: invalid float value " + s + ": " + err.Error())
	}
	return v
}
