// Package cache stores rendered artifacts between runs.
//
// A [Cache] is a byte store with per-entry TTL. Keys come from a [Keyer]
// so that every entry point (CLI, HTTP API) agrees on what identifies an
// artifact: the hash of the input file plus every option that changes the
// output.
//
// Three backends are provided:
//
//   - [FileCache] for the CLI (~/.cache/pcoview)
//   - [RedisCache] for shared deployments of the HTTP API
//   - [NullCache] when caching is disabled
//
// [Open] picks a backend from a URL-like string.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the cached data and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLArtifact is how long rendered artifacts are kept.
const TTLArtifact = 7 * 24 * time.Hour

// TTLGraph is how long serialized connection graphs are kept.
const TTLGraph = 24 * time.Hour

// Open returns the cache described by target:
//
//	""                 file cache in defaultDir
//	"off", "none"      NullCache
//	"redis://..."      RedisCache
//	"rediss://..."     RedisCache over TLS
//	"file://<dir>"     file cache in <dir>
//	"<dir>"            file cache in <dir>
func Open(ctx context.Context, target, defaultDir string) (Cache, error) {
	dir := defaultDir
	switch {
	case target == "off" || target == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		return NewRedisCache(ctx, target)
	case target != "":
		dir = strings.TrimPrefix(target, "file://")
	}
	fc, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}
