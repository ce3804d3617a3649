// Package cache stores rendered galaxy artifacts.
//
// A galaxy is fully determined by its parameters, the profile it was drawn
// with, the generation settings and the seed, so seeded runs can be served
// from a cache instead of being regenerated. Unseeded runs are never cached.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared cache for `galaxygen serve` replicas
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so callers never build key strings by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLManifest = 24 * time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// GalaxyKeyOpts is everything that determines a generated galaxy.
type GalaxyKeyOpts struct {
	Size         int    `json:"size"`
	Arms         int    `json:"arms"`
	Stars        int    `json:"stars"`
	Type         string `json:"type"`
	Seed         uint64 `json:"seed"`
	SettingsHash string `json:"settings_hash"`
}

// Keyer builds cache keys.
type Keyer interface {
	// GalaxyKey identifies one generated galaxy.
	GalaxyKey(opts GalaxyKeyOpts) string

	// ArtifactKey identifies one exported format of a galaxy.
	ArtifactKey(galaxyKey, format string) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GalaxyKey returns "galaxy:<sha256 of opts>".
func (DefaultKeyer) GalaxyKey(opts GalaxyKeyOpts) string {
	return hashKey("galaxy", opts)
}

// ArtifactKey returns "<galaxyKey>:<format>".
func (DefaultKeyer) ArtifactKey(galaxyKey, format string) string {
	return galaxyKey + ":" + format
}

var _ Keyer = DefaultKeyer{}
