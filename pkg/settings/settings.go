// Package settings defines the generation parameters and the galaxy profile
// table, and loads them from a TOML file.
//
// Loading never fails on a bad file: a missing file yields [Default], and an
// unparsable one logs a warning and yields [Default] as well. Keys missing
// from a file keep their default values because the file is decoded over a
// populated [Settings].
//
// The galaxy generators read these structs but never load or validate them;
// [Settings.Validate] is the single place malformed parameters are caught.
package settings

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/galaxygen/pkg/errors"
	"github.com/matzehuels/galaxygen/pkg/galaxy"
)

// Settings is the complete configuration of a run.
type Settings struct {
	Manual      bool                      `toml:"manual"`
	Parameters  Parameters                `toml:"parameters"`
	GalaxyTypes map[string]galaxy.Profile `toml:"galaxy_types"`
	Generation  Generation                `toml:"generation"`
	Steps       Steps                     `toml:"steps"`
	Export      Export                    `toml:"export"`
	Cache       Cache                     `toml:"cache"`
	Server      Server                    `toml:"server"`
}

// Parameters are the run inputs used when not prompting.
type Parameters struct {
	Size  int    `toml:"size" json:"size"`
	Arms  int    `toml:"arms" json:"arms"`
	Stars int    `toml:"stars" json:"stars"`
	Type  string `toml:"type" json:"type"`
}

// Generation holds every per-effect knob.
type Generation struct {
	Disk          Amount        `toml:"disk"`
	Spirals       Amount        `toml:"spirals"`
	Dust          Amount        `toml:"dust"`
	Nebula        Nebula        `toml:"nebula"`
	Hyperlanes    Hyperlanes    `toml:"hyperlanes"`
	Fragmentation Fragmentation `toml:"fragmentation"`
}

// Amount scales how many samples a density pass splats per 2000×2000
// pixels.
type Amount struct {
	AmountFactor float64 `toml:"amount_factor"`
}

// Nebula configures the hydrogen-region clumps.
type Nebula struct {
	AmountFactor  float64 `toml:"amount_factor"`
	BandSpacing   float64 `toml:"band_spacing"`
	BandThickness float64 `toml:"band_thickness"`
}

// Hyperlanes configures the route network synthesizer.
type Hyperlanes struct {
	StepSize                  float64 `toml:"step_size"`
	MainLengthFactor          float64 `toml:"main_length_factor"`
	MainLengthAlpha           float64 `toml:"main_length_alpha"`
	MainLengthBeta            float64 `toml:"main_length_beta"`
	MaxLengthFactor           float64 `toml:"hyperlane_max_length_factor"`
	MainDrift                 float64 `toml:"main_drift"`
	BreakChanceMax            float64 `toml:"break_chance_max"`
	BreakChanceMin            float64 `toml:"break_chance_min"`
	RangedBreakChance         bool    `toml:"ranged_break_chance"`
	ClusterChance             float64 `toml:"cluster_chance"`
	ClusterSizeFactor         float64 `toml:"cluster_size_factor"`
	ClusterSizeAlpha          float64 `toml:"cluster_size_alpha"`
	ClusterSizeBeta           float64 `toml:"cluster_size_beta"`
	BranchChance              float64 `toml:"branch_chance"`
	BranchLengthFactor        float64 `toml:"branch_length_factor"`
	BranchLengthAlpha         float64 `toml:"branch_length_alpha"`
	BranchLengthBeta          float64 `toml:"branch_length_beta"`
	BranchDriftMu             float64 `toml:"branch_drift_mu"`
	BranchDriftSigma          float64 `toml:"branch_drift_sigma"`
	SpecialGenerationDistance int     `toml:"special_generation_distance"`
}

// Fragmentation is the angular noise level of each spiral consumer.
type Fragmentation struct {
	Hyperlanes      float64 `toml:"hyperlanes"`
	SmallHyperlanes float64 `toml:"small_hyperlanes"`
	Nebula          float64 `toml:"nebula"`
	Stars           float64 `toml:"stars"`
	Spirals         float64 `toml:"spirals"`
}

// Steps switches individual generators on or off.
type Steps struct {
	Stars      bool `toml:"stars"`
	Spirals    bool `toml:"spirals"`
	Nebula     bool `toml:"nebula"`
	Dust       bool `toml:"dust"`
	Hyperlanes bool `toml:"hyperlanes"`
}

// Export selects the output artifacts.
type Export struct {
	PNG bool `toml:"png"`
	Zip bool `toml:"zip"`
}

// Cache configures the artifact cache.
type Cache struct {
	Disabled bool     `toml:"disabled"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Server configures the HTTP endpoint.
type Server struct {
	Addr         string   `toml:"addr"`
	MaxSize      int      `toml:"max_size"`
	MaxStars     int      `toml:"max_stars"`
	RequestRate  float64  `toml:"request_rate"`
	RequestBurst int      `toml:"request_burst"`
	Timeout      Duration `toml:"timeout"`
}

// Duration is a time.Duration that reads and writes as a string such as
// "24h" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Profile looks up a galaxy type by name.
func (s *Settings) Profile(name string) (galaxy.Profile, error) {
	p, ok := s.GalaxyTypes[name]
	if !ok {
		return galaxy.Profile{}, errors.New(errors.ErrCodeInvalidProfile,
			"invalid galaxy type: %q (must be one of: %s)", name, s.ProfileList())
	}
	return p, nil
}

// ProfileNames returns the configured galaxy types in sorted order.
func (s *Settings) ProfileNames() []string {
	return slices.Sorted(maps.Keys(s.GalaxyTypes))
}

// ProfileList is ProfileNames joined for messages.
func (s *Settings) ProfileList() string {
	return strings.Join(s.ProfileNames(), ", ")
}

// Validate rejects parameter blocks the generators cannot run with. The
// run parameters themselves (size, arms, stars, type) are checked by the
// pipeline, not here.
func (s *Settings) Validate() error {
	if len(s.GalaxyTypes) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no galaxy types configured")
	}
	for name, p := range s.GalaxyTypes {
		if p.Tightness <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "galaxy type %q: tightness must be positive", name)
		}
		if p.CoreChance < 0 || p.CoreChance > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "galaxy type %q: core_chance must be within [0, 1]", name)
		}
		if p.Bar < 0 || p.CoreSpread < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "galaxy type %q: bar and core_spread must not be negative", name)
		}
	}

	h := s.Generation.Hyperlanes
	switch {
	case h.StepSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "hyperlanes.step_size must be positive")
	case h.MaxLengthFactor <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "hyperlanes.hyperlane_max_length_factor must be positive")
	case h.MainLengthFactor < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "hyperlanes.main_length_factor must not be negative")
	case h.BranchLengthFactor < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "hyperlanes.branch_length_factor must not be negative")
	case h.ClusterSizeFactor < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "hyperlanes.cluster_size_factor must not be negative")
	case h.SpecialGenerationDistance < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "hyperlanes.special_generation_distance must not be negative")
	case h.MainLengthAlpha <= 0 || h.MainLengthBeta <= 0,
		h.BranchLengthAlpha <= 0 || h.BranchLengthBeta <= 0,
		h.ClusterSizeAlpha <= 0 || h.ClusterSizeBeta <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "hyperlanes: beta distribution shapes must be positive")
	case h.BreakChanceMin > h.BreakChanceMax:
		return errors.New(errors.ErrCodeInvalidConfig,
			"hyperlanes.break_chance_min (%v) exceeds break_chance_max (%v)", h.BreakChanceMin, h.BreakChanceMax)
	}
	return nil
}

// String summarizes the run parameters.
func (p Parameters) String() string {
	return fmt.Sprintf("size=%d arms=%d stars=%d type=%s", p.Size, p.Arms, p.Stars, p.Type)
}
