package settings

import (
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
)

// Default run parameters.
const (
	DefaultSize  = 2000
	DefaultArms  = 4
	DefaultStars = 8000
	DefaultType  = "spiral"
)

// DefaultGalaxyTypes is the built-in profile table.
var DefaultGalaxyTypes = map[string]galaxy.Profile{
	"spiral": {Tightness: 0.6, Bar: 0, CoreSpread: 1.5, CoreChance: 0.15},
	"barred": {Tightness: 0.7, Bar: 1.5, CoreSpread: 1.0, CoreChance: 0.2},
	"loose":  {Tightness: 1.2, Bar: 0.3, CoreSpread: 1.2, CoreChance: 0.1},
	"tight":  {Tightness: 0.35, Bar: 0.2, CoreSpread: 1.8, CoreChance: 0.25},
	"wide":   {Tightness: 4, Bar: 0.5, CoreSpread: 1, CoreChance: 0.1},
}

// Default returns a fully populated configuration. Every call returns a
// fresh copy.
func Default() *Settings {
	types := make(map[string]galaxy.Profile, len(DefaultGalaxyTypes))
	for k, v := range DefaultGalaxyTypes {
		types[k] = v
	}

	return &Settings{
		Parameters: Parameters{
			Size:  DefaultSize,
			Arms:  DefaultArms,
			Stars: DefaultStars,
			Type:  DefaultType,
		},
		GalaxyTypes: types,
		Generation: Generation{
			Disk:    Amount{AmountFactor: 1.0},
			Spirals: Amount{AmountFactor: 30000},
			Dust:    Amount{AmountFactor: 60000},
			Nebula: Nebula{
				AmountFactor:  400,
				BandSpacing:   3.0,
				BandThickness: 0.8,
			},
			Hyperlanes: Hyperlanes{
				StepSize:                  0.1,
				MainLengthFactor:          14,
				MainLengthAlpha:           5,
				MainLengthBeta:            2,
				MaxLengthFactor:           40,
				MainDrift:                 20,
				BreakChanceMax:            0.3,
				BreakChanceMin:            0.1,
				ClusterChance:             0.05,
				ClusterSizeFactor:         6,
				ClusterSizeAlpha:          2,
				ClusterSizeBeta:           3,
				BranchChance:              0.05,
				BranchLengthFactor:        30,
				BranchLengthAlpha:         2,
				BranchLengthBeta:          3,
				BranchDriftMu:             0,
				BranchDriftSigma:          40,
				SpecialGenerationDistance: 5,
			},
			Fragmentation: Fragmentation{
				Hyperlanes:      0.3,
				SmallHyperlanes: 0.5,
				Nebula:          0.6,
				Stars:           1.2,
				Spirals:         1.0,
			},
		},
		Steps: Steps{
			Stars:      true,
			Spirals:    true,
			Nebula:     true,
			Dust:       true,
			Hyperlanes: true,
		},
		Export: Export{PNG: true},
		Cache: Cache{
			TTL: Duration{7 * 24 * time.Hour},
		},
		Server: Server{
			Addr:         ":8080",
			MaxSize:      4096,
			MaxStars:     50000,
			RequestRate:  2,
			RequestBurst: 4,
			Timeout:      Duration{2 * time.Minute},
		},
	}
}
