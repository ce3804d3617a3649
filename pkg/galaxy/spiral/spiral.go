// Package spiral maps a radius and an arm index to a pixel on a
// logarithmic spiral.
//
// The angle at radius r is (1/tightness)·ln(r+0.1). Arms are spaced evenly
// around the center, and callers may add gaussian angular noise
// ("fragmentation") and a constant angular drift. Every generator in the
// galaxy pipeline places its samples through a [Mapper].
//
// The mapper never checks canvas bounds; callers clip.
package spiral

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
)

// radiusOffset keeps ln(r + radiusOffset) finite at the center.
const radiusOffset = 0.1

// Mapper holds the per-run spiral parameters.
type Mapper struct {
	Profile galaxy.Profile
	Arms    int
	Scale   float64 // pixels per spiral unit
	Center  int     // center pixel on both axes
}

// New returns a mapper for the given profile, arm count and canvas geometry.
func New(p galaxy.Profile, arms int, g galaxy.Geometry) Mapper {
	return Mapper{Profile: p, Arms: arms, Scale: g.Scale, Center: g.Center}
}

// WithScale returns a copy of m using a different pixel scale. The density
// passes draw the same spiral at half or double scale.
func (m Mapper) WithScale(scale float64) Mapper {
	m.Scale = scale
	return m
}

// ArmOffset is the fixed angular offset of an arm: arm·2π/arms.
func (m Mapper) ArmOffset(arm int) float64 {
	return float64(arm) * 2 * math.Pi / float64(m.Arms)
}

// Theta returns the spiral angle for an arm and radius with an explicit
// noise term already drawn. drift is in the same units the settings use and
// is divided by 360.
func (m Mapper) Theta(arm int, radius, noise, drift float64) float64 {
	theta := (1.0 / m.Profile.Tightness) * math.Log(radius+radiusOffset)
	theta += noise + drift/360
	theta += m.ArmOffset(arm)
	return theta
}

// Project converts a polar coordinate around the center to a pixel,
// truncating toward zero.
func (m Mapper) Project(radius, theta float64) galaxy.Point {
	return galaxy.Point{
		X: int(float64(m.Center) + radius*math.Cos(theta)*m.Scale),
		Y: int(float64(m.Center) + radius*math.Sin(theta)*m.Scale),
	}
}

// Point samples a pixel on the given arm at the given radius. The angular
// noise is a fresh gaussian draw from rng with standard deviation
// fragmentation/10, so two calls with equal arguments differ unless
// fragmentation is zero.
func (m Mapper) Point(rng *rand.Rand, arm int, radius, fragmentation, drift float64) galaxy.Point {
	noise := rng.NormFloat64() * (fragmentation / 10)
	return m.Project(radius, m.Theta(arm, radius, noise, drift))
}
