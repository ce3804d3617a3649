// Package hyperlanes synthesizes the trade-route network drawn between
// placed stars.
//
// Every arm gets one main lane: the generator walks outward along the arm's
// spiral, snaps each sample to the nearest star and keeps the distinct
// stars that were close enough. Consecutive main-lane stars are then joined
// edge by edge. While walking the main lane the generator occasionally
// spawns a branch (a second, drifting walk along the same arm) or a cluster
// (spokes from one lane star to a handful of its neighbors). A cooldown
// keeps those spawns apart.
//
// An edge is not drawn as a straight line. It is resampled at eight points,
// each snapped to its nearest star, so lanes hop across the stars between
// the endpoints. A hop longer than the maximum link length ends the edge,
// and each hop's line is dropped with the lane's break chance, leaving only
// the node dot.
//
// All state lives in a per-call builder; Generate is safe to call
// concurrently for different runs.
package hyperlanes

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/randx"
	"github.com/matzehuels/galaxygen/pkg/galaxy/spatial"
	"github.com/matzehuels/galaxygen/pkg/galaxy/spiral"
	"github.com/matzehuels/galaxygen/pkg/raster"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

// LayerName names the hyperlane layer in reports and archives.
const LayerName = "hyperlanes"

// ErrNoStars is returned when there are no star positions to connect.
var ErrNoStars = errors.New("hyperlanes: no stars to connect")

// edgeSamples is the number of interpolation points per edge.
const edgeSamples = 8

// LaneColor is used for node dots and lines.
var LaneColor = galaxy.RGBA{R: 120, G: 180, B: 255, A: 150}

const (
	nodeRadius = 2
	lineWidth  = 2
)

// Output is the hyperlane layer plus the network that was drawn.
type Output struct {
	Layer   raster.Layer
	Network *Network
}

// Skipped returns the output of a disabled hyperlane step.
func Skipped() Output {
	return Output{Layer: raster.Skipped(LayerName), Network: &Network{}}
}

// builder carries everything one Generate call needs.
type builder struct {
	rng    *rand.Rand
	cfg    settings.Hyperlanes
	frag   settings.Fragmentation
	bar    float64
	mapper spiral.Mapper
	index  *spatial.Index
	canvas *raster.Canvas
	net    *Network

	maxLink float64
}

// Generate builds the hyperlane network over positions and draws it. It
// returns ErrNoStars when positions is empty.
func Generate(rng *rand.Rand, p galaxy.Profile, gen settings.Generation, g galaxy.Geometry, arms int, positions []galaxy.Point) (Output, error) {
	start := time.Now()

	index, err := spatial.New(positions)
	if err != nil {
		return Output{}, ErrNoStars
	}

	b := &builder{
		rng:     rng,
		cfg:     gen.Hyperlanes,
		frag:    gen.Fragmentation,
		bar:     p.Bar,
		mapper:  spiral.New(p, arms, g),
		index:   index,
		canvas:  raster.NewCanvas(g.Size),
		net:     &Network{},
		maxLink: float64(g.Size) / gen.Hyperlanes.MaxLengthFactor,
	}

	for arm := range arms {
		b.mainLane(arm)
	}

	return Output{
		Layer:   raster.Finish(LayerName, start, b.canvas.Image()),
		Network: b.net,
	}, nil
}

// breakCondition draws the probability that a hop of a lane gets its line.
// Both bounds are the configured minimum unless ranged break chances are
// switched on, so by default every lane of a run keeps 1-min of its lines.
func (b *builder) breakCondition() float64 {
	hi := b.cfg.BreakChanceMin
	if b.cfg.RangedBreakChance {
		hi = b.cfg.BreakChanceMax
	}
	return 1 - randx.Uniform(b.rng, b.cfg.BreakChanceMin, hi)
}

// mainLane walks one arm outward and joins the stars it finds.
func (b *builder) mainLane(arm int) {
	drift := randx.Uniform(b.rng, -b.cfg.MainDrift, b.cfg.MainDrift)
	condition := b.breakCondition()

	maxR := float64(int(randx.Beta(b.rng, b.cfg.MainLengthAlpha, b.cfg.MainLengthBeta) * b.cfg.MainLengthFactor))

	var path []galaxy.Point
	for r := b.bar + 0.5; r < maxR; r += b.cfg.StepSize {
		q := b.mapper.Point(b.rng, arm, r, b.frag.Hyperlanes, drift)
		star, dist := b.index.Nearest(float64(q.X), float64(q.Y))
		if dist >= b.maxLink {
			continue
		}
		if len(path) == 0 || star != path[len(path)-1] {
			path = append(path, star)
		}
	}
	b.net.addPath(KindMain, arm, path)

	cooldown := 0
	for i := 0; i+1 < len(path); i++ {
		b.drawLane(path[i], path[i+1], condition)

		switch {
		case cooldown <= 0 && randx.Chance(b.rng, b.cfg.BranchChance):
			cooldown = b.cfg.SpecialGenerationDistance
			b.branch(arm, path[i], drift, b.bar+0.5+float64(i)*b.cfg.StepSize)
		case cooldown <= 0 && randx.Chance(b.rng, b.cfg.ClusterChance):
			cooldown = b.cfg.SpecialGenerationDistance
			b.cluster(arm, path[i])
		default:
			cooldown--
		}
	}
}

// branch walks the arm again from radius r with its own drift and lower
// fragmentation, joining each new star to the previous one.
func (b *builder) branch(arm int, origin galaxy.Point, mainDrift, r float64) {
	steps := int(randx.Beta(b.rng, b.cfg.BranchLengthAlpha, b.cfg.BranchLengthBeta) * b.cfg.BranchLengthFactor)
	drift := randx.Normal(b.rng, b.cfg.BranchDriftMu, b.cfg.BranchDriftSigma) + mainDrift
	condition := b.breakCondition()

	path := []galaxy.Point{origin}
	for range steps {
		r += b.cfg.StepSize
		q := b.mapper.Point(b.rng, arm, r, b.frag.SmallHyperlanes, drift)
		star, dist := b.index.Nearest(float64(q.X), float64(q.Y))
		if dist >= b.maxLink {
			continue
		}
		if last := path[len(path)-1]; star != last {
			b.drawLane(last, star, condition)
			path = append(path, star)
		}
	}
	b.net.addPath(KindBranch, arm, path)
}

// cluster connects origin to a random handful of the stars within one
// link length, with every hop drawn.
func (b *builder) cluster(arm int, origin galaxy.Point) {
	size := int(randx.Beta(b.rng, b.cfg.ClusterSizeAlpha, b.cfg.ClusterSizeBeta) * b.cfg.ClusterSizeFactor)
	nearby := b.index.Within(origin, b.maxLink)
	randx.Shuffle(b.rng, nearby)

	path := []galaxy.Point{origin}
	for _, star := range nearby[:max(0, min(size, len(nearby)))] {
		if star == origin {
			continue
		}
		b.drawLane(origin, star, 1)
		path = append(path, star)
	}
	b.net.addPath(KindCluster, arm, path)
}

// drawLane draws one edge by hopping across the stars nearest to eight
// evenly spaced points between origin and dest. Each reachable hop gets a
// node dot and, with probability condition, a line from the previous hop.
func (b *builder) drawLane(origin, dest galaxy.Point, condition float64) {
	anchor := origin
	dx := float64(dest.X-origin.X) / edgeSamples
	dy := float64(dest.Y-origin.Y) / edgeSamples

	for i := 1; i <= edgeSamples; i++ {
		qx := float64(origin.X) + dx*float64(i)
		qy := float64(origin.Y) + dy*float64(i)

		star, dist := b.index.Nearest(qx, qy)
		if dist > b.maxLink {
			return
		}

		b.canvas.Disc(float64(star.X)+0.5, float64(star.Y)+0.5, nodeRadius, LaneColor)
		drawn := randx.Chance(b.rng, condition)
		if drawn {
			b.canvas.Line(anchor, star, lineWidth, LaneColor)
		}
		b.net.addConnector(Connector{
			Query: galaxy.Pt(int(qx), int(qy)),
			From:  anchor,
			Star:  star,
			Dist:  dist,
			Drawn: drawn,
		})

		anchor = star
		if star == dest {
			return
		}
	}
}
