package hyperlanes

import (
	"fmt"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
)

// Kind tells how a path was spawned.
type Kind string

const (
	KindMain    Kind = "main"
	KindBranch  Kind = "branch"
	KindCluster Kind = "cluster"
)

// Path is an ordered run of stars. For main lanes and branches every
// vertex was within one link length of its spiral sample; for clusters the
// first vertex is the hub and the rest are its spokes.
type Path struct {
	Kind  Kind           `json:"kind"`
	Arm   int            `json:"arm"`
	Stars []galaxy.Point `json:"stars"`
}

// Connector records one hop of an edge: the interpolated query point, the
// star it snapped to, and whether a line was drawn from the previous hop.
type Connector struct {
	Query galaxy.Point `json:"query"`
	From  galaxy.Point `json:"from"`
	Star  galaxy.Point `json:"star"`
	Dist  float64      `json:"dist"`
	Drawn bool         `json:"drawn"`
}

// Network is everything a Generate call connected.
type Network struct {
	Paths      []Path      `json:"paths"`
	Connectors []Connector `json:"connectors"`
}

// Edge is an undirected drawn line between two stars.
type Edge struct {
	A, B galaxy.Point
}

func (e Edge) String() string {
	return fmt.Sprintf("%v-%v", e.A, e.B)
}

func (n *Network) addPath(kind Kind, arm int, stars []galaxy.Point) {
	if len(stars) == 0 {
		return
	}
	n.Paths = append(n.Paths, Path{Kind: kind, Arm: arm, Stars: stars})
}

func (n *Network) addConnector(c Connector) {
	n.Connectors = append(n.Connectors, c)
}

// Nodes returns every star that received a node dot, in first-visit order.
func (n *Network) Nodes() []galaxy.Point {
	seen := make(map[galaxy.Point]bool)
	var out []galaxy.Point
	for _, c := range n.Connectors {
		if !seen[c.Star] {
			seen[c.Star] = true
			out = append(out, c.Star)
		}
	}
	return out
}

// Edges returns the distinct drawn lines in first-drawn order. Hops that
// snapped back onto their anchor are left out.
func (n *Network) Edges() []Edge {
	seen := make(map[Edge]bool)
	var out []Edge
	for _, c := range n.Connectors {
		if !c.Drawn || c.From == c.Star {
			continue
		}
		e := normalize(c.From, c.Star)
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of paths of the given kind.
func (n *Network) Count(kind Kind) int {
	var k int
	for _, p := range n.Paths {
		if p.Kind == kind {
			k++
		}
	}
	return k
}

func normalize(a, b galaxy.Point) Edge {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}
