package pipeline

import (
	"context"
	stderrors "errors"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/density"
	"github.com/matzehuels/galaxygen/pkg/galaxy/hyperlanes"
	"github.com/matzehuels/galaxygen/pkg/galaxy/randx"
	"github.com/matzehuels/galaxygen/pkg/galaxy/stars"
	"github.com/matzehuels/galaxygen/pkg/raster"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

// Galaxy holds the output of every generator of one run.
type Galaxy struct {
	Size       int
	Background raster.Layer
	Arms       [len(density.ArmPasses)]raster.Layer
	Nebula     raster.Layer
	Dust       raster.Layer
	Stars      stars.Output
	Hyperlanes hyperlanes.Output
}

// Layers returns every layer in draw order. The dust mask comes last.
func (g *Galaxy) Layers() []raster.Layer {
	layers := make([]raster.Layer, 0, len(g.Arms)+5)
	layers = append(layers, g.Background)
	layers = append(layers, g.Arms[:]...)
	layers = append(layers, g.Nebula, g.Hyperlanes.Layer, g.Stars.Layer, g.Dust)
	return layers
}

// Compose alpha-composites the color layers and paints the dust color
// through the dust mask.
func (g *Galaxy) Compose() *image.RGBA {
	layers := g.Layers()
	img := raster.Compose(g.Size, layers[:len(layers)-1]...)
	if !g.Dust.Skipped {
		raster.PaintThrough(img, density.DustColor, g.Dust.Image)
	}
	return img
}

// Build runs every generator for one seed. The density passes and the star
// field run concurrently, each on its own random stream; the hyperlane
// network is drawn once the stars are known. ctx is checked between those
// two stages only.
func Build(ctx context.Context, seed uint64, profile galaxy.Profile, s *settings.Settings, params settings.Parameters) (*Galaxy, error) {
	geom := galaxy.NewGeometry(params.Size)
	dp := density.Params{
		Profile:    profile,
		Generation: s.Generation,
		Steps:      s.Steps,
		Geometry:   geom,
		Arms:       params.Arms,
	}
	out := &Galaxy{Size: params.Size}

	var g errgroup.Group
	g.Go(func() error {
		out.Background = density.Background(randx.New(seed, density.BackgroundLayer), dp)
		return nil
	})
	for i, pass := range density.ArmPasses {
		g.Go(func() error {
			name := density.ArmLayerName(i + 1)
			out.Arms[i] = density.Arms(randx.New(seed, name), dp, i+1, pass)
			return nil
		})
	}
	g.Go(func() error {
		out.Nebula = density.Nebula(randx.New(seed, density.NebulaLayer), dp)
		return nil
	})
	g.Go(func() error {
		out.Dust = density.Dust(randx.New(seed, density.DustLayer), dp)
		return nil
	})
	g.Go(func() error {
		if !s.Steps.Stars {
			out.Stars = stars.Skipped()
			return nil
		}
		out.Stars = stars.Generate(randx.New(seed, stars.LayerName), profile, s.Generation, geom, params.Arms, params.Stars)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out.Hyperlanes = hyperlanes.Skipped()
	if s.Steps.Stars && s.Steps.Hyperlanes {
		rng := randx.New(seed, hyperlanes.LayerName)
		res, err := hyperlanes.Generate(rng, profile, s.Generation, geom, params.Arms, out.Stars.Positions())
		switch {
		case stderrors.Is(err, hyperlanes.ErrNoStars):
			// Nothing to connect; the layer stays skipped.
		case err != nil:
			return nil, err
		default:
			out.Hyperlanes = res
		}
	}
	return out, nil
}
