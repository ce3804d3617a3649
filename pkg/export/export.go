package export

import (
	"image"
	"strings"

	"github.com/matzehuels/galaxygen/pkg/galaxy/density"
	"github.com/matzehuels/galaxygen/pkg/galaxy/hyperlanes"
	"github.com/matzehuels/galaxygen/pkg/galaxy/stars"
	"github.com/matzehuels/galaxygen/pkg/raster"
)

// Entry is one file of the layer archive.
type Entry struct {
	Name  string
	Image image.Image
}

var archiveNames = map[string]string{
	density.BackgroundLayer: "00_background.png",
	density.NebulaLayer:     "02_h2_nebula.png",
	hyperlanes.LayerName:    "03_hyperlanes.png",
	stars.LayerName:         "04_stars.png",
	density.DustLayer:       "05_dust.png",
}

// ArchiveName returns the file name a layer is stored under. Unknown
// layers report false.
func ArchiveName(layer string) (string, bool) {
	if name, ok := archiveNames[layer]; ok {
		return name, true
	}
	if strings.HasPrefix(layer, "arm_") {
		return "01_" + layer + ".png", true
	}
	return "", false
}

// Entries maps layers to archive entries in the given order, dropping
// skipped and unknown layers. The dust layer holds an alpha mask; it is
// exported as the dust color painted through that mask.
func Entries(size int, layers []raster.Layer) []Entry {
	out := make([]Entry, 0, len(layers))
	for _, l := range layers {
		if l.Skipped || l.Image == nil {
			continue
		}
		name, ok := ArchiveName(l.Name)
		if !ok {
			continue
		}
		img := l.Image
		if l.Name == density.DustLayer {
			img = raster.Masked(size, density.DustColor, img)
		}
		out = append(out, Entry{Name: name, Image: img})
	}
	return out
}
