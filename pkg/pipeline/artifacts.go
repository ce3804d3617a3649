package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/matzehuels/galaxygen/pkg/export"
	"github.com/matzehuels/galaxygen/pkg/raster"
)

// archiveTime stamps every zip entry so a seeded run always yields the same
// archive bytes. It is the earliest time the zip format can represent.
var archiveTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Render encodes one format of a generated galaxy. img is the composited
// image and is only read for the PNG and thumbnail outputs.
func Render(ctx context.Context, format string, doc export.Document, g *Galaxy, img image.Image) ([]byte, error) {
	switch format {
	case FormatPNG:
		return raster.EncodePNG(img)
	case FormatThumb:
		return raster.EncodePNG(raster.Thumbnail(img, ThumbnailWidth))
	case FormatZip:
		var buf bytes.Buffer
		if err := export.WriteZip(&buf, export.Entries(g.Size, g.Layers()), archiveTime); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := export.WriteJSON(&buf, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(export.NetworkDOT(g.Hyperlanes.Network, g.Size)), nil
	case FormatSVG:
		return export.RenderSVG(ctx, export.NetworkDOT(g.Hyperlanes.Network, g.Size))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
